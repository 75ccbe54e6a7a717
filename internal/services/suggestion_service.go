package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	dbm "tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

const (
	optimizationConfidence = 0.85
	placeConfidence        = 0.8
	routeConfidence        = 0.7

	optimizationTemperature = 0.3
	suggestionTemperature   = 0.7

	optimizationReasoning = "AI-generated route optimization"
	defaultAITimeout      = 30 * time.Second
)

type SuggestionServiceInterface interface {
	RequestOptimization(ctx context.Context, callerID, tripID uuid.UUID) (*response_models.SuggestionResponse, error)
	RequestPlaceSuggestions(ctx context.Context, callerID, tripID uuid.UUID, req request_models.TripSuggestionRequest) (*response_models.TripSuggestionsResponse, error)
	AcceptSuggestion(ctx context.Context, callerID, suggestionID uuid.UUID) (*response_models.SuggestionResponse, error)
	RejectSuggestion(ctx context.Context, callerID, suggestionID uuid.UUID) (*response_models.SuggestionResponse, error)
	ListSuggestions(ctx context.Context, callerID, tripID uuid.UUID) ([]response_models.SuggestionResponse, error)
}

type SuggestionService struct {
	guard          AccessGuardInterface
	tripRepo       repositories.TripRepository
	itineraryRepo  repositories.ItineraryRepository
	suggestionRepo repositories.SuggestionRepository
	transactor     repositories.Transactor
	llm            utils.LLMClientInterface
	timeout        time.Duration
	logger         *zap.Logger
}

func NewSuggestionService(
	guard AccessGuardInterface,
	tripRepo repositories.TripRepository,
	itineraryRepo repositories.ItineraryRepository,
	suggestionRepo repositories.SuggestionRepository,
	transactor repositories.Transactor,
	llm utils.LLMClientInterface,
	timeout time.Duration,
	logger *zap.Logger,
) SuggestionServiceInterface {
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{
		guard:          guard,
		tripRepo:       tripRepo,
		itineraryRepo:  itineraryRepo,
		suggestionRepo: suggestionRepo,
		transactor:     transactor,
		llm:            llm,
		timeout:        timeout,
		logger:         logger,
	}
}

func (s *SuggestionService) RequestOptimization(ctx context.Context, callerID, tripID uuid.UUID) (*response_models.SuggestionResponse, error) {
	if _, err := s.guard.AuthorizeOwner(ctx, tripID, callerID); err != nil {
		return nil, err
	}

	entries, err := s.itineraryRepo.ListEntriesByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	prompt, err := buildOptimizationPrompt(GroupByDay(entries))
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt, optimizationTemperature)
	if err != nil {
		return nil, err
	}

	batch := []dbm.AISuggestion{{
		TripID:               tripID,
		UserID:               callerID,
		Type:                 dbm.SuggestionOptimization,
		Suggestion:           datatypes.JSON(raw),
		Reasoning:            optimizationReasoning,
		Confidence:           optimizationConfidence,
		ItineraryFingerprint: ItineraryFingerprint(entries),
	}}
	if err := s.suggestionRepo.CreateSuggestions(ctx, batch); err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	s.logger.Info("optimization suggestion stored",
		zap.String("trip_id", tripID.String()),
		zap.String("suggestion_id", batch[0].ID.String()),
		zap.Int("entries", len(entries)))

	out := response_models.BuildSuggestionResponse(&batch[0])
	return &out, nil
}

func (s *SuggestionService) RequestPlaceSuggestions(ctx context.Context, callerID, tripID uuid.UUID, req request_models.TripSuggestionRequest) (*response_models.TripSuggestionsResponse, error) {
	trip, err := s.guard.AuthorizeOwner(ctx, tripID, callerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.itineraryRepo.ListEntriesByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	prompt, err := buildSuggestionPrompt(trip, entries, req)
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, prompt, suggestionTemperature)
	if err != nil {
		return nil, err
	}

	parsed := ParseTripSuggestions(raw)

	batch := make([]dbm.AISuggestion, 0, len(parsed.Places)+len(parsed.RouteOptimizations))
	appendItems := func(items []map[string]any, kind dbm.SuggestionType, confidence float64) error {
		for _, item := range items {
			payload, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("encode %s suggestion: %w", kind, err)
			}
			batch = append(batch, dbm.AISuggestion{
				TripID:     tripID,
				UserID:     callerID,
				Type:       kind,
				Suggestion: datatypes.JSON(payload),
				Reasoning:  asString(item["reasoning"]),
				Confidence: confidence,
			})
		}
		return nil
	}
	if err := appendItems(parsed.Places, dbm.SuggestionPlace, placeConfidence); err != nil {
		return nil, err
	}
	if err := appendItems(parsed.RouteOptimizations, dbm.SuggestionRoute, routeConfidence); err != nil {
		return nil, err
	}

	if err := s.suggestionRepo.CreateSuggestions(ctx, batch); err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	s.logger.Info("trip suggestions stored",
		zap.String("trip_id", tripID.String()),
		zap.Int("places", len(parsed.Places)),
		zap.Int("routes", len(parsed.RouteOptimizations)))

	tips := parsed.BudgetTips
	if tips == nil {
		tips = []map[string]any{}
	}
	return &response_models.TripSuggestionsResponse{
		Suggestions: response_models.BuildSuggestionResponses(batch),
		BudgetTips:  tips,
	}, nil
}

// AcceptSuggestion marks a pending suggestion accepted. Accepting an
// optimization also applies its per-day order to the itinerary, in the same
// transaction. A suggestion that was already decided is returned unchanged.
func (s *SuggestionService) AcceptSuggestion(ctx context.Context, callerID, suggestionID uuid.UUID) (*response_models.SuggestionResponse, error) {
	return s.decide(ctx, callerID, suggestionID, true)
}

func (s *SuggestionService) RejectSuggestion(ctx context.Context, callerID, suggestionID uuid.UUID) (*response_models.SuggestionResponse, error) {
	return s.decide(ctx, callerID, suggestionID, false)
}

func (s *SuggestionService) decide(ctx context.Context, callerID, suggestionID uuid.UUID, accept bool) (*response_models.SuggestionResponse, error) {
	var result *dbm.AISuggestion

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		suggestion, err := s.suggestionRepo.LockOwnedSuggestion(ctx, suggestionID, callerID)
		if err != nil {
			return utils.NewDatabaseError(err)
		}
		if suggestion == nil {
			return utils.NewNotFoundError("Suggestion not found")
		}

		result = suggestion
		if suggestion.IsAccepted != nil {
			return nil
		}

		if accept && suggestion.Type == dbm.SuggestionOptimization {
			if err := s.applyOptimization(ctx, callerID, suggestion); err != nil {
				return err
			}
		}

		if _, err := s.suggestionRepo.SetAcceptance(ctx, suggestion.ID, callerID, accept); err != nil {
			return utils.NewDatabaseError(err)
		}
		suggestion.IsAccepted = &accept
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := response_models.BuildSuggestionResponse(result)
	return &out, nil
}

// applyOptimization reorders the trip as the suggestion proposes. It refuses
// when the itinerary no longer matches the state the proposal was made for.
// The trip row stays locked from the staleness check until the reorder commits.
func (s *SuggestionService) applyOptimization(ctx context.Context, callerID uuid.UUID, suggestion *dbm.AISuggestion) error {
	positions := PositionsFromPlan(ParseOptimizationPlan(suggestion.Suggestion))
	if len(positions) == 0 {
		return nil
	}

	trip, err := s.tripRepo.LockOwnedTrip(ctx, suggestion.TripID, callerID)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if trip == nil {
		return utils.NewNotFoundError("Trip not found")
	}

	entries, err := s.itineraryRepo.ListEntriesByTrip(ctx, suggestion.TripID)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if suggestion.ItineraryFingerprint != "" && ItineraryFingerprint(entries) != suggestion.ItineraryFingerprint {
		return utils.NewConflictError("Itinerary changed since this optimization was generated; request a new one", nil)
	}

	positions = CompletePlanPositions(positions, entries)
	if err := ValidatePositions(positions); err != nil {
		return err
	}

	if err := mapReorderError(s.itineraryRepo.ReorderEntries(ctx, suggestion.TripID, callerID, positions)); err != nil {
		return err
	}

	s.logger.Info("optimization applied",
		zap.String("trip_id", suggestion.TripID.String()),
		zap.String("suggestion_id", suggestion.ID.String()),
		zap.Int("moved", len(positions)))
	return nil
}

func (s *SuggestionService) ListSuggestions(ctx context.Context, callerID, tripID uuid.UUID) ([]response_models.SuggestionResponse, error) {
	if _, err := s.guard.AuthorizeOwner(ctx, tripID, callerID); err != nil {
		return nil, err
	}

	list, err := s.suggestionRepo.ListSuggestionsByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	return response_models.BuildSuggestionResponses(list), nil
}

// generate calls the model under the configured deadline. Anything that is not
// a JSON document counts as an upstream failure.
func (s *SuggestionService) generate(ctx context.Context, prompt string, temperature float32) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.llm.GenerateJSON(callCtx, prompt, temperature)
	if err != nil {
		s.logger.Warn("llm call failed", zap.Error(err))
		return nil, utils.NewUpstreamError("AI service unavailable, please retry", err)
	}

	cleaned := utils.CleanJSONResponse(content)
	if !json.Valid([]byte(cleaned)) {
		s.logger.Warn("llm returned non-JSON content", zap.Int("length", len(content)))
		return nil, utils.NewUpstreamError("AI service returned an unreadable response, please retry", nil)
	}
	return []byte(cleaned), nil
}

type promptPlace struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Category string    `json:"category"`
}

func buildOptimizationPrompt(groups []DayGroup) (string, error) {
	byDay := make(map[int][]promptPlace, len(groups))
	for _, g := range groups {
		places := make([]promptPlace, 0, len(g.Entries))
		for _, e := range g.Entries {
			places = append(places, promptPlace{
				ID:       e.ID,
				Name:     e.Place.Name,
				Lat:      e.Place.Latitude,
				Lng:      e.Place.Longitude,
				Category: string(e.Place.Category),
			})
		}
		byDay[g.Day] = places
	}

	itinerary, err := json.MarshalIndent(byDay, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode itinerary for prompt: %w", err)
	}

	return fmt.Sprintf(`
Optimize the daily routes for this trip itinerary:
%s

Consider:
- Geographical proximity to minimize travel time
- Logical flow (e.g., restaurants at meal times)
- Opening hours and typical visit durations

Use only the entry ids listed above. Return optimized order for each day as JSON only:
{
  "optimizations": [
    {
      "day": 1,
      "newOrder": [{"id": "uuid", "order": 0, "reasoning": ""}],
      "timeSaved": "30 minutes",
      "reasoning": "Overall optimization explanation"
    }
  ]
}`, itinerary), nil
}

type promptEntry struct {
	Day      int    `json:"day"`
	Place    string `json:"place"`
	Category string `json:"category"`
}

func buildSuggestionPrompt(trip *dbm.Trip, entries []dbm.ItineraryEntry, req request_models.TripSuggestionRequest) (string, error) {
	sorted := make([]promptEntry, 0, len(entries))
	for _, g := range GroupByDay(entries) {
		for _, e := range g.Entries {
			sorted = append(sorted, promptEntry{Day: e.Day, Place: e.Place.Name, Category: string(e.Place.Category)})
		}
	}
	current, err := json.Marshal(sorted)
	if err != nil {
		return "", fmt.Errorf("encode itinerary for prompt: %w", err)
	}

	budget := strings.TrimSpace(req.Budget)
	if budget == "" && trip.Budget != nil {
		budget = fmt.Sprintf("%.2f", *trip.Budget)
	}

	return fmt.Sprintf(`
Generate travel suggestions for a trip to %s from %s to %s.

Current itinerary: %s

Budget: %s
Interests: %s
Preferences: %s

Please suggest:
1. 3-5 additional places to visit
2. Route optimization suggestions
3. Budget-friendly alternatives if applicable

Return JSON only, with structure:
{
  "places": [{"name": "", "category": "", "reasoning": "", "estimatedCost": 0}],
  "routeOptimizations": [{"suggestion": "", "reasoning": ""}],
  "budgetTips": [{"tip": "", "savings": 0}]
}`,
		trip.Destination,
		trip.StartDate.Format("2006-01-02"),
		trip.EndDate.Format("2006-01-02"),
		current,
		orDefault(budget, "Not specified"),
		orDefault(req.Interests, "General tourism"),
		orDefault(req.Preferences, "None specified"),
	), nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
