package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	dbm "tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

type ItineraryServiceInterface interface {
	AddEntry(ctx context.Context, callerID uuid.UUID, req request_models.AddItineraryEntryRequest) (*response_models.ItineraryEntryResponse, error)
	UpdateEntry(ctx context.Context, callerID, entryID uuid.UUID, req request_models.UpdateItineraryEntryRequest) (*response_models.ItineraryEntryResponse, error)
	RemoveEntry(ctx context.Context, callerID, entryID uuid.UUID) error
	Reorder(ctx context.Context, callerID, tripID uuid.UUID, req request_models.ReorderItineraryRequest) error
	ListItinerary(ctx context.Context, callerID *uuid.UUID, tripID uuid.UUID) (*response_models.TripItineraryResponse, error)
}

type ItineraryService struct {
	guard         AccessGuardInterface
	tripRepo      repositories.TripRepository
	placeRepo     repositories.PlaceRepository
	itineraryRepo repositories.ItineraryRepository
	transactor    repositories.Transactor
}

func NewItineraryService(
	guard AccessGuardInterface,
	tripRepo repositories.TripRepository,
	placeRepo repositories.PlaceRepository,
	itineraryRepo repositories.ItineraryRepository,
	transactor repositories.Transactor,
) ItineraryServiceInterface {
	return &ItineraryService{
		guard:         guard,
		tripRepo:      tripRepo,
		placeRepo:     placeRepo,
		itineraryRepo: itineraryRepo,
		transactor:    transactor,
	}
}

func (s *ItineraryService) AddEntry(ctx context.Context, callerID uuid.UUID, req request_models.AddItineraryEntryRequest) (*response_models.ItineraryEntryResponse, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, utils.NewValidationError("trip_id must be a valid id")
	}
	placeID, err := uuid.Parse(req.PlaceID)
	if err != nil {
		return nil, utils.NewValidationError("place_id must be a valid id")
	}
	if req.Day < 1 {
		return nil, utils.NewValidationError("day must be at least 1")
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	}
	if order < 0 {
		return nil, utils.NewValidationError("order must not be negative")
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return nil, err
	}
	mode, err := parseTransportMode(req.TransportMode)
	if err != nil {
		return nil, err
	}

	entry := dbm.ItineraryEntry{
		TripID:        tripID,
		PlaceID:       placeID,
		Day:           req.Day,
		Order:         order,
		Date:          date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Notes:         req.Notes,
		EstimatedCost: req.EstimatedCost,
		TransportMode: mode,
	}

	// The trip row stays locked until the entry is written, so a concurrent
	// delete cannot slip between the ownership check and the insert.
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		trip, err := s.tripRepo.LockOwnedTrip(ctx, tripID, callerID)
		if err != nil {
			return utils.NewDatabaseError(err)
		}
		if trip == nil {
			return utils.NewNotFoundError("Trip not found")
		}

		place, err := s.placeRepo.GetPlaceByID(ctx, placeID)
		if err != nil {
			return utils.NewDatabaseError(err)
		}
		if place == nil {
			return utils.NewNotFoundError("Place not found")
		}

		if err := s.itineraryRepo.CreateEntry(ctx, &entry); err != nil {
			return utils.NewDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadEntry(ctx, entry.ID)
}

func (s *ItineraryService) UpdateEntry(ctx context.Context, callerID, entryID uuid.UUID, req request_models.UpdateItineraryEntryRequest) (*response_models.ItineraryEntryResponse, error) {
	fields, err := entryPatch(req)
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		entry, err := s.itineraryRepo.GetOwnedEntry(ctx, entryID, callerID)
		if err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		if entry == nil {
			return nil, utils.NewNotFoundError("Itinerary item not found")
		}
		out := response_models.BuildItineraryEntryResponse(entry)
		return &out, nil
	}

	updated, err := s.itineraryRepo.UpdateOwnedEntry(ctx, entryID, callerID, fields)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	if !updated {
		return nil, utils.NewNotFoundError("Itinerary item not found")
	}

	return s.loadEntry(ctx, entryID)
}

func (s *ItineraryService) RemoveEntry(ctx context.Context, callerID, entryID uuid.UUID) error {
	deleted, err := s.itineraryRepo.DeleteOwnedEntry(ctx, entryID, callerID)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if !deleted {
		return utils.NewNotFoundError("Itinerary item not found")
	}
	return nil
}

func (s *ItineraryService) Reorder(ctx context.Context, callerID, tripID uuid.UUID, req request_models.ReorderItineraryRequest) error {
	positions := make([]repositories.EntryPosition, 0, len(req.Items))
	for _, item := range req.Items {
		entryID, err := uuid.Parse(item.ID)
		if err != nil {
			return utils.NewValidationError("item id must be a valid id")
		}
		if item.Order == nil {
			return utils.NewValidationError("item order is required")
		}
		positions = append(positions, repositories.EntryPosition{EntryID: entryID, Day: item.Day, Order: *item.Order})
	}

	if err := ValidatePositions(positions); err != nil {
		return err
	}

	return mapReorderError(s.itineraryRepo.ReorderEntries(ctx, tripID, callerID, positions))
}

func (s *ItineraryService) ListItinerary(ctx context.Context, callerID *uuid.UUID, tripID uuid.UUID) (*response_models.TripItineraryResponse, error) {
	if _, err := s.guard.AuthorizeViewer(ctx, tripID, callerID); err != nil {
		return nil, err
	}

	entries, err := s.itineraryRepo.ListEntriesByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	return buildTripItinerary(tripID, entries), nil
}

func (s *ItineraryService) loadEntry(ctx context.Context, entryID uuid.UUID) (*response_models.ItineraryEntryResponse, error) {
	entry, err := s.itineraryRepo.GetEntryWithPlace(ctx, entryID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	if entry == nil {
		return nil, utils.NewNotFoundError("Itinerary item not found")
	}
	out := response_models.BuildItineraryEntryResponse(entry)
	return &out, nil
}

func buildTripItinerary(tripID uuid.UUID, entries []dbm.ItineraryEntry) *response_models.TripItineraryResponse {
	out := &response_models.TripItineraryResponse{
		TripID:       tripID,
		TotalEntries: len(entries),
		Days:         []response_models.ItineraryDayResponse{},
	}
	for _, group := range GroupByDay(entries) {
		day := response_models.ItineraryDayResponse{
			Day:     group.Day,
			Entries: make([]response_models.ItineraryEntryResponse, 0, len(group.Entries)),
		}
		for i := range group.Entries {
			day.Entries = append(day.Entries, response_models.BuildItineraryEntryResponse(&group.Entries[i]))
		}
		out.Days = append(out.Days, day)
	}
	return out
}

func mapReorderError(err error) error {
	if err == nil {
		return nil
	}

	var conflict *repositories.ReorderConflictError
	switch {
	case errors.Is(err, repositories.ErrTripNotOwned):
		return utils.NewNotFoundError("Trip not found")
	case errors.As(err, &conflict):
		return utils.NewConflictError(
			"Reorder rejected: some entries do not belong to this trip",
			map[string]any{"entry_ids": conflict.EntryIDs},
		)
	default:
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return utils.NewDatabaseError(err)
	}
}

func entryPatch(req request_models.UpdateItineraryEntryRequest) (map[string]any, error) {
	fields := make(map[string]any)

	if req.Day != nil {
		if *req.Day < 1 {
			return nil, utils.NewValidationError("day must be at least 1")
		}
		fields["day"] = *req.Day
	}
	if req.Order != nil {
		if *req.Order < 0 {
			return nil, utils.NewValidationError("order must not be negative")
		}
		fields["order"] = *req.Order
	}
	if req.Date != nil {
		date, err := parseOptionalDate(req.Date)
		if err != nil {
			return nil, err
		}
		fields["date"] = date
	}
	if req.StartTime != nil {
		fields["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		fields["end_time"] = *req.EndTime
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.EstimatedCost != nil {
		if *req.EstimatedCost < 0 {
			return nil, utils.NewValidationError("estimated_cost must not be negative")
		}
		fields["estimated_cost"] = *req.EstimatedCost
	}
	if req.TransportMode != nil {
		mode, err := parseTransportMode(req.TransportMode)
		if err != nil {
			return nil, err
		}
		fields["transport_mode"] = *mode
	}

	return fields, nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, utils.NewValidationError("dates must be YYYY-MM-DD or RFC3339")
}

// parseOptionalDate returns nil for an absent or blank date.
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseTransportMode(raw *string) (*dbm.TransportMode, error) {
	if raw == nil {
		return nil, nil
	}
	mode := dbm.TransportMode(strings.ToLower(strings.TrimSpace(*raw)))
	if !mode.Valid() {
		return nil, utils.NewValidationError("transport_mode must be one of walking, driving, transit, cycling")
	}
	return &mode, nil
}
