package response_models

import (
	"encoding/json"

	"github.com/google/uuid"
	dbm "tripplanner/internal/models/db_models"
)

type SuggestionResponse struct {
	ID         uuid.UUID       `json:"id"`
	TripID     uuid.UUID       `json:"trip_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Type       string          `json:"type"`
	Suggestion json.RawMessage `json:"suggestion"`
	Reasoning  string          `json:"reasoning"`
	Confidence float64         `json:"confidence"`
	IsAccepted *bool           `json:"is_accepted"`
	CreatedAt  int64           `json:"created_at"`
	UpdatedAt  int64           `json:"updated_at"`
}

type TripSuggestionsResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
	BudgetTips  []map[string]any     `json:"budget_tips"`
}

func BuildSuggestionResponse(s *dbm.AISuggestion) SuggestionResponse {
	payload := json.RawMessage(s.Suggestion)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return SuggestionResponse{
		ID:         s.ID,
		TripID:     s.TripID,
		UserID:     s.UserID,
		Type:       string(s.Type),
		Suggestion: payload,
		Reasoning:  s.Reasoning,
		Confidence: s.Confidence,
		IsAccepted: s.IsAccepted,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func BuildSuggestionResponses(list []dbm.AISuggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, 0, len(list))
	for i := range list {
		out = append(out, BuildSuggestionResponse(&list[i]))
	}
	return out
}
