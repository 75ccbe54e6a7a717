package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SuggestionType string

const (
	SuggestionPlace        SuggestionType = "place"
	SuggestionRoute        SuggestionType = "route"
	SuggestionActivity     SuggestionType = "activity"
	SuggestionRestaurant   SuggestionType = "restaurant"
	SuggestionOptimization SuggestionType = "optimization"
)

// AISuggestion stores a model-generated proposal verbatim. IsAccepted is nil
// until the owner accepts (true) or rejects (false) it.
type AISuggestion struct {
	BaseModel
	TripID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Type       SuggestionType `gorm:"type:varchar(20);not null"`
	Suggestion datatypes.JSON `gorm:"type:jsonb;not null"`
	Reasoning  string         `gorm:"type:text"`
	Confidence float64        `gorm:"type:decimal(3,2);check:confidence >= 0 AND confidence <= 1"`
	IsAccepted *bool

	// ItineraryFingerprint is the itinerary state an optimization was computed
	// against; empty for other types.
	ItineraryFingerprint string `gorm:"type:varchar(64)"`
}

func (AISuggestion) TableName() string {
	return "ai_suggestions"
}
