package db_models

import (
	"time"

	"github.com/google/uuid"
)

type Trip struct {
	BaseModel
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
	Destination string    `gorm:"not null"`
	Budget      *float64  `gorm:"type:decimal(10,2)"`
	IsPublic    bool      `gorm:"default:false"`
	CoverImage  string

	Entries     []ItineraryEntry `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	Suggestions []AISuggestion   `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// DayCount is the inclusive number of calendar days covered by the trip.
func (t *Trip) DayCount() int {
	start := time.Date(t.StartDate.Year(), t.StartDate.Month(), t.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}
