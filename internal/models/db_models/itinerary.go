package db_models

import (
	"time"

	"github.com/google/uuid"
)

type TransportMode string

const (
	TransportWalking TransportMode = "walking"
	TransportDriving TransportMode = "driving"
	TransportTransit TransportMode = "transit"
	TransportCycling TransportMode = "cycling"
)

func (m TransportMode) Valid() bool {
	switch m {
	case TransportWalking, TransportDriving, TransportTransit, TransportCycling:
		return true
	}
	return false
}

// ItineraryEntry places one Place on one day of a Trip. Order ranks the entry
// inside its (trip, day) group; gaps and ties are tolerated, readers sort.
// Seq is assigned by the database on insert and breaks ties between equal orders.
type ItineraryEntry struct {
	BaseModel
	Seq           int64     `gorm:"autoIncrement;index" json:"-"`
	TripID        uuid.UUID `gorm:"type:uuid;not null;index:idx_entry_trip_day"`
	PlaceID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Day           int       `gorm:"not null;index:idx_entry_trip_day"`
	Order         int       `gorm:"column:order;not null;default:0"`
	Date          *time.Time
	StartTime     *string        `gorm:"type:varchar(5)"`
	EndTime       *string        `gorm:"type:varchar(5)"`
	Notes         *string        `gorm:"type:text"`
	EstimatedCost *float64       `gorm:"type:decimal(10,2)"`
	TransportMode *TransportMode `gorm:"type:varchar(16)"`

	Place Place `gorm:"foreignKey:PlaceID"`
}
