package db_models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type PlaceCategory string

const (
	PlaceRestaurant PlaceCategory = "restaurant"
	PlaceAttraction PlaceCategory = "attraction"
	PlaceHotel      PlaceCategory = "hotel"
	PlaceActivity   PlaceCategory = "activity"
	PlaceTransport  PlaceCategory = "transport"
	PlaceOther      PlaceCategory = "other"
)

func (c PlaceCategory) Valid() bool {
	switch c {
	case PlaceRestaurant, PlaceAttraction, PlaceHotel, PlaceActivity, PlaceTransport, PlaceOther:
		return true
	}
	return false
}

type Place struct {
	BaseModel
	Name          string `gorm:"not null"`
	Description   string
	Address       string
	Latitude      float64        `gorm:"type:decimal(10,8);not null"`
	Longitude     float64        `gorm:"type:decimal(11,8);not null"`
	Category      PlaceCategory  `gorm:"type:varchar(20);not null;default:'other'"`
	Rating        *float64       `gorm:"type:decimal(2,1);check:rating >= 0 AND rating <= 5"`
	PriceLevel    *int           `gorm:"check:price_level >= 1 AND price_level <= 4"`
	Photos        pq.StringArray `gorm:"type:text[]"`
	Website       string
	Phone         string
	OpeningHours  datatypes.JSON `gorm:"type:jsonb"`
	GooglePlaceID *string        `gorm:"uniqueIndex"`
}
