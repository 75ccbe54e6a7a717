package response_models

import (
	"encoding/json"

	"github.com/google/uuid"
	dbm "tripplanner/internal/models/db_models"
)

type TripResponse struct {
	ID           uuid.UUID              `json:"id"`
	OwnerID      uuid.UUID              `json:"owner_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	StartDate    string                 `json:"start_date"`
	EndDate      string                 `json:"end_date"`
	DurationDays int                    `json:"duration_days"`
	Destination  string                 `json:"destination"`
	Budget       *float64               `json:"budget,omitempty"`
	IsPublic     bool                   `json:"is_public"`
	CoverImage   string                 `json:"cover_image,omitempty"`
	Itinerary    *TripItineraryResponse `json:"itinerary,omitempty"`
}

type PlaceResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Address       string          `json:"address,omitempty"`
	Latitude      float64         `json:"latitude"`
	Longitude     float64         `json:"longitude"`
	Category      string          `json:"category"`
	Rating        *float64        `json:"rating,omitempty"`
	PriceLevel    *int            `json:"price_level,omitempty"`
	Photos        []string        `json:"photos"`
	Website       string          `json:"website,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	OpeningHours  json.RawMessage `json:"opening_hours,omitempty"`
	GooglePlaceID *string         `json:"google_place_id,omitempty"`
}

// NearbyPlaceResponse is a place with its great-circle distance from the search point.
type NearbyPlaceResponse struct {
	PlaceResponse
	DistanceMeters int `json:"distance_m"`
}

func BuildTripResponse(t *dbm.Trip) TripResponse {
	return TripResponse{
		ID:           t.ID,
		OwnerID:      t.OwnerID,
		Title:        t.Title,
		Description:  t.Description,
		StartDate:    t.StartDate.Format("2006-01-02"),
		EndDate:      t.EndDate.Format("2006-01-02"),
		DurationDays: t.DayCount(),
		Destination:  t.Destination,
		Budget:       t.Budget,
		IsPublic:     t.IsPublic,
		CoverImage:   t.CoverImage,
	}
}

func BuildPlaceResponse(p *dbm.Place) PlaceResponse {
	photos := []string(p.Photos)
	if photos == nil {
		photos = []string{}
	}
	var hours json.RawMessage
	if len(p.OpeningHours) > 0 {
		hours = json.RawMessage(p.OpeningHours)
	}
	return PlaceResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Address:       p.Address,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		Category:      string(p.Category),
		Rating:        p.Rating,
		PriceLevel:    p.PriceLevel,
		Photos:        photos,
		Website:       p.Website,
		Phone:         p.Phone,
		OpeningHours:  hours,
		GooglePlaceID: p.GooglePlaceID,
	}
}
