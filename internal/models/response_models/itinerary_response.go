package response_models

import (
	"github.com/google/uuid"
	dbm "tripplanner/internal/models/db_models"
)

// Minimal place info that the itinerary views need
type PlaceSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Category  string    `json:"category"`
}

type ItineraryEntryResponse struct {
	ID            uuid.UUID     `json:"id"`
	TripID        uuid.UUID     `json:"trip_id"`
	PlaceID       uuid.UUID     `json:"place_id"`
	Day           int           `json:"day"`
	Order         int           `json:"order"`
	Date          string        `json:"date,omitempty"`
	StartTime     *string       `json:"start_time,omitempty"`
	EndTime       *string       `json:"end_time,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	EstimatedCost *float64      `json:"estimated_cost,omitempty"`
	TransportMode *string       `json:"transport_mode,omitempty"`
	Place         *PlaceSummary `json:"place,omitempty"`
	CreatedAt     int64         `json:"created_at"`
	UpdatedAt     int64         `json:"updated_at"`
}

type ItineraryDayResponse struct {
	Day     int                      `json:"day"`
	Entries []ItineraryEntryResponse `json:"entries"`
}

type TripItineraryResponse struct {
	TripID       uuid.UUID              `json:"trip_id"`
	TotalEntries int                    `json:"total_entries"`
	Days         []ItineraryDayResponse `json:"days"`
}

func BuildPlaceSummary(p *dbm.Place) *PlaceSummary {
	if p == nil || p.ID == uuid.Nil {
		return nil
	}
	return &PlaceSummary{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Category:  string(p.Category),
	}
}

func BuildItineraryEntryResponse(e *dbm.ItineraryEntry) ItineraryEntryResponse {
	out := ItineraryEntryResponse{
		ID:            e.ID,
		TripID:        e.TripID,
		PlaceID:       e.PlaceID,
		Day:           e.Day,
		Order:         e.Order,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Notes:         e.Notes,
		EstimatedCost: e.EstimatedCost,
		Place:         BuildPlaceSummary(&e.Place),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.Date != nil {
		out.Date = e.Date.Format("2006-01-02")
	}
	if e.TransportMode != nil {
		mode := string(*e.TransportMode)
		out.TransportMode = &mode
	}
	return out
}
