package request_models

type AddItineraryEntryRequest struct {
	TripID        string   `json:"trip_id" binding:"required,uuid"`
	PlaceID       string   `json:"place_id" binding:"required,uuid"`
	Day           int      `json:"day" binding:"required,min=1"`
	Order         *int     `json:"order" binding:"omitempty,min=0"`
	Date          *string  `json:"date"`
	StartTime     *string  `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime       *string  `json:"end_time" binding:"omitempty,datetime=15:04"`
	Notes         *string  `json:"notes"`
	EstimatedCost *float64 `json:"estimated_cost" binding:"omitempty,min=0"`
	TransportMode *string  `json:"transport_mode" binding:"omitempty,transport_mode"`
}

// UpdateItineraryEntryRequest is a partial patch; nil fields are left untouched.
type UpdateItineraryEntryRequest struct {
	Day           *int     `json:"day" binding:"omitempty,min=1"`
	Order         *int     `json:"order" binding:"omitempty,min=0"`
	Date          *string  `json:"date"`
	StartTime     *string  `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime       *string  `json:"end_time" binding:"omitempty,datetime=15:04"`
	Notes         *string  `json:"notes"`
	EstimatedCost *float64 `json:"estimated_cost" binding:"omitempty,min=0"`
	TransportMode *string  `json:"transport_mode" binding:"omitempty,transport_mode"`
}

type ReorderItem struct {
	ID    string `json:"id" binding:"required,uuid"`
	Order *int   `json:"order" binding:"required,min=0"`
	Day   int    `json:"day" binding:"required,min=1"`
}

type ReorderItineraryRequest struct {
	Items []ReorderItem `json:"items" binding:"required,min=1,dive"`
}
