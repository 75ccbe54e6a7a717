package request_models

type CreateTripRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
	Budget      *float64 `json:"budget" binding:"omitempty,min=0"`
	IsPublic    bool     `json:"is_public"`
	CoverImage  string   `json:"cover_image"`
}

// UpdateTripRequest is a partial patch; nil fields are left untouched.
type UpdateTripRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Destination *string  `json:"destination" binding:"omitempty,min=1"`
	Budget      *float64 `json:"budget" binding:"omitempty,min=0"`
	IsPublic    *bool    `json:"is_public"`
	CoverImage  *string  `json:"cover_image"`
}

type CreatePlaceRequest struct {
	Name          string         `json:"name" binding:"required"`
	Description   string         `json:"description"`
	Address       string         `json:"address"`
	Latitude      *float64       `json:"latitude" binding:"required,latitude"`
	Longitude     *float64       `json:"longitude" binding:"required,longitude"`
	Category      string         `json:"category" binding:"omitempty,place_category"`
	Rating        *float64       `json:"rating" binding:"omitempty,min=0,max=5"`
	PriceLevel    *int           `json:"price_level" binding:"omitempty,min=1,max=4"`
	Photos        []string       `json:"photos" binding:"omitempty,dive,url"`
	Website       string         `json:"website" binding:"omitempty,url"`
	Phone         string         `json:"phone"`
	OpeningHours  map[string]any `json:"opening_hours"`
	GooglePlaceID *string        `json:"google_place_id"`
}

// UpdatePlaceRequest is a partial patch; nil fields are left untouched.
// A non-nil Photos replaces the whole list.
type UpdatePlaceRequest struct {
	Name          *string        `json:"name" binding:"omitempty,min=1"`
	Description   *string        `json:"description"`
	Address       *string        `json:"address"`
	Latitude      *float64       `json:"latitude" binding:"omitempty,latitude"`
	Longitude     *float64       `json:"longitude" binding:"omitempty,longitude"`
	Category      *string        `json:"category" binding:"omitempty,place_category"`
	Rating        *float64       `json:"rating" binding:"omitempty,min=0,max=5"`
	PriceLevel    *int           `json:"price_level" binding:"omitempty,min=1,max=4"`
	Photos        []string       `json:"photos" binding:"omitempty,dive,url"`
	Website       *string        `json:"website" binding:"omitempty,url"`
	Phone         *string        `json:"phone"`
	OpeningHours  map[string]any `json:"opening_hours"`
	GooglePlaceID *string        `json:"google_place_id"`
}

type SearchPlacesRequest struct {
	Query    string `form:"query"`
	Category string `form:"category" binding:"omitempty,place_category"`
}

// NearbyPlacesRequest takes a point and a radius in meters.
type NearbyPlacesRequest struct {
	Latitude  *float64 `form:"lat" binding:"required,latitude"`
	Longitude *float64 `form:"lng" binding:"required,longitude"`
	Radius    float64  `form:"radius" binding:"omitempty,gt=0,max=50000"`
	Category  string   `form:"category" binding:"omitempty,place_category"`
}
