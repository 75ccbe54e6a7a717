package services

import (
	"cmp"
	"context"
	"encoding/json"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	dbm "tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/repositories"
	mem "tripplanner/pkg/memcache"
	"tripplanner/pkg/utils"
)

const (
	searchLimit = 50

	nearbyLimit          = 20
	nearbyCandidateLimit = 500
	defaultNearbyRadius  = 5000.0
)

type PlaceServiceInterface interface {
	CreatePlace(ctx context.Context, req request_models.CreatePlaceRequest) (*response_models.PlaceResponse, error)
	GetPlace(ctx context.Context, placeID uuid.UUID) (*response_models.PlaceResponse, error)
	UpdatePlace(ctx context.Context, placeID uuid.UUID, req request_models.UpdatePlaceRequest) (*response_models.PlaceResponse, error)
	SearchPlaces(ctx context.Context, req request_models.SearchPlacesRequest) ([]response_models.PlaceResponse, error)
	NearbyPlaces(ctx context.Context, req request_models.NearbyPlacesRequest) ([]response_models.NearbyPlaceResponse, error)
}

type PlaceService struct {
	placeRepo repositories.PlaceRepository
	cache     mem.PlaceCache
}

func NewPlaceService(placeRepo repositories.PlaceRepository, cache mem.PlaceCache) PlaceServiceInterface {
	return &PlaceService{placeRepo: placeRepo, cache: cache}
}

func (s *PlaceService) CreatePlace(ctx context.Context, req request_models.CreatePlaceRequest) (*response_models.PlaceResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, utils.NewValidationError("name is required")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, utils.NewValidationError("latitude and longitude are required")
	}

	category := dbm.PlaceOther
	if req.Category != "" {
		var err error
		if category, err = parseCategory(req.Category); err != nil {
			return nil, err
		}
	}

	hours, err := encodeOpeningHours(req.OpeningHours)
	if err != nil {
		return nil, err
	}

	place := dbm.Place{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		Category:      category,
		Rating:        req.Rating,
		PriceLevel:    req.PriceLevel,
		Photos:        pq.StringArray(req.Photos),
		Website:       req.Website,
		Phone:         req.Phone,
		OpeningHours:  hours,
		GooglePlaceID: req.GooglePlaceID,
	}
	if err := s.placeRepo.CreatePlace(ctx, &place); err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	out := response_models.BuildPlaceResponse(&place)
	return &out, nil
}

func (s *PlaceService) GetPlace(ctx context.Context, placeID uuid.UUID) (*response_models.PlaceResponse, error) {
	if cached, ok := s.cache.Get(placeID); ok {
		out := response_models.BuildPlaceResponse(&cached)
		return &out, nil
	}

	place, err := s.placeRepo.GetPlaceByID(ctx, placeID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	if place == nil {
		return nil, utils.NewNotFoundError("Place not found")
	}
	s.cache.Set(*place)

	out := response_models.BuildPlaceResponse(place)
	return &out, nil
}

// UpdatePlace patches a catalog place. Places are shared between trips, so any
// authenticated caller may edit them.
func (s *PlaceService) UpdatePlace(ctx context.Context, placeID uuid.UUID, req request_models.UpdatePlaceRequest) (*response_models.PlaceResponse, error) {
	fields, err := placePatch(req)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		updated, err := s.placeRepo.UpdatePlace(ctx, placeID, fields)
		s.cache.Forget(placeID)
		if err != nil {
			return nil, utils.NewDatabaseError(err)
		}
		if !updated {
			return nil, utils.NewNotFoundError("Place not found")
		}
	}

	return s.GetPlace(ctx, placeID)
}

func (s *PlaceService) SearchPlaces(ctx context.Context, req request_models.SearchPlacesRequest) ([]response_models.PlaceResponse, error) {
	filter := repositories.PlaceFilter{
		Query: strings.TrimSpace(req.Query),
		Limit: searchLimit,
	}
	if req.Category != "" {
		category, err := parseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = category
	}

	places, err := s.placeRepo.SearchPlaces(ctx, filter)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	out := make([]response_models.PlaceResponse, 0, len(places))
	for i := range places {
		out = append(out, response_models.BuildPlaceResponse(&places[i]))
	}
	return out, nil
}

// NearbyPlaces returns places within the radius of a point, nearest first.
// The database narrows candidates to a bounding box; exact distances are
// computed here.
func (s *PlaceService) NearbyPlaces(ctx context.Context, req request_models.NearbyPlacesRequest) ([]response_models.NearbyPlaceResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, utils.NewValidationError("Latitude and longitude are required")
	}
	lat, lng := *req.Latitude, *req.Longitude

	radius := req.Radius
	if radius <= 0 {
		radius = defaultNearbyRadius
	}

	var category dbm.PlaceCategory
	if req.Category != "" {
		var err error
		if category, err = parseCategory(req.Category); err != nil {
			return nil, err
		}
	}

	candidates, err := s.placeRepo.ListPlacesInBox(ctx, boundingBox(lat, lng, radius), category, nearbyCandidateLimit)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	type hit struct {
		place    *dbm.Place
		distance float64
	}
	hits := make([]hit, 0, len(candidates))
	for i := range candidates {
		d := haversineMeters(lat, lng, candidates[i].Latitude, candidates[i].Longitude)
		if d <= radius {
			hits = append(hits, hit{place: &candidates[i], distance: d})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.distance, b.distance) })
	if len(hits) > nearbyLimit {
		hits = hits[:nearbyLimit]
	}

	out := make([]response_models.NearbyPlaceResponse, 0, len(hits))
	for _, h := range hits {
		out = append(out, response_models.NearbyPlaceResponse{
			PlaceResponse:  response_models.BuildPlaceResponse(h.place),
			DistanceMeters: int(math.Round(h.distance)),
		})
	}
	return out, nil
}

func parseCategory(raw string) (dbm.PlaceCategory, error) {
	category := dbm.PlaceCategory(strings.ToLower(strings.TrimSpace(raw)))
	if !category.Valid() {
		return "", utils.NewValidationError("category must be one of restaurant, attraction, hotel, activity, transport, other")
	}
	return category, nil
}

func encodeOpeningHours(hours map[string]any) (datatypes.JSON, error) {
	if len(hours) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(hours)
	if err != nil {
		return nil, utils.NewValidationError("opening_hours must be a JSON object")
	}
	return datatypes.JSON(raw), nil
}

func placePatch(req request_models.UpdatePlaceRequest) (map[string]any, error) {
	fields := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, utils.NewValidationError("name must not be blank")
		}
		fields["name"] = name
	}
	if req.Category != nil {
		category, err := parseCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		fields["category"] = category
	}
	if req.OpeningHours != nil {
		hours, err := encodeOpeningHours(req.OpeningHours)
		if err != nil {
			return nil, err
		}
		fields["opening_hours"] = hours
	}
	if req.Photos != nil {
		fields["photos"] = pq.StringArray(req.Photos)
	}

	setIf(fields, "description", req.Description)
	setIf(fields, "address", req.Address)
	setIf(fields, "latitude", req.Latitude)
	setIf(fields, "longitude", req.Longitude)
	setIf(fields, "rating", req.Rating)
	setIf(fields, "price_level", req.PriceLevel)
	setIf(fields, "website", req.Website)
	setIf(fields, "phone", req.Phone)
	setIf(fields, "google_place_id", req.GooglePlaceID)

	return fields, nil
}

func setIf[T any](fields map[string]any, column string, v *T) {
	if v != nil {
		fields[column] = *v
	}
}
