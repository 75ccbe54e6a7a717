package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	dbm "tripplanner/internal/models/db_models"
)

// PlaceFilter narrows a catalog search. Zero fields do not filter.
type PlaceFilter struct {
	Query    string
	Category dbm.PlaceCategory
	Limit    int
}

// BoundingBox is an inclusive latitude/longitude rectangle in degrees.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

type PlaceRepository interface {
	CreatePlace(ctx context.Context, place *dbm.Place) error
	GetPlaceByID(ctx context.Context, placeID uuid.UUID) (*dbm.Place, error)
	UpdatePlace(ctx context.Context, placeID uuid.UUID, fields map[string]any) (bool, error)
	// SearchPlaces matches Query against name, description and address,
	// best rated first.
	SearchPlaces(ctx context.Context, filter PlaceFilter) ([]dbm.Place, error)
	ListPlacesInBox(ctx context.Context, box BoundingBox, category dbm.PlaceCategory, limit int) ([]dbm.Place, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) CreatePlace(ctx context.Context, place *dbm.Place) error {
	return conn(ctx, r.db).Create(place).Error
}

func (r *placeRepository) GetPlaceByID(ctx context.Context, placeID uuid.UUID) (*dbm.Place, error) {
	var place dbm.Place
	err := conn(ctx, r.db).Where("id = ?", placeID).First(&place).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) UpdatePlace(ctx context.Context, placeID uuid.UUID, fields map[string]any) (bool, error) {
	res := conn(ctx, r.db).
		Model(&dbm.Place{}).
		Where("id = ?", placeID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *placeRepository) SearchPlaces(ctx context.Context, filter PlaceFilter) ([]dbm.Place, error) {
	q := conn(ctx, r.db).Model(&dbm.Place{})
	if filter.Query != "" {
		pattern := "%" + likeEscaper.Replace(filter.Query) + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR address ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var places []dbm.Place
	if err := q.Order("rating DESC NULLS LAST").Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *placeRepository) ListPlacesInBox(ctx context.Context, box BoundingBox, category dbm.PlaceCategory, limit int) ([]dbm.Place, error) {
	q := conn(ctx, r.db).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var places []dbm.Place
	if err := q.Order("rating DESC NULLS LAST").Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}
