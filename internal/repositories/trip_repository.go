package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "tripplanner/internal/models/db_models"
)

type TripRepository interface {
	CreateTrip(ctx context.Context, trip *dbm.Trip) error
	GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)
	// LockOwnedTrip loads the trip with a row lock, scoped to its owner.
	// Only meaningful inside a transaction.
	LockOwnedTrip(ctx context.Context, tripID, ownerID uuid.UUID) (*dbm.Trip, error)
	ListTripsByOwner(ctx context.Context, ownerID uuid.UUID) ([]dbm.Trip, error)
	ListPublicTrips(ctx context.Context) ([]dbm.Trip, error)
	UpdateOwnedTrip(ctx context.Context, tripID, ownerID uuid.UUID, fields map[string]any) (bool, error)
	DeleteOwnedTrip(ctx context.Context, tripID, ownerID uuid.UUID) (bool, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *dbm.Trip) error {
	return conn(ctx, r.db).Create(trip).Error
}

func (r *tripRepository) GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := conn(ctx, r.db).Where("id = ?", tripID).First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) LockOwnedTrip(ctx context.Context, tripID, ownerID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND owner_id = ?", tripID, ownerID).
		First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListTripsByOwner(ctx context.Context, ownerID uuid.UUID) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := conn(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) ListPublicTrips(ctx context.Context) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := conn(ctx, r.db).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) UpdateOwnedTrip(ctx context.Context, tripID, ownerID uuid.UUID, fields map[string]any) (bool, error) {
	res := conn(ctx, r.db).
		Model(&dbm.Trip{}).
		Where("id = ? AND owner_id = ?", tripID, ownerID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteOwnedTrip removes the trip; entries and suggestions go with it through
// the ON DELETE CASCADE foreign keys.
func (r *tripRepository) DeleteOwnedTrip(ctx context.Context, tripID, ownerID uuid.UUID) (bool, error) {
	res := conn(ctx, r.db).
		Where("id = ? AND owner_id = ?", tripID, ownerID).
		Delete(&dbm.Trip{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
