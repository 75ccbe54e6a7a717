package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "tripplanner/internal/models/db_models"
)

var ErrTripNotOwned = errors.New("trip not found or not owned")

// EntryPosition is the target (day, order) of one entry in a reorder batch.
type EntryPosition struct {
	EntryID uuid.UUID
	Day     int
	Order   int
}

// ReorderConflictError lists batch entries that do not belong to the target trip.
type ReorderConflictError struct {
	EntryIDs []uuid.UUID
}

func (e *ReorderConflictError) Error() string {
	return fmt.Sprintf("%d entries do not belong to the trip", len(e.EntryIDs))
}

type ItineraryRepository interface {
	CreateEntry(ctx context.Context, entry *dbm.ItineraryEntry) error
	GetEntryWithPlace(ctx context.Context, entryID uuid.UUID) (*dbm.ItineraryEntry, error)
	GetOwnedEntry(ctx context.Context, entryID, ownerID uuid.UUID) (*dbm.ItineraryEntry, error)
	UpdateOwnedEntry(ctx context.Context, entryID, ownerID uuid.UUID, fields map[string]any) (bool, error)
	DeleteOwnedEntry(ctx context.Context, entryID, ownerID uuid.UUID) (bool, error)
	ListEntriesByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.ItineraryEntry, error)
	// ReorderEntries applies every position or none of them.
	ReorderEntries(ctx context.Context, tripID, ownerID uuid.UUID, positions []EntryPosition) error
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

// ownedTripIDs is the subquery every owner-scoped mutation filters on, so the
// ownership check runs in the same statement as the write.
func ownedTripIDs(db *gorm.DB, ownerID uuid.UUID) *gorm.DB {
	return db.Model(&dbm.Trip{}).Select("id").Where("owner_id = ?", ownerID)
}

func (r *itineraryRepository) CreateEntry(ctx context.Context, entry *dbm.ItineraryEntry) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(entry).Error
}

func (r *itineraryRepository) GetEntryWithPlace(ctx context.Context, entryID uuid.UUID) (*dbm.ItineraryEntry, error) {
	var entry dbm.ItineraryEntry
	err := conn(ctx, r.db).
		Preload("Place").
		Where("id = ?", entryID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *itineraryRepository) GetOwnedEntry(ctx context.Context, entryID, ownerID uuid.UUID) (*dbm.ItineraryEntry, error) {
	db := conn(ctx, r.db)

	var entry dbm.ItineraryEntry
	err := db.
		Preload("Place").
		Where("id = ? AND trip_id IN (?)", entryID, ownedTripIDs(db, ownerID)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *itineraryRepository) UpdateOwnedEntry(ctx context.Context, entryID, ownerID uuid.UUID, fields map[string]any) (bool, error) {
	db := conn(ctx, r.db)

	res := db.Model(&dbm.ItineraryEntry{}).
		Where("id = ? AND trip_id IN (?)", entryID, ownedTripIDs(db, ownerID)).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *itineraryRepository) DeleteOwnedEntry(ctx context.Context, entryID, ownerID uuid.UUID) (bool, error) {
	db := conn(ctx, r.db)

	res := db.
		Where("id = ? AND trip_id IN (?)", entryID, ownedTripIDs(db, ownerID)).
		Delete(&dbm.ItineraryEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *itineraryRepository) ListEntriesByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.ItineraryEntry, error) {
	var entries []dbm.ItineraryEntry
	err := conn(ctx, r.db).
		Preload("Place").
		Where("trip_id = ?", tripID).
		Order(`day ASC, "order" ASC, seq ASC`).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *itineraryRepository) ReorderEntries(ctx context.Context, tripID, ownerID uuid.UUID, positions []EntryPosition) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var trip dbm.Trip
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ?", tripID, ownerID).
			First(&trip).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTripNotOwned
			}
			return err
		}

		var foreign []uuid.UUID
		for _, p := range positions {
			res := tx.Model(&dbm.ItineraryEntry{}).
				Where("id = ? AND trip_id = ?", p.EntryID, tripID).
				Updates(map[string]any{"day": p.Day, "order": p.Order})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				foreign = append(foreign, p.EntryID)
			}
		}

		if len(foreign) > 0 {
			return &ReorderConflictError{EntryIDs: foreign}
		}
		return nil
	})
}
