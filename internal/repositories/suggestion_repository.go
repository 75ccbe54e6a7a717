package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "tripplanner/internal/models/db_models"
)

type SuggestionRepository interface {
	CreateSuggestions(ctx context.Context, suggestions []dbm.AISuggestion) error
	// LockOwnedSuggestion loads a suggestion created by userID with a row lock.
	LockOwnedSuggestion(ctx context.Context, suggestionID, userID uuid.UUID) (*dbm.AISuggestion, error)
	SetAcceptance(ctx context.Context, suggestionID, userID uuid.UUID, accepted bool) (bool, error)
	ListSuggestionsByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.AISuggestion, error)
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

// CreateSuggestions inserts the whole set in one statement. Generated ids are
// written back into the slice elements.
func (r *suggestionRepository) CreateSuggestions(ctx context.Context, suggestions []dbm.AISuggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&suggestions).Error
}

func (r *suggestionRepository) LockOwnedSuggestion(ctx context.Context, suggestionID, userID uuid.UUID) (*dbm.AISuggestion, error) {
	var suggestion dbm.AISuggestion
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", suggestionID, userID).
		First(&suggestion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &suggestion, nil
}

func (r *suggestionRepository) SetAcceptance(ctx context.Context, suggestionID, userID uuid.UUID, accepted bool) (bool, error) {
	res := conn(ctx, r.db).
		Model(&dbm.AISuggestion{}).
		Where("id = ? AND user_id = ?", suggestionID, userID).
		Update("is_accepted", accepted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *suggestionRepository) ListSuggestionsByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.AISuggestion, error) {
	var suggestions []dbm.AISuggestion
	err := conn(ctx, r.db).
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&suggestions).Error
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}
