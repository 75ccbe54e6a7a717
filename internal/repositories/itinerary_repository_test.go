package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

const (
	lockTripQuery   = `SELECT \* FROM "trips" WHERE \(?id = \$1 AND owner_id = \$2.* FOR UPDATE`
	updateEntryExec = `UPDATE "itinerary_entries" SET .* WHERE \(?id = \$\d+ AND trip_id = \$\d+`
)

func TestReorderEntries_CommitsWhenEveryEntryBelongs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItineraryRepository(db)
	tripID, ownerID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockTripQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}).AddRow(tripID.String(), ownerID.String()))
	mock.ExpectExec(updateEntryExec).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateEntryExec).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReorderEntries(context.Background(), tripID, ownerID, []EntryPosition{
		{EntryID: uuid.New(), Day: 1, Order: 0},
		{EntryID: uuid.New(), Day: 1, Order: 1},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderEntries_RollsBackOnForeignEntry(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItineraryRepository(db)
	tripID, ownerID := uuid.New(), uuid.New()
	foreign := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockTripQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}).AddRow(tripID.String(), ownerID.String()))
	mock.ExpectExec(updateEntryExec).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateEntryExec).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ReorderEntries(context.Background(), tripID, ownerID, []EntryPosition{
		{EntryID: uuid.New(), Day: 1, Order: 1},
		{EntryID: foreign, Day: 1, Order: 0},
	})

	var conflict *ReorderConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uuid.UUID{foreign}, conflict.EntryIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderEntries_TripNotOwned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItineraryRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockTripQuery).WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id"}))
	mock.ExpectRollback()

	err := repo.ReorderEntries(context.Background(), uuid.New(), uuid.New(), []EntryPosition{
		{EntryID: uuid.New(), Day: 1, Order: 0},
	})
	assert.ErrorIs(t, err, ErrTripNotOwned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOwnedEntry_ScopesByOwnerInOneStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItineraryRepository(db)
	entryID, ownerID := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM "itinerary_entries" WHERE \(?id = \$1 AND trip_id IN \(SELECT .*id.* FROM "trips" WHERE owner_id = \$2\)`).
		WithArgs(entryID, ownerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteOwnedEntry(context.Background(), entryID, ownerID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RepositoriesJoinTheTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	suggestions := NewSuggestionRepository(db)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "ai_suggestions" SET .*"is_accepted"=\$\d+`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		ok, err := suggestions.SetAcceptance(ctx, id, userID, true)
		require.NoError(t, err)
		assert.True(t, ok)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEntriesByTrip_TiesBreakOnInsertSequence(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItineraryRepository(db)
	tripID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "itinerary_entries" WHERE trip_id = \$1 ORDER BY day ASC, "order" ASC, seq ASC`).
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "day", "order", "seq"}))

	entries, err := repo.ListEntriesByTrip(context.Background(), tripID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
