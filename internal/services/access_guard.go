package services

import (
	"context"

	"github.com/google/uuid"
	dbm "tripplanner/internal/models/db_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

// AccessGuardInterface resolves a trip for a caller. A trip the caller may not
// see is reported exactly like a missing one.
type AccessGuardInterface interface {
	AuthorizeOwner(ctx context.Context, tripID, callerID uuid.UUID) (*dbm.Trip, error)
	AuthorizeViewer(ctx context.Context, tripID uuid.UUID, callerID *uuid.UUID) (*dbm.Trip, error)
}

type AccessGuard struct {
	tripRepo repositories.TripRepository
}

func NewAccessGuard(tripRepo repositories.TripRepository) AccessGuardInterface {
	return &AccessGuard{tripRepo: tripRepo}
}

func (g *AccessGuard) AuthorizeOwner(ctx context.Context, tripID, callerID uuid.UUID) (*dbm.Trip, error) {
	trip, err := g.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	if trip == nil || trip.OwnerID != callerID {
		return nil, utils.NewNotFoundError("Trip not found")
	}
	return trip, nil
}

func (g *AccessGuard) AuthorizeViewer(ctx context.Context, tripID uuid.UUID, callerID *uuid.UUID) (*dbm.Trip, error) {
	trip, err := g.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}
	if trip == nil {
		return nil, utils.NewNotFoundError("Trip not found or not accessible")
	}
	if trip.IsPublic || (callerID != nil && trip.OwnerID == *callerID) {
		return trip, nil
	}
	return nil, utils.NewNotFoundError("Trip not found or not accessible")
}
