package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	dbm "tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, callerID uuid.UUID, req request_models.CreateTripRequest) (*response_models.TripResponse, error)
	ListTrips(ctx context.Context, callerID *uuid.UUID) ([]response_models.TripResponse, error)
	GetTrip(ctx context.Context, callerID *uuid.UUID, tripID uuid.UUID) (*response_models.TripResponse, error)
	UpdateTrip(ctx context.Context, callerID, tripID uuid.UUID, req request_models.UpdateTripRequest) (*response_models.TripResponse, error)
	DeleteTrip(ctx context.Context, callerID, tripID uuid.UUID) error
}

type TripService struct {
	guard         AccessGuardInterface
	tripRepo      repositories.TripRepository
	itineraryRepo repositories.ItineraryRepository
	transactor    repositories.Transactor
}

func NewTripService(
	guard AccessGuardInterface,
	tripRepo repositories.TripRepository,
	itineraryRepo repositories.ItineraryRepository,
	transactor repositories.Transactor,
) TripServiceInterface {
	return &TripService{
		guard:         guard,
		tripRepo:      tripRepo,
		itineraryRepo: itineraryRepo,
		transactor:    transactor,
	}
}

func (s *TripService) CreateTrip(ctx context.Context, callerID uuid.UUID, req request_models.CreateTripRequest) (*response_models.TripResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, utils.NewValidationError("end_date must be after start_date")
	}

	trip := dbm.Trip{
		OwnerID:     callerID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Destination: req.Destination,
		Budget:      req.Budget,
		IsPublic:    req.IsPublic,
		CoverImage:  req.CoverImage,
	}
	if err := s.tripRepo.CreateTrip(ctx, &trip); err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	out := response_models.BuildTripResponse(&trip)
	return &out, nil
}

// ListTrips returns the caller's own trips, or the public ones for an
// anonymous caller.
func (s *TripService) ListTrips(ctx context.Context, callerID *uuid.UUID) ([]response_models.TripResponse, error) {
	var (
		trips []dbm.Trip
		err   error
	)
	if callerID != nil {
		trips, err = s.tripRepo.ListTripsByOwner(ctx, *callerID)
	} else {
		trips, err = s.tripRepo.ListPublicTrips(ctx)
	}
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	out := make([]response_models.TripResponse, 0, len(trips))
	for i := range trips {
		out = append(out, response_models.BuildTripResponse(&trips[i]))
	}
	return out, nil
}

func (s *TripService) GetTrip(ctx context.Context, callerID *uuid.UUID, tripID uuid.UUID) (*response_models.TripResponse, error) {
	trip, err := s.guard.AuthorizeViewer(ctx, tripID, callerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.itineraryRepo.ListEntriesByTrip(ctx, tripID)
	if err != nil {
		return nil, utils.NewDatabaseError(err)
	}

	out := response_models.BuildTripResponse(trip)
	out.Itinerary = buildTripItinerary(tripID, entries)
	return &out, nil
}

// UpdateTrip applies a partial patch to a trip the caller owns. The date range
// is checked against the merged values; existing itinerary days are not.
func (s *TripService) UpdateTrip(ctx context.Context, callerID, tripID uuid.UUID, req request_models.UpdateTripRequest) (*response_models.TripResponse, error) {
	var trip *dbm.Trip

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.tripRepo.LockOwnedTrip(ctx, tripID, callerID)
		if err != nil {
			return utils.NewDatabaseError(err)
		}
		if locked == nil {
			return utils.NewNotFoundError("Trip not found")
		}

		fields, err := applyTripPatch(locked, req)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			updated, err := s.tripRepo.UpdateOwnedTrip(ctx, tripID, callerID, fields)
			if err != nil {
				return utils.NewDatabaseError(err)
			}
			if !updated {
				return utils.NewNotFoundError("Trip not found")
			}
		}
		trip = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := response_models.BuildTripResponse(trip)
	return &out, nil
}

func (s *TripService) DeleteTrip(ctx context.Context, callerID, tripID uuid.UUID) error {
	deleted, err := s.tripRepo.DeleteOwnedTrip(ctx, tripID, callerID)
	if err != nil {
		return utils.NewDatabaseError(err)
	}
	if !deleted {
		return utils.NewNotFoundError("Trip not found")
	}
	return nil
}

// applyTripPatch copies the set fields onto trip and returns them as column updates.
func applyTripPatch(trip *dbm.Trip, req request_models.UpdateTripRequest) (map[string]any, error) {
	fields := map[string]any{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, utils.NewValidationError("title must not be blank")
		}
		trip.Title = title
		fields["title"] = title
	}
	if req.Destination != nil {
		destination := strings.TrimSpace(*req.Destination)
		if destination == "" {
			return nil, utils.NewValidationError("destination must not be blank")
		}
		trip.Destination = destination
		fields["destination"] = destination
	}
	if req.Description != nil {
		trip.Description = *req.Description
		fields["description"] = *req.Description
	}
	if req.CoverImage != nil {
		trip.CoverImage = *req.CoverImage
		fields["cover_image"] = *req.CoverImage
	}
	if req.Budget != nil {
		budget := *req.Budget
		trip.Budget = &budget
		fields["budget"] = budget
	}
	if req.IsPublic != nil {
		trip.IsPublic = *req.IsPublic
		fields["is_public"] = *req.IsPublic
	}

	if req.StartDate != nil || req.EndDate != nil {
		start, end := trip.StartDate, trip.EndDate
		var err error
		if req.StartDate != nil {
			if start, err = parseDate(*req.StartDate); err != nil {
				return nil, err
			}
		}
		if req.EndDate != nil {
			if end, err = parseDate(*req.EndDate); err != nil {
				return nil, err
			}
		}
		if !start.Before(end) {
			return nil, utils.NewValidationError("end_date must be after start_date")
		}
		if req.StartDate != nil {
			trip.StartDate = start
			fields["start_date"] = start
		}
		if req.EndDate != nil {
			trip.EndDate = end
			fields["end_date"] = end
		}
	}

	return fields, nil
}
