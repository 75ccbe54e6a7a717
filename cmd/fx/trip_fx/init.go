package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
)

var Module = fx.Provide(
	provideTripRepo, provideAccessGuard, provideTripService)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideAccessGuard(tripRepo repositories.TripRepository) services.AccessGuardInterface {
	return services.NewAccessGuard(tripRepo)
}

func provideTripService(
	guard services.AccessGuardInterface,
	tripRepo repositories.TripRepository,
	itineraryRepo repositories.ItineraryRepository,
	transactor repositories.Transactor,
) services.TripServiceInterface {
	return services.NewTripService(guard, tripRepo, itineraryRepo, transactor)
}
