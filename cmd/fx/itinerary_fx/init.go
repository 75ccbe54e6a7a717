package itinerary_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
)

var Module = fx.Provide(provideItineraryRepo, provideItineraryService)

func provideItineraryRepo(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func provideItineraryService(
	guard services.AccessGuardInterface,
	tripRepo repositories.TripRepository,
	placeRepo repositories.PlaceRepository,
	itineraryRepo repositories.ItineraryRepository,
	transactor repositories.Transactor,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(guard, tripRepo, placeRepo, itineraryRepo, transactor)
}
