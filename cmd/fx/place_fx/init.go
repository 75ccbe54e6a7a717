package place_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
	mem "tripplanner/pkg/memcache"
)

var Module = fx.Provide(
	providePlaceRepo, providePlaceService)

func providePlaceRepo(db *gorm.DB) repositories.PlaceRepository {
	return repositories.NewPlaceRepository(db)
}

func providePlaceService(placeRepo repositories.PlaceRepository, cache mem.PlaceCache) services.PlaceServiceInterface {
	return services.NewPlaceService(placeRepo, cache)
}
