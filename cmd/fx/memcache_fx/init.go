package memcache_fx

import (
	"go.uber.org/fx"
	"tripplanner/internal/config"
	mem "tripplanner/pkg/memcache"
)

var Module = fx.Provide(providePlaceCache)

func providePlaceCache(cfg config.Config) mem.PlaceCache {
	return mem.NewPlaceCache(cfg.PlaceCacheTTL)
}
