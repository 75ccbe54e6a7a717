package mem

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	dbm "tripplanner/internal/models/db_models"
)

// PlaceCache keeps recently read places keyed by id.
type PlaceCache interface {
	Get(placeID uuid.UUID) (dbm.Place, bool)
	Set(place dbm.Place)

	// Forget drops a place so the next read goes to the database.
	// Writers call it after every change to the place.
	Forget(placeID uuid.UUID)
}

type placeCache struct {
	c *cache.Cache
}

func NewPlaceCache(ttl time.Duration) PlaceCache {
	return &placeCache{c: cache.New(ttl, 2*ttl)}
}

func (p *placeCache) Get(placeID uuid.UUID) (dbm.Place, bool) {
	v, ok := p.c.Get(placeID.String())
	if !ok {
		return dbm.Place{}, false
	}
	place, ok := v.(dbm.Place)
	return place, ok
}

func (p *placeCache) Set(place dbm.Place) {
	place.Photos = slices.Clone(place.Photos)
	place.OpeningHours = slices.Clone(place.OpeningHours)
	p.c.SetDefault(place.ID.String(), place)
}

func (p *placeCache) Forget(placeID uuid.UUID) {
	p.c.Delete(placeID.String())
}
