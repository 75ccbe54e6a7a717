package services

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	dbm "tripplanner/internal/models/db_models"
	"tripplanner/internal/repositories"
	mem "tripplanner/pkg/memcache"
)

// memoryStore implements every repository the services use on plain maps.
// memoryTransactor snapshots it so a failed unit of work leaves no trace.
type memoryStore struct {
	mu          sync.Mutex
	seq         int64
	trips       map[uuid.UUID]dbm.Trip
	places      map[uuid.UUID]dbm.Place
	entries     map[uuid.UUID]dbm.ItineraryEntry
	suggestions map[uuid.UUID]dbm.AISuggestion
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		trips:       map[uuid.UUID]dbm.Trip{},
		places:      map[uuid.UUID]dbm.Place{},
		entries:     map[uuid.UUID]dbm.ItineraryEntry{},
		suggestions: map[uuid.UUID]dbm.AISuggestion{},
	}
}

type storeSnapshot struct {
	trips       map[uuid.UUID]dbm.Trip
	places      map[uuid.UUID]dbm.Place
	entries     map[uuid.UUID]dbm.ItineraryEntry
	suggestions map[uuid.UUID]dbm.AISuggestion
}

func (s *memoryStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storeSnapshot{
		trips:       maps.Clone(s.trips),
		places:      maps.Clone(s.places),
		entries:     maps.Clone(s.entries),
		suggestions: maps.Clone(s.suggestions),
	}
}

func (s *memoryStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = snap.trips
	s.places = snap.places
	s.entries = snap.entries
	s.suggestions = snap.suggestions
}

func (s *memoryStore) stamp(b *dbm.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.seq++
	b.CreatedAt = s.seq
	b.UpdatedAt = s.seq
}

// fixtures

func (s *memoryStore) addTrip(ownerID uuid.UUID, public bool) dbm.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trip := dbm.Trip{
		OwnerID:     ownerID,
		Title:       "Trip",
		Destination: "Lisbon",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 3),
		IsPublic:    public,
	}
	_ = s.CreateTrip(context.Background(), &trip)
	return trip
}

func (s *memoryStore) addPlace(name string) dbm.Place {
	place := dbm.Place{Name: name, Latitude: 38.7, Longitude: -9.1, Category: dbm.PlaceAttraction}
	_ = s.CreatePlace(context.Background(), &place)
	return place
}

func (s *memoryStore) addPlaceAt(name string, category dbm.PlaceCategory, lat, lng float64) dbm.Place {
	place := dbm.Place{Name: name, Latitude: lat, Longitude: lng, Category: category}
	_ = s.CreatePlace(context.Background(), &place)
	return place
}

func (s *memoryStore) addEntry(tripID, placeID uuid.UUID, day, order int) dbm.ItineraryEntry {
	entry := dbm.ItineraryEntry{TripID: tripID, PlaceID: placeID, Day: day, Order: order}
	_ = s.CreateEntry(context.Background(), &entry)
	return entry
}

func (s *memoryStore) entry(id uuid.UUID) (dbm.ItineraryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *memoryStore) suggestion(id uuid.UUID) dbm.AISuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions[id]
}

func (s *memoryStore) suggestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.suggestions)
}

// TripRepository

func (s *memoryStore) CreateTrip(_ context.Context, trip *dbm.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&trip.BaseModel)
	s.trips[trip.ID] = *trip
	return nil
}

func (s *memoryStore) GetTripByID(_ context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *memoryStore) LockOwnedTrip(ctx context.Context, tripID, ownerID uuid.UUID) (*dbm.Trip, error) {
	t, _ := s.GetTripByID(ctx, tripID)
	if t == nil || t.OwnerID != ownerID {
		return nil, nil
	}
	return t, nil
}

func (s *memoryStore) listTrips(keep func(dbm.Trip) bool) []dbm.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []dbm.Trip
	for _, t := range s.trips {
		if keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b dbm.Trip) int { return int(b.CreatedAt - a.CreatedAt) })
	return out
}

func (s *memoryStore) ListTripsByOwner(_ context.Context, ownerID uuid.UUID) ([]dbm.Trip, error) {
	return s.listTrips(func(t dbm.Trip) bool { return t.OwnerID == ownerID }), nil
}

func (s *memoryStore) ListPublicTrips(_ context.Context) ([]dbm.Trip, error) {
	return s.listTrips(func(t dbm.Trip) bool { return t.IsPublic }), nil
}

func (s *memoryStore) UpdateOwnedTrip(_ context.Context, tripID, ownerID uuid.UUID, fields map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			t.Title = v.(string)
		case "destination":
			t.Destination = v.(string)
		case "description":
			t.Description = v.(string)
		case "cover_image":
			t.CoverImage = v.(string)
		case "budget":
			b := v.(float64)
			t.Budget = &b
		case "is_public":
			t.IsPublic = v.(bool)
		case "start_date":
			t.StartDate = v.(time.Time)
		case "end_date":
			t.EndDate = v.(time.Time)
		}
	}
	s.trips[tripID] = t
	return true, nil
}

func (s *memoryStore) DeleteOwnedTrip(_ context.Context, tripID, ownerID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	delete(s.trips, tripID)
	maps.DeleteFunc(s.entries, func(_ uuid.UUID, e dbm.ItineraryEntry) bool { return e.TripID == tripID })
	maps.DeleteFunc(s.suggestions, func(_ uuid.UUID, a dbm.AISuggestion) bool { return a.TripID == tripID })
	return true, nil
}

// PlaceRepository

func (s *memoryStore) CreatePlace(_ context.Context, place *dbm.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&place.BaseModel)
	s.places[place.ID] = *place
	return nil
}

func (s *memoryStore) GetPlaceByID(_ context.Context, placeID uuid.UUID) (*dbm.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memoryStore) UpdatePlace(_ context.Context, placeID uuid.UUID, fields map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v.(string)
		case "description":
			p.Description = v.(string)
		case "address":
			p.Address = v.(string)
		case "latitude":
			p.Latitude = v.(float64)
		case "longitude":
			p.Longitude = v.(float64)
		case "category":
			p.Category = v.(dbm.PlaceCategory)
		case "rating":
			r := v.(float64)
			p.Rating = &r
		case "price_level":
			l := v.(int)
			p.PriceLevel = &l
		case "photos":
			p.Photos = v.(pq.StringArray)
		case "website":
			p.Website = v.(string)
		case "phone":
			p.Phone = v.(string)
		case "opening_hours":
			p.OpeningHours = v.(datatypes.JSON)
		case "google_place_id":
			id := v.(string)
			p.GooglePlaceID = &id
		}
	}
	s.places[placeID] = p
	return true, nil
}

func byRating(a, b dbm.Place) int {
	ra, rb := -1.0, -1.0
	if a.Rating != nil {
		ra = *a.Rating
	}
	if b.Rating != nil {
		rb = *b.Rating
	}
	return cmp.Compare(rb, ra)
}

func (s *memoryStore) SearchPlaces(_ context.Context, filter repositories.PlaceFilter) ([]dbm.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(filter.Query)
	var out []dbm.Place
	for _, p := range s.places {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Address), q) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, byRating)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memoryStore) ListPlacesInBox(_ context.Context, box repositories.BoundingBox, category dbm.PlaceCategory, limit int) ([]dbm.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []dbm.Place
	for _, p := range s.places {
		if category != "" && p.Category != category {
			continue
		}
		if p.Latitude < box.MinLat || p.Latitude > box.MaxLat || p.Longitude < box.MinLng || p.Longitude > box.MaxLng {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, byRating)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ItineraryRepository

func (s *memoryStore) withPlace(e dbm.ItineraryEntry) dbm.ItineraryEntry {
	e.Place = s.places[e.PlaceID]
	return e
}

func (s *memoryStore) ownedLocked(entryID, ownerID uuid.UUID) (dbm.ItineraryEntry, bool) {
	e, ok := s.entries[entryID]
	if !ok {
		return e, false
	}
	t, ok := s.trips[e.TripID]
	return e, ok && t.OwnerID == ownerID
}

func (s *memoryStore) CreateEntry(_ context.Context, entry *dbm.ItineraryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&entry.BaseModel)
	entry.Seq = s.seq
	stored := *entry
	stored.Place = dbm.Place{}
	s.entries[entry.ID] = stored
	return nil
}

func (s *memoryStore) GetEntryWithPlace(_ context.Context, entryID uuid.UUID) (*dbm.ItineraryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok {
		return nil, nil
	}
	e = s.withPlace(e)
	return &e, nil
}

func (s *memoryStore) GetOwnedEntry(_ context.Context, entryID, ownerID uuid.UUID) (*dbm.ItineraryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.ownedLocked(entryID, ownerID)
	if !ok {
		return nil, nil
	}
	e = s.withPlace(e)
	return &e, nil
}

func (s *memoryStore) UpdateOwnedEntry(_ context.Context, entryID, ownerID uuid.UUID, fields map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.ownedLocked(entryID, ownerID)
	if !ok {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case "day":
			e.Day = v.(int)
		case "order":
			e.Order = v.(int)
		case "date":
			e.Date = v.(*time.Time)
		case "start_time":
			st := v.(string)
			e.StartTime = &st
		case "end_time":
			et := v.(string)
			e.EndTime = &et
		case "notes":
			n := v.(string)
			e.Notes = &n
		case "estimated_cost":
			c := v.(float64)
			e.EstimatedCost = &c
		case "transport_mode":
			m := v.(dbm.TransportMode)
			e.TransportMode = &m
		}
	}
	s.entries[entryID] = e
	return true, nil
}

func (s *memoryStore) DeleteOwnedEntry(_ context.Context, entryID, ownerID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownedLocked(entryID, ownerID); !ok {
		return false, nil
	}
	delete(s.entries, entryID)
	return true, nil
}

func (s *memoryStore) ListEntriesByTrip(_ context.Context, tripID uuid.UUID) ([]dbm.ItineraryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []dbm.ItineraryEntry
	for _, e := range s.entries {
		if e.TripID == tripID {
			out = append(out, s.withPlace(e))
		}
	}
	SortEntries(out)
	return out, nil
}

func (s *memoryStore) ReorderEntries(_ context.Context, tripID, ownerID uuid.UUID, positions []repositories.EntryPosition) error {
	snap := s.snapshot()

	s.mu.Lock()
	t, ok := s.trips[tripID]
	if !ok || t.OwnerID != ownerID {
		s.mu.Unlock()
		return repositories.ErrTripNotOwned
	}
	var foreign []uuid.UUID
	for _, p := range positions {
		e, ok := s.entries[p.EntryID]
		if !ok || e.TripID != tripID {
			foreign = append(foreign, p.EntryID)
			continue
		}
		e.Day, e.Order = p.Day, p.Order
		s.entries[p.EntryID] = e
	}
	s.mu.Unlock()

	if len(foreign) > 0 {
		s.restore(snap)
		return &repositories.ReorderConflictError{EntryIDs: foreign}
	}
	return nil
}

// SuggestionRepository

func (s *memoryStore) CreateSuggestions(_ context.Context, suggestions []dbm.AISuggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range suggestions {
		s.stamp(&suggestions[i].BaseModel)
		s.suggestions[suggestions[i].ID] = suggestions[i]
	}
	return nil
}

func (s *memoryStore) LockOwnedSuggestion(_ context.Context, suggestionID, userID uuid.UUID) (*dbm.AISuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.suggestions[suggestionID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	return &a, nil
}

func (s *memoryStore) SetAcceptance(_ context.Context, suggestionID, userID uuid.UUID, accepted bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.suggestions[suggestionID]
	if !ok || a.UserID != userID {
		return false, nil
	}
	a.IsAccepted = &accepted
	s.suggestions[suggestionID] = a
	return true, nil
}

func (s *memoryStore) ListSuggestionsByTrip(_ context.Context, tripID uuid.UUID) ([]dbm.AISuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []dbm.AISuggestion
	for _, a := range s.suggestions {
		if a.TripID == tripID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b dbm.AISuggestion) int { return int(b.CreatedAt - a.CreatedAt) })
	return out, nil
}

type memoryTransactor struct {
	store *memoryStore
}

func (t memoryTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// fakeLLM returns a canned completion, or blocks until the deadline when hang is set.
type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	hang     bool
	prompts  []string
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, _ float32) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type servicesUnderTest struct {
	store       *memoryStore
	llm         *fakeLLM
	guard       AccessGuardInterface
	trips       TripServiceInterface
	places      PlaceServiceInterface
	itinerary   ItineraryServiceInterface
	suggestions SuggestionServiceInterface
}

func newServicesUnderTest(aiTimeout time.Duration) *servicesUnderTest {
	store := newMemoryStore()
	llm := &fakeLLM{}
	tx := memoryTransactor{store: store}
	guard := NewAccessGuard(store)

	return &servicesUnderTest{
		store:       store,
		llm:         llm,
		guard:       guard,
		trips:       NewTripService(guard, store, store, tx),
		places:      NewPlaceService(store, mem.NewPlaceCache(time.Minute)),
		itinerary:   NewItineraryService(guard, store, store, store, tx),
		suggestions: NewSuggestionService(guard, store, store, store, tx, llm, aiTimeout, nil),
	}
}
