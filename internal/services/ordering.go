package services

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/google/uuid"
	dbm "tripplanner/internal/models/db_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

// DayGroup is one day of an itinerary in display order.
type DayGroup struct {
	Day     int
	Entries []dbm.ItineraryEntry
}

// SortEntries orders entries by day, then order, then insertion. Order values
// may have gaps or ties, so equal orders fall back to the insert sequence.
func SortEntries(entries []dbm.ItineraryEntry) {
	slices.SortStableFunc(entries, func(a, b dbm.ItineraryEntry) int {
		if c := cmp.Compare(a.Day, b.Day); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
}

// GroupByDay sorts entries and splits them into per-day groups, ascending by day.
func GroupByDay(entries []dbm.ItineraryEntry) []DayGroup {
	sorted := slices.Clone(entries)
	SortEntries(sorted)

	var groups []DayGroup
	for _, e := range sorted {
		if n := len(groups); n == 0 || groups[n-1].Day != e.Day {
			groups = append(groups, DayGroup{Day: e.Day})
		}
		groups[len(groups)-1].Entries = append(groups[len(groups)-1].Entries, e)
	}
	return groups
}

// ValidatePositions rejects reorder batches that could not leave the
// itinerary in a readable state.
func ValidatePositions(positions []repositories.EntryPosition) error {
	if len(positions) == 0 {
		return utils.NewValidationError("items must not be empty")
	}

	type slot struct{ day, order int }
	seenIDs := make(map[uuid.UUID]struct{}, len(positions))
	seenSlots := make(map[slot]uuid.UUID, len(positions))

	for _, p := range positions {
		if p.EntryID == uuid.Nil {
			return utils.NewValidationError("item id is required")
		}
		if p.Day < 1 {
			return utils.NewValidationError(fmt.Sprintf("day must be at least 1 (entry %s)", p.EntryID))
		}
		if p.Order < 0 {
			return utils.NewValidationError(fmt.Sprintf("order must not be negative (entry %s)", p.EntryID))
		}
		if _, dup := seenIDs[p.EntryID]; dup {
			return utils.NewValidationError(fmt.Sprintf("entry %s appears more than once", p.EntryID))
		}
		seenIDs[p.EntryID] = struct{}{}

		s := slot{p.Day, p.Order}
		if other, dup := seenSlots[s]; dup {
			return utils.NewValidationError(fmt.Sprintf("entries %s and %s share day %d order %d", other, p.EntryID, p.Day, p.Order))
		}
		seenSlots[s] = p.EntryID
	}
	return nil
}

// ItineraryFingerprint summarises the ordering state of a trip's entries.
// Any add, remove, move or reorder changes it; edits to notes or times do not.
func ItineraryFingerprint(entries []dbm.ItineraryEntry) string {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b dbm.ItineraryEntry) int {
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	h := sha256.New()
	for _, e := range sorted {
		fmt.Fprintf(h, "%s:%d:%d;", e.ID, e.Day, e.Order)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// PositionsFromPlan turns a parsed optimization plan into a reorder batch.
// Each day's proposed sequence is renumbered 0..n-1; an entry named twice
// keeps its first placement, and repeated days are merged in plan order.
func PositionsFromPlan(plan OptimizationPlan) []repositories.EntryPosition {
	days := make([]int, 0, len(plan.Days))
	byDay := make(map[int][]PlannedEntry)
	for _, d := range plan.Days {
		if _, ok := byDay[d.Day]; !ok {
			days = append(days, d.Day)
		}
		byDay[d.Day] = append(byDay[d.Day], d.NewOrder...)
	}

	seen := make(map[uuid.UUID]struct{})
	var out []repositories.EntryPosition
	for _, day := range days {
		planned := slices.Clone(byDay[day])
		slices.SortStableFunc(planned, func(a, b PlannedEntry) int {
			return cmp.Compare(a.Order, b.Order)
		})

		next := 0
		for _, p := range planned {
			if _, dup := seen[p.EntryID]; dup {
				continue
			}
			seen[p.EntryID] = struct{}{}
			out = append(out, repositories.EntryPosition{EntryID: p.EntryID, Day: day, Order: next})
			next++
		}
	}
	return out
}

// CompletePlanPositions appends, after the planned sequence of each planned
// day, the entries of that day the plan did not mention, keeping their current
// relative order. Days the plan does not touch are left alone.
func CompletePlanPositions(positions []repositories.EntryPosition, entries []dbm.ItineraryEntry) []repositories.EntryPosition {
	planned := make(map[uuid.UUID]struct{}, len(positions))
	next := make(map[int]int)
	for _, p := range positions {
		planned[p.EntryID] = struct{}{}
		if p.Order+1 > next[p.Day] {
			next[p.Day] = p.Order + 1
		}
	}

	out := slices.Clone(positions)
	for _, group := range GroupByDay(entries) {
		start, ok := next[group.Day]
		if !ok {
			continue
		}
		for _, e := range group.Entries {
			if _, done := planned[e.ID]; done {
				continue
			}
			out = append(out, repositories.EntryPosition{EntryID: e.ID, Day: group.Day, Order: start})
			start++
		}
	}
	return out
}
