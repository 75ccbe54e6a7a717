package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// The model's output has no guaranteed schema. Everything below reads it
// leniently: unknown or malformed parts become empty values, never errors.

type OptimizationPlan struct {
	Days []DayOptimization
}

type DayOptimization struct {
	Day       int
	NewOrder  []PlannedEntry
	TimeSaved string
	Reasoning string
}

type PlannedEntry struct {
	EntryID   uuid.UUID
	Order     int
	Reasoning string
}

// TripSuggestions holds the three categories of a place-suggestion response.
// A category that is missing, or is not a list made only of objects, is empty.
type TripSuggestions struct {
	Places             []map[string]any
	RouteOptimizations []map[string]any
	BudgetTips         []map[string]any
}

func decodeDocument(raw []byte) map[string]any {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc
}

// ParseOptimizationPlan reads {"optimizations":[{"day":1,"newOrder":[{"id":"..","order":0}]}]}.
func ParseOptimizationPlan(raw []byte) OptimizationPlan {
	var plan OptimizationPlan

	items, _ := decodeDocument(raw)["optimizations"].([]any)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		day, ok := asInt(obj["day"])
		if !ok || day < 1 {
			continue
		}

		d := DayOptimization{
			Day:       day,
			TimeSaved: asString(obj["timeSaved"]),
			Reasoning: asString(obj["reasoning"]),
		}

		entries, _ := obj["newOrder"].([]any)
		for i, e := range entries {
			entry, ok := e.(map[string]any)
			if !ok {
				continue
			}
			id, err := uuid.Parse(asString(entry["id"]))
			if err != nil {
				continue
			}
			order, ok := asInt(entry["order"])
			if !ok {
				order = i
			}
			d.NewOrder = append(d.NewOrder, PlannedEntry{
				EntryID:   id,
				Order:     order,
				Reasoning: asString(entry["reasoning"]),
			})
		}

		plan.Days = append(plan.Days, d)
	}

	return plan
}

// ParseTripSuggestions reads {"places":[..],"routeOptimizations":[..],"budgetTips":[..]}.
func ParseTripSuggestions(raw []byte) TripSuggestions {
	doc := decodeDocument(raw)
	return TripSuggestions{
		Places:             objectList(doc["places"]),
		RouteOptimizations: objectList(doc["routeOptimizations"]),
		BudgetTips:         objectList(doc["budgetTips"]),
	}
}

func objectList(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		out = append(out, obj)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}
