package catalog

import (
	"sort"
	"strings"

	"github.com/spf13/cast"

	"rainbow-properties/internal/models"
)

// SearchQuery holds the server-side search filters. Absent filters are
// no-ops; present filters compose with logical AND.
type SearchQuery struct {
	Location string // case-insensitive substring over location, city OR area
	MinPrice *int   // inclusive
	MaxPrice *int   // inclusive
	Bedrooms *int   // minimum, inclusive
	Type     string // case-insensitive exact match; "all" disables
}

// Matches reports whether a property passes every present filter.
func (q SearchQuery) Matches(p models.Property) bool {
	if q.Location != "" && !matchesLocation(p, q.Location) {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.Bedrooms != nil && p.Bedrooms < *q.Bedrooms {
		return false
	}
	if q.Type != "" && !strings.EqualFold(q.Type, "all") &&
		!strings.EqualFold(p.Type, q.Type) {
		return false
	}
	return true
}

// FilterProperties is the one filter implementation shared by the search
// endpoint and the listing-page refinement, so the two cannot drift.
func FilterProperties(properties []models.Property, q SearchQuery) []models.Property {
	out := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if q.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func matchesLocation(p models.Property, needle string) bool {
	needle = strings.ToLower(needle)
	return strings.Contains(strings.ToLower(p.Location), needle) ||
		strings.Contains(strings.ToLower(p.City), needle) ||
		strings.Contains(strings.ToLower(p.Area), needle)
}

// Sort keys accepted by SortProperties. Anything else falls back to newest.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortArea      = "area"
)

// RefineOptions reproduce the listing page's client-side refinement over a
// fetched result set.
type RefineOptions struct {
	Query      string // free text over title, location, city, area
	Type       string // exact, case-insensitive; "" or "all" disables
	Location   string // substring over location, city, area
	PriceRange string // "min-max" token, commas tolerated, open max; "all" disables
	SortBy     string
}

// Refine filters then sorts a property list.
func Refine(properties []models.Property, opts RefineOptions) []models.Property {
	filtered := properties

	if opts.Query != "" {
		needle := strings.ToLower(opts.Query)
		filtered = keep(filtered, func(p models.Property) bool {
			return strings.Contains(strings.ToLower(p.Title), needle) ||
				matchesLocation(p, opts.Query)
		})
	}

	if opts.Type != "" && !strings.EqualFold(opts.Type, "all") {
		filtered = keep(filtered, func(p models.Property) bool {
			return strings.EqualFold(p.Type, opts.Type)
		})
	}

	if opts.Location != "" && !strings.EqualFold(opts.Location, "all") {
		filtered = keep(filtered, func(p models.Property) bool {
			return matchesLocation(p, opts.Location)
		})
	}

	if min, max, ok := ParsePriceRange(opts.PriceRange); ok {
		filtered = keep(filtered, func(p models.Property) bool {
			if p.Price < min {
				return false
			}
			return max == 0 || p.Price <= max
		})
	}

	return SortProperties(filtered, opts.SortBy)
}

// ParsePriceRange parses a "min-max" token ("1000000-2000000"); a missing
// max means unbounded (returned as 0). Returns ok=false for "" and "all".
func ParsePriceRange(token string) (min, max int, ok bool) {
	if token == "" || strings.EqualFold(token, "all") {
		return 0, 0, false
	}
	parts := strings.SplitN(token, "-", 2)
	min = cast.ToInt(strings.ReplaceAll(parts[0], ",", ""))
	if len(parts) == 2 {
		max = cast.ToInt(strings.ReplaceAll(parts[1], ",", ""))
	}
	return min, max, true
}

// SortProperties returns a sorted copy. "newest" (createdAt descending) is
// the default and the fallback for unrecognized keys; "area" sorts by sqft
// descending with absent sqft treated as 0.
func SortProperties(properties []models.Property, sortBy string) []models.Property {
	sorted := make([]models.Property, len(properties))
	copy(sorted, properties)

	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price < sorted[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price > sorted[j].Price
		})
	case SortArea:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Sqft > sorted[j].Sqft
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}
	return sorted
}

func keep(properties []models.Property, pred func(models.Property) bool) []models.Property {
	out := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
