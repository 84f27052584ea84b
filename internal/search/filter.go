package search

import (
	"strings"

	"carsearch/internal/model"
)

// Filter returns the listings satisfying every present intent field, in the
// catalog's original order. Absent intent fields impose no constraint. A
// listing whose own field is unknown fails any constraint on that field: an
// unknown price never satisfies a price ceiling.
func Filter(catalog []model.Listing, intent model.Intent) []model.Listing {
	out := make([]model.Listing, 0, len(catalog))
	for _, l := range catalog {
		if matches(l, intent) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l model.Listing, it model.Intent) bool {
	if it.Make != nil && !containsCI(l.Make, *it.Make) {
		return false
	}
	if it.Model != nil {
		// The catalog's model field may be empty while the car name still
		// carries the model, so match against both.
		if !containsCI(l.Model, *it.Model) && !containsCI(l.CarName, *it.Model) {
			return false
		}
	}
	if it.FuelType != nil && !equalCI(l.FuelType, *it.FuelType) {
		return false
	}
	if it.BodyType != nil && !equalCI(l.BodyType, *it.BodyType) {
		return false
	}
	if it.Segment != nil && !equalCI(l.Segment, *it.Segment) {
		return false
	}
	if it.Transmission != nil && !equalCI(l.Transmission, *it.Transmission) {
		return false
	}

	if len(it.Colors) > 0 && !anyContainsCI(l.Color, it.Colors) {
		return false
	}
	if len(it.Options) > 0 && !anyOptionMatch(l.Options, it.Options) {
		return false
	}

	if it.NoAccident != nil && (l.NoAccident == nil || *l.NoAccident != *it.NoAccident) {
		return false
	}

	if !inRange(l.Price, it.BudgetMin, it.BudgetMax) {
		return false
	}
	if !inRange(l.MonthlyPrice, it.MonthlyMin, it.MonthlyMax) {
		return false
	}
	if !inRange(l.Km, it.MileageMin, it.MileageMax) {
		return false
	}
	if !inRange(l.Year, it.YearMin, it.YearMax) {
		return false
	}
	if it.YearExact != nil && (l.Year == nil || *l.Year != *it.YearExact) {
		return false
	}

	return true
}

// inRange applies inclusive bounds; a present bound with an absent value is
// a failure, not a wildcard.
func inRange(v, min, max *int) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}

func equalCI(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

func containsCI(s, sub string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsCI(s string, subs []string) bool {
	for _, sub := range subs {
		if containsCI(s, sub) {
			return true
		}
	}
	return false
}

// anyOptionMatch passes when any wanted option is contained in any listing
// option tag.
func anyOptionMatch(have []string, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if containsCI(h, w) {
				return true
			}
		}
	}
	return false
}
