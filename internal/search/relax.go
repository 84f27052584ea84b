package search

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"carsearch/internal/model"
)

// Progressive constraint relaxation. When the strict filter yields nothing,
// constraints are widened or dropped one step at a time in policy order,
// re-filtering after each step and stopping at the first non-empty result.
// Widening always preserves direction: a cheap-car request is never relaxed
// into an expensive-car suggestion.

// minHistoricYear floors year relaxation so the lower bound stays sane.
const minHistoricYear = 1990

// Policy defines the relaxation step order. The default order is a fixed
// heuristic kept for behavioral compatibility; it is policy, not invariant,
// so it can be replaced from a config file.
type Policy struct {
	Order []string `yaml:"order"`
}

// DefaultPolicy returns the built-in relaxation order:
// mileage, budget, year, then categorical drops.
func DefaultPolicy() *Policy {
	return &Policy{Order: []string{
		"mileage", "budget", "year",
		"segment", "fuelType", "bodyType", "transmission", "colors",
		"make", "model", "noAccident",
	}}
}

// LoadPolicy reads a relaxation policy from a YAML file. Unknown step names
// are rejected so a typo cannot silently disable a relaxation step.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read relax policy: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse relax policy: %w", err)
	}
	if len(p.Order) == 0 {
		return DefaultPolicy(), nil
	}
	valid := map[string]bool{}
	for _, s := range DefaultPolicy().Order {
		valid[s] = true
	}
	for _, s := range p.Order {
		if !valid[s] {
			return nil, fmt.Errorf("relax policy: unknown step %q", s)
		}
	}
	return &p, nil
}

// FilterWithRelaxation filters the catalog, relaxing one constraint at a time
// in policy order until candidates appear or no relaxable constraint remains.
// The log records every relaxation step actually attempted, in order.
func FilterWithRelaxation(catalog []model.Listing, intent model.Intent, policy *Policy) model.RelaxResult {
	if policy == nil {
		policy = DefaultPolicy()
	}

	used := cloneIntent(intent)
	relaxed := []string{}
	out := Filter(catalog, used)

	for _, step := range policy.Order {
		if len(out) > 0 {
			break
		}
		key, applied := applyStep(&used, step)
		if !applied {
			continue
		}
		relaxed = append(relaxed, key)
		out = Filter(catalog, used)
	}

	return model.RelaxResult{Candidates: out, UsedIntent: used, Relaxed: relaxed}
}

// applyStep mutates the intent for one relaxation step. Returns the log key
// and whether the step was applicable (an absent constraint is not tried).
func applyStep(used *model.Intent, step string) (string, bool) {
	switch step {
	case "mileage":
		switch {
		case used.MileageMin != nil && used.MileageMax == nil:
			*used.MileageMin = maxOf(0, int(math.Floor(float64(*used.MileageMin)*0.9)))
			return "mileageMin-10%", true
		case used.MileageMax != nil && used.MileageMin == nil:
			*used.MileageMax = int(math.Ceil(float64(*used.MileageMax) * 1.1))
			return "mileageMax+10%", true
		case used.MileageMin != nil && used.MileageMax != nil:
			*used.MileageMin = maxOf(0, int(math.Floor(float64(*used.MileageMin)*0.9)))
			*used.MileageMax = int(math.Ceil(float64(*used.MileageMax) * 1.1))
			return "mileage±10%", true
		}
	case "budget":
		if used.BudgetMax != nil {
			*used.BudgetMax = int(math.Ceil(float64(*used.BudgetMax) * 1.1))
			return "budgetMax+10%", true
		}
		if used.BudgetMin != nil {
			*used.BudgetMin = maxOf(0, int(math.Floor(float64(*used.BudgetMin)*0.9)))
			return "budgetMin-10%", true
		}
	case "year":
		if used.YearMin != nil {
			*used.YearMin = maxOf(minHistoricYear, *used.YearMin-1)
			return "yearMin-1", true
		}
		if used.YearMax != nil {
			*used.YearMax = *used.YearMax + 1
			return "yearMax+1", true
		}
	case "segment":
		if used.Segment != nil {
			used.Segment = nil
			return "segment", true
		}
	case "fuelType":
		if used.FuelType != nil {
			used.FuelType = nil
			return "fuelType", true
		}
	case "bodyType":
		if used.BodyType != nil {
			used.BodyType = nil
			return "bodyType", true
		}
	case "transmission":
		if used.Transmission != nil {
			used.Transmission = nil
			return "transmission", true
		}
	case "colors":
		if len(used.Colors) > 0 {
			used.Colors = nil
			return "colors", true
		}
	case "make":
		if used.Make != nil {
			used.Make = nil
			return "make", true
		}
	case "model":
		if used.Model != nil {
			used.Model = nil
			return "model", true
		}
	case "noAccident":
		if used.NoAccident != nil {
			used.NoAccident = nil
			return "noAccident", true
		}
	}
	return "", false
}

// cloneIntent deep-copies pointer fields so relaxation never mutates the
// caller's intent.
func cloneIntent(it model.Intent) model.Intent {
	out := it
	for _, pp := range []**int{
		&out.BudgetMin, &out.BudgetMax, &out.MonthlyMin, &out.MonthlyMax,
		&out.MileageMin, &out.MileageMax, &out.MileageApprox,
		&out.YearMin, &out.YearMax, &out.YearExact,
	} {
		if *pp != nil {
			v := **pp
			*pp = &v
		}
	}
	for _, pp := range []**string{
		&out.FuelType, &out.BodyType, &out.Segment, &out.Transmission,
		&out.Make, &out.Model,
	} {
		if *pp != nil {
			v := **pp
			*pp = &v
		}
	}
	if out.NoAccident != nil {
		v := *out.NoAccident
		out.NoAccident = &v
	}
	out.Colors = append([]string(nil), it.Colors...)
	out.Options = append([]string(nil), it.Options...)
	return out
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
