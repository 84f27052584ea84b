package nlu

import "carsearch/internal/model"

// Categorical resolution by first-matching-keyword-set lookup. Ties are
// broken by table order, which is part of the contract.

func parseCategoricals(text string, out *model.Intent) {
	if k := firstMatch(fuelTable, text); k != "" {
		out.FuelType = strPtr(k)
	}
	if k := firstMatch(bodyTable, text); k != "" {
		out.BodyType = strPtr(k)
	}
	if k := firstMatch(segmentTable, text); k != "" {
		out.Segment = strPtr(k)
	}
	if k := firstMatch(transmissionTable, text); k != "" {
		out.Transmission = strPtr(k)
	}

	for _, e := range colorTable {
		if e.re.MatchString(text) {
			out.Colors = append(out.Colors, e.key)
		}
	}

	// Accident history: when both keyword sets fire, the has-accident set
	// wins — an explicit accident mention outranks its negated form.
	switch {
	case reHasAccident.MatchString(text):
		out.NoAccident = boolPtr(false)
	case reNoAccident.MatchString(text):
		out.NoAccident = boolPtr(true)
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
