package nlu

import (
	"strings"

	"carsearch/internal/model"
)

// ExtractIntent turns free text plus optional catalog hints into a structured
// Intent. It never fails: unparseable fragments leave their fields absent.
// The sub-parsers are independent and order-insensitive with respect to each
// other; a final normalization pass repairs inverted ranges and clamps
// negatives, and is idempotent.
func ExtractIntent(text string, hints *model.CatalogHints) model.Intent {
	text = strings.TrimSpace(text)

	var it model.Intent
	if text == "" {
		it.Kind = model.KindChitchat
		return it
	}

	parseBudget(text, &it)
	parseMileage(text, &it)
	parseYear(text, &it)
	parseCategoricals(text, &it)
	parseMakeModel(text, hints, &it)

	switch {
	case reSellLike.MatchString(text):
		it.Kind = model.KindSell
	case reBuyLike.MatchString(text):
		it.Kind = model.KindBuy
	case reVehicleCtx.MatchString(text) || filledFields(it) > 0:
		// Vehicle context without an explicit verb still reads as shopping.
		it.Kind = model.KindBuy
	default:
		it.Kind = model.KindChitchat
	}

	Normalize(&it)
	it.Confidence = filledFields(it)
	return it
}

// Normalize swaps inverted min/max pairs and clamps numeric fields to be
// non-negative. Safe to apply repeatedly.
func Normalize(it *model.Intent) {
	swapIfInverted(&it.BudgetMin, &it.BudgetMax)
	swapIfInverted(&it.MonthlyMin, &it.MonthlyMax)
	swapIfInverted(&it.MileageMin, &it.MileageMax)
	swapIfInverted(&it.YearMin, &it.YearMax)

	for _, p := range []**int{
		&it.BudgetMin, &it.BudgetMax,
		&it.MonthlyMin, &it.MonthlyMax,
		&it.MileageMin, &it.MileageMax, &it.MileageApprox,
	} {
		if *p != nil && **p < 0 {
			**p = 0
		}
	}
}

func swapIfInverted(min, max **int) {
	if *min != nil && *max != nil && **min > **max {
		*min, *max = *max, *min
	}
}

func filledFields(it model.Intent) int {
	n := 0
	for _, p := range []*int{
		it.BudgetMin, it.BudgetMax, it.MonthlyMin, it.MonthlyMax,
		it.MileageMin, it.MileageMax, it.MileageApprox,
		it.YearMin, it.YearMax, it.YearExact,
	} {
		if p != nil {
			n++
		}
	}
	for _, p := range []*string{
		it.FuelType, it.BodyType, it.Segment, it.Transmission, it.Make, it.Model,
	} {
		if p != nil && *p != "" {
			n++
		}
	}
	if len(it.Colors) > 0 {
		n++
	}
	if len(it.Options) > 0 {
		n++
	}
	if it.NoAccident != nil {
		n++
	}
	return n
}
