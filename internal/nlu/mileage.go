package nlu

import (
	"math"
	"regexp"

	"carsearch/internal/model"
)

// Mileage parsing. A distance unit token (km or colloquial equivalents) or a
// driving-distance context word is mandatory; a bare number is never read as
// mileage. Values are kilometers.

var (
	reKmCompound = regexp.MustCompile(`(?i)([0-9]+)\s*만\s*([0-9]+)\s*천\s*(?:km|키로|킬로)?`)
	reKmMan      = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*만\s*(?:km|키로|킬로)`)
	reKmCheon    = regexp.MustCompile(`(?i)([0-9]+)\s*천\s*(?:km|키로|킬로)`)
	reKmPlain    = regexp.MustCompile(`(?i)([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)\s*(?:km|키로|킬로)`)
	reKmShortK   = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*k(?:m)?\b`)
	reKmBareMan  = regexp.MustCompile(`(?i)(?:^|[^0-9.])만\s*(?:km|키로|킬로)`)
)

func parseMileage(text string, out *model.Intent) {
	if !reKmCtx.MatchString(text) {
		return
	}

	base, ok := extractKm(text)
	if !ok {
		return
	}

	approx := reApprox.MatchString(text)
	le := reLE.MatchString(text)
	ge := reGE.MatchString(text)

	band := func(tol float64) {
		out.MileageMin = intPtr(maxInt(0, int(math.Floor(float64(base)*(1-tol)))))
		out.MileageMax = intPtr(int(math.Ceil(float64(base) * (1 + tol))))
		out.MileageApprox = intPtr(base)
	}

	switch {
	case approx:
		tol := 0.2
		if reTight.MatchString(text) {
			tol = 0.1
		}
		band(tol)
	case le && ge:
		band(0.1)
	case le:
		out.MileageMax = intPtr(base)
	case ge:
		out.MileageMin = intPtr(base)
	default:
		// No inequality marker: read conservatively as an upper bound.
		out.MileageMax = intPtr(base)
	}
}

// extractKm pulls a kilometer figure out of the text, trying the most
// specific compound forms first: "2만5천km", "2.5만km", "5천km", "25,000km",
// "30k", bare "만키로".
func extractKm(text string) (int, bool) {
	if m := reKmCompound.FindStringSubmatch(text); m != nil {
		a, okA := parseDigits(m[1])
		b, okB := parseDigits(m[2])
		if okA && okB {
			return int(a)*10000 + int(b)*1000, true
		}
	}
	if m := reKmMan.FindStringSubmatch(text); m != nil {
		if v, ok := parseDigits(m[1]); ok {
			return int(math.Round(v * 10000)), true
		}
	}
	if m := reKmCheon.FindStringSubmatch(text); m != nil {
		if v, ok := parseDigits(m[1]); ok {
			return int(v) * 1000, true
		}
	}
	if m := reKmPlain.FindStringSubmatch(text); m != nil {
		if v, ok := parseDigits(m[1]); ok {
			return int(v), true
		}
	}
	if m := reKmShortK.FindStringSubmatch(text); m != nil {
		if v, ok := parseDigits(m[1]); ok {
			return int(math.Round(v * 1000)), true
		}
	}
	if reKmBareMan.MatchString(text) {
		return 10000, true
	}
	return 0, false
}
