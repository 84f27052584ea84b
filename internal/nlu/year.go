package nlu

import (
	"regexp"
	"strconv"
	"time"

	"carsearch/internal/model"
)

// Model-year parsing. Two-digit years pivot at 30: <30 maps into the 2000s,
// >=30 into the 1900s.

var nowYear = time.Now().Year()

var (
	reYearRange  = regexp.MustCompile(`([0-9]{4}|[0-9]{2})\s*[~\-–—]\s*([0-9]{4}|[0-9]{2})\s*년\s*(?:식|형)?`)
	reYearDecade = regexp.MustCompile(`([0-9]{4}|[0-9]{2})\s*년\s*대`)
	reYearRel    = regexp.MustCompile(`([0-9]{4}|[0-9]{2})\s*년\s*(이후|이전)`)
	reYearFull   = regexp.MustCompile(`(20[0-9]{2}|19[0-9]{2})\s*년\s*(?:식|형)?`)
	reYearTwo    = regexp.MustCompile(`([0-9]{2})\s*년\s*(?:식|형)?`)
	reYearNew    = regexp.MustCompile(`신형|최신`)
	reYearOld    = regexp.MustCompile(`구형|올드`)
)

func parseYear(text string, out *model.Intent) {
	le := reLE.MatchString(text)
	ge := reGE.MatchString(text)

	// "16~19년식" style range.
	if m := reYearRange.FindStringSubmatch(text); m != nil {
		a := pivotYear(m[1])
		b := pivotYear(m[2])
		out.YearMin = intPtr(minInt(a, b))
		out.YearMax = intPtr(maxInt(a, b))
		return
	}

	// Decade: "2010년대" -> 2010..2019; two-digit "90년대" -> 1990..1999.
	// "20년대" and "19년대" read as century shorthand (2000s / 1900s).
	if m := reYearDecade.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		var y0 int
		switch {
		case n >= 1900:
			y0 = n - n%10
		case n == 19 || n == 20:
			y0 = n * 100
		default:
			y0 = pivotYear(m[1]) / 10 * 10
		}
		out.YearMin = intPtr(y0)
		out.YearMax = intPtr(y0 + 9)
		return
	}

	// Explicit before/after.
	if m := reYearRel.FindStringSubmatch(text); m != nil {
		y := pivotYear(m[1])
		if m[2] == "이후" {
			out.YearMin = intPtr(y)
		} else {
			out.YearMax = intPtr(y)
		}
		return
	}

	if m := reYearFull.FindStringSubmatch(text); m != nil {
		applyYearBounds(out, pivotYear(m[1]), le, ge)
		return
	}
	if m := reYearTwo.FindStringSubmatch(text); m != nil {
		applyYearBounds(out, pivotYear(m[1]), le, ge)
		return
	}

	if reYearNew.MatchString(text) {
		out.YearMin = intPtr(nowYear - 3)
		return
	}
	if reYearOld.MatchString(text) {
		out.YearMax = intPtr(nowYear - 8)
	}
}

func applyYearBounds(out *model.Intent, y int, le, ge bool) {
	switch {
	case le && ge:
		out.YearMin = intPtr(y - 1)
		out.YearMax = intPtr(y + 1)
	case ge:
		out.YearMin = intPtr(y)
	case le:
		out.YearMax = intPtr(y)
	default:
		out.YearExact = intPtr(y)
	}
}

func pivotYear(tok string) int {
	n, _ := strconv.Atoi(tok)
	if len(tok) == 2 {
		if n < 30 {
			return 2000 + n
		}
		return 1900 + n
	}
	return n
}
