package nlu

import (
	"math"
	"regexp"
	"strings"

	"carsearch/internal/model"
)

// Budget parsing. Prices are normalized to 만원 units throughout. A budget
// interpretation only activates when the text carries explicit currency
// context; bare numbers near 천/만/억 without any mileage or year context are
// handled by a conservative shorthand path. Only one interpretation wins, in
// priority order: range > band > single (with approx/le/ge modifiers).

const numTok = `[0-9][0-9,]*(?:\.[0-9]+)?\s*천?|[영공일이삼사오육칠팔구십백천]+`

var (
	reMonthly = regexp.MustCompile(`월\s*([0-9][0-9,]*(?:\.[0-9]+)?|[영공일이삼사오육칠팔구십백천]+)\s*만\s*원?`)

	reBudgetRange = regexp.MustCompile(`(` + numTok + `)\s*(억|만\s*원|만|원)?\s*[~\-–—]\s*(` + numTok + `)\s*(억|만\s*원|만|원)?`)
	reBudgetBand  = regexp.MustCompile(`(` + numTok + `)\s*만?\s*원?\s*대`)
	reBudgetUnit  = regexp.MustCompile(`(` + numTok + `)\s*(억|만\s*원|만|원)`)
	reBudgetKw    = regexp.MustCompile(`(?:예산|가격|금액|차값|가격대)\s*(` + numTok + `)`)

	reShortExclude = regexp.MustCompile(`(?i)km|키로|킬로|주행|연식|년`)
	reShortScale   = regexp.MustCompile(`억|천|만`)
	reShortCheon   = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*천\s*만?`)
	reShortMan     = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*만`)
	reShortEok     = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*억`)

	reManWon = regexp.MustCompile(`만\s*원`)

	// A number whose following context is a distance or year token belongs
	// to another sub-parser, whatever unit the budget regex thought it saw.
	reTrailingOther = regexp.MustCompile(`^\s*(?i:km|키로|킬로|k\b|년)`)
)

func parseBudget(text string, out *model.Intent) {
	hasPrice := rePriceCtx.MatchString(text)
	approx := reApprox.MatchString(text)
	le := reLE.MatchString(text)
	ge := reGE.MatchString(text)

	// Monthly installment requires the explicit 월 marker and never collides
	// with the lump-sum budget.
	if m := reMonthly.FindStringSubmatch(text); m != nil {
		if v, ok := priceToken(m[1]); ok {
			val := int(math.Round(v))
			switch {
			case le && ge:
				out.MonthlyMin = intPtr(maxInt(0, int(math.Floor(float64(val)*0.9))))
				out.MonthlyMax = intPtr(int(math.Ceil(float64(val) * 1.1)))
			case ge:
				out.MonthlyMin = intPtr(val)
			default:
				out.MonthlyMax = intPtr(val)
			}
			return
		}
	}

	if !hasPrice {
		// Shorthand like "2천만 정도": only when no mileage/year context
		// could claim the number.
		if !reShortExclude.MatchString(text) && reShortScale.MatchString(text) {
			if m := reShortCheon.FindStringSubmatch(text); m != nil {
				if v, ok := parseDigits(m[1]); ok {
					out.BudgetMax = intPtr(int(math.Round(v * 1000)))
					return
				}
			}
			if m := reShortMan.FindStringSubmatch(text); m != nil {
				if v, ok := parseDigits(m[1]); ok {
					out.BudgetMax = intPtr(int(math.Round(v)))
					return
				}
			}
			if m := reShortEok.FindStringSubmatch(text); m != nil {
				if v, ok := parseDigits(m[1]); ok {
					out.BudgetMax = intPtr(int(math.Round(v * 10000)))
					return
				}
			}
		}
		return
	}

	unitHint := ""
	switch {
	case strings.Contains(text, "억"):
		unitHint = "eok"
	case reManWon.MatchString(text):
		unitHint = "man"
	case strings.Contains(text, "원"):
		unitHint = "won"
	}

	// Explicit range A~B.
	for _, idx := range reBudgetRange.FindAllStringSubmatchIndex(text, -1) {
		if reTrailingOther.MatchString(text[idx[1]:]) {
			continue
		}
		a := submatch(text, idx, 1)
		ua := unitName(submatch(text, idx, 2), unitHint)
		b := submatch(text, idx, 3)
		ub := unitName(submatch(text, idx, 4), unitHint)
		vA, okA := normalizePriceMan(a, ua)
		vB, okB := normalizePriceMan(b, ub)
		if okA && okB {
			out.BudgetMin = intPtr(minInt(vA, vB))
			out.BudgetMax = intPtr(maxInt(vA, vB))
			return
		}
	}

	// "N만원대" band: base .. base+99.
	for _, idx := range reBudgetBand.FindAllStringSubmatchIndex(text, -1) {
		if v, ok := normalizePriceMan(submatch(text, idx, 1), "man"); ok {
			base := maxInt(0, v)
			out.BudgetMin = intPtr(base)
			out.BudgetMax = intPtr(base + 99)
			return
		}
	}

	// Single value with an explicit unit, or following a budget keyword.
	val, found := 0, false
	for _, idx := range reBudgetUnit.FindAllStringSubmatchIndex(text, -1) {
		if reTrailingOther.MatchString(text[idx[1]:]) {
			continue
		}
		if v, ok := normalizePriceMan(submatch(text, idx, 1), unitName(submatch(text, idx, 2), unitHint)); ok {
			val, found = v, true
			break
		}
	}
	if !found {
		if m := reBudgetKw.FindStringSubmatch(text); m != nil {
			if v, ok := normalizePriceMan(m[1], unitHint); ok {
				val, found = v, true
			}
		}
	}
	if !found {
		return
	}

	switch {
	case approx || (le && ge):
		out.BudgetMin = intPtr(maxInt(0, int(math.Floor(float64(val)*0.9))))
		out.BudgetMax = intPtr(int(math.Ceil(float64(val) * 1.1)))
	case ge:
		out.BudgetMin = intPtr(val)
	default:
		out.BudgetMax = intPtr(val)
	}
}

// priceToken parses a numeric token that is either digits (optionally with a
// trailing 천 multiplier) or a hangul numeral.
func priceToken(tok string) (float64, bool) {
	t := strings.Join(strings.Fields(tok), "")
	if t == "" {
		return 0, false
	}
	if strings.ContainsAny(t, "0123456789") {
		mult := 1.0
		if strings.HasSuffix(t, "천") {
			mult = 1000
			t = strings.TrimSuffix(t, "천")
		}
		v, ok := parseDigits(t)
		if !ok || v <= 0 {
			return 0, false
		}
		return v * mult, true
	}
	n := KoNumberToInt(t)
	if n <= 0 {
		return 0, false
	}
	return float64(n), true
}

// normalizePriceMan converts a raw token plus unit into 만원. Without a unit
// the magnitude decides: values of 1억+ are treated as 원, small values as
// already being 만원.
func normalizePriceMan(tok, unit string) (int, bool) {
	n, ok := priceToken(tok)
	if !ok {
		return 0, false
	}
	switch unit {
	case "man":
		return int(math.Round(n)), true
	case "won":
		return int(math.Round(n / 10000)), true
	case "eok":
		return int(math.Round(n * 10000)), true
	}
	if n >= 100000000 {
		return int(math.Round(n / 10000)), true
	}
	if n <= 50000 {
		return int(math.Round(n)), true
	}
	return int(math.Round(n / 10000)), true
}

func unitName(raw, fallback string) string {
	switch strings.Join(strings.Fields(raw), "") {
	case "억":
		return "eok"
	case "만원", "만":
		return "man"
	case "원":
		return "won"
	}
	return fallback
}

func submatch(text string, idx []int, n int) string {
	if 2*n+1 >= len(idx) || idx[2*n] < 0 {
		return ""
	}
	return text[idx[2*n]:idx[2*n+1]]
}

func intPtr(v int) *int { return &v }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
