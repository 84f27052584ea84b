package nlu

import (
	"regexp"
	"strconv"
	"strings"
)

// Korean numeral conversion. Handles 억/만 compounds recursively and
// 천/백/십 blocks with either hangul digits or arabic digits in front,
// e.g. "이천오백" = 2500, "3천5백" = 3500, "1억2천만" = 120,000,000.

var hangulDigits = map[string]int{
	"영": 0, "공": 0,
	"일": 1, "이": 2, "삼": 3, "사": 4, "오": 5,
	"육": 6, "칠": 7, "팔": 8, "구": 9,
}

var smallUnits = []struct {
	word string
	mult int
}{
	{"천", 1000},
	{"백", 100},
	{"십", 10},
}

var reAllDigits = regexp.MustCompile(`^[0-9]+$`)

// KoNumberToInt converts a Korean numeral string to an integer. Unparseable
// input yields 0; callers treat 0 as "no number found".
func KoNumberToInt(text string) int {
	s := strings.Join(strings.Fields(text), "")
	if s == "" {
		return 0
	}
	if left, right, found := strings.Cut(s, "억"); found {
		total := 0
		if left != "" {
			total = KoNumberToInt(left) * 100000000
		} else {
			total = 100000000
		}
		if right != "" {
			total += KoNumberToInt(right)
		}
		return total
	}
	if left, right, found := strings.Cut(s, "만"); found {
		total := 0
		if left != "" {
			total = KoNumberToInt(left) * 10000
		} else {
			total = 10000
		}
		if right != "" {
			total += KoNumberToInt(right)
		}
		return total
	}
	return parseSmallBlock(s)
}

// parseSmallBlock parses the sub-10,000 part: 천/백/십 units with optional
// leading digits, plus a trailing ones place.
func parseSmallBlock(s string) int {
	if reAllDigits.MatchString(s) {
		n, _ := strconv.Atoi(s)
		return n
	}

	rest := s
	val := 0
	for _, u := range smallUnits {
		idx := strings.Index(rest, u.word)
		if idx < 0 {
			continue
		}
		head := rest[:idx]
		n := 1
		if head != "" {
			if reAllDigits.MatchString(head) {
				n, _ = strconv.Atoi(head)
			} else if d, ok := hangulDigits[head]; ok {
				n = d
			} else {
				// Unrecognized prefix, e.g. a stray word; skip this unit.
				continue
			}
		}
		val += n * u.mult
		rest = rest[idx+len(u.word):]
	}

	if rest != "" {
		if reAllDigits.MatchString(rest) {
			n, _ := strconv.Atoi(rest)
			val += n
		} else if d, ok := hangulDigits[rest]; ok {
			val += d
		}
	}
	return val
}

// parseDigits parses a digit token that may contain grouping commas and a
// decimal point. Returns (0, false) when the token has no digits.
func parseDigits(tok string) (float64, bool) {
	t := strings.ReplaceAll(strings.TrimSpace(tok), ",", "")
	if t == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
