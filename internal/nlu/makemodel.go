package nlu

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"carsearch/internal/model"
)

// Fuzzy brand/model resolution against the catalog hints. Query and catalog
// strings are normalized identically; containment matches are preferred with
// the longest candidate winning, then Damerau-Levenshtein with a hard cutoff
// of distance <= 2 and normalized similarity > 0.6.

var (
	foldMarks   = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	reNormStrip = regexp.MustCompile(`[^a-z0-9가-힣]+`)
)

// normalizeKey lowercases, folds diacritics, and strips punctuation and
// whitespace so that "Bénz S-Class" and "benz sclass" compare equal.
func normalizeKey(s string) string {
	s = strings.ToLower(s)
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}
	return reNormStrip.ReplaceAllString(s, "")
}

func parseMakeModel(text string, hints *model.CatalogHints, out *model.Intent) {
	if hints == nil {
		return
	}
	q := normalizeKey(text)
	if q == "" {
		return
	}

	bestModel, bestLen := "", 0
	for _, md := range hints.Models {
		n := normalizeKey(md)
		if n == "" {
			continue
		}
		if strings.Contains(q, n) || strings.Contains(n, q) {
			// Longer candidates are more specific.
			if len(n) > bestLen {
				bestModel, bestLen = md, len(n)
			}
		}
	}

	if bestModel == "" {
		bestSim, bestCandLen := 0.0, 0
		for _, md := range hints.Models {
			n := normalizeKey(md)
			if n == "" {
				continue
			}
			d := damerauLevenshtein(q, n)
			maxLen := maxInt(1, maxInt(len([]rune(q)), len([]rune(n))))
			sim := 1 - float64(d)/float64(maxLen)
			if d <= 2 && sim > 0.6 {
				if sim > bestSim || (sim == bestSim && len(n) > bestCandLen) {
					bestModel, bestSim, bestCandLen = md, sim, len(n)
				}
			}
		}
	}

	if bestModel != "" {
		out.Model = strPtr(bestModel)
	}

	// A brand-by-model table is the higher precision signal: models are
	// rarely shared across brands, so trust it over any brand text match.
	if bestModel != "" && hints.BrandByModel != nil {
		if mk, ok := hints.BrandByModel[strings.ToLower(bestModel)]; ok && mk != "" {
			out.Make = strPtr(mk)
			return
		}
	}

	bestMake, bestMakeLen := "", 0
	for _, mk := range hints.Makes {
		n := normalizeKey(mk)
		if n == "" {
			continue
		}
		if strings.Contains(q, n) || strings.Contains(n, q) {
			if len(n) > bestMakeLen {
				bestMake, bestMakeLen = mk, len(n)
			}
		}
	}
	if bestMake != "" {
		out.Make = strPtr(bestMake)
	}
}

// damerauLevenshtein computes edit distance with adjacent transpositions,
// over runes.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return maxInt(la, lb)
	}

	dp := make([][]int, la+1)
	for i := range dp {
		dp[i] = make([]int, lb+1)
		dp[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d := minInt(dp[i-1][j]+1, minInt(dp[i][j-1]+1, dp[i-1][j-1]+cost))
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d = minInt(d, dp[i-2][j-2]+1)
			}
			dp[i][j] = d
		}
	}
	return dp[la][lb]
}
