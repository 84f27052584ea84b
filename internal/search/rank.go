package search

import (
	"sort"
	"strings"

	"carsearch/internal/model"
)

// maxRanked caps how many results a single ranking pass returns.
const maxRanked = 200

// Default blend weights. A weight bundle may override any of these by key.
var defaultWeights = map[string]float64{
	"tfidf":            0.5,
	"intentMatch":      0.2,
	"price":            0.12,
	"km":               0.12,
	"year":             0.06,
	"diversityPenalty": 0.12,
}

// Ranker scores filtered candidates against the query and intent, then
// applies a greedy diversity pass so one brand cannot flood the top of the
// list. Construct once and reuse; Rank is safe for concurrent use.
type Ranker struct {
	weights map[string]float64
	vec     *Vectorizer
}

func NewRanker(bundle *model.WeightBundle) *Ranker {
	w := make(map[string]float64, len(defaultWeights))
	for k, v := range defaultWeights {
		w[k] = v
	}
	if bundle != nil {
		for k, v := range bundle.Weights {
			if _, ok := w[k]; ok {
				w[k] = v
			}
		}
	}
	return &Ranker{weights: w, vec: NewVectorizer(bundle)}
}

type candidateStats struct {
	minPrice, maxPrice int
	minKm, maxKm       int
	minYear, maxYear   int
}

// Rank scores every candidate and returns at most maxRanked results,
// highest adjusted score first. Without a usable vocabulary the text signal
// is zero for everyone and ordering falls back to the structured signals.
func (r *Ranker) Rank(query string, intent model.Intent, candidates []model.Listing) []model.ListingSearchResult {
	if len(candidates) == 0 {
		return nil
	}

	var queryVec []float64
	if r.vec != nil {
		queryVec = r.vec.Vector(query)
	}
	stats := collectStats(candidates)

	type scored struct {
		idx     int
		score   float64
		reasons []string
	}
	all := make([]scored, len(candidates))
	for i := range candidates {
		s, reasons := r.score(&candidates[i], intent, queryVec, stats)
		all[i] = scored{idx: i, score: s, reasons: reasons}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].score > all[b].score })

	limit := len(all)
	if limit > maxRanked {
		limit = maxRanked
	}
	penalty := r.weights["diversityPenalty"]
	seen := make(map[string]int)
	picked := make([]bool, len(all))
	out := make([]model.ListingSearchResult, 0, limit)
	for len(out) < limit {
		best := -1
		bestScore := 0.0
		for j := range all {
			if picked[j] {
				continue
			}
			brand := strings.ToLower(candidates[all[j].idx].Make)
			adj := all[j].score - float64(seen[brand])*penalty
			if best == -1 || adj > bestScore {
				best, bestScore = j, adj
			}
		}
		picked[best] = true
		l := candidates[all[best].idx]
		seen[strings.ToLower(l.Make)]++
		out = append(out, model.ListingSearchResult{
			Listing:        l,
			Score:          all[best].score,
			MatchedReasons: all[best].reasons,
		})
	}
	return out
}

func (r *Ranker) score(l *model.Listing, intent model.Intent, queryVec []float64, stats candidateStats) (float64, []string) {
	var reasons []string

	text := r.textSimilarity(l, queryVec)
	if text > 0.1 {
		reasons = append(reasons, "text")
	}

	cat := categoryMatch(l, intent)
	if cat >= 1 {
		reasons = append(reasons, "intent")
	}

	price := priceCloseness(l, intent, stats)
	if price > 0.8 && (intent.BudgetMin != nil || intent.BudgetMax != nil) {
		reasons = append(reasons, "price")
	}
	km := kmCloseness(l, intent, stats)
	if km > 0.8 && (intent.MileageMin != nil || intent.MileageMax != nil) {
		reasons = append(reasons, "mileage")
	}
	year := yearCloseness(l, intent, stats)
	if year > 0.8 && (intent.YearMin != nil || intent.YearMax != nil || intent.YearExact != nil) {
		reasons = append(reasons, "year")
	}

	total := r.weights["tfidf"]*text +
		r.weights["intentMatch"]*cat +
		r.weights["price"]*price +
		r.weights["km"]*km +
		r.weights["year"]*year
	return total, reasons
}

func (r *Ranker) textSimilarity(l *model.Listing, queryVec []float64) float64 {
	if r.vec == nil || len(queryVec) == 0 {
		return 0
	}
	if len(l.DocVector) == r.vec.Dim() {
		return cosine32(queryVec, l.DocVector)
	}
	return Cosine(queryVec, r.vec.Vector(l.Document()))
}

// categoryMatch is the fraction of categorical intent fields the listing
// satisfies, zero when the intent carries none. Enumerated fields compare by
// equality; make and model by containment, since the catalog's make strings
// can carry sub-brand suffixes and the model often lives in the car name.
func categoryMatch(l *model.Listing, intent model.Intent) float64 {
	present, matched := 0, 0
	checkEq := func(want *string, got string) {
		if want == nil {
			return
		}
		present++
		if equalCI(got, *want) {
			matched++
		}
	}
	checkSub := func(want *string, got string, alt string) {
		if want == nil {
			return
		}
		present++
		if containsCI(got, *want) || (alt != "" && containsCI(alt, *want)) {
			matched++
		}
	}
	checkEq(intent.FuelType, l.FuelType)
	checkEq(intent.BodyType, l.BodyType)
	checkEq(intent.Segment, l.Segment)
	checkEq(intent.Transmission, l.Transmission)
	checkSub(intent.Make, l.Make, "")
	checkSub(intent.Model, l.Model, l.CarName)
	if len(intent.Colors) > 0 {
		present++
		if anyContainsCI(l.Color, intent.Colors) {
			matched++
		}
	}
	if intent.NoAccident != nil {
		present++
		if l.NoAccident != nil && *l.NoAccident == *intent.NoAccident {
			matched++
		}
	}
	if present == 0 {
		return 0
	}
	return float64(matched) / float64(present)
}

func priceCloseness(l *model.Listing, intent model.Intent, stats candidateStats) float64 {
	min, max := intent.BudgetMin, intent.BudgetMax
	if min == nil && max == nil {
		min, max = intent.MonthlyMin, intent.MonthlyMax
		if min == nil && max == nil {
			return 0
		}
		if l.MonthlyPrice == nil {
			return 0
		}
		return closeness(*l.MonthlyPrice, min, max, stats.minPrice, stats.maxPrice)
	}
	if l.Price == nil {
		return 0
	}
	return closeness(*l.Price, min, max, stats.minPrice, stats.maxPrice)
}

func kmCloseness(l *model.Listing, intent model.Intent, stats candidateStats) float64 {
	if intent.MileageMin == nil && intent.MileageMax == nil {
		return 0
	}
	if l.Km == nil {
		return 0
	}
	km := *l.Km
	switch {
	case intent.MileageMin != nil && intent.MileageMax != nil:
		return closeness(km, intent.MileageMin, intent.MileageMax, stats.minKm, stats.maxKm)
	case intent.MileageMax != nil:
		// lower mileage is better under a cap
		return clamp01(1 - float64(km)/float64(maxOf(1, *intent.MileageMax)))
	default:
		span := maxOf(1, stats.maxKm-*intent.MileageMin)
		return clamp01(float64(km-*intent.MileageMin) / float64(span))
	}
}

func yearCloseness(l *model.Listing, intent model.Intent, stats candidateStats) float64 {
	min, max := intent.YearMin, intent.YearMax
	if intent.YearExact != nil {
		v := *intent.YearExact
		min, max = &v, &v
	}
	if min == nil && max == nil {
		return 0
	}
	if l.Year == nil {
		return 0
	}
	y := *l.Year
	switch {
	case min != nil && max != nil:
		if y >= *min && y <= *max {
			return 1
		}
		return closeness(y, min, max, stats.minYear, stats.maxYear)
	case max != nil:
		span := maxOf(1, *max-stats.minYear)
		return clamp01(float64(y-stats.minYear) / float64(span))
	default:
		span := maxOf(1, stats.maxYear-*min)
		return clamp01(float64(y-*min) / float64(span))
	}
}

// closeness scores a value against a [min,max] band, using candidate-pool
// extremes to normalise one-sided constraints. With both bounds the score is
// distance from the band midpoint over the band width, so a value at either
// edge of the stated band lands at 0.5.
func closeness(v int, min, max *int, poolMin, poolMax int) float64 {
	switch {
	case min != nil && max != nil:
		mid := float64(*min+*max) / 2
		span := float64(maxOf(1, *max-*min))
		return clamp01(1 - abs64(float64(v)-mid)/span)
	case max != nil:
		span := *max - poolMin
		if span <= 0 {
			return 1
		}
		return clamp01(1 - float64(*max-v)/float64(span))
	default:
		span := poolMax - *min
		if span <= 0 {
			return 1
		}
		return clamp01(1 - float64(v-*min)/float64(span))
	}
}

func collectStats(candidates []model.Listing) candidateStats {
	s := candidateStats{}
	var sawPrice, sawKm, sawYear bool
	for i := range candidates {
		l := &candidates[i]
		if l.Price != nil {
			if !sawPrice || *l.Price < s.minPrice {
				s.minPrice = *l.Price
			}
			if !sawPrice || *l.Price > s.maxPrice {
				s.maxPrice = *l.Price
			}
			sawPrice = true
		}
		if l.Km != nil {
			if !sawKm || *l.Km < s.minKm {
				s.minKm = *l.Km
			}
			if !sawKm || *l.Km > s.maxKm {
				s.maxKm = *l.Km
			}
			sawKm = true
		}
		if l.Year != nil {
			if !sawYear || *l.Year < s.minYear {
				s.minYear = *l.Year
			}
			if !sawYear || *l.Year > s.maxYear {
				s.maxYear = *l.Year
			}
			sawYear = true
		}
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
