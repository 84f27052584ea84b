package valuation

import (
	"math"
	"sort"
	"strings"

	"carsearch/internal/model"
	"carsearch/internal/search"
)

// Sell-side price estimation from comparable inventory. The subject car is
// matched against the catalog by name, year and mileage; the closest listings
// are price-adjusted to the subject's age and mileage, and the quoted band
// comes from the quartiles of the adjusted prices.

const (
	// price correction per model-year of age difference
	yearDecay = 0.05
	// price correction per 10,000km of mileage difference
	mileageDecayPer10k = 0.015

	maxComparables = 12
)

// Subject describes the car being valued. CarName is required for a useful
// estimate; Year and Km refine the adjustment, FuelType narrows the pool.
type Subject struct {
	CarName  string
	FuelType *string
	Year     *int
	Km       *int
}

// BuildComparables selects the listings most similar to the subject and
// derives a price band from them. The returned listings are the comparables
// in similarity order; the estimate is zero-valued when no priced listing
// survives the fuel filter.
func BuildComparables(inventory []model.Listing, subj Subject) ([]model.Listing, model.PriceEstimate) {
	type scored struct {
		l model.Listing
		s float64
	}
	cand := make([]scored, 0, len(inventory))
	for _, l := range inventory {
		if l.Price == nil {
			continue
		}
		if subj.FuelType != nil && !strings.EqualFold(l.FuelType, *subj.FuelType) {
			continue
		}
		s := 0.0
		if subj.CarName != "" {
			s += 0.7 * nameSimilarity(l, subj.CarName)
		}
		if subj.Year != nil && l.Year != nil {
			s += 0.2 * math.Max(0, 1-math.Abs(float64(*subj.Year-*l.Year))/5)
		}
		if subj.Km != nil && l.Km != nil {
			s += 0.1 * math.Max(0, 1-math.Abs(float64(*subj.Km-*l.Km))/150000)
		}
		cand = append(cand, scored{l: l, s: s})
	}
	if len(cand) == 0 {
		return nil, model.PriceEstimate{}
	}

	sort.SliceStable(cand, func(a, b int) bool { return cand[a].s > cand[b].s })
	if len(cand) > maxComparables {
		cand = cand[:maxComparables]
	}

	comps := make([]model.Listing, len(cand))
	adjusted := make([]float64, len(cand))
	for i, c := range cand {
		comps[i] = c.l
		adjusted[i] = adjustToSubject(c.l, subj)
	}

	est := model.PriceEstimate{
		Low:  int(math.Round(quantile(adjusted, 0.25))),
		Mid:  int(math.Round(median(adjusted))),
		High: int(math.Round(quantile(adjusted, 0.75))),
	}
	return comps, est
}

// adjustToSubject shifts a comparable's price toward what the subject would
// fetch: a newer subject gains per year of age difference, higher subject
// mileage loses per 10,000km.
func adjustToSubject(comp model.Listing, subj Subject) float64 {
	price := float64(*comp.Price)
	if subj.Year != nil && comp.Year != nil {
		price *= 1 + yearDecay*float64(*subj.Year-*comp.Year)
	}
	if subj.Km != nil && comp.Km != nil {
		price *= 1 - mileageDecayPer10k*float64(*subj.Km-*comp.Km)/10000
	}
	return math.Max(0, price)
}

// nameSimilarity is the fraction of the subject's name tokens found in the
// listing's assembled document.
func nameSimilarity(l model.Listing, name string) float64 {
	want := search.Tokenize(name)
	if len(want) == 0 {
		return 0
	}
	have := map[string]bool{}
	for _, tok := range search.Tokenize(l.Document()) {
		have[tok] = true
	}
	hit := 0
	for _, tok := range want {
		if have[tok] {
			hit++
		}
	}
	return float64(hit) / float64(len(want))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	a := append([]float64(nil), vals...)
	sort.Float64s(a)
	m := len(a) / 2
	if len(a)%2 == 1 {
		return a[m]
	}
	return (a[m-1] + a[m]) / 2
}

func quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	a := append([]float64(nil), vals...)
	sort.Float64s(a)
	i := int(math.Floor(float64(len(a)-1) * q))
	return a[i]
}
