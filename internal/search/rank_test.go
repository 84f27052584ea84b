package search

import (
	"math"
	"reflect"
	"testing"

	"carsearch/internal/model"
)

func TestRankDeterministic(t *testing.T) {
	r := NewRanker(nil)
	catalog := testCatalog()
	intent := model.Intent{BudgetMax: ip(5000)}

	first := r.Rank("디젤 SUV", intent, catalog)
	second := r.Rank("디젤 SUV", intent, catalog)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].CarNo != second[i].CarNo {
			t.Errorf("order differs at %d: %s vs %s", i, first[i].CarNo, second[i].CarNo)
		}
	}
}

func TestRankBrandDiversity(t *testing.T) {
	r := NewRanker(nil)
	catalog := []model.Listing{
		listing("11가1111", "현대", "suv", "diesel", 2000, 40000, 2019),
		listing("22나2222", "현대", "suv", "diesel", 2000, 40000, 2019),
		listing("33다3333", "현대", "suv", "diesel", 2000, 40000, 2019),
		listing("44라4444", "기아", "suv", "diesel", 2000, 40000, 2019),
	}
	intent := model.Intent{FuelType: sp("diesel")}

	got := r.Rank("", intent, catalog)
	if len(got) != 4 {
		t.Fatalf("got %d results, want 4", len(got))
	}
	// Raw scores tie, so the second pick must come from the other brand.
	if got[0].Make != "현대" || got[1].Make != "기아" {
		t.Errorf("order = [%s %s %s %s], want the second result to switch brands",
			got[0].Make, got[1].Make, got[2].Make, got[3].Make)
	}
}

func TestRankPrefersCategoricalMatch(t *testing.T) {
	r := NewRanker(nil)
	catalog := []model.Listing{
		listing("11가1111", "현대", "sedan", "gasoline", 2000, 40000, 2019),
		listing("22나2222", "기아", "suv", "diesel", 2000, 40000, 2019),
	}
	intent := model.Intent{FuelType: sp("diesel"), BodyType: sp("suv")}

	got := r.Rank("", intent, catalog)
	if got[0].CarNo != "22나2222" {
		t.Errorf("top result = %s, want the diesel suv", got[0].CarNo)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not ordered: %f <= %f", got[0].Score, got[1].Score)
	}
}

func TestRankPricePullsTowardBudget(t *testing.T) {
	r := NewRanker(nil)
	catalog := []model.Listing{
		listing("11가1111", "현대", "suv", "diesel", 500, 40000, 2019),
		listing("22나2222", "기아", "suv", "diesel", 1950, 40000, 2019),
	}
	// Under a 2000 ceiling the near-ceiling car scores higher on price.
	intent := model.Intent{BudgetMax: ip(2000)}

	got := r.Rank("", intent, catalog)
	if got[0].CarNo != "22나2222" {
		t.Errorf("top result = %s, want the near-budget car", got[0].CarNo)
	}
}

func TestRankDegradesWithoutVocabulary(t *testing.T) {
	r := NewRanker(&model.WeightBundle{Weights: map[string]float64{"tfidf": 0.9}})
	catalog := testCatalog()

	got := r.Rank("디젤 SUV 추천", model.Intent{}, catalog)
	if len(got) != len(catalog) {
		t.Fatalf("got %d results, want %d", len(got), len(catalog))
	}
	// No vocabulary means the text signal is flat zero; results still come
	// back scored by the structured signals.
	for _, res := range got {
		if res.Score < 0 {
			t.Errorf("negative score %f for %s", res.Score, res.CarNo)
		}
	}
}

func TestRankUsesBundleWeights(t *testing.T) {
	bundle := &model.WeightBundle{
		Weights: map[string]float64{"diversityPenalty": 0},
	}
	r := NewRanker(bundle)
	catalog := []model.Listing{
		listing("11가1111", "현대", "suv", "diesel", 2000, 40000, 2019),
		listing("22나2222", "현대", "suv", "diesel", 2000, 40000, 2019),
		listing("33다3333", "기아", "suv", "diesel", 2000, 40000, 2019),
	}

	got := r.Rank("", model.Intent{FuelType: sp("diesel")}, catalog)
	// With the penalty zeroed the tie-break is stable input order.
	want := []string{"11가1111", "22나2222", "33다3333"}
	var gotNos []string
	for _, res := range got {
		gotNos = append(gotNos, res.CarNo)
	}
	if !reflect.DeepEqual(gotNos, want) {
		t.Errorf("order = %v, want %v", gotNos, want)
	}
}

func TestRankCapsResults(t *testing.T) {
	r := NewRanker(nil)
	catalog := make([]model.Listing, 0, maxRanked+50)
	for i := 0; i < maxRanked+50; i++ {
		catalog = append(catalog, listing("차량", "현대", "suv", "diesel", 2000, 40000, 2019))
	}
	got := r.Rank("", model.Intent{}, catalog)
	if len(got) != maxRanked {
		t.Errorf("got %d results, want cap %d", len(got), maxRanked)
	}
}

func TestPriceClosenessBandMidpoint(t *testing.T) {
	// With both bounds the score is distance from the midpoint over the band
	// width: the midpoint scores 1 and either band edge scores 0.5.
	intent := model.Intent{BudgetMin: ip(1000), BudgetMax: ip(2000)}
	tests := []struct {
		price int
		want  float64
	}{
		{1500, 1},
		{1000, 0.5},
		{2000, 0.5},
		{900, 0.4},
		{500, 0},
	}
	for _, tt := range tests {
		l := model.Listing{Price: ip(tt.price)}
		got := priceCloseness(&l, intent, candidateStats{})
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("price %d = %f, want %f", tt.price, got, tt.want)
		}
	}
}

func TestSignalsZeroWithoutConstraints(t *testing.T) {
	l := listing("11가1111", "현대", "suv", "diesel", 2000, 40000, 2019)
	var it model.Intent
	stats := candidateStats{}

	if got := categoryMatch(&l, it); got != 0 {
		t.Errorf("categoryMatch = %f, want 0 with no categorical constraints", got)
	}
	if got := priceCloseness(&l, it, stats); got != 0 {
		t.Errorf("priceCloseness = %f, want 0 with no budget", got)
	}
	if got := kmCloseness(&l, it, stats); got != 0 {
		t.Errorf("kmCloseness = %f, want 0 with no mileage bound", got)
	}
	if got := yearCloseness(&l, it, stats); got != 0 {
		t.Errorf("yearCloseness = %f, want 0 with no year bound", got)
	}
}

func TestCategoryMatchRequiresExactEnums(t *testing.T) {
	l := listing("11가1111", "현대", "suv", "hev", 2000, 40000, 2019)
	it := model.Intent{FuelType: sp("ev")}
	if got := categoryMatch(&l, it); got != 0 {
		t.Errorf("categoryMatch = %f, substring fuel value must not pass", got)
	}
	l.FuelType = "ev"
	if got := categoryMatch(&l, it); got != 1 {
		t.Errorf("categoryMatch = %f, want 1 on an exact fuel match", got)
	}
}

func TestRankMatchedReasons(t *testing.T) {
	r := NewRanker(nil)
	catalog := []model.Listing{
		listing("11가1111", "현대", "suv", "diesel", 2000, 40000, 2019),
	}
	intent := model.Intent{FuelType: sp("diesel"), BodyType: sp("suv"), BudgetMax: ip(2000)}

	got := r.Rank("", intent, catalog)
	reasons := map[string]bool{}
	for _, re := range got[0].MatchedReasons {
		reasons[re] = true
	}
	if !reasons["intent"] {
		t.Errorf("MatchedReasons = %v, want intent", got[0].MatchedReasons)
	}
	if !reasons["price"] {
		t.Errorf("MatchedReasons = %v, want price", got[0].MatchedReasons)
	}
}
