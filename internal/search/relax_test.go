package search

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"carsearch/internal/model"
)

func TestFilterWithRelaxationNoRelaxWhenStrictMatches(t *testing.T) {
	catalog := testCatalog()
	intent := model.Intent{BodyType: sp("suv")}

	res := FilterWithRelaxation(catalog, intent, nil)
	if len(res.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(res.Candidates))
	}
	if len(res.Relaxed) != 0 {
		t.Errorf("Relaxed = %v, want empty", res.Relaxed)
	}
}

func TestFilterWithRelaxationStopsAtFirstNonEmpty(t *testing.T) {
	catalog := []model.Listing{
		listing("11가1111", "현대", "sedan", "gasoline", 1400, 40000, 2018),
	}
	// Budget fits after widening; body type still wrong until dropped.
	intent := model.Intent{BodyType: sp("suv"), BudgetMax: ip(1300)}

	res := FilterWithRelaxation(catalog, intent, nil)
	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(res.Candidates))
	}
	want := []string{"budgetMax+10%", "bodyType"}
	if !reflect.DeepEqual(res.Relaxed, want) {
		t.Errorf("Relaxed = %v, want %v", res.Relaxed, want)
	}
}

func TestFilterWithRelaxationPreservesDirection(t *testing.T) {
	// A cheap-car request must widen upward by exactly one step, never jump
	// to arbitrary expensive cars.
	catalog := []model.Listing{
		listing("11가1111", "현대", "suv", "diesel", 2150, 40000, 2018),
		listing("22나2222", "BMW", "suv", "diesel", 9000, 10000, 2023),
	}
	intent := model.Intent{BudgetMax: ip(2000)}

	res := FilterWithRelaxation(catalog, intent, nil)
	if len(res.Candidates) != 1 || res.Candidates[0].CarNo != "11가1111" {
		t.Fatalf("candidates = %v, want only the near-budget car", res.Candidates)
	}
	if res.UsedIntent.BudgetMax == nil || *res.UsedIntent.BudgetMax != 2200 {
		t.Errorf("UsedIntent.BudgetMax = %v, want 2200", res.UsedIntent.BudgetMax)
	}
}

func TestFilterWithRelaxationMileageShapes(t *testing.T) {
	tests := []struct {
		name    string
		intent  model.Intent
		wantKey string
	}{
		{"ceiling", model.Intent{MileageMax: ip(10000)}, "mileageMax+10%"},
		{"floor", model.Intent{MileageMin: ip(900000)}, "mileageMin-10%"},
		{"band", model.Intent{MileageMin: ip(500000), MileageMax: ip(600000)}, "mileage±10%"},
	}

	catalog := testCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FilterWithRelaxation(catalog, tt.intent, nil)
			if len(res.Relaxed) == 0 || res.Relaxed[0] != tt.wantKey {
				t.Errorf("Relaxed = %v, want first step %q", res.Relaxed, tt.wantKey)
			}
		})
	}
}

func TestFilterWithRelaxationDoesNotMutateCaller(t *testing.T) {
	catalog := []model.Listing{
		listing("11가1111", "현대", "sedan", "gasoline", 5000, 40000, 2018),
	}
	intent := model.Intent{BudgetMax: ip(1000), BodyType: sp("suv")}

	_ = FilterWithRelaxation(catalog, intent, nil)
	if *intent.BudgetMax != 1000 {
		t.Errorf("caller's BudgetMax mutated to %d", *intent.BudgetMax)
	}
	if intent.BodyType == nil {
		t.Errorf("caller's BodyType dropped")
	}
}

func TestFilterWithRelaxationDropsUnmatchedColor(t *testing.T) {
	car := listing("11가1111", "현대", "sedan", "gasoline", 2400, 40000, 2020)
	car.Color = "black"
	catalog := []model.Listing{car}
	intent := model.Intent{Colors: []string{"red"}}

	res := FilterWithRelaxation(catalog, intent, nil)
	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want the color constraint dropped", len(res.Candidates))
	}
	if !reflect.DeepEqual(res.Relaxed, []string{"colors"}) {
		t.Errorf("Relaxed = %v, want [colors]", res.Relaxed)
	}
	if len(res.UsedIntent.Colors) != 0 {
		t.Errorf("UsedIntent.Colors = %v, want empty after the drop", res.UsedIntent.Colors)
	}
}

func TestFilterWithRelaxationExhaustion(t *testing.T) {
	// Nothing can match: the log must contain every applicable step once.
	intent := model.Intent{BudgetMax: ip(100), FuelType: sp("diesel")}
	res := FilterWithRelaxation(nil, intent, nil)
	if len(res.Candidates) != 0 {
		t.Fatalf("expected no candidates")
	}
	want := []string{"budgetMax+10%", "fuelType"}
	if !reflect.DeepEqual(res.Relaxed, want) {
		t.Errorf("Relaxed = %v, want %v", res.Relaxed, want)
	}
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(good, []byte("order:\n  - budget\n  - mileage\n  - bodyType\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPolicy(good)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if !reflect.DeepEqual(p.Order, []string{"budget", "mileage", "bodyType"}) {
		t.Errorf("Order = %v", p.Order)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("order:\n  - budgte\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPolicy(bad); err == nil {
		t.Error("expected error for unknown step name")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("order: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err = LoadPolicy(empty)
	if err != nil {
		t.Fatalf("LoadPolicy empty: %v", err)
	}
	if !reflect.DeepEqual(p.Order, DefaultPolicy().Order) {
		t.Errorf("empty policy should fall back to default order")
	}
}
