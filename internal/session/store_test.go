package session

import (
	"testing"
	"time"

	"carsearch/internal/model"
)

func ip(v int) *int { return &v }

func sp(s string) *string { return &s }

func TestMemoryStoreTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	s.Put("sess-1", model.Intent{BudgetMax: ip(3000)})

	if got, ok := s.Get("sess-1"); !ok || got.BudgetMax == nil || *got.BudgetMax != 3000 {
		t.Fatalf("Get right after Put = (%v, %v)", got, ok)
	}

	now = now.Add(59 * time.Second)
	if _, ok := s.Get("sess-1"); !ok {
		t.Error("entry expired before its TTL")
	}

	now = now.Add(2 * time.Second)
	if _, ok := s.Get("sess-1"); ok {
		t.Error("entry survived past its TTL")
	}
}

func TestMemoryStoreEvict(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	s.Put("sess-1", model.Intent{})
	s.Evict("sess-1")
	if _, ok := s.Get("sess-1"); ok {
		t.Error("evicted entry still present")
	}
}

func TestMemoryStoreIgnoresEmptyID(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	s.Put("", model.Intent{})
	if _, ok := s.Get(""); ok {
		t.Error("empty session id must never store")
	}
}

func TestMergeFillsOnlyAbsentFields(t *testing.T) {
	previous := model.Intent{
		BudgetMin: ip(1500),
		BudgetMax: ip(2200),
		FuelType:  sp("diesel"),
		BodyType:  sp("suv"),
		Colors:    []string{"white"},
	}
	current := model.Intent{
		Colors: []string{"black"},
	}

	got := Merge(current, previous)

	if got.BudgetMin == nil || *got.BudgetMin != 1500 {
		t.Errorf("BudgetMin = %v, want carried 1500", got.BudgetMin)
	}
	if got.BudgetMax == nil || *got.BudgetMax != 2200 {
		t.Errorf("BudgetMax = %v, want carried 2200", got.BudgetMax)
	}
	if got.FuelType == nil || *got.FuelType != "diesel" {
		t.Errorf("FuelType = %v, want carried diesel", got.FuelType)
	}
	// The current turn said black, so white must not leak through.
	if len(got.Colors) != 1 || got.Colors[0] != "black" {
		t.Errorf("Colors = %v, want [black]", got.Colors)
	}
}

func TestMergeCurrentTurnWins(t *testing.T) {
	previous := model.Intent{BudgetMax: ip(2000)}
	current := model.Intent{BudgetMax: ip(3000)}

	got := Merge(current, previous)
	if *got.BudgetMax != 3000 {
		t.Errorf("BudgetMax = %d, want the current turn's 3000", *got.BudgetMax)
	}
}

func TestMergeBandCarriesTogether(t *testing.T) {
	// A new single-sided budget must not inherit the other side of an old
	// band, which would fabricate a range the user never asked for.
	previous := model.Intent{BudgetMin: ip(1500), BudgetMax: ip(2200)}
	current := model.Intent{BudgetMax: ip(1000)}

	got := Merge(current, previous)
	if got.BudgetMin != nil {
		t.Errorf("BudgetMin = %v, want nil", got.BudgetMin)
	}
	if *got.BudgetMax != 1000 {
		t.Errorf("BudgetMax = %d, want 1000", *got.BudgetMax)
	}
}

func TestMergeDoesNotAliasPrevious(t *testing.T) {
	previous := model.Intent{BudgetMax: ip(2000)}
	got := Merge(model.Intent{}, previous)
	*got.BudgetMax = 9999
	if *previous.BudgetMax != 2000 {
		t.Errorf("merge aliased the previous intent's pointer")
	}
}
