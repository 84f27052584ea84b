package service

import (
	"context"
	"testing"

	"carsearch/internal/catalog"
	"carsearch/internal/model"
	"carsearch/internal/search"
	"carsearch/internal/session"
)

func ip(v int) *int { return &v }

func bpt(b bool) *bool { return &b }

func testService(t *testing.T) *SearchService {
	t.Helper()
	listings := []model.Listing{
		{CarNo: "11가1111", CarName: "싼타페 TM", Make: "현대", Model: "싼타페", BodyType: "suv", FuelType: "diesel", Price: ip(2050), Km: ip(62000), Year: ip(2019), NoAccident: bpt(true)},
		{CarNo: "22나2222", CarName: "쏘렌토 MQ4", Make: "기아", Model: "쏘렌토", BodyType: "suv", FuelType: "diesel", Price: ip(3100), Km: ip(21000), Year: ip(2021), NoAccident: bpt(true)},
		{CarNo: "33다3333", CarName: "그랜저 IG", Make: "현대", Model: "그랜저", BodyType: "sedan", FuelType: "gasoline", Price: ip(2400), Km: ip(40000), Year: ip(2020), NoAccident: bpt(false)},
	}
	snap, err := catalog.FromListings(listings, "test")
	if err != nil {
		t.Fatal(err)
	}
	store := catalog.NewStore(snap)
	return NewSearchService(
		store,
		search.NewRanker(nil),
		search.DefaultPolicy(),
		session.NewMemoryStore(0),
		nil,
		20, 100,
	)
}

func TestSearchPipeline(t *testing.T) {
	svc := testService(t)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{
		Query: "디젤 SUV 추천해줘",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("Total = %d, want 2 diesel suvs", resp.Total)
	}
	if resp.Intent == nil || resp.Intent.Kind != model.KindBuy {
		t.Errorf("Intent = %+v, want buy", resp.Intent)
	}
	if len(resp.Relaxed) != 0 {
		t.Errorf("Relaxed = %v, want empty on a strict match", resp.Relaxed)
	}
	for _, r := range resp.Results {
		if r.BodyType != "suv" || r.FuelType != "diesel" {
			t.Errorf("result %s violates the filter: %s %s", r.CarNo, r.BodyType, r.FuelType)
		}
	}
}

func TestSearchRelaxesWhenStrictIsEmpty(t *testing.T) {
	svc := testService(t)

	// Nothing under 2000: the budget must widen until the 2050 car fits.
	resp, err := svc.Search(context.Background(), &model.SearchRequest{
		Query: "2000만원 이하 디젤 SUV",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total == 0 {
		t.Fatal("expected relaxation to produce candidates")
	}
	if len(resp.Relaxed) == 0 {
		t.Errorf("Relaxed = %v, want at least one step", resp.Relaxed)
	}
}

func TestSearchChitchatReturnsNoListings(t *testing.T) {
	svc := testService(t)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "안녕하세요"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 0 || len(resp.Results) != 0 {
		t.Errorf("chitchat produced %d results", resp.Total)
	}
	if resp.Intent == nil || resp.Intent.Kind != model.KindChitchat {
		t.Errorf("Intent = %+v, want chitchat", resp.Intent)
	}
}

func TestSearchSessionCarryOver(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, &model.SearchRequest{
		Query:     "3천만원 이하 디젤",
		SessionID: "sess-1",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Follow-up names only the body type; the budget and fuel carry over.
	resp, err := svc.Search(ctx, &model.SearchRequest{
		Query:     "SUV로 보여줘",
		SessionID: "sess-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Intent.BudgetMax == nil || *resp.Intent.BudgetMax != 3000 {
		t.Errorf("BudgetMax = %v, want 3000 carried from the previous turn", resp.Intent.BudgetMax)
	}
	if resp.Intent.FuelType == nil || *resp.Intent.FuelType != "diesel" {
		t.Errorf("FuelType = %v, want diesel carried over", resp.Intent.FuelType)
	}
	if resp.Total != 1 {
		t.Errorf("Total = %d, want only the 2050 diesel suv", resp.Total)
	}

	// Reset clears the carried state.
	svc.ResetSession("sess-1")
	resp, err = svc.Search(ctx, &model.SearchRequest{
		Query:     "SUV로 보여줘",
		SessionID: "sess-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Intent.BudgetMax != nil {
		t.Errorf("BudgetMax = %v after reset, want nil", resp.Intent.BudgetMax)
	}
}

func TestSearchTopK(t *testing.T) {
	svc := testService(t)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{
		Query:   "차 추천해줘",
		Options: &model.SearchOptions{TopK: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 {
		t.Errorf("got %d results, want 1", len(resp.Results))
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, want the pre-truncation count 3", resp.Total)
	}
}

func TestSearchColorQuery(t *testing.T) {
	// The feed carries Korean color names; the extractor emits canonical
	// keys. The two must meet in the middle without relaxation.
	feed := `[
		{"carNo":"11가1111","carName":"그랜저 IG","brand":"현대","fuel":"가솔린","bodyType":"세단","demoAmt":2400,"km":40000,"yyyy":2020,"color":{"name":"검정"}},
		{"carNo":"22나2222","carName":"쏘나타 DN8","brand":"현대","fuel":"가솔린","bodyType":"세단","demoAmt":2200,"km":30000,"yyyy":2021,"color":{"name":"화이트"}}
	]`
	snap, err := catalog.Build([]byte(feed))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewSearchService(catalog.NewStore(snap), search.NewRanker(nil), nil, nil, nil, 20, 100)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "검정색 세단 추천해줘"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 {
		t.Fatalf("Total = %d, want only the black sedan", resp.Total)
	}
	if len(resp.Relaxed) != 0 {
		t.Errorf("Relaxed = %v, a matching color must not need relaxation", resp.Relaxed)
	}
	if resp.Results[0].CarNo != "11가1111" || resp.Results[0].Color != "black" {
		t.Errorf("result = %s color %q, want the black 그랜저", resp.Results[0].CarNo, resp.Results[0].Color)
	}
}

func TestSearchSellValuation(t *testing.T) {
	svc := testService(t)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{
		Query: "그랜저 2016년식 12만km 시세 알려줘",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Intent.Kind != model.KindSell {
		t.Fatalf("Kind = %q, want sell", resp.Intent.Kind)
	}
	if resp.Total != 0 || len(resp.Results) != 0 {
		t.Errorf("sell query produced %d listings", resp.Total)
	}
	v := resp.Valuation
	if v == nil || v.Estimate == nil {
		t.Fatalf("Valuation = %+v, want an estimate", v)
	}
	if v.Estimate.Low > v.Estimate.Mid || v.Estimate.Mid > v.Estimate.High {
		t.Errorf("estimate band not ordered: %+v", v.Estimate)
	}
	if len(v.Comparables) == 0 || v.Comparables[0].CarNo != "33다3333" {
		t.Errorf("Comparables = %v, want the 그랜저 first", v.Comparables)
	}
}

func TestSearchSellMissingInfo(t *testing.T) {
	svc := testService(t)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "제 차 팔고 싶어요"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Intent.Kind != model.KindSell {
		t.Fatalf("Kind = %q, want sell", resp.Intent.Kind)
	}
	v := resp.Valuation
	if v == nil || v.Estimate != nil {
		t.Fatalf("Valuation = %+v, want only the missing fields", v)
	}
	if len(v.Missing) != 3 {
		t.Errorf("Missing = %v, want 차명, 연식 and 주행거리", v.Missing)
	}
}

func TestMaintenanceChecklist(t *testing.T) {
	svc := testService(t)

	l, checklist, err := svc.MaintenanceChecklist(context.Background(), "11가1111")
	if err != nil {
		t.Fatal(err)
	}
	if l == nil || l.CarNo != "11가1111" {
		t.Fatalf("listing = %+v", l)
	}
	// 62,000km passes the 60,000 threshold but not 80,000.
	found := false
	for _, item := range checklist {
		if item == "타이밍벨트/워터펌프 점검(차종별 해당 시)" {
			t.Errorf("checklist %v includes the 80,000km item at 62,000km", checklist)
		}
		if item == "브레이크 패드/디스크, 점화플러그/코일 점검" {
			found = true
		}
	}
	if !found {
		t.Errorf("checklist %v misses the 60,000km item", checklist)
	}

	l, _, err = svc.MaintenanceChecklist(context.Background(), "없는번호")
	if err != nil {
		t.Fatal(err)
	}
	if l != nil {
		t.Errorf("unknown car returned %+v", l)
	}
}

func TestGetListing(t *testing.T) {
	svc := testService(t)

	l, err := svc.GetListing(context.Background(), "22나2222")
	if err != nil {
		t.Fatal(err)
	}
	if l == nil || l.CarName != "쏘렌토 MQ4" {
		t.Errorf("GetListing = %+v", l)
	}

	l, err = svc.GetListing(context.Background(), "없는번호")
	if err != nil {
		t.Fatal(err)
	}
	if l != nil {
		t.Errorf("missing car returned %+v", l)
	}
}
