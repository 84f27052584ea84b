package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carsearch/internal/catalog"
	"carsearch/internal/model"
	"carsearch/internal/nlu"
	"carsearch/internal/repository"
	"carsearch/internal/search"
	"carsearch/internal/session"
	"carsearch/internal/valuation"
)

// SearchService handles search business logic
type SearchService struct {
	store    *catalog.Store
	ranker   *search.Ranker
	policy   *search.Policy
	sessions session.Store
	repo     *repository.PostgresRepository

	defaultTopK int
	maxTopK     int
}

// NewSearchService creates a new search service. repo is optional and only
// used for search logging; sessions may be nil to disable conversation
// carry-over.
func NewSearchService(
	store *catalog.Store,
	ranker *search.Ranker,
	policy *search.Policy,
	sessions session.Store,
	repo *repository.PostgresRepository,
	defaultTopK, maxTopK int,
) *SearchService {
	if policy == nil {
		policy = search.DefaultPolicy()
	}
	if defaultTopK <= 0 {
		defaultTopK = 20
	}
	if maxTopK <= 0 {
		maxTopK = 100
	}
	return &SearchService{
		store:       store,
		ranker:      ranker,
		policy:      policy,
		sessions:    sessions,
		repo:        repo,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// Search runs the full pipeline: intent extraction, session merge, filtering
// with relaxation, then ranking. The snapshot pointer is taken once so one
// request never mixes two catalog versions.
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	startTime := time.Now()

	snap := s.store.Get()
	if snap == nil {
		return nil, fmt.Errorf("catalog not loaded yet")
	}

	hints := snap.Hints()
	intent := nlu.ExtractIntent(req.Query, &hints)

	if s.sessions != nil && req.SessionID != "" && intent.Kind == model.KindBuy {
		if prev, ok := s.sessions.Get(req.SessionID); ok {
			intent = session.Merge(intent, prev)
			nlu.Normalize(&intent)
		}
		s.sessions.Put(req.SessionID, intent)
	}

	if intent.Kind != model.KindBuy {
		// sell queries get a comparables-based price estimate, chitchat only
		// echoes the intent
		resp := &model.SearchResponse{
			Results: []model.ListingSearchResult{},
			Total:   0,
			Intent:  &intent,
		}
		if intent.Kind == model.KindSell {
			resp.Valuation = s.valuate(snap, intent)
		}
		resp.Took = time.Since(startTime).Milliseconds()
		return resp, nil
	}

	relaxed := search.FilterWithRelaxation(snap.Listings, intent, s.policy)
	results := s.ranker.Rank(req.Query, relaxed.UsedIntent, relaxed.Candidates)

	topK := s.defaultTopK
	if req.Options != nil && req.Options.TopK > 0 {
		topK = req.Options.TopK
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}
	total := len(results)
	if len(results) > topK {
		results = results[:topK]
	}

	took := time.Since(startTime).Milliseconds()

	if s.repo != nil {
		// non-blocking: logging failures never fail the search
		go func() {
			_ = s.repo.LogSearch(context.Background(), req.Query, &intent, total, relaxed.Relaxed, int(took))
		}()
	}

	return &model.SearchResponse{
		Results: results,
		Total:   total,
		Intent:  &intent,
		Relaxed: relaxed.Relaxed,
		Took:    took,
	}, nil
}

// maxQuotedComparables caps the comparables echoed back with an estimate.
const maxQuotedComparables = 6

// valuate builds a sell-side price estimate for the intent's car. A useful
// estimate needs the car name, the model year and the mileage; when any is
// missing the result names the gaps instead of guessing.
func (s *SearchService) valuate(snap *catalog.Snapshot, intent model.Intent) *model.ValuationResult {
	name := ""
	if intent.Model != nil {
		name = *intent.Model
	}
	if intent.Make != nil {
		name = strings.TrimSpace(*intent.Make + " " + name)
	}

	year := intent.YearExact
	if year == nil && intent.YearMin != nil && intent.YearMax != nil && *intent.YearMin == *intent.YearMax {
		year = intent.YearMin
	}
	km := intent.MileageApprox
	if km == nil {
		km = intent.MileageMax
	}
	if km == nil {
		km = intent.MileageMin
	}

	var missing []string
	if name == "" {
		missing = append(missing, "차명")
	}
	if year == nil {
		missing = append(missing, "연식")
	}
	if km == nil {
		missing = append(missing, "주행거리")
	}
	if len(missing) > 0 {
		return &model.ValuationResult{Missing: missing}
	}

	comps, est := valuation.BuildComparables(snap.Listings, valuation.Subject{
		CarName:  name,
		FuelType: intent.FuelType,
		Year:     year,
		Km:       km,
	})
	if len(comps) == 0 {
		return &model.ValuationResult{}
	}
	if len(comps) > maxQuotedComparables {
		comps = comps[:maxQuotedComparables]
	}
	return &model.ValuationResult{Estimate: &est, Comparables: comps}
}

// MaintenanceChecklist returns rule-based maintenance suggestions for one
// listing. The listing is returned alongside so callers can echo the car; nil
// when the registration number is unknown.
func (s *SearchService) MaintenanceChecklist(ctx context.Context, carNo string) (*model.Listing, []string, error) {
	l, err := s.GetListing(ctx, carNo)
	if err != nil || l == nil {
		return nil, nil, err
	}
	return l, valuation.Checklist(l.Year, l.Km), nil
}

// GetListing retrieves a single listing by registration number from the
// current snapshot.
func (s *SearchService) GetListing(ctx context.Context, carNo string) (*model.Listing, error) {
	snap := s.store.Get()
	if snap == nil {
		return nil, fmt.Errorf("catalog not loaded yet")
	}
	for i := range snap.Listings {
		if snap.Listings[i].CarNo == carNo {
			l := snap.Listings[i]
			return &l, nil
		}
	}
	return nil, nil
}

// RebuildDocVectors recomputes and persists the document vector of every
// listing in the current snapshot under the bundle's vocabulary. Only
// meaningful for a database-backed catalog.
func (s *SearchService) RebuildDocVectors(ctx context.Context, bundle *model.WeightBundle) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("doc vectors require a database-backed catalog")
	}
	vec := search.NewVectorizer(bundle)
	if vec == nil {
		return 0, fmt.Errorf("weight bundle has no usable vocabulary")
	}
	snap := s.store.Get()
	if snap == nil {
		return 0, fmt.Errorf("catalog not loaded yet")
	}

	items := make([]repository.DocVectorItem, 0, len(snap.Listings))
	for i := range snap.Listings {
		v64 := vec.Vector(snap.Listings[i].Document())
		v32 := make([]float32, len(v64))
		for j, f := range v64 {
			v32[j] = float32(f)
		}
		items = append(items, repository.DocVectorItem{
			CarNo:  snap.Listings[i].CarNo,
			Vector: v32,
		})
	}

	updated, errs := s.repo.BatchUpdateDocVectors(ctx, items)
	if len(errs) > 0 {
		return updated, fmt.Errorf("doc vector update finished with %d errors, first: %s", len(errs), errs[0])
	}
	return updated, nil
}

// ResetSession drops the remembered intent for a conversation
func (s *SearchService) ResetSession(id string) {
	if s.sessions != nil {
		s.sessions.Evict(id)
	}
}

// CatalogInfo describes the currently served snapshot
type CatalogInfo struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Listings  int       `json:"listings"`
}

// Catalog returns metadata about the active snapshot, or nil before load
func (s *SearchService) Catalog() *CatalogInfo {
	snap := s.store.Get()
	if snap == nil {
		return nil
	}
	return &CatalogInfo{
		Version:   snap.Version,
		UpdatedAt: snap.UpdatedAt,
		Listings:  len(snap.Listings),
	}
}
