// Package session keeps short-lived per-conversation intent state so a
// follow-up query like "흰색으로" inherits the budget and model of the
// previous turn.
package session

import (
	"sync"
	"time"

	"carsearch/internal/model"
)

// DefaultTTL matches typical chat idle time; after this the conversation
// starts from a clean intent.
const DefaultTTL = 10 * time.Minute

// Store is the session state interface used by the search service.
type Store interface {
	Get(id string) (model.Intent, bool)
	Put(id string, intent model.Intent)
	Evict(id string)
}

type entry struct {
	intent    model.Intent
	expiresAt time.Time
}

// MemoryStore is an in-process Store with lazy TTL expiry. Entries are
// checked on access and swept opportunistically on writes.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]entry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry),
	}
}

func (s *MemoryStore) Get(id string) (model.Intent, bool) {
	if id == "" {
		return model.Intent{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return model.Intent{}, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.m, id)
		return model.Intent{}, false
	}
	return e.intent, true
}

func (s *MemoryStore) Put(id string, intent model.Intent) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	// piggyback a sweep so abandoned sessions do not accumulate
	for k, e := range s.m {
		if now.After(e.expiresAt) {
			delete(s.m, k)
		}
	}
	s.m[id] = entry{intent: intent, expiresAt: now.Add(s.ttl)}
}

func (s *MemoryStore) Evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

// Merge fills fields absent from the current turn's intent with values from
// the previous turn. The current turn always wins where it says anything;
// the previous turn only supplies what the user left unsaid.
func Merge(current, previous model.Intent) model.Intent {
	out := current

	fillInt := func(dst **int, src *int) {
		if *dst == nil && src != nil {
			v := *src
			*dst = &v
		}
	}
	fillStr := func(dst **string, src *string) {
		if *dst == nil && src != nil {
			v := *src
			*dst = &v
		}
	}

	// numeric pairs carry over together so a remembered band stays a band
	if out.BudgetMin == nil && out.BudgetMax == nil {
		fillInt(&out.BudgetMin, previous.BudgetMin)
		fillInt(&out.BudgetMax, previous.BudgetMax)
	}
	if out.MonthlyMin == nil && out.MonthlyMax == nil {
		fillInt(&out.MonthlyMin, previous.MonthlyMin)
		fillInt(&out.MonthlyMax, previous.MonthlyMax)
	}
	if out.MileageMin == nil && out.MileageMax == nil && out.MileageApprox == nil {
		fillInt(&out.MileageMin, previous.MileageMin)
		fillInt(&out.MileageMax, previous.MileageMax)
		fillInt(&out.MileageApprox, previous.MileageApprox)
	}
	if out.YearMin == nil && out.YearMax == nil && out.YearExact == nil {
		fillInt(&out.YearMin, previous.YearMin)
		fillInt(&out.YearMax, previous.YearMax)
		fillInt(&out.YearExact, previous.YearExact)
	}

	fillStr(&out.FuelType, previous.FuelType)
	fillStr(&out.BodyType, previous.BodyType)
	fillStr(&out.Segment, previous.Segment)
	fillStr(&out.Transmission, previous.Transmission)
	fillStr(&out.Make, previous.Make)
	fillStr(&out.Model, previous.Model)

	if len(out.Colors) == 0 && len(previous.Colors) > 0 {
		out.Colors = append([]string(nil), previous.Colors...)
	}
	if len(out.Options) == 0 && len(previous.Options) > 0 {
		out.Options = append([]string(nil), previous.Options...)
	}
	if out.NoAccident == nil && previous.NoAccident != nil {
		v := *previous.NoAccident
		out.NoAccident = &v
	}
	return out
}
