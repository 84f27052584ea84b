package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"carsearch/internal/model"
)

// Snapshot is an immutable view of the whole catalog. A new snapshot is
// built on every reload and swapped in atomically; nothing mutates one
// after Build returns.
type Snapshot struct {
	Version   string
	UpdatedAt time.Time
	Listings  []model.Listing

	hints model.CatalogHints
}

// Build normalizes raw feed bytes into a snapshot. Records that cannot be
// normalized are dropped; an entirely empty result is an error because an
// empty snapshot would silently answer every query with nothing.
func Build(raw []byte) (*Snapshot, error) {
	recs, err := decodeRecords(raw)
	if err != nil {
		return nil, err
	}
	listings := make([]model.Listing, 0, len(recs))
	for _, rec := range recs {
		if l, ok := normalizeRecord(rec); ok {
			listings = append(listings, l)
		}
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("catalog contains no usable records")
	}

	sum := sha256.Sum256(raw)
	s := &Snapshot{
		Version:   hex.EncodeToString(sum[:8]),
		UpdatedAt: time.Now().UTC(),
		Listings:  listings,
	}
	s.hints = buildHints(listings)
	return s, nil
}

// FromListings wraps pre-normalized listings, e.g. rows loaded from the
// database, into a snapshot.
func FromListings(listings []model.Listing, version string) (*Snapshot, error) {
	if len(listings) == 0 {
		return nil, fmt.Errorf("catalog contains no usable records")
	}
	s := &Snapshot{
		Version:   version,
		UpdatedAt: time.Now().UTC(),
		Listings:  listings,
	}
	s.hints = buildHints(listings)
	return s, nil
}

// LoadFile reads and builds a snapshot from a feed file on disk.
func LoadFile(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Build(raw)
}

// Hints returns the brand/model vocabulary derived from the snapshot, used
// by intent extraction for fuzzy make/model resolution.
func (s *Snapshot) Hints() model.CatalogHints {
	return s.hints
}

func buildHints(listings []model.Listing) model.CatalogHints {
	makes := map[string]struct{}{}
	models := map[string]struct{}{}
	brandByModel := map[string]string{}
	for i := range listings {
		l := &listings[i]
		if l.Make != "" {
			makes[l.Make] = struct{}{}
		}
		if l.Model != "" {
			models[l.Model] = struct{}{}
			if l.Make != "" {
				brandByModel[strings.ToLower(l.Model)] = l.Make
			}
		}
	}
	h := model.CatalogHints{
		Makes:        make([]string, 0, len(makes)),
		Models:       make([]string, 0, len(models)),
		BrandByModel: brandByModel,
	}
	for m := range makes {
		h.Makes = append(h.Makes, m)
	}
	for m := range models {
		h.Models = append(h.Models, m)
	}
	sort.Strings(h.Makes)
	sort.Strings(h.Models)
	return h
}
