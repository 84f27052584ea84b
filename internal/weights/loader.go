// Package weights loads the externally trained scoring bundle.
package weights

import (
	"encoding/json"
	"fmt"
	"os"

	"carsearch/internal/model"
)

// Load reads a weight bundle from a JSON file produced by the offline
// trainer. The bundle is optional for the service as a whole, but a file
// that exists and fails to parse is an error rather than a silent fallback.
func Load(path string) (*model.WeightBundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates bundle bytes.
func Parse(raw []byte) (*model.WeightBundle, error) {
	var b model.WeightBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	if len(b.Vocab) != len(b.IDF) {
		return nil, fmt.Errorf("weights bundle corrupt: vocab has %d terms but idf has %d values", len(b.Vocab), len(b.IDF))
	}
	for k, v := range b.Weights {
		if v < 0 {
			return nil, fmt.Errorf("weights bundle corrupt: %q is negative", k)
		}
	}
	return &b, nil
}
