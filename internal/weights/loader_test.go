package weights

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	b, err := Parse([]byte(`{
		"weights": {"tfidf": 0.6, "price": 0.1},
		"vocab": ["디젤", "suv"],
		"idf": [1.2, 0.8]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if b.Weights["tfidf"] != 0.6 {
		t.Errorf("tfidf weight = %f", b.Weights["tfidf"])
	}
	if len(b.Vocab) != 2 || len(b.IDF) != 2 {
		t.Errorf("vocab/idf = %d/%d terms", len(b.Vocab), len(b.IDF))
	}
}

func TestParseRejectsCorruptBundles(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "not json"},
		{"length mismatch", `{"vocab":["a","b"],"idf":[1]}`},
		{"negative weight", `{"weights":{"price":-1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.raw)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.raw)
			}
		})
	}
}

func TestParseWeightsOnlyBundle(t *testing.T) {
	// A bundle without a vocabulary is valid: scoring keeps its defaults for
	// text and only the scalar weights apply.
	b, err := Parse([]byte(`{"weights":{"diversityPenalty":0.2}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(b.Vocab) != 0 {
		t.Errorf("Vocab = %v, want empty", b.Vocab)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")
	if err := os.WriteFile(path, []byte(`{"vocab":["a"],"idf":[1]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load of a missing file must fail")
	}
}
