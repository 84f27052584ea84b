package search

import (
	"math"
	"strings"
	"unicode"

	"carsearch/internal/model"
)

// Vectorizer maps text to a fixed-vocabulary TF-IDF vector. The vocabulary
// and IDF values come from an externally trained weight bundle; the
// vectorizer itself is stateless and safe for concurrent use.
type Vectorizer struct {
	index []string
	idf   []float64
	pos   map[string]int
}

// NewVectorizer builds a vectorizer from a weight bundle. Returns nil when
// the bundle has no usable vocabulary, or when vocab and idf lengths
// disagree; callers treat a nil vectorizer as "text scoring unavailable".
func NewVectorizer(bundle *model.WeightBundle) *Vectorizer {
	if bundle == nil || len(bundle.Vocab) == 0 || len(bundle.Vocab) != len(bundle.IDF) {
		return nil
	}
	v := &Vectorizer{
		index: bundle.Vocab,
		idf:   bundle.IDF,
		pos:   make(map[string]int, len(bundle.Vocab)),
	}
	for i, term := range bundle.Vocab {
		v.pos[term] = i
	}
	return v
}

// Dim is the vector dimension, equal to the vocabulary size.
func (v *Vectorizer) Dim() int {
	return len(v.index)
}

// Vector computes the TF-IDF vector of text: term frequency scaled by the
// document's max frequency, times the trained IDF. Out-of-vocabulary terms
// contribute nothing.
func (v *Vectorizer) Vector(text string) []float64 {
	counts := make(map[int]int)
	maxTF := 0
	for _, tok := range Tokenize(text) {
		i, ok := v.pos[tok]
		if !ok {
			continue
		}
		counts[i]++
		if counts[i] > maxTF {
			maxTF = counts[i]
		}
	}
	vec := make([]float64, len(v.index))
	if maxTF == 0 {
		return vec
	}
	for i, c := range counts {
		vec[i] = float64(c) / float64(maxTF) * v.idf[i]
	}
	return vec
}

// Tokenize lowercases text, drops punctuation and splits on whitespace.
// Korean and Latin alphanumerics survive intact.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// Cosine returns the cosine similarity of two equal-length vectors, or 0
// when either vector is empty or zero.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// cosine32 is Cosine over a float64 query vector and a float32 stored
// document vector, avoiding a conversion copy on the hot path.
func cosine32(a []float64, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		bi := float64(b[i])
		dot += a[i] * bi
		na += a[i] * a[i]
		nb += bi * bi
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
