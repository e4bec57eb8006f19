// Package embeddingtest provides a deterministic in-memory embedder for tests.
package embeddingtest

import (
	"fmt"
	"slices"
)

// Static maps known texts to fixed vectors. Unknown texts fail unless
// Fallback is set. It counts calls so tests can assert batching.
type Static struct {
	Vectors    map[string][]float64
	Fallback   []float64
	Err        error
	Dim        int
	EmbedCalls int
	BatchCalls int
	Prepared   []string
}

// New returns a Static embedder over vectors; all vectors must share one length.
func New(vectors map[string][]float64) *Static {
	dim := 0
	for _, v := range vectors {
		dim = len(v)
		break
	}
	return &Static{Vectors: vectors, Dim: dim}
}

func (s *Static) Name() string { return "static" }

func (s *Static) Prepare(corpus []string) error {
	s.Prepared = slices.Clone(corpus)
	return s.Err
}

func (s *Static) Dimension() int { return s.Dim }

func (s *Static) Embed(text string) ([]float64, error) {
	s.EmbedCalls++
	return s.lookup(text)
}

func (s *Static) EmbedBatch(texts []string) ([][]float64, error) {
	s.BatchCalls++
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := s.lookup(text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Static) lookup(text string) ([]float64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if v, ok := s.Vectors[text]; ok {
		return slices.Clone(v), nil
	}
	if s.Fallback != nil {
		return slices.Clone(s.Fallback), nil
	}
	return nil, fmt.Errorf("embeddingtest: no vector for %q", text)
}

// Line returns an embedder placing each text at the given coordinate on the
// first axis of a 2-D space, with a constant second component. Handy for
// building score distributions directly.
func Line(points map[string]float64) *Static {
	vectors := make(map[string][]float64, len(points))
	for text, x := range points {
		vectors[text] = []float64{x, 1}
	}
	return &Static{Vectors: vectors, Dim: 2}
}
