package projection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"semaxis/internal/axis"
	"semaxis/internal/domain"
	"semaxis/internal/embedding"
)

// Thresholds are the band boundaries used by Interpret, checked top-down:
// score > High, score > Moderate, score > Low, otherwise irrelevant.
type Thresholds struct {
	High     float64
	Moderate float64
	Low      float64
}

// DefaultThresholds returns the standard bands {0.1, 0, -0.1}.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.1, Moderate: 0, Low: -0.1}
}

// Validate reports whether the bands are ordered.
func (t Thresholds) Validate() error {
	if math.IsNaN(t.High) || math.IsNaN(t.Moderate) || math.IsNaN(t.Low) {
		return domain.NewValidationErr("thresholds must be numbers")
	}
	if t.High < t.Moderate || t.Moderate < t.Low {
		return domain.NewValidationErr(fmt.Sprintf("thresholds must satisfy high >= moderate >= low, got %v/%v/%v", t.High, t.Moderate, t.Low))
	}
	return nil
}

// Interpret maps a score to its relevance band. NaN falls through to Irrelevant.
func (t Thresholds) Interpret(score float64) domain.Relevance {
	switch {
	case score > t.High:
		return domain.HighlyRelevant
	case score > t.Moderate:
		return domain.ModeratelyRelevant
	case score > t.Low:
		return domain.LowRelevance
	default:
		return domain.Irrelevant
	}
}

// Projection is a scored text.
type Projection struct {
	Text      string
	Score     float64
	Relevance domain.Relevance
}

// Scorer projects text embeddings onto a fixed axis.
type Scorer struct {
	axis       axis.Axis
	norm       float64
	embedder   embedding.Embedder
	thresholds Thresholds
}

// NewScorer copies a and caches its norm. A zero-norm axis cannot be scored against.
func NewScorer(a axis.Axis, e embedding.Embedder, t Thresholds) (*Scorer, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	norm := a.Norm()
	if norm == 0 || math.IsNaN(norm) {
		return nil, domain.NewDegenerateAxisError()
	}
	return &Scorer{axis: a.Clone(), norm: norm, embedder: e, thresholds: t}, nil
}

// Axis returns a copy of the axis being scored against.
func (s *Scorer) Axis() axis.Axis { return s.axis.Clone() }

// Thresholds returns the interpretation bands in use.
func (s *Scorer) Thresholds() Thresholds { return s.thresholds }

// Score returns dot(embed(text), axis) / |axis|.
func (s *Scorer) Score(text string) (float64, error) {
	vec, err := s.embedder.Embed(text)
	if err != nil {
		return 0, err
	}
	return s.project(vec)
}

// ScoreBatch scores texts in input order with a single batch embedding call.
func (s *Scorer) ScoreBatch(texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}
	vecs, err := s.embedder.EmbedBatch(texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}
	scores := make([]float64, len(vecs))
	for i, vec := range vecs {
		if scores[i], err = s.project(vec); err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// Interpret maps a score to its relevance band.
func (s *Scorer) Interpret(score float64) domain.Relevance {
	return s.thresholds.Interpret(score)
}

// Analyze scores and interprets each text.
func (s *Scorer) Analyze(texts []string) ([]Projection, error) {
	scores, err := s.ScoreBatch(texts)
	if err != nil {
		return nil, err
	}
	out := make([]Projection, len(texts))
	for i, text := range texts {
		out[i] = Projection{Text: text, Score: scores[i], Relevance: s.Interpret(scores[i])}
	}
	return out, nil
}

func (s *Scorer) project(vec []float64) (float64, error) {
	if len(vec) != len(s.axis) {
		return 0, domain.NewDimensionMismatchError(len(s.axis), len(vec))
	}
	return floats.Dot(vec, s.axis) / s.norm, nil
}
