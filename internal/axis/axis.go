package axis

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"semaxis/internal/domain"
	"semaxis/internal/embedding"
)

// Axis is a direction in embedding space. It is never normalized at build
// time; scorers divide by its norm.
type Axis []float64

// Dimension returns the number of components.
func (a Axis) Dimension() int { return len(a) }

// Norm returns the Euclidean length, 0 for an empty axis.
func (a Axis) Norm() float64 {
	if len(a) == 0 {
		return 0
	}
	return floats.Norm(a, 2)
}

// Clone returns an independent copy.
func (a Axis) Clone() Axis { return slices.Clone(a) }

// Builder derives an axis from two example classes.
type Builder struct {
	embedder embedding.Embedder
}

// NewBuilder creates a builder embedding texts with e.
func NewBuilder(e embedding.Embedder) *Builder {
	return &Builder{embedder: e}
}

// Build returns mean(embed(positive)) - mean(embed(negative)).
func (b *Builder) Build(positive, negative []string) (Axis, error) {
	if len(positive) == 0 {
		return nil, domain.NewEmptyInputError("positive texts")
	}
	if len(negative) == 0 {
		return nil, domain.NewEmptyInputError("negative texts")
	}
	posMean, err := b.meanEmbedding(positive)
	if err != nil {
		return nil, err
	}
	negMean, err := b.meanEmbedding(negative)
	if err != nil {
		return nil, err
	}
	if len(posMean) != len(negMean) {
		return nil, domain.NewDimensionMismatchError(len(posMean), len(negMean))
	}
	floats.Sub(posMean, negMean)
	return Axis(posMean), nil
}

func (b *Builder) meanEmbedding(texts []string) ([]float64, error) {
	vecs, err := b.embedder.EmbedBatch(texts)
	if err != nil {
		return nil, err
	}
	return Mean(vecs)
}

// Mean returns the element-wise mean of equally sized vectors.
func Mean(vecs [][]float64) ([]float64, error) {
	if len(vecs) == 0 {
		return nil, domain.NewEmptyInputError("embeddings")
	}
	dim := len(vecs[0])
	if dim == 0 {
		return nil, domain.NewEmptyInputError("embedding vector")
	}
	sum := make([]float64, dim)
	for _, v := range vecs {
		if len(v) != dim {
			return nil, domain.NewDimensionMismatchError(dim, len(v))
		}
		floats.Add(sum, v)
	}
	floats.Scale(1/float64(len(vecs)), sum)
	return sum, nil
}
