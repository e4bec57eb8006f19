package evaluation

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"semaxis/internal/domain"
)

// ConfusionMatrix counts predicted against true labels; positive is label 1.
type ConfusionMatrix struct {
	TP int
	FP int
	FN int
	TN int
}

// Total returns the number of counted examples.
func (c ConfusionMatrix) Total() int { return c.TP + c.FP + c.FN + c.TN }

// Accuracy returns (tp+tn)/total, 0 for an empty matrix.
func (c ConfusionMatrix) Accuracy() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.TP+c.TN) / float64(c.Total())
}

// Precision returns tp/(tp+fp), 0 when nothing was predicted positive.
func (c ConfusionMatrix) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// Recall returns tp/(tp+fn), 0 when there are no positives.
func (c ConfusionMatrix) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// F1 returns the harmonic mean of precision and recall, 0 when both are 0.
func (c ConfusionMatrix) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// ClassificationMetrics is the result of a labeled evaluation.
type ClassificationMetrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	Confusion ConfusionMatrix
	Scores    []float64
	Predicted []domain.Label
}

// SeparationMetrics describes how far apart the two classes project.
type SeparationMetrics struct {
	PositiveMean   float64
	NegativeMean   float64
	PositiveStd    float64
	NegativeStd    float64
	Separation     float64
	Overlap        float64
	PositiveScores []float64
	NegativeScores []float64
}

// ConsistencyMetrics compares the score ranking with an expected ranking.
type ConsistencyMetrics struct {
	Scores        []float64
	ActualOrder   []string
	ExpectedOrder []string
	Inversions    int
	Consistency   float64
}

// Overlap returns the share of the combined score span where both classes'
// [min, max] ranges coexist. Disjoint or touching ranges give 0.
func Overlap(pos, neg []float64) float64 {
	if len(pos) == 0 || len(neg) == 0 {
		return 0
	}
	posMin, posMax := floats.Min(pos), floats.Max(pos)
	negMin, negMax := floats.Min(neg), floats.Max(neg)

	start := math.Max(posMin, negMin)
	end := math.Min(posMax, negMax)
	if start >= end {
		return 0
	}
	total := math.Max(posMax, negMax) - math.Min(posMin, negMin)
	if total <= 0 {
		return 0
	}
	return (end - start) / total
}

// OrderConsistency returns 1 - inversions/maxInversions between actual and
// expected, plus the inversion count. Sequences of different length score 0
// and fewer than two texts score 1. Otherwise every actual text must appear
// in expected; the first occurrence is used.
func OrderConsistency(actual, expected []string) (float64, int, error) {
	if len(actual) != len(expected) {
		return 0, 0, nil
	}
	n := len(actual)
	if n < 2 {
		return 1, 0, nil
	}
	position := make(map[string]int, n)
	for i, text := range expected {
		if _, ok := position[text]; !ok {
			position[text] = i
		}
	}
	ranks := make([]int, n)
	for i, text := range actual {
		idx, ok := position[text]
		if !ok {
			return 0, 0, domain.NewElementNotFoundError(text)
		}
		ranks[i] = idx
	}
	inversions := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if ranks[i] > ranks[j] {
				inversions++
			}
		}
	}
	maxInversions := float64(n*(n-1)) / 2
	return 1 - float64(inversions)/maxInversions, inversions, nil
}
