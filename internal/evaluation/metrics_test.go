package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semaxis/internal/domain"
)

func TestConfusionMatrixZeroFallbacks(t *testing.T) {
	var empty ConfusionMatrix
	assert.Zero(t, empty.Accuracy())
	assert.Zero(t, empty.Precision())
	assert.Zero(t, empty.Recall())
	assert.Zero(t, empty.F1())

	allNegative := ConfusionMatrix{TN: 3}
	assert.Equal(t, 1.0, allNegative.Accuracy())
	assert.Zero(t, allNegative.Precision())
	assert.Zero(t, allNegative.Recall())
	assert.Zero(t, allNegative.F1())
}

func TestConfusionMatrixRatios(t *testing.T) {
	cm := ConfusionMatrix{TP: 3, FP: 1, FN: 2, TN: 4}
	assert.Equal(t, 10, cm.Total())
	assert.InDelta(t, 0.7, cm.Accuracy(), 1e-12)
	assert.InDelta(t, 0.75, cm.Precision(), 1e-12)
	assert.InDelta(t, 0.6, cm.Recall(), 1e-12)
	assert.InDelta(t, 2*0.75*0.6/1.35, cm.F1(), 1e-12)
}

func TestOverlap(t *testing.T) {
	tests := map[string]struct {
		pos, neg []float64
		want     float64
	}{
		"disjoint":        {pos: []float64{0.5, 0.9}, neg: []float64{-0.5, -0.1}, want: 0},
		"touching":        {pos: []float64{0, 1}, neg: []float64{-1, 0}, want: 0},
		"identical":       {pos: []float64{-1, 1}, neg: []float64{-1, 1}, want: 1},
		"half":            {pos: []float64{0, 2}, neg: []float64{-1, 1}, want: 1.0 / 3},
		"nested":          {pos: []float64{-2, 2}, neg: []float64{-1, 1}, want: 0.5},
		"single-points":   {pos: []float64{0.3}, neg: []float64{0.3}, want: 0},
		"empty-negatives": {pos: []float64{1}, neg: nil, want: 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Overlap(tt.pos, tt.neg), 1e-12)
		})
	}
}

func TestOrderConsistency(t *testing.T) {
	expected := []string{"a", "b", "c", "d"}
	tests := map[string]struct {
		actual     []string
		want       float64
		inversions int
	}{
		"identical":   {actual: []string{"a", "b", "c", "d"}, want: 1, inversions: 0},
		"reversed":    {actual: []string{"d", "c", "b", "a"}, want: 0, inversions: 6},
		"one-swap":    {actual: []string{"b", "a", "c", "d"}, want: 1 - 1.0/6, inversions: 1},
		"len-differs": {actual: []string{"a", "b"}, want: 0, inversions: 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, inv, err := OrderConsistency(tt.actual, expected)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.Equal(t, tt.inversions, inv)
		})
	}
}

func TestOrderConsistencyShortSequences(t *testing.T) {
	got, _, err := OrderConsistency(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, _, err = OrderConsistency([]string{"x"}, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	// a single text forms no pair, so it is never looked up
	got, _, err = OrderConsistency([]string{"x"}, []string{"y"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestOrderConsistencyMissingElement(t *testing.T) {
	_, _, err := OrderConsistency([]string{"a", "z"}, []string{"a", "b"})
	var missing *domain.ElementNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "z", missing.Text)
}
