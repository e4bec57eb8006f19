package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load axis: %w", NewAxisNotFoundError("data/axis.bin"))

	var notFound *AxisNotFoundError
	assert.True(t, errors.As(wrapped, &notFound))
	assert.Equal(t, "data/axis.bin", notFound.Path)

	var format *AxisFormatError
	assert.False(t, errors.As(wrapped, &format))
}

func TestErrorMessages(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"empty-input": {
			err:  NewEmptyInputError("positive texts"),
			want: "positive texts must not be empty",
		},
		"element-not-found": {
			err:  NewElementNotFoundError("detect face"),
			want: `text "detect face" not found in expected order`,
		},
		"dimension-mismatch": {
			err:  NewDimensionMismatchError(3, 4),
			want: "embedding dimension mismatch: want 3, got 4",
		},
		"degenerate-axis": {
			err:  NewDegenerateAxisError(),
			want: "semantic axis has zero norm; projection is undefined",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestRelevanceLabels(t *testing.T) {
	assert.Equal(t, "highly relevant", HighlyRelevant.String())
	assert.Equal(t, "moderately relevant", ModeratelyRelevant.String())
	assert.Equal(t, "low relevance", LowRelevance.String())
	assert.Equal(t, "irrelevant", Irrelevant.String())
	assert.Contains(t, HighlyRelevant.Description(), "most facial information should be retained")
	assert.Contains(t, Irrelevant.Description(), "full masking")
}

func TestLabelValid(t *testing.T) {
	assert.True(t, LabelRelevant.Valid())
	assert.True(t, LabelIrrelevant.Valid())
	assert.False(t, Label(2).Valid())
	assert.False(t, Label(-1).Valid())
}
