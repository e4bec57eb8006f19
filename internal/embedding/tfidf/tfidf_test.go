package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []string{"detect face", "analyze expression", "summarize report", "extract text"}

func TestEmbedBeforePrepare(t *testing.T) {
	_, err := NewEmbedder().Embed("detect face")
	assert.ErrorIs(t, err, ErrNotPrepared)
}

func TestPrepareRejectsEmptyCorpus(t *testing.T) {
	assert.Error(t, NewEmbedder().Prepare(nil))
	assert.Error(t, NewEmbedder().Prepare([]string{"the of and", "123"}))
}

func TestPrepareBuildsSortedVocabulary(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	assert.Equal(t, 8, e.Dimension())
	assert.Equal(t, []string{"analyze", "detect", "expression", "extract", "face", "report", "summarize", "text"}, e.Terms())
}

func TestPrepareRefitsFromScratch(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))
	require.NoError(t, e.Prepare([]string{"detect face"}))
	assert.Equal(t, []string{"detect", "face"}, e.Terms())
}

func TestTokenize(t *testing.T) {
	tests := map[string][]string{
		"Detect the FACE":           {"detect", "face"},
		"the person's smile, 2024!": {"person's", "smile"},
		"Ünïcode wörds":             {"ünïcode", "wörds"},
		"of the and":                {},
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got := Tokenize(in)
			if len(want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestEmbedIsNormalizedAndDeterministic(t *testing.T) {
	a := NewEmbedder()
	b := NewEmbedder()
	require.NoError(t, a.Prepare(corpus))
	require.NoError(t, b.Prepare(corpus))

	va, err := a.Embed("Detect the FACE")
	require.NoError(t, err)
	vb, err := b.Embed("Detect the FACE")
	require.NoError(t, err)

	assert.Equal(t, va, vb)
	norm := 0.0
	for _, v := range va {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, va[1], 1e-12)
}

func TestEmbedUnknownTextIsZeroVector(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	v, err := e.Embed("completely unrelated words")
	require.NoError(t, err)
	assert.Len(t, v, 8)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestEmbedBatchMatchesEmbed(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	texts := []string{"extract text", "detect face", "nothing known"}
	batch, err := e.EmbedBatch(texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))
	for i, text := range texts {
		single, err := e.Embed(text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}
