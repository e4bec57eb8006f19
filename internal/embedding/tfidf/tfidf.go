// Package tfidf is a local, deterministic embedder: smoothed TF-IDF weights
// over a vocabulary fitted on the example corpus, L2-normalized.
package tfidf

import (
	"errors"
	"maps"
	"math"
	"regexp"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrNotPrepared is returned by Embed before Prepare has fitted a vocabulary.
var ErrNotPrepared = errors.New("tfidf embedder not prepared")

var (
	wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	stopwords   = toSet(strings.Fields(`
		a an the and or but if then else for to of in on at by with as
		is are was were be been being it this that these those from up down
		over under again further than so such into about between through
		during before after above below out off own same too very can will
		just don should now`))
)

// Embedder fits on a corpus once and then maps text onto that vocabulary.
// Terms are indexed in sorted order, so the same corpus always yields the
// same dimensions and a saved axis stays valid across runs.
type Embedder struct {
	terms []string
	index map[string]int
	idf   []float64
}

// NewEmbedder creates an unprepared embedder.
func NewEmbedder() *Embedder { return &Embedder{} }

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare fits the vocabulary and IDF weights on corpus, replacing any
// earlier fit.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	docFreq := make(map[string]int)
	for _, text := range corpus {
		for term := range toSet(Tokenize(text)) {
			docFreq[term]++
		}
	}
	if len(docFreq) == 0 {
		return errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}

	terms := slices.Sorted(maps.Keys(docFreq))
	index := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	e.terms, e.index, e.idf = terms, index, idf
	return nil
}

// Dimension returns the vocabulary size, 0 before Prepare.
func (e *Embedder) Dimension() int { return len(e.terms) }

// Terms returns the fitted vocabulary in dimension order.
func (e *Embedder) Terms() []string { return slices.Clone(e.terms) }

// Embed returns the L2-normalized TF-IDF vector of text. Text without any
// known term maps to the zero vector.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if e.index == nil {
		return nil, ErrNotPrepared
	}
	vec := make([]float64, len(e.terms))
	known := 0
	for _, tok := range Tokenize(text) {
		if i, ok := e.index[tok]; ok {
			vec[i]++
			known++
		}
	}
	if known == 0 {
		return vec, nil
	}
	floats.Mul(vec, e.idf)
	// the 1/known term-frequency factor cancels out under normalization
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (e *Embedder) EmbedBatch(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Tokenize lower-cases text, extracts letter runs (keeping inner apostrophes)
// and drops English stopwords.
func Tokenize(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	return slices.DeleteFunc(words, func(w string) bool {
		_, stop := stopwords[w]
		return stop
	})
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
