package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semaxis/internal/domain"
	"semaxis/internal/projection"
)

type fakeScorer struct {
	calls []string
	err   error
}

func (f *fakeScorer) Score(text string) (projection.Projection, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return projection.Projection{}, f.err
	}
	return projection.Projection{Text: text, Score: 0.25, Relevance: domain.HighlyRelevant}, nil
}

func submit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestEnterScoresText(t *testing.T) {
	svc := &fakeScorer{}
	m, cmd := submit(t, New(svc, "axis"), "  detect face ")

	assert.False(t, isQuit(cmd))
	assert.Equal(t, []string{"detect face"}, svc.calls)
	require.Len(t, m.History(), 1)
	assert.Equal(t, 0.25, m.History()[0].Score)
	assert.Empty(t, m.input.Value())
}

func TestEmptyInputIsIgnored(t *testing.T) {
	svc := &fakeScorer{}
	m, cmd := submit(t, New(svc, ""), "   ")

	assert.Nil(t, cmd)
	assert.Empty(t, svc.calls)
	assert.Empty(t, m.History())
}

func TestQuitIsCaseInsensitive(t *testing.T) {
	for _, word := range []string{"quit", "QUIT", " Quit "} {
		svc := &fakeScorer{}
		m, cmd := submit(t, New(svc, ""), word)
		assert.True(t, isQuit(cmd), word)
		assert.Empty(t, svc.calls)
		assert.Empty(t, m.View())
	}
}

func TestCtrlKeysQuit(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD} {
		_, cmd := New(&fakeScorer{}, "").Update(tea.KeyMsg{Type: k})
		assert.True(t, isQuit(cmd))
	}
}

func TestScoreErrorKeepsLoopRunning(t *testing.T) {
	svc := &fakeScorer{err: errors.New("embedder offline")}
	m, cmd := submit(t, New(svc, ""), "detect face")

	assert.False(t, isQuit(cmd))
	assert.Equal(t, "Error: embedder offline", m.Status())
	assert.Empty(t, m.History())

	svc.err = nil
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, next.(Model).History(), 1)
}

func TestViewAfterResize(t *testing.T) {
	m := New(&fakeScorer{}, "axis: data/semantic_axis.bin")
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	m, _ = submit(t, m, "detect face")
	view := m.View()
	assert.Contains(t, view, "axis: data/semantic_axis.bin")
	assert.Contains(t, view, "detect face")
	assert.Contains(t, view, "score 0.2500  mask the_most_lenient")
}

func TestFormatProjection(t *testing.T) {
	p := projection.Projection{Text: "x", Score: -0.5, Relevance: domain.Irrelevant}
	assert.Equal(t, "score -0.5000  mask the_most_strict  "+domain.Irrelevant.Description(), FormatProjection(p))
}
