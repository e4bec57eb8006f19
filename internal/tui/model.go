package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"semaxis/internal/domain"
	"semaxis/internal/projection"
)

// ScorerPort is the TUI-facing subset of the axis service.
type ScorerPort interface {
	Score(text string) (projection.Projection, error)
}

// Model is the Bubble Tea model for the scoring REPL.
type Model struct {
	service  ScorerPort
	input    textinput.Model
	viewport viewport.Model
	history  []projection.Projection
	header   string
	status   string
	ready    bool
	quitting bool
}

// New creates a REPL model. header is shown above the history, e.g. the axis source.
func New(service ScorerPort, header string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type an instruction, or quit to exit"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, header: header, status: "Ready. Enter text to score."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, hh := historyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // title + header, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-hh)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			m.quitting = true
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if strings.EqualFold(text, "quit") {
				m.quitting = true
				return m, tea.Quit
			}
			p, err := m.service.Score(text)
			if err != nil {
				m.status = "Error: " + err.Error()
				return m, nil
			}
			m.history = append(m.history, p)
			m.status = fmt.Sprintf("Scored %d text(s).", len(m.history))
			m.input.Reset()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the history, the input box and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render("Face relevance")
	header := headerStyle.Render(m.header)
	history := historyBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return title + "\n" + header + "\n" + history + "\n" + input + "\n" + status
}

// History returns the scored texts in input order.
func (m Model) History() []projection.Projection { return m.history }

// Status returns the status line.
func (m Model) Status() string { return m.status }

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "Nothing scored yet."
	}
	var b strings.Builder
	for i, p := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(p.Text)
		b.WriteString("\n")
		b.WriteString(bandStyle(p.Relevance).Render(FormatProjection(p)))
	}
	return b.String()
}

// FormatProjection renders a score with its mask policy and interpretation.
func FormatProjection(p projection.Projection) string {
	return fmt.Sprintf("score %.4f  mask %s  %s", p.Score, p.Relevance.MaskType(), p.Relevance.Description())
}

func bandStyle(r domain.Relevance) lipgloss.Style {
	switch r {
	case domain.HighlyRelevant:
		return highStyle
	case domain.ModeratelyRelevant:
		return moderateStyle
	case domain.LowRelevance:
		return lowStyle
	default:
		return irrelevantStyle
	}
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	moderateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	irrelevantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
