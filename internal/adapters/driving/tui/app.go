// Package tui provides an interactive terminal UI for template search,
// following the Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/ports/driving"
)

// searchCompleted carries the outcome of an async search.
type searchCompleted struct {
	query   string
	results []domain.RankedTemplate
	err     error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// App is the template search TUI. It implements tea.Model.
type App struct {
	search driving.TemplateSearchService
	ctx    context.Context

	input    textinput.Model
	results  []domain.RankedTemplate
	selected int
	err      error

	// focusInput is true while typing, false while navigating results.
	focusInput bool
	searching  bool
	width      int
	height     int
	ready      bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the search TUI backed by the given service.
func NewApp(search driving.TemplateSearchService) (*App, error) {
	if search == nil {
		return nil, fmt.Errorf("creating app: search service is required")
	}

	input := textinput.New()
	input.Placeholder = "Describe the document you need..."
	input.Focus()
	input.CharLimit = 256

	return &App{
		search:     search,
		ctx:        context.Background(),
		input:      input,
		focusInput: true,
		width:      80,
		height:     24,
	}, nil
}

// WithContext sets the context used for search calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("templar - Template Search"),
		textinput.Blink,
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case searchCompleted:
		a.searching = false
		a.err = msg.err
		a.results = msg.results
		a.selected = 0
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.focusInput {
		switch msg.Type {
		case tea.KeyEnter:
			query := strings.TrimSpace(a.input.Value())
			if query == "" {
				return a, nil
			}
			a.searching = true
			a.err = nil
			a.focusInput = false
			a.input.Blur()
			return a, a.performSearch(query)
		case tea.KeyEsc:
			return a, tea.Quit
		}

		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	// Results mode.
	switch msg.String() {
	case "esc", "/":
		a.focusInput = true
		a.input.Focus()
		return a, textinput.Blink
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.selected > 0 {
			a.selected--
		}
	case "down", "j":
		if a.selected < len(a.results)-1 {
			a.selected++
		}
	}
	return a, nil
}

// performSearch runs the query off the update loop.
func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.search.SearchTemplates(a.ctx, query, 0)
		return searchCompleted{query: query, results: results, err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Templar"))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch {
	case a.searching:
		b.WriteString(dimStyle.Render("Searching..."))
	case a.err != nil:
		b.WriteString(errorStyle.Render("Error: " + a.err.Error()))
	case len(a.results) == 0 && !a.focusInput:
		b.WriteString(dimStyle.Render("No matching templates."))
	default:
		for i, r := range a.results {
			line := fmt.Sprintf("%d. %s  (%.4f)", i+1, r.Name, r.Similarity)
			if i == a.selected && !a.focusInput {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
			if r.Description != "" {
				b.WriteString(dimStyle.Render("     " + truncate(r.Description, a.width-6)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[enter] search  [j/k] navigate  [/] edit query  [ctrl+c] quit"))
	return b.String()
}

// Run starts the TUI program.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Results returns the current search results.
func (a *App) Results() []domain.RankedTemplate {
	return a.results
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.selected
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
