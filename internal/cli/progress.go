package cli

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// reindexProgressMsg carries the current position in the scan.
type reindexProgressMsg struct {
	done  int
	total int
}

// reindexDoneMsg carries the final result.
type reindexDoneMsg struct {
	embedded int
	err      error
}

// reindexModel is the bubbletea model for the reindex progress display.
type reindexModel struct {
	progress progress.Model
	theme    Theme
	cancel   context.CancelFunc

	done     int
	total    int
	embedded int
	finished bool
	quitting bool
	err      error
}

// newReindexModel creates a progress model for a reindex run. cancel stops
// the underlying scan when the user quits.
func newReindexModel(cancel context.CancelFunc) reindexModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return reindexModel{
		progress: prog,
		theme:    defaultTheme,
		cancel:   cancel,
	}
}

// Init returns the initial command.
func (m reindexModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m reindexModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case reindexProgressMsg:
		m.done = msg.done
		m.total = msg.total
		return m, nil

	case reindexDoneMsg:
		m.finished = true
		m.embedded = msg.embedded
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m reindexModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m reindexModel) renderContent() string {
	if m.finished || m.quitting {
		return m.finalView()
	}

	if m.total == 0 {
		return "Scanning notes...\n"
	}

	var pct float64
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}

	status := m.theme.statusStyle().Render("[reindexing]")
	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d notes", m.done, m.total)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to cancel")

	return fmt.Sprintf("%s %s %s\n%s\n", status, progressBar, counts, hint)
}

// finalView renders the completion message.
func (m reindexModel) finalView() string {
	if m.quitting {
		return m.theme.hintStyle().Render("\nReindex cancelled.\n")
	}
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Reindex failed: %s\n", m.err))
	}
	if m.embedded == 0 {
		return m.theme.completedStyle().Render("✓ All embeddings are up to date.\n")
	}
	return m.theme.completedStyle().Render(fmt.Sprintf("✓ Embedded %d notes.\n", m.embedded))
}

// runReindexProgress runs the reindex scan with an interactive progress bar.
// Returns nil when the user cancels, the scan error otherwise.
func runReindexProgress(parent context.Context, force bool) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	p := tea.NewProgram(newReindexModel(cancel))

	go func() {
		embedded, err := ix.ReindexAll(ctx, force, func(done, total int) {
			p.Send(reindexProgressMsg{done: done, total: total})
		})
		p.Send(reindexDoneMsg{embedded: embedded, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := final.(reindexModel); ok {
		if m.quitting {
			return nil
		}
		if m.err != nil {
			return fmt.Errorf("reindex: %w", m.err)
		}
	}
	return nil
}
