// Package tui provides the terminal user interface for codegate runs.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AttemptStartMsg is sent when the gate begins a new attempt.
type AttemptStartMsg struct {
	Index       int
	MaxAttempts int
}

// AttemptDoneMsg is sent when an attempt has been validated and decided.
type AttemptDoneMsg struct {
	Index    int
	Critical int
	Warning  int
	Passed   int
	Decision string
	Duration time.Duration
}

// TokenUpdateMsg carries cumulative token usage and estimated cost.
type TokenUpdateMsg struct {
	Tokens int64
	Cost   float64
}

// RunDoneMsg signals that the run has finished.
type RunDoneMsg struct {
	Status     string
	BestIndex  int
	ReportPath string
	Err        error
}

// attemptRow is one finished attempt in the display.
type attemptRow struct {
	index    int
	critical int
	warning  int
	passed   int
	decision string
	duration time.Duration
}

// App is the bubbletea model for a single quality-gated run.
type App struct {
	task        string
	spinner     spinner.Model
	rows        []attemptRow
	current     int
	maxAttempts int
	tokens      int64
	cost        float64
	done        bool
	status      string
	bestIndex   int
	reportPath  string
	err         error
	width       int
	quitting    bool

	headerStyle   lipgloss.Style
	taskStyle     lipgloss.Style
	criticalStyle lipgloss.Style
	warningStyle  lipgloss.Style
	passedStyle   lipgloss.Style
	acceptStyle   lipgloss.Style
	giveUpStyle   lipgloss.Style
	footerStyle   lipgloss.Style
}

// New creates an App for the given task description.
func New(task string) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &App{
		task:    task,
		spinner: sp,

		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")),

		taskStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		criticalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		warningStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		passedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		acceptStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34")),

		giveUpStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),

		footerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width

	case AttemptStartMsg:
		a.current = msg.Index
		a.maxAttempts = msg.MaxAttempts

	case AttemptDoneMsg:
		a.current = 0
		a.rows = append(a.rows, attemptRow{
			index:    msg.Index,
			critical: msg.Critical,
			warning:  msg.Warning,
			passed:   msg.Passed,
			decision: msg.Decision,
			duration: msg.Duration,
		})

	case TokenUpdateMsg:
		a.tokens = msg.Tokens
		a.cost = msg.Cost

	case RunDoneMsg:
		a.done = true
		a.status = msg.Status
		a.bestIndex = msg.BestIndex
		a.reportPath = msg.ReportPath
		a.err = msg.Err
		return a, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.headerStyle.Render("codegate"))
	b.WriteString("\n")
	b.WriteString(a.taskStyle.Render("Task: " + truncateLine(a.task, 70)))
	b.WriteString("\n\n")

	for _, row := range a.rows {
		b.WriteString(a.renderRow(row))
		b.WriteString("\n")
	}

	if a.current > 0 && !a.done {
		b.WriteString(fmt.Sprintf("%s attempt %d/%d: generating and validating...\n",
			a.spinner.View(), a.current, a.maxAttempts))
	}

	if a.done {
		b.WriteString("\n")
		b.WriteString(a.renderOutcome())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.footerStyle.Render(fmt.Sprintf("tokens: %d  cost: ~$%.4f  (q to quit)", a.tokens, a.cost)))
	b.WriteString("\n")

	return b.String()
}

// Quitting reports whether the user requested an early exit.
func (a *App) Quitting() bool {
	return a.quitting
}

func (a *App) renderRow(row attemptRow) string {
	counts := fmt.Sprintf("%s %s %s",
		a.criticalStyle.Render(fmt.Sprintf("%d critical", row.critical)),
		a.warningStyle.Render(fmt.Sprintf("%d warning", row.warning)),
		a.passedStyle.Render(fmt.Sprintf("%d passed", row.passed)))

	decision := row.decision
	switch decision {
	case "accept":
		decision = a.acceptStyle.Render(decision)
	case "give_up":
		decision = a.giveUpStyle.Render(decision)
	}

	return fmt.Sprintf("  attempt %d: %s -> %s (%.1fs)",
		row.index, counts, decision, row.duration.Seconds())
}

func (a *App) renderOutcome() string {
	if a.err != nil {
		return a.giveUpStyle.Render(fmt.Sprintf("Run failed: %v", a.err))
	}

	var line string
	switch a.status {
	case "success":
		line = a.acceptStyle.Render(fmt.Sprintf("Accepted on attempt %d.", a.bestIndex))
	default:
		line = a.warningStyle.Render(fmt.Sprintf("No attempt passed the gate; best was attempt %d.", a.bestIndex))
	}
	if a.reportPath != "" {
		line += "\n" + a.footerStyle.Render("Report: "+a.reportPath)
	}
	return line
}

func truncateLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
