package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"picpp/internal/domain"
	"picpp/internal/presentation"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseCancelling
	PhaseDone
	PhaseError
)

const defaultLogLines = 12

// Messages for the TUI
type (
	eventMsg        domain.Event
	streamClosedMsg struct{}
	// ErrorMsg reports a job-level failure that stopped the run.
	ErrorMsg struct {
		Err error
	}
)

// Config for the TUI
type Config struct {
	Job    domain.Job
	Events <-chan domain.Event
	// Cancel is called once when the user asks to stop the running job.
	Cancel   func()
	LogLines int
}

type logLine struct {
	kind domain.EventKind
	text string
}

// Model is the main TUI model
type Model struct {
	config   Config
	Phase    Phase
	spinner  spinner.Model
	progress progress.Model
	percent  int
	current  string
	lines    []logLine
	Summary  *domain.Summary
	Err      error
	Quitting bool
	width    int
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	if cfg.LogLines <= 0 {
		cfg.LogLines = defaultLogLines
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseRunning,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listenForEvents(m.config.Events))
}

func listenForEvents(events <-chan domain.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			switch m.Phase {
			case PhaseRunning:
				m.Phase = PhaseCancelling
				m.appendLine(domain.EventInfo, "Cancel requested, finishing the current file...")
				if m.config.Cancel != nil {
					m.config.Cancel()
				}
				return m, nil
			case PhaseCancelling:
				if msg.String() == "ctrl+c" {
					m.Quitting = true
					return m, tea.Quit
				}
			default:
				m.Quitting = true
				return m, tea.Quit
			}
		case "enter":
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case eventMsg:
		m.applyEvent(domain.Event(msg))
		return m, listenForEvents(m.config.Events)

	case streamClosedMsg:
		if m.Phase == PhaseRunning || m.Phase == PhaseCancelling {
			m.Phase = PhaseDone
		}
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseRunning || m.Phase == PhaseCancelling {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) applyEvent(ev domain.Event) {
	switch ev.Kind {
	case domain.EventProgress:
		m.percent = ev.Progress
	case domain.EventSummary:
		m.Summary = ev.Summary
		m.Phase = PhaseDone
		m.current = ""
	case domain.EventProcessing:
		m.current = ev.Path
		m.appendLine(ev.Kind, ev.Message)
	default:
		m.appendLine(ev.Kind, ev.Message)
	}
}

func (m *Model) appendLine(kind domain.EventKind, text string) {
	m.lines = append(m.lines, logLine{kind: kind, text: text})
	if over := len(m.lines) - m.config.LogLines; over > 0 {
		m.lines = m.lines[over:]
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseRunning, PhaseCancelling:
		b.WriteString(m.renderProgress())
		b.WriteString("\n")
		b.WriteString(m.renderLog())
	case PhaseDone:
		b.WriteString(m.renderLog())
		b.WriteString("\n")
		b.WriteString(m.renderSummary())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	job := m.config.Job
	title := titleStyle.Render("🖼  picpp")
	subtitle := subtitleStyle.Render("Batch image format conversion")

	target := job.OutputDir
	if job.Mode == domain.ModeOverwrite {
		target = job.OriginDir() + " (in place)"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%d files → %s at quality %d%%", len(job.Files), job.Format, job.Quality)),
		dimStyle.Render(fmt.Sprintf("%s Output: %s", iconFolder, shortenPath(target))),
	)
}

func (m Model) renderProgress() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Converting"))
	b.WriteString("\n\n")

	label := "Converting..."
	if m.Phase == PhaseCancelling {
		label = warningStyle.Render("Cancelling after the current file...")
	}
	b.WriteString(fmt.Sprintf("  %s %s\n\n", m.spinner.View(), label))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(float64(m.percent)/100)))
	b.WriteString(fmt.Sprintf("  %s\n", countStyle.Render(fmt.Sprintf("%d%%", m.percent))))

	if m.current != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconProcessing, fileNameStyle.Render(shortenPath(m.current))))
	}
	return b.String()
}

func (m Model) renderLog() string {
	if len(m.lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Log"))
	b.WriteString("\n\n")
	for _, line := range m.lines {
		b.WriteString(renderLine(line))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLine(line logLine) string {
	switch line.kind {
	case domain.EventProcessing:
		return "  " + processingStyle.Render(iconProcessing+" "+line.text)
	case domain.EventSuccess:
		return "  " + successStyle.Render(iconSuccess+" "+line.text)
	case domain.EventError:
		return "  " + errorStyle.Render(iconError+" "+line.text)
	case domain.EventErrorDetail:
		return "  " + detailStyle.Render(line.text)
	default:
		return "  " + infoStyle.Render(iconInfo+" "+line.text)
	}
}

func (m Model) renderSummary() string {
	var b strings.Builder

	if m.Summary == nil {
		b.WriteString(warningStyle.Render("No summary was reported"))
		b.WriteString("\n")
		return b.String()
	}

	heading := "Conversion Complete"
	if m.Summary.Cancelled {
		heading = "Conversion Cancelled"
	}
	b.WriteString(sectionStyle.Render(heading))
	b.WriteString("\n\n")

	for _, row := range presentation.SummaryRows(*m.Summary) {
		value := statValueStyle.Render(row.Value)
		switch {
		case row.Label == "Failed" && m.Summary.Failed > 0:
			value = errorStyle.Render(row.Value)
		case row.Label == "Succeeded":
			value = successStyle.Render(row.Value)
		case row.Label == "Origin" || row.Label == "Output" || row.Label == "Errors":
			value = dimStyle.Render(shortenPath(row.Value))
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render(row.Label+":"), value))
	}
	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseRunning:
		help = "Press q or ctrl+c to cancel"
	case PhaseCancelling:
		help = "Waiting for the current file • ctrl+c to leave the view"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
