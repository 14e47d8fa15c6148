package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"extidy/internal/domain"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseConfirm
	PhaseExecuting
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	PlanReadyMsg struct {
		Plan domain.TransferPlan
	}
	TransferProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	RunDoneMsg struct {
		Summary domain.Summary
	}
	ErrorMsg struct {
		Err error
	}
	ConfirmMsg struct{ Confirmed bool }
	tickMsg    time.Time
)

// ExecuteFunc starts the transfer on a worker goroutine and feeds
// TransferProgressMsg / RunDoneMsg / ErrorMsg back to the program.
type ExecuteFunc func(plan domain.TransferPlan) tea.Cmd

// Config for the TUI
type Config struct {
	SourceDir string
	DestDir   string
	DryRun    bool
	Verbose   bool
	Execute   ExecuteFunc
	Cancel    func()
}

// Model is the main TUI model
type Model struct {
	config       Config
	Phase        Phase
	Plan         domain.TransferPlan
	Summary      domain.Summary
	spinner      spinner.Model
	progress     progress.Model
	current      int
	total        int
	currentFile  string
	confirmStart bool // true = start, false = abort
	Err          error
	Quitting     bool
	width        int
	height       int
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:       cfg,
		Phase:        PhaseScanning,
		spinner:      s,
		progress:     p,
		confirmStart: false, // default to abort
		width:        80,
		height:       24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Phase == PhaseExecuting && m.config.Cancel != nil {
				// Stop between files; the worker reports a final summary.
				m.config.Cancel()
				return m, nil
			}
			m.Quitting = true
			return m, tea.Quit
		case "left", "h", "y", "Y":
			if m.Phase == PhaseConfirm {
				m.confirmStart = true
			}
		case "right", "l", "n", "N":
			if m.Phase == PhaseConfirm {
				m.confirmStart = false
			}
		case "enter":
			if m.Phase == PhaseConfirm {
				return m, func() tea.Msg {
					return ConfirmMsg{Confirmed: m.confirmStart}
				}
			}
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case PlanReadyMsg:
		m.Plan = msg.Plan
		if m.config.DryRun || len(m.Plan.Entries) == 0 {
			m.Phase = PhaseDone
		} else {
			m.Phase = PhaseConfirm
		}
		return m, nil

	case ConfirmMsg:
		if !msg.Confirmed {
			m.Quitting = true
			return m, tea.Quit
		}
		m.Phase = PhaseExecuting
		m.total = len(m.Plan.Entries)
		if m.config.Execute != nil {
			return m, tea.Batch(tickCmd(), m.config.Execute(m.Plan))
		}
		return m, nil

	case TransferProgressMsg:
		m.current = msg.Current
		m.total = msg.Total
		m.currentFile = msg.File
		return m, nil

	case RunDoneMsg:
		m.Summary = msg.Summary
		m.Phase = PhaseDone
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseExecuting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseExecuting {
			var cmds []tea.Cmd
			if m.total > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.current)/float64(m.total)))
			}
			cmds = append(cmds, tickCmd(), m.spinner.Tick)
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(fmt.Sprintf("%s Scanning files...", m.spinner.View()))
	case PhaseConfirm:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmPrompt())
	case PhaseExecuting:
		b.WriteString(m.renderPreview())
		b.WriteString("\n")
		b.WriteString(m.renderExecution())
	case PhaseDone:
		b.WriteString(m.renderPreview())
		if !m.config.DryRun && len(m.Plan.Entries) > 0 {
			b.WriteString("\n")
			b.WriteString(m.renderCompletion())
		}
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("🗂  extidy")
	subtitle := subtitleStyle.Render("Organize files by extension")

	dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
		dimStyle.Render(fmt.Sprintf("%s Dest:   %s", iconFolder, shortenPath(m.config.DestDir))),
	)
}

func (m Model) renderPreview() string {
	var b strings.Builder

	verb := "Move"
	if m.Plan.Copy {
		verb = "Copy"
	}
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Files to %s", verb)))
	b.WriteString("\n\n")

	if len(m.Plan.Entries) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)
		b.WriteString(dimStyle.Render("  No matching files"))
		b.WriteString("\n")
	} else {
		lines := formatFileList(m.Plan.Entries, 6)
		for _, line := range lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderPlanSummary())

	return b.String()
}

func (m Model) renderPlanSummary() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Summary"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Extensions:"), statValueStyle.Render(m.Plan.Extensions.String())))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Matches:"), statValueStyle.Render(fmt.Sprintf("%d files", len(m.Plan.Entries)))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Total size:"), statValueStyle.Render(formatBytes(m.Plan.TotalBytes()))))
	if m.Plan.Recursive {
		dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Recursive:"), dimStyle.Render("including subdirectories")))
	}

	if m.config.DryRun {
		b.WriteString("\n")
		b.WriteString(highlightBoxStyle.Render("🔍 Preview - no files were touched"))
	}

	return b.String()
}

func (m Model) renderConfirmPrompt() string {
	verb := "Move"
	if m.Plan.Copy {
		verb = "Copy"
	}
	prompt := confirmPromptStyle.Render(fmt.Sprintf("%s %d files?", verb, len(m.Plan.Entries)))

	var startBtn, abortBtn string
	if m.confirmStart {
		startBtn = highlightBoxStyle.
			Background(lipgloss.Color("#2D5A27")).
			Render(" Start ")
		abortBtn = boxStyle.Render(" Abort ")
	} else {
		startBtn = boxStyle.Render(" Start ")
		abortBtn = highlightBoxStyle.
			Background(lipgloss.Color("#5A2727")).
			Render(" Abort ")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, startBtn, "  ", abortBtn)

	return lipgloss.JoinVertical(lipgloss.Left, prompt, "", buttons)
}

func (m Model) renderExecution() string {
	var b strings.Builder

	verb := "Moving"
	if m.Plan.Copy {
		verb = "Copying"
	}
	b.WriteString(sectionStyle.Render(fmt.Sprintf("%s Files", verb)))
	b.WriteString("\n\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}

	b.WriteString(fmt.Sprintf("  %s %s...\n\n", m.spinner.View(), verb))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))

	countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	percentStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.current, m.total)),
		percentStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n",
			iconArrow,
			fileNameStyle.Render(shortenPath(m.currentFile)),
		))
	}

	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Transfer Complete"))
	b.WriteString("\n\n")

	if m.Summary.Failed == 0 {
		icon := successStyle.Render(iconSuccess)
		msg := successStyle.Render("All files transferred.")
		b.WriteString(fmt.Sprintf("  %s %s\n\n", icon, msg))
	} else {
		icon := warningStyle.Render(iconWarning)
		msg := warningStyle.Render(fmt.Sprintf("%d files failed.", m.Summary.Failed))
		b.WriteString(fmt.Sprintf("  %s %s\n\n", icon, msg))
	}

	verb := "Moved:"
	if m.Summary.Copy {
		verb = "Copied:"
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render(verb), statValueStyle.Render(fmt.Sprintf("%d files (%s)", m.Summary.Succeeded, formatBytes(m.Summary.Bytes)))))
	if m.Summary.Skipped > 0 {
		dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Skipped:"), dimStyle.Render(fmt.Sprintf("%s %d (duplicates)", iconSkipped, m.Summary.Skipped))))
	}
	if m.Summary.Failed > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Failed:"), errorStyle.Render(fmt.Sprintf("%s %d", iconError, m.Summary.Failed))))
		for _, o := range m.Summary.Outcomes {
			if o.Status != domain.StatusFailed {
				continue
			}
			b.WriteString(fmt.Sprintf("    %s %s: %s\n",
				errorStyle.Render(iconError),
				fileNameStyle.Render(shortenPath(o.SourcePath)),
				sizeStyle.Render(o.Reason),
			))
		}
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
	case PhaseScanning:
		help = "Press q to quit"
	case PhaseConfirm:
		help = "← → or y/n to select • Enter to confirm • q to quit"
	case PhaseExecuting:
		help = "Press q to stop after the current file"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// formatFileList formats planned entries for display, eliding the middle of
// long lists.
func formatFileList(entries []domain.FileEntry, maxItems int) []string {
	if len(entries) == 0 {
		return []string{}
	}

	lines := make([]string, 0, min(len(entries), maxItems+1))

	if len(entries) > maxItems {
		half := maxItems / 2
		for i := 0; i < half; i++ {
			lines = append(lines, formatFileEntry(entries[i]))
		}
		dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)
		lines = append(lines, dimStyle.Render(fmt.Sprintf("... %d more files ...", len(entries)-maxItems)))
		for i := len(entries) - half; i < len(entries); i++ {
			lines = append(lines, formatFileEntry(entries[i]))
		}
	} else {
		for _, e := range entries {
			lines = append(lines, formatFileEntry(e))
		}
	}

	return lines
}

func formatFileEntry(e domain.FileEntry) string {
	name := fileNameStyle.Render(e.Name)
	size := sizeStyle.Render(formatBytes(e.Size))
	return fmt.Sprintf("%s %s  %s", iconFile, name, size)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
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
