// Package tui provides a Bubble Tea terminal user interface for ytproc.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hsalam/ytproc/internal/archive"
	"github.com/hsalam/ytproc/internal/config"
	"github.com/hsalam/ytproc/internal/logging"
	"github.com/hsalam/ytproc/internal/model"
	"github.com/hsalam/ytproc/internal/run"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateFetching
	StateProcessing
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   model.ProgressLevel
}

// monitor collects progress callbacks from the runner's goroutines so the
// UI can poll a consistent snapshot on its own tick.
type monitor struct {
	mu sync.Mutex

	logs          []LogEntry
	itemBytes     map[string]int64
	fetchedItems  int
	batchTotal    int
	batchDone     int
	batchReported bool
}

func newMonitor() *monitor {
	return &monitor{itemBytes: make(map[string]int64)}
}

func (mo *monitor) ItemProgress(id, title string, total, downloaded int64) {
	mo.mu.Lock()
	defer mo.mu.Unlock()
	if downloaded > mo.itemBytes[id] {
		mo.itemBytes[id] = downloaded
	}
}

func (mo *monitor) ItemFinished(id string) {
	mo.mu.Lock()
	defer mo.mu.Unlock()
	mo.fetchedItems++
}

func (mo *monitor) BatchStarted(n int, description string) {
	mo.mu.Lock()
	defer mo.mu.Unlock()
	mo.batchTotal = n
	mo.batchDone = 0
	mo.batchReported = true
}

func (mo *monitor) BatchAdvance() {
	mo.mu.Lock()
	defer mo.mu.Unlock()
	mo.batchDone++
}

func (mo *monitor) BatchFinished() {}

func (mo *monitor) log(event model.ProgressEvent) {
	mo.mu.Lock()
	defer mo.mu.Unlock()
	mo.logs = append(mo.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(mo.logs) > 10 {
		mo.logs = mo.logs[len(mo.logs)-10:]
	}
}

type snapshot struct {
	logs          []LogEntry
	receivedBytes int64
	fetchedItems  int
	batchTotal    int
	batchDone     int
	processing    bool
}

func (mo *monitor) snapshot() snapshot {
	mo.mu.Lock()
	defer mo.mu.Unlock()
	var received int64
	for _, n := range mo.itemBytes {
		received += n
	}
	logs := make([]LogEntry, len(mo.logs))
	copy(logs, mo.logs)
	return snapshot{
		logs:          logs,
		receivedBytes: received,
		fetchedItems:  mo.fetchedItems,
		batchTotal:    mo.batchTotal,
		batchDone:     mo.batchDone,
		processing:    mo.batchReported,
	}
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	runner    *run.Runner
	monitor   *monitor
	logCloser io.Closer

	queued        int
	fetchedItems  int
	receivedBytes int64
	batchTotal    int
	batchDone     int
	summary       run.Summary

	// Options
	audioOnly      bool
	skipProcessing bool
	verbose        bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "@handle, channel ID, or playlist URL"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  config.DefaultSettings(),
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// FetchDoneMsg is sent when the fetch stage completes.
	FetchDoneMsg struct {
		Queued    int
		Runner    *run.Runner
		LogCloser io.Closer
		Err       error
	}

	// ProcessDoneMsg is sent when the processing stage completes.
	ProcessDoneMsg struct {
		Summary run.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			m.closeLog()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateFetching || m.state == StateProcessing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateFetching
				m.monitor = newMonitor()
				return m, tea.Batch(m.startFetch(), m.spinner.Tick, m.tickProgress())
			}

		case "a":
			if m.state == StateInput {
				m.audioOnly = !m.audioOnly
			}

		case "s":
			if m.state == StateInput {
				m.skipProcessing = !m.skipProcessing
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				m.closeLog()
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.closeLog()
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.runner = nil
				m.monitor = nil
				m.queued = 0
				m.fetchedItems = 0
				m.receivedBytes = 0
				m.batchTotal = 0
				m.batchDone = 0
				m.summary = run.Summary{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case FetchDoneMsg:
		m.logCloser = msg.LogCloser
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.runner = msg.Runner
			m.queued = msg.Queued
			// Even an empty queue goes through the processing stage so the
			// run log always ends with the completion summary.
			m.state = StateProcessing
			cmds = append(cmds, m.startProcess(), m.tickProgress())
		}

	case ProcessDoneMsg:
		m.summary = msg.Summary
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.monitor != nil && (m.state == StateFetching || m.state == StateProcessing) {
			snap := m.monitor.snapshot()
			m.logs = snap.logs
			m.receivedBytes = snap.receivedBytes
			m.fetchedItems = snap.fetchedItems
			m.batchTotal = snap.batchTotal
			m.batchDone = snap.batchDone

			var percent float64
			if snap.batchTotal > 0 {
				percent = float64(snap.batchDone) / float64(snap.batchTotal)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) closeLog() {
	if m.logCloser != nil {
		m.logCloser.Close()
		m.logCloser = nil
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("▶ ytproc"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download and process YouTube channels and playlists"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateFetching:
		b.WriteString(m.viewFetching())
	case StateProcessing:
		b.WriteString(m.viewProcessing())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a channel or playlist:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	audioCheck := "[ ]"
	if m.audioOnly {
		audioCheck = "[×]"
	}
	skipCheck := "[ ]"
	if m.skipProcessing {
		skipCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Audio only (a)\n", audioCheck))
	b.WriteString(fmt.Sprintf("  %s Skip processing (s)\n", skipCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output template: %s", m.settings.OutputPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewFetching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Downloading..."))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Items: %d | Received: %.2f MB",
		m.fetchedItems,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewProcessing() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Processing %d item(s)...", m.queued)))
	b.WriteString("\n\n")

	var percent float64
	if m.batchTotal > 0 {
		percent = float64(m.batchDone) / float64(m.batchTotal)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Done: %d/%d", m.batchDone, m.batchTotal)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Run Complete!\n\n"+
			"Queued: %d\n"+
			"Processed: %d\n"+
			"Skipped: %d\n"+
			"Failed: %d",
		m.summary.Queued,
		m.summary.Succeeded,
		m.summary.Skipped,
		m.summary.Failed,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case model.LevelError:
			style = errorStyle
			prefix = "✗"
		case model.LevelWarning:
			style = warningStyle
			prefix = "!"
		case model.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case model.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • a: audio only • s: skip processing • v: verbose • esc: quit"
	case StateFetching, StateProcessing:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// startFetch builds the runner and runs the fetch stage.
func (m *Model) startFetch() tea.Cmd {
	monitor := m.monitor
	ctx := m.ctx
	verbose := m.verbose
	identifier := m.textInput.Value()

	// Apply options
	settings := config.DefaultSettings()
	settings.AudioOnly = m.audioOnly
	settings.SkipProcessing = m.skipProcessing
	settings.Verbose = verbose
	settings.Normalize()

	return func() tea.Msg {
		logger, logCloser, err := logging.New(logging.Options{Path: settings.LogFile, Verbose: verbose})
		if err != nil {
			return FetchDoneMsg{Err: err}
		}

		processed, err := archive.Load(settings.ProcessedArchive)
		if err != nil {
			return FetchDoneMsg{LogCloser: logCloser, Err: err}
		}

		runner := run.NewRunner(settings, processed, nil, nil, monitor, logger, func(event model.ProgressEvent) {
			if event.Level == model.LevelVerbose && !verbose {
				return
			}
			monitor.log(event)
		})

		queued, err := runner.Fetch(ctx, identifier)
		if err != nil {
			return FetchDoneMsg{LogCloser: logCloser, Err: err}
		}

		return FetchDoneMsg{
			Queued:    queued,
			Runner:    runner,
			LogCloser: logCloser,
		}
	}
}

// startProcess runs the processing stage in the background.
func (m *Model) startProcess() tea.Cmd {
	runner := m.runner
	ctx := m.ctx

	return func() tea.Msg {
		if runner == nil {
			return ProcessDoneMsg{Err: fmt.Errorf("no active run")}
		}

		results := runner.Process(ctx)
		return ProcessDoneMsg{Summary: runner.Summarize(results)}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
