// Package tui is the interactive dashboard behind "flightdash watch": it
// shows each step of a load as it runs, the last committed dashboard and
// host usage, and reloads on demand.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/flightdash/internal/cli"
	"github.com/agbru/flightdash/internal/dashboard"
	apperrors "github.com/agbru/flightdash/internal/errors"
	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/orchestration"
	"github.com/agbru/flightdash/internal/sysmon"
)

// LoaderFunc builds a loader for mode that reports step events to obs.
type LoaderFunc func(mode dashboard.Mode, obs orchestration.Observer) (*dashboard.Loader, error)

// Options configures the watch screen.
type Options struct {
	User      flight.User
	Mode      dashboard.Mode
	NewLoader LoaderFunc
	// Sampler reads host usage; sysmon.Host when nil.
	Sampler sysmon.Sampler
	Version string
}

// sampleInterval is the host sampling period; hostWindow is how many
// samples the host row keeps.
const (
	sampleInterval = time.Second
	hostWindow     = 30
)

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepFailed
)

type stepState struct {
	status  stepStatus
	elapsed time.Duration
	err     error
}

// Model is the root bubbletea model of the watch screen.
type Model struct {
	opts   Options
	keymap KeyMap
	help   help.Model
	ref    *programRef

	parentCtx context.Context
	cancel    context.CancelFunc

	board      *dashboard.Dashboard
	mode       dashboard.Mode
	generation uint64
	running    bool
	steps      []string
	states     map[string]stepState
	lastErr    error
	elapsed    time.Duration
	loads      int

	// firstLoad is the command of the load begun by NewModel, run by Init.
	firstLoad tea.Cmd

	cpu   *usageTrack
	mem   *usageTrack
	width int
}

// NewModel creates the watch model and begins its first load, so the model
// handed to the program already tracks that generation. Init runs the load.
func NewModel(parentCtx context.Context, opts Options) Model {
	if opts.Sampler == nil {
		opts.Sampler = sysmon.Host{}
	}
	if opts.Mode == "" {
		opts.Mode = dashboard.ModeParallel
	}
	ctx, cancel := context.WithCancel(parentCtx)
	m := Model{
		opts:      opts,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		ref:       &programRef{},
		parentCtx: ctx,
		cancel:    cancel,
		board:     &dashboard.Dashboard{},
		mode:      opts.Mode,
		states:    map[string]stepState{},
		cpu:       newUsageTrack("CPU", hostWindow),
		mem:       newUsageTrack("MEM", hostWindow),
	}
	m.firstLoad = m.startLoad()
	return m
}

// Init runs the first load and starts the host sampler.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.firstLoad, sampleSysStatsCmd(m.opts.Sampler), tickCmd())
}

// startLoad begins a new load generation. Step events of older loads are
// ignored by generation.
func (m *Model) startLoad() tea.Cmd {
	m.generation++
	gen := m.generation
	loader, err := m.opts.NewLoader(m.mode, loadObserver{ref: m.ref, generation: gen})
	if err != nil {
		m.running = false
		m.lastErr = err
		return nil
	}

	m.running = true
	m.lastErr = nil
	m.steps = m.steps[:0:0]
	m.states = make(map[string]stepState)
	for _, s := range loader.Graph().Steps() {
		m.steps = append(m.steps, s.Name)
		m.states[s.Name] = stepState{}
	}

	ctx, board, user := m.parentCtx, m.board, m.opts.User
	return func() tea.Msg {
		start := time.Now()
		err := loader.Load(ctx, user, board)
		return LoadDoneMsg{Generation: gen, Err: err, Elapsed: time.Since(start)}
	}
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case StepStartedMsg:
		if msg.Generation == m.generation {
			m.states[msg.Step] = stepState{status: stepRunning}
		}
		return m, nil

	case StepSettledMsg:
		if msg.Generation == m.generation {
			st := stepState{status: stepDone, elapsed: msg.Elapsed, err: msg.Err}
			if msg.Err != nil {
				st.status = stepFailed
			}
			m.states[msg.Step] = st
		}
		return m, nil

	case LoadDoneMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous load
		}
		m.running = false
		m.lastErr = msg.Err
		m.elapsed = msg.Elapsed
		m.loads++
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleSysStatsCmd(m.opts.Sampler), tickCmd())

	case SysStatsMsg:
		m.cpu.add(msg.CPUPercent)
		m.mem.add(msg.MemPercent)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	// Loads against the same dashboard are serialised: keys are ignored
	// while one is in flight.
	case key.Matches(msg, m.keymap.Reload):
		if m.running {
			return m, nil
		}
		return m, m.startLoad()

	case key.Matches(msg, m.keymap.Mode):
		if m.running {
			return m, nil
		}
		if m.mode == dashboard.ModeParallel {
			m.mode = dashboard.ModeSequential
		} else {
			m.mode = dashboard.ModeParallel
		}
		return m, m.startLoad()
	}
	return m, nil
}

// View renders the screen.
func (m Model) View() string {
	sections := []string{
		m.headerView(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.stepsView(), " ", m.boardView()),
		m.hostView(),
	}
	if m.lastErr != nil {
		sections = append(sections, base.Error.Render("Load failed: ")+errorText(m.lastErr))
	}
	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	title := "flightdash"
	if m.opts.Version != "" && m.opts.Version != "dev" {
		title += " " + m.opts.Version
	}
	var status string
	switch {
	case m.running:
		status = runningStyle.Render("loading")
	case m.lastErr != nil:
		status = failedStyle.Render("failed after " + cli.FormatExecutionDuration(m.elapsed))
	case m.loads > 0:
		status = doneStyle.Render("loaded in " + cli.FormatExecutionDuration(m.elapsed))
	default:
		status = pendingStyle.Render("idle")
	}
	return headerStyle.Render(title) + base.Dim.Render(fmt.Sprintf("%s | %s | ", m.opts.User.Email, m.mode)) + status
}

func (m Model) stepsView() string {
	lines := []string{base.Title.Render("Steps")}
	for _, name := range m.steps {
		st := m.states[name]
		var badge string
		switch st.status {
		case stepRunning:
			badge = runningStyle.Render("running")
		case stepDone:
			badge = doneStyle.Render("done") + " " + base.Dim.Render(cli.FormatExecutionDuration(st.elapsed))
		case stepFailed:
			badge = failedStyle.Render("failed") + " " + base.Dim.Render(cli.FormatExecutionDuration(st.elapsed))
		default:
			badge = pendingStyle.Render("pending")
		}
		lines = append(lines, base.Label.Render(name)+badge)
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) boardView() string {
	v := m.board.View()
	value := func(set bool, s string) string {
		if !set {
			return pendingStyle.Render("n/a")
		}
		return base.Value.Render(s)
	}
	var flightID, departure, pilot, model, status, forecast string
	if v.Flight != nil {
		flightID, departure = v.Flight.ID, v.Flight.Departure
	}
	if v.Plane != nil {
		pilot, model, status = v.Plane.Pilot, v.Plane.Make.Model, v.Plane.Status
	}
	if v.Forecast != nil {
		forecast = *v.Forecast
	}
	lines := []string{
		base.Title.Render("Dashboard") + " " + base.Dim.Render(fmt.Sprintf("(%d commits)", m.board.Commits())),
		base.Label.Render("Flight") + value(v.Flight != nil, flightID),
		base.Label.Render("Departs") + value(v.Flight != nil, departure),
		base.Label.Render("Pilot") + value(v.Plane != nil, pilot),
		base.Label.Render("Aircraft") + value(v.Plane != nil, model),
		base.Label.Render("Status") + value(v.Plane != nil, status),
		base.Label.Render("Forecast") + value(v.Forecast != nil, forecast),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) hostView() string {
	return m.cpu.render(cpuStyle) + "   " + m.mem.render(memStyle)
}

// errorText flattens an aggregated failure onto one line.
func errorText(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}

// ExitCode is the exit code for the last finished load.
func (m Model) ExitCode() int {
	return apperrors.ExitCode(m.lastErr)
}

// Run is the public entry point for the watch screen.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) int {
	// Rebuild styles from the current ui theme (set by the caller via InitTheme).
	initStyles()

	model := NewModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOpts...)...)
	// Inject the program reference before running so observers can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if apperrors.IsContextError(ctx.Err()) {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.ExitCode()
	}
	return apperrors.ExitSuccess
}

// tickCmd returns a command that sends a TickMsg after sampleInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(sampleInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads host CPU and memory usage.
func sampleSysStatsCmd(s sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(sysmon.Sample(context.Background(), s))
	}
}
