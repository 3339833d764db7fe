// Package app wires the supervision pipeline into the Bubble Tea
// program. The update loop is the single consumer of sensor events:
// every reading is processed to completion, in arrival order, before
// the next one touches the badge.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pulsewatch.dev/internal/config"
	"pulsewatch.dev/internal/icon"
	"pulsewatch.dev/internal/pipeline"
	"pulsewatch.dev/internal/sensor"
	"pulsewatch.dev/internal/store"
	"pulsewatch.dev/internal/ui"
	"pulsewatch.dev/internal/watchdog"
)

// How long the alert banner stays visible after the throttle fires.
const alertFlash = 3 * time.Second

// shared holds state shared between the Bubble Tea model copies and
// main.go. Because Bubble Tea uses value receivers, pointer fields
// ensure all copies see the same underlying data.
type shared struct {
	cfg      config.Config
	watchdog *watchdog.Watchdog
	conn     sensor.Connection
	pipeline *pipeline.Pipeline
	icons    *icon.Manager
	throttle *pipeline.Throttle
	history  *BPMRing
	readings *store.ReadingLog // nil = disabled
	rrLog    *store.RRLog      // nil = disabled
}

// Model is the root Bubble Tea model.
type Model struct {
	width  int
	height int
	paused bool

	state       watchdog.State
	frame       pipeline.Frame
	surface     string
	haveFrame   bool
	backend     string
	recording   bool
	startTime   time.Time
	lastReading time.Time
	lastAlert   time.Time
	err         error
	fatal       error

	shared *shared
}

// New builds the model and its collaborators from configuration.
func New(cfg config.Config) Model {
	sh := &shared{
		cfg: cfg,
		pipeline: pipeline.New(pipeline.Options{
			WarnLevel:       cfg.Thresholds.Warn,
			AlertLevel:      cfg.Thresholds.Alert,
			DisconnectAfter: cfg.Timeouts.Disconnect,
			BaseColor:       lipgloss.Color(cfg.Colors.Base),
			WarnColor:       lipgloss.Color(cfg.Colors.Warn),
			GlyphWidth:      cfg.GlyphWidth,
		}),
		icons:    icon.NewManager(),
		throttle: pipeline.NewThrottle(cfg.Timeouts.Cooldown),
		history:  NewBPMRing(config.HistorySize),
	}

	backend := cfg.Sensor.Adapter
	if cfg.Sensor.Demo {
		backend = "demo"
	}

	m := Model{
		state:     watchdog.StateInitializing,
		backend:   backend,
		startTime: time.Now(),
		shared:    sh,
	}

	if cfg.Logging.Enabled {
		m.recording = m.openLogs(cfg.Logging)
	}
	return m
}

// openLogs opens the persistence sinks. A sink that fails to open is
// left nil and never blocks the pipeline.
func (m *Model) openLogs(lc config.Logging) bool {
	dir := lc.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.err = fmt.Errorf("reading log: %w", err)
			return false
		}
		dir = filepath.Join(home, config.DefaultDataDir)
	}

	rl, err := store.NewReadingLog(dir)
	if err != nil {
		m.err = fmt.Errorf("reading log: %w", err)
		return false
	}
	m.shared.readings = rl

	if lc.RR {
		rr, err := store.NewRRLog(dir)
		if err != nil {
			m.err = fmt.Errorf("rr log: %w", err)
		} else {
			m.shared.rrLog = rr
		}
	}
	return true
}

// StartSupervision connects the sensor and begins watchdog
// supervision. Must be called before p.Run(). The initial connect
// blocks and its failure is fatal: the caller reports it and exits.
func (m *Model) StartSupervision(ctx context.Context, p *tea.Program) error {
	sh := m.shared
	sh.watchdog = watchdog.New(watchdog.Config{
		StaleAfter:  sh.cfg.Timeouts.Staleness,
		CheckEvery:  sh.cfg.Timeouts.Check,
		BackoffBase: config.BackoffBase,
		BackoffCap:  config.BackoffCap,
		MaxAttempts: config.MaxReconnects,
	}, p)

	if sh.cfg.Sensor.Demo {
		sh.conn = sensor.NewMockConnection(config.MockInterval, sh.watchdog.OnReading)
	} else {
		sh.conn = sensor.NewBLEConnection(sh.cfg.Sensor.Device, sh.watchdog.OnReading)
	}

	return sh.watchdog.Start(ctx, sh.conn)
}

// FatalErr returns the error that terminated the program, if any.
// main inspects it on the final model after Run.
func (m Model) FatalErr() error {
	return m.fatal
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			m.shutdown()
			return m, tea.Quit
		case "p", "P":
			m.paused = !m.paused
		}
		return m, nil

	case TickMsg:
		return m, tickCmd()

	case watchdog.StateMsg:
		m.state = msg.State
		return m, nil

	case watchdog.ReadingMsg:
		return m.onReading(msg.Reading), nil

	case watchdog.FatalMsg:
		m.fatal = msg.Err
		m.shutdown()
		return m, tea.Quit
	}

	return m, nil
}

// onReading runs the per-reading pipeline: persist, derive the frame,
// publish the badge handle, update history, throttle alerts. A frame
// that fails to render is logged and skipped, never propagated.
func (m Model) onReading(r sensor.Reading) Model {
	sh := m.shared
	m.lastReading = time.Now()

	if err := sh.readings.Write(r); err != nil {
		m.err = fmt.Errorf("reading log: %w", err)
	}
	if err := sh.rrLog.Write(r); err != nil {
		m.err = fmt.Errorf("rr log: %w", err)
	}

	sh.history.Push(float64(r.BPM))

	if m.paused {
		return m
	}

	frame, err := sh.pipeline.Process(r)
	if err != nil {
		m.err = fmt.Errorf("render skipped: %w", err)
		return m
	}

	handle, err := sh.icons.Publish(frame)
	if err != nil {
		// Manager already closed: we are shutting down.
		return m
	}
	surface, err := handle.Surface()
	if err != nil {
		return m
	}

	m.frame = frame
	m.surface = surface
	m.haveFrame = true

	if sh.throttle.ShouldFire(frame.Alert) {
		m.lastAlert = time.Now()
	}
	return m
}

func (m *Model) shutdown() {
	sh := m.shared
	if sh.watchdog != nil {
		sh.watchdog.Stop()
	}
	sh.icons.Close()
	sh.readings.Close()
	sh.rrLog.Close()
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing pulsewatch..."
	}

	menuH := 1
	statusH := 1
	errH := 0
	if m.err != nil {
		errH = 1
	}
	bodyH := m.height - menuH - statusH - errH
	if bodyH < 5 {
		bodyH = 5
	}

	badgeW := m.width / 3
	if badgeW < 20 {
		badgeW = 20
	}
	trendW := m.width - badgeW
	if trendW < 16 {
		trendW = 16
		badgeW = m.width - trendW
	}

	menuBar := ui.RenderMenuBar(m.width, m.backend, m.state.String())

	surface := m.surface
	if !m.haveFrame {
		surface = "..."
	}
	badgePanel := ui.RenderBadgePanel(badgeW, bodyH, surface, m.statusLabel(),
		!m.lastAlert.IsZero() && time.Since(m.lastAlert) < alertFlash)

	trendPanel := ui.RenderTrendPanel(trendW, bodyH, m.shared.history.Values())

	lastAge := time.Duration(-1)
	if !m.lastReading.IsZero() {
		lastAge = time.Since(m.lastReading)
	}
	min, avg, peak := m.shared.history.Stats()
	statusBar := ui.RenderStatusBar(m.width, time.Since(m.startTime), lastAge,
		min, avg, peak, m.recording)

	out := ui.ComposeLayout(menuBar, badgePanel, trendPanel, statusBar)
	if m.err != nil {
		out += "\n" + ui.StyleErrLine.Render(fmt.Sprintf(" %v", m.err))
	}
	return out
}

// statusLabel is the line under the badge for abnormal conditions.
func (m Model) statusLabel() string {
	switch {
	case m.state == watchdog.StateReconnecting || m.state == watchdog.StateStale:
		return "RECONNECTING"
	case m.state == watchdog.StateFailed:
		return "CONNECTION FAILED"
	case m.haveFrame && m.frame.Disconnected:
		return "DISCONNECTED"
	case m.paused:
		return "PAUSED"
	default:
		return ""
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
