// Package watchdog supervises a sensor connection: it forwards readings
// to the UI program, detects staleness on a periodic check, and drives
// reconnection with bounded exponential backoff.
package watchdog

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pulsewatch.dev/internal/sensor"
)

// State is the connection supervision state. Owned exclusively by the
// watchdog; everyone else only reads it from StateMsg updates.
type State int

const (
	StateInitializing State = iota
	StateConnected
	StateStale
	StateReconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateStale:
		return "stale"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "initializing"
	}
}

// ReadingMsg is sent to the UI program for every observed reading.
type ReadingMsg struct {
	Reading sensor.Reading
}

// StateMsg is sent on every supervision state transition.
type StateMsg struct {
	State State
}

// FatalMsg reports an unrecoverable connection failure. The receiver
// is expected to shut the process down with a visible message.
type FatalMsg struct {
	Err error
}

// Sender delivers messages to the UI update loop. *tea.Program
// satisfies it; tests substitute a recorder.
type Sender interface {
	Send(tea.Msg)
}

// Config holds the supervision tunables.
type Config struct {
	StaleAfter  time.Duration // no reading for this long = stale
	CheckEvery  time.Duration // staleness check cadence
	BackoffBase time.Duration // first reconnect delay
	BackoffCap  time.Duration // delay ceiling
	MaxAttempts int           // reconnect attempts before Failed
}

// Watchdog keeps one sensor connection alive.
type Watchdog struct {
	cfg Config
	out Sender

	mu          sync.Mutex
	conn        sensor.Connection
	state       State
	lastReading time.Time
	stopped     bool
	started     bool
	cancel      context.CancelFunc
}

// New creates a watchdog that reports to out.
func New(cfg Config, out Sender) *Watchdog {
	return &Watchdog{cfg: cfg, out: out, state: StateInitializing}
}

// Start performs the blocking initial connect and begins supervision.
// The initial attempt is never retried: its failure is fatal and
// returned to the caller. Safe to call only once.
func (w *Watchdog) Start(ctx context.Context, conn sensor.Connection) error {
	w.mu.Lock()
	if w.started || w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watchdog: already started or stopped")
	}
	w.started = true
	w.conn = conn
	w.mu.Unlock()

	if err := conn.Initialize(ctx); err != nil {
		w.transition(StateFailed)
		return fmt.Errorf("initial sensor connect: %w", err)
	}

	checkCtx, cancel := context.WithCancel(context.Background())

	w.mu.Lock()
	if w.stopped { // Stop raced the connect
		w.mu.Unlock()
		cancel()
		conn.Stop()
		return nil
	}
	w.cancel = cancel
	w.state = StateConnected
	w.lastReading = time.Now()
	w.mu.Unlock()

	w.out.Send(StateMsg{State: StateConnected})
	go w.checkLoop(checkCtx)
	return nil
}

// OnReading records liveness and forwards the reading. Called from the
// connection's delivery goroutine for every reading, regardless of
// contact status.
func (w *Watchdog) OnReading(r sensor.Reading) {
	w.mu.Lock()
	if w.stopped || w.state == StateFailed {
		w.mu.Unlock()
		return
	}
	w.lastReading = time.Now()
	changed := w.state != StateConnected && w.state != StateReconnecting
	if changed {
		w.state = StateConnected
	}
	w.mu.Unlock()

	if changed {
		w.out.Send(StateMsg{State: StateConnected})
	}
	w.out.Send(ReadingMsg{Reading: r})
}

// State returns the current supervision state.
func (w *Watchdog) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Watchdog) checkLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.CheckEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkOnce(ctx)
		}
	}
}

// checkOnce transitions Connected → Stale → Reconnecting at most once
// per staleness episode; while a reconnect is in flight the state is
// Reconnecting and the check does nothing.
func (w *Watchdog) checkOnce(ctx context.Context) {
	w.mu.Lock()
	if w.state != StateConnected || time.Since(w.lastReading) <= w.cfg.StaleAfter {
		w.mu.Unlock()
		return
	}
	w.state = StateStale
	w.mu.Unlock()
	w.out.Send(StateMsg{State: StateStale})

	w.mu.Lock()
	if w.stopped || w.state != StateStale {
		w.mu.Unlock()
		return
	}
	w.state = StateReconnecting
	conn := w.conn
	w.mu.Unlock()
	w.out.Send(StateMsg{State: StateReconnecting})

	go w.reconnect(ctx, conn)
}

func (w *Watchdog) reconnect(ctx context.Context, conn sensor.Connection) {
	var lastErr error

	delay := w.cfg.BackoffBase
	for attempt := 0; attempt < w.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > w.cfg.BackoffCap {
				delay = w.cfg.BackoffCap
			}
		}

		conn.Stop()
		if err := conn.Initialize(ctx); err != nil {
			lastErr = err
			continue
		}

		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			conn.Stop()
			return
		}
		w.state = StateConnected
		w.lastReading = time.Now()
		w.mu.Unlock()
		w.out.Send(StateMsg{State: StateConnected})
		return
	}

	w.transition(StateFailed)
	w.out.Send(FatalMsg{Err: fmt.Errorf("reconnect failed after %d attempts: %w", w.cfg.MaxAttempts, lastErr)})
}

func (w *Watchdog) transition(s State) {
	w.mu.Lock()
	if w.state == s {
		w.mu.Unlock()
		return
	}
	w.state = s
	w.mu.Unlock()
	w.out.Send(StateMsg{State: s})
}

// Stop tears supervision down and releases the connection. Idempotent
// and safe to call even if Start never ran or is still in flight.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	cancel := w.cancel
	conn := w.conn
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Stop()
	}
}
