package sensor

import (
	"context"
	"math"
	"sync"
	"time"
)

// Mock generator script: a slow sinusoid around the base rate, with a
// contact dropout window so the disconnected path gets exercised.
const (
	mockBaseBPM    = 72
	mockSwing      = 18
	mockPeriod     = 60 // ticks per full sinusoid cycle
	mockDropEvery  = 90 // ticks between contact dropouts
	mockDropLength = 8  // ticks a dropout lasts
)

// MockConnection generates synthetic heart-rate readings on a fixed
// cadence. The sequence is deterministic: no randomness, so tests and
// demo runs behave reproducibly.
type MockConnection struct {
	interval time.Duration
	emit     func(Reading)

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewMockConnection creates a generator emitting one reading per interval.
func NewMockConnection(interval time.Duration, emit func(Reading)) *MockConnection {
	return &MockConnection{interval: interval, emit: emit}
}

// Initialize starts the generator loop. Never fails.
func (c *MockConnection) Initialize(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.mu.Unlock()

	go c.loop(loopCtx)
	return nil
}

func (c *MockConnection) loop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			c.emit(readingAt(tick, t))
			tick++
		}
	}
}

// readingAt computes the scripted reading for a tick counter.
func readingAt(tick int, at time.Time) Reading {
	if tick%mockDropEvery >= mockDropEvery-mockDropLength {
		return Reading{BPM: 0, Contact: ContactLost, At: at}
	}

	phase := 2 * math.Pi * float64(tick%mockPeriod) / mockPeriod
	bpm := uint(math.Round(mockBaseBPM + mockSwing*math.Sin(phase)))

	rr := time.Duration(0)
	if bpm > 0 {
		rr = time.Minute / time.Duration(bpm)
	}

	return Reading{
		BPM:     bpm,
		Contact: ContactDetected,
		RR:      []time.Duration{rr},
		At:      at,
	}
}

// Stop halts the generator. Idempotent.
func (c *MockConnection) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
