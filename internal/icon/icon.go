// Package icon owns the rendered status badge and its handle
// lifecycle: every publish creates one handle and releases exactly the
// previously current one, so no handle leaks and none is used after
// release.
package icon

import (
	"errors"
	"math"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"pulsewatch.dev/internal/pipeline"
)

var (
	errReleased = errors.New("icon: handle already released")
	errClosed   = errors.New("icon: manager closed")
)

// Handle is an opaque reference to one rendered badge surface. It is
// released exactly once, by the Manager that created it.
type Handle struct {
	id uuid.UUID

	mu       sync.Mutex
	surface  string
	released bool
}

// ID identifies the handle.
func (h *Handle) ID() uuid.UUID { return h.id }

// Surface returns the rendered badge, or an error if the handle has
// already been released.
func (h *Handle) Surface() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return "", errReleased
	}
	return h.surface, nil
}

// release frees the surface. Second release is an error.
func (h *Handle) release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return errReleased
	}
	h.released = true
	h.surface = ""
	return nil
}

// Manager renders frames and manages the single current handle.
// Publish must not be called concurrently with itself; the bubbletea
// update loop serializes callers.
type Manager struct {
	mu       sync.Mutex
	current  *Handle
	closed   bool
	created  int
	released int
}

// NewManager creates an empty manager with no current handle.
func NewManager() *Manager {
	return &Manager{}
}

// Publish renders the frame offscreen, swaps it in as the current
// handle, then releases the previous one. The first publish has
// nothing to release.
func (m *Manager) Publish(f pipeline.Frame) (*Handle, error) {
	surface := renderSurface(f)

	h := &Handle{id: uuid.New(), surface: surface}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, errClosed
	}
	prev := m.current
	m.current = h
	m.created++
	m.mu.Unlock()

	// The swap is visible before the old surface goes away.
	if prev != nil {
		if err := prev.release(); err == nil {
			m.mu.Lock()
			m.released++
			m.mu.Unlock()
		}
	}

	return h, nil
}

// Current returns the current handle, nil before the first publish.
func (m *Manager) Current() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close releases the current handle. Idempotent; after Close every
// created handle has been released exactly once.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	cur := m.current
	m.current = nil
	m.mu.Unlock()

	if cur != nil {
		if err := cur.release(); err == nil {
			m.mu.Lock()
			m.released++
			m.mu.Unlock()
		}
	}
}

// Stats reports lifetime handle counts, for liveness verification.
func (m *Manager) Stats() (created, released int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created, m.released
}

// renderSurface draws the frame into a fixed square glyph area. The
// glyph width is the text's natural width scaled by the frame's fit
// factor; height compensates for the ~2:1 cell aspect ratio.
func renderSurface(f pipeline.Frame) string {
	width := int(math.Round(float64(lipgloss.Width(f.Text)) * f.Scale))
	if width < 1 {
		width = 1
	}
	height := width / 2
	if height < 1 {
		height = 1
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(f.Color).
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(f.Text)
}
