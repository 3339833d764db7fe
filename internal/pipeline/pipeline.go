// Package pipeline turns raw sensor readings into renderable status
// frames, applying the disconnect, warn and alert policies.
package pipeline

import (
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pulsewatch.dev/internal/sensor"
)

// SentinelGlyph replaces the numeric value once a disconnect has
// lasted longer than the configured timeout. Distinct from any
// possible reading.
const SentinelGlyph = "--"

var errZeroWidth = errors.New("pipeline: display text has zero width")

// Options are the read-only policy inputs, owned by configuration.
// A threshold level <= 0 disables that threshold.
type Options struct {
	WarnLevel       int
	AlertLevel      int
	DisconnectAfter time.Duration
	BaseColor       lipgloss.Color
	WarnColor       lipgloss.Color
	GlyphWidth      int // target badge glyph width in cells
}

// Frame is one immutable rendered-status snapshot derived from a
// single reading. Scale is the factor by which the glyph is sized to
// fill the badge (target width over natural text width).
type Frame struct {
	Text         string
	Color        lipgloss.Color
	Scale        float64
	Warn         bool
	Alert        bool
	Disconnected bool
}

// Pipeline derives frames from readings. Not safe for concurrent use;
// the caller serializes Process calls (the bubbletea update loop).
type Pipeline struct {
	opts              Options
	disconnectedSince time.Time
	now               func() time.Time
}

// New creates a pipeline with the given policy options.
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts, now: time.Now}
}

// Process computes the status frame for one reading. A sizing failure
// is a local error: the caller logs it and skips the frame.
func (p *Pipeline) Process(r sensor.Reading) (Frame, error) {
	now := p.now()
	disconnected := r.Disconnected()
	text := strconv.FormatUint(uint64(r.BPM), 10)

	if disconnected {
		if p.disconnectedSince.IsZero() {
			p.disconnectedSince = now
		}
		if now.Sub(p.disconnectedSince) > p.opts.DisconnectAfter {
			text = SentinelGlyph
		}
	} else {
		p.disconnectedSince = time.Time{}
	}

	warn := p.opts.WarnLevel > 0 && int(r.BPM) >= p.opts.WarnLevel
	alert := p.opts.AlertLevel > 0 && int(r.BPM) >= p.opts.AlertLevel

	color := p.opts.BaseColor
	if warn {
		color = p.opts.WarnColor
	}

	scale, err := fitScale(text, p.opts.GlyphWidth)
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Text:         text,
		Color:        color,
		Scale:        scale,
		Warn:         warn,
		Alert:        alert,
		Disconnected: disconnected,
	}, nil
}

// fitScale sizes text into a fixed-width glyph area: the glyph grows
// by targetWidth over the text's natural rendered width.
func fitScale(text string, targetWidth int) (float64, error) {
	natural := lipgloss.Width(text)
	if natural == 0 {
		return 0, errZeroWidth
	}
	if targetWidth <= 0 {
		targetWidth = natural
	}
	return float64(targetWidth) / float64(natural), nil
}
