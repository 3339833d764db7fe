// Package sensor provides heart-rate sensor connections. A Connection
// streams Reading values through an emit callback; two implementations
// exist, a real BLE heart-rate device and a synthetic generator for
// demo mode.
package sensor

import (
	"context"
	"time"
)

// ContactStatus reports whether the sensor was touching skin when a
// reading was taken.
type ContactStatus int

const (
	ContactUnknown ContactStatus = iota
	ContactDetected
	ContactLost
)

func (c ContactStatus) String() string {
	switch c {
	case ContactDetected:
		return "contact"
	case ContactLost:
		return "no-contact"
	default:
		return "unknown"
	}
}

// Reading is a single heart-rate measurement. RR holds the inter-beat
// intervals carried by the measurement, if any.
type Reading struct {
	BPM     uint
	Contact ContactStatus
	RR      []time.Duration
	At      time.Time
}

// Disconnected reports whether this reading indicates a lost sensor:
// a zero rate or explicit loss of skin contact.
func (r Reading) Disconnected() bool {
	return r.BPM == 0 || r.Contact == ContactLost
}

// Connection is a heart-rate sensor backend. Initialize blocks until
// the sensor is streaming readings into the emit callback supplied at
// construction, and may take arbitrarily long. Stop tears the
// connection down and is safe to call multiple times or before
// Initialize.
type Connection interface {
	Initialize(ctx context.Context) error
	Stop()
}
