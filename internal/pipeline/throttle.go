package pipeline

import "time"

// Throttle rate-limits user-facing alert notifications with a
// cooldown timer.
type Throttle struct {
	cooldown time.Duration
	last     time.Time
	now      func() time.Time
}

// NewThrottle creates a throttle with the given cooldown.
func NewThrottle(cooldown time.Duration) *Throttle {
	return &Throttle{cooldown: cooldown, now: time.Now}
}

// ShouldFire reports whether an alert notification may go out now.
// Returns true only when isAlert holds and the cooldown has elapsed
// (or the throttle has never fired); firing restarts the cooldown.
func (t *Throttle) ShouldFire(isAlert bool) bool {
	if !isAlert {
		return false
	}
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.cooldown {
		return false
	}
	t.last = now
	return true
}
