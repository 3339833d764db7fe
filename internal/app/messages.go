package app

import "time"

// TickMsg drives the once-a-second refresh of uptime and last-reading
// age in the status bar.
type TickMsg time.Time
