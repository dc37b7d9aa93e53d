package logic

import "time"

// Heartbeat decides when a liveness message is due.
type Heartbeat struct {
	interval time.Duration
	last     time.Time
}

// NewHeartbeat creates a scheduler whose first beat is due one interval after start.
// An interval <= 0 disables the heartbeat.
func NewHeartbeat(interval time.Duration, start time.Time) *Heartbeat {
	return &Heartbeat{interval: interval, last: start}
}

// Due returns true if the interval has elapsed since the last beat (or start),
// and records now as the last beat when it does.
func (h *Heartbeat) Due(now time.Time) bool {
	if h.interval <= 0 {
		return false
	}
	if now.Sub(h.last) < h.interval {
		return false
	}
	h.last = now
	return true
}

// Last returns the time of the last beat (or start).
func (h *Heartbeat) Last() time.Time {
	return h.last
}

// Interval returns the configured interval.
func (h *Heartbeat) Interval() time.Duration {
	return h.interval
}
