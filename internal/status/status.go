// Package status provides a thread-safe status tracker for the relay-board daemon.
// The main loop writes it; HTTP handlers and MQTT snapshots read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/relay-board/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Port         string
	Baud         int
	TickMs       int64
	PacingMs     int64
	HeartbeatMs  int64
	SettleMs     int64
	ReprobeMs    int64
	PinA         int
	PinB         int
	PinIndicator int
	Broker       string
	HTTPAddr     string
}

// LinkInfo describes the wireless link as last seen by the main loop.
type LinkInfo struct {
	State      string
	Probes     int
	Sent       int
	Suppressed int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Channels      [logic.NumChannels]logic.State
	Counts        logic.Counts
	Link          LinkInfo
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
// Every channel starts OFF, matching the board at startup.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	t := &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Link:      LinkInfo{State: "UNINITIALIZED"},
		},
		now: time.Now,
	}
	for i := range t.snap.Channels {
		t.snap.Channels[i] = logic.StateOff
	}
	return t
}

// SetClock replaces the clock used to stamp snapshots. Used by tests.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

// Update sets channel states and command counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(channels [logic.NumChannels]logic.State, counts logic.Counts) {
	t.mu.Lock()
	t.snap.Channels = channels
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetLink sets the link state and reply counters.
func (t *Tracker) SetLink(info LinkInfo) {
	t.mu.Lock()
	t.snap.Link = info
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	now := t.now
	t.mu.RUnlock()
	s.Now = now()
	return s
}
