package status

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/relay-board/internal/logic"
)

var (
	start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg   = Config{
		Port:         "/dev/rfcomm0",
		Baud:         9600,
		TickMs:       20,
		PacingMs:     10,
		HeartbeatMs:  5000,
		SettleMs:     500,
		PinA:         17,
		PinB:         27,
		PinIndicator: 22,
		Broker:       "tcp://localhost:1883",
		HTTPAddr:     ":8080",
	}
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewTracker(t *testing.T) {
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config != cfg {
		t.Errorf("Config: got %+v", snap.Config)
	}
	if snap.Channels != [logic.NumChannels]logic.State{logic.StateOff, logic.StateOff} {
		t.Errorf("channels should start OFF, got %v", snap.Channels)
	}
	if snap.Link.State != "UNINITIALIZED" {
		t.Errorf("Link.State: got %q", snap.Link.State)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(start, Config{})
	tr.Update([logic.NumChannels]logic.State{logic.StateOn, logic.StateOff}, logic.Counts{Dispatched: 4, Unknown: 1})
	tr.SetLink(LinkInfo{State: "CONNECTED", Probes: 1, Sent: 3})
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if snap.Channels[0] != logic.StateOn || snap.Channels[1] != logic.StateOff {
		t.Errorf("channels: got %v", snap.Channels)
	}
	if snap.Counts.Dispatched != 4 || snap.Counts.Unknown != 1 {
		t.Errorf("counts: got %+v", snap.Counts)
	}
	if snap.Link.State != "CONNECTED" || snap.Link.Sent != 3 {
		t.Errorf("link: got %+v", snap.Link)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(start, Config{})
	if tr.Snapshot().Network != nil {
		t.Error("expected nil Network initially")
	}

	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected"})
	snap := tr.Snapshot()
	if snap.Network == nil || snap.Network.IP != "192.168.1.42" {
		t.Errorf("network: got %+v", snap.Network)
	}
}

func TestSnapshotUptime(t *testing.T) {
	tr := NewTracker(start, Config{})
	tr.SetClock(fixedClock(start.Add(90 * time.Second)))

	if got := tr.Snapshot().Uptime(); got != 90*time.Second {
		t.Errorf("uptime: got %v, want 90s", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(start, Config{})
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tr.Update([logic.NumChannels]logic.State{logic.StateOf(i%2 == 0), logic.StateOff}, logic.Counts{Dispatched: i})
			tr.SetMQTTConnected(i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestWireStatus(t *testing.T) {
	tests := []struct {
		channels [logic.NumChannels]logic.State
		want     string
	}{
		{[logic.NumChannels]logic.State{logic.StateOff, logic.StateOff}, "0,0"},
		{[logic.NumChannels]logic.State{logic.StateOn, logic.StateOff}, "1,0"},
		{[logic.NumChannels]logic.State{logic.StateOff, logic.StateOn}, "0,1"},
		{[logic.NumChannels]logic.State{logic.StateOn, logic.StateOn}, "1,1"},
	}
	for _, tt := range tests {
		if got := WireStatus(Snapshot{Channels: tt.channels}); got != tt.want {
			t.Errorf("%v: got %q, want %q", tt.channels, got, tt.want)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	tr := NewTracker(start, cfg)
	tr.SetClock(fixedClock(start.Add(65 * time.Second)))
	tr.Update([logic.NumChannels]logic.State{logic.StateOn, logic.StateOff}, logic.Counts{Dispatched: 2, Toggles: 1, Heartbeats: 13})
	tr.SetLink(LinkInfo{State: "CONNECTED", Probes: 1, Sent: 14})

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := sj.Status
	if s.A != "ON" || s.B != "OFF" || s.Wire != "1,0" {
		t.Errorf("channels: a=%q b=%q wire=%q", s.A, s.B, s.Wire)
	}
	if s.UptimeSeconds != 65 {
		t.Errorf("uptime: got %d, want 65", s.UptimeSeconds)
	}
	if s.Link.State != "CONNECTED" || s.Link.Port != "/dev/rfcomm0" || s.Link.Sent != 14 {
		t.Errorf("link: got %+v", s.Link)
	}
	if s.Counts.Heartbeats != 13 || s.Counts.Toggles != 1 {
		t.Errorf("counts: got %+v", s.Counts)
	}
	if s.Config.HeartbeatMs != 5000 || s.Config.PinA != 17 || s.Config.Baud != 9600 {
		t.Errorf("config: got %+v", s.Config)
	}
	if s.Event != "" || s.Network != nil {
		t.Error("web JSON should omit event and nil network")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(start, cfg)
	tr.SetClock(fixedClock(start))
	tr.SetNetwork(&NetworkInfo{Type: "ethernet", Status: "connected", IP: "10.0.0.5"})

	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")
	if strings.Contains(string(data), "\n") {
		t.Error("event payload should be compact")
	}

	var sj StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" || sj.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason: got %q/%q", sj.Status.Event, sj.Status.Reason)
	}
	if sj.Status.Network == nil || sj.Status.Network.IP != "10.0.0.5" {
		t.Errorf("network: got %+v", sj.Status.Network)
	}
}
