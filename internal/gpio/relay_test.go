package gpio

import (
	"testing"
	"time"
)

func TestRelayLevelIsInverse(t *testing.T) {
	if RelayLevel(true) != Low {
		t.Error("on should drive low")
	}
	if RelayLevel(false) != High {
		t.Error("off should drive high")
	}
}

func TestRelayDriverDrive(t *testing.T) {
	tests := []struct {
		index   int
		on      bool
		pin     int
		wantLvl int
	}{
		{0, true, DefaultPinRelayA, Low},
		{0, false, DefaultPinRelayA, High},
		{1, true, DefaultPinRelayB, Low},
		{1, false, DefaultPinRelayB, High},
	}

	for _, tt := range tests {
		f := NewFakeWriter(map[int]int{DefaultPinRelayA: High, DefaultPinRelayB: High})
		d := NewRelayDriver(f, DefaultPinRelayA, DefaultPinRelayB)

		if err := d.Drive(tt.index, tt.on); err != nil {
			t.Fatalf("Drive(%d, %v): %v", tt.index, tt.on, err)
		}
		if v, _ := f.Value(tt.pin); v != tt.wantLvl {
			t.Errorf("Drive(%d, %v): pin %d level %d, want %d", tt.index, tt.on, tt.pin, v, tt.wantLvl)
		}
	}
}

func TestRelayDriverOutOfRange(t *testing.T) {
	f := NewFakeWriter(map[int]int{DefaultPinRelayA: High, DefaultPinRelayB: High})
	d := NewRelayDriver(f, DefaultPinRelayA, DefaultPinRelayB)

	if err := d.Drive(2, true); err == nil {
		t.Error("expected error for out-of-range channel")
	}
	if len(f.Writes) != 0 {
		t.Errorf("expected no writes, got %+v", f.Writes)
	}
}

func TestIndicatorToggle(t *testing.T) {
	f := NewFakeWriter(map[int]int{DefaultPinIndicator: High})
	ind := NewIndicator(f, DefaultPinIndicator)

	if !ind.Lit() {
		t.Fatal("indicator should start lit")
	}
	if err := ind.Toggle(); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if ind.Lit() {
		t.Error("indicator should be dark after one toggle")
	}
	ind.Toggle()
	if !ind.Lit() {
		t.Error("indicator should be lit after two toggles")
	}
}

func TestIndicatorPulse(t *testing.T) {
	f := NewFakeWriter(map[int]int{DefaultPinIndicator: High})
	ind := NewIndicator(f, DefaultPinIndicator)

	var slept time.Duration
	if err := ind.Pulse(func(d time.Duration) { slept += d }, 100*time.Millisecond); err != nil {
		t.Fatalf("Pulse: %v", err)
	}

	got := f.WritesTo(DefaultPinIndicator)
	if len(got) != 2 || got[0] != Low || got[1] != High {
		t.Errorf("pulse writes: got %v, want [0 1]", got)
	}
	if slept != 100*time.Millisecond {
		t.Errorf("slept %v, want 100ms", slept)
	}
}

func TestIndicatorUnknownPin(t *testing.T) {
	f := NewFakeWriter(map[int]int{})
	ind := NewIndicator(f, DefaultPinIndicator)

	if err := ind.Toggle(); err == nil {
		t.Error("expected error for unrequested pin")
	}
	if ind.Lit() {
		t.Error("unrequested indicator should not report lit")
	}
}
