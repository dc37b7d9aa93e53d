// Package logic contains the pure state and protocol logic of the relay board.
// This package has NO external dependencies (no GPIO, serial, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// NumChannels is the fixed number of relay channels on the board.
const NumChannels = 2

// State represents the logical state of a relay channel.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// StateOf converts a boolean channel state to its logical State.
func StateOf(on bool) State {
	if on {
		return StateOn
	}
	return StateOff
}

// EventType represents a state mutation applied by a command.
type EventType string

const (
	EventRelayOn  EventType = "RELAY_ON"
	EventRelayOff EventType = "RELAY_OFF"
	EventAllOn    EventType = "ALL_ON"
	EventAllOff   EventType = "ALL_OFF"
)

// Event represents a state mutation to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Channel   int // -1 for events that affect every channel
	Opcode    byte
	States    [NumChannels]State
}

// Counts tracks command activity since startup.
type Counts struct {
	Dispatched int
	Unknown    int
	Toggles    int
	Heartbeats int
}

// ChannelName returns the letter used for a channel in logs and payloads.
func ChannelName(index int) string {
	switch index {
	case 0:
		return "A"
	case 1:
		return "B"
	}
	return "?"
}
