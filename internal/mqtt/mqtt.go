// Package mqtt bridges the relay board to an MQTT broker: state changes and
// lifecycle events are published, and command bytes can be received.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/relay-board/internal/logic"
)

// Topic is the MQTT topic for relay state events.
const Topic = "home/relay-board/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/relay-board/system"

// TopicCommand is the MQTT topic whose payload bytes are dispatched as opcodes.
const TopicCommand = "home/relay-board/command"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a relay state event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// CommandSource delivers opcode bytes received over MQTT.
type CommandSource interface {
	Commands() <-chan []byte
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Relay RelayPayload `json:"relay"`
}

// RelayPayload contains the relay event details.
type RelayPayload struct {
	Timestamp string       `json:"timestamp"`
	Event     string       `json:"event"`
	Channel   string       `json:"channel,omitempty"`
	Opcode    string       `json:"opcode"`
	A         ChannelState `json:"a"`
	B         ChannelState `json:"b"`
}

// ChannelState represents a single channel's state.
type ChannelState struct {
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for a relay event.
func FormatPayload(event logic.Event) ([]byte, error) {
	p := RelayPayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		Opcode:    string(rune(event.Opcode)),
		A:         ChannelState{State: string(event.States[0])},
		B:         ChannelState{State: string(event.States[1])},
	}
	if event.Channel >= 0 {
		p.Channel = logic.ChannelName(event.Channel)
	}
	return json.Marshal(Payload{Relay: p})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// WillPayload is the retained last-will message published by the broker if
// the daemon disappears without a clean shutdown.
func WillPayload() []byte {
	data, _ := json.Marshal(SystemPayload{System: SystemPayloadInner{Event: "OFFLINE", Reason: "LWT"}})
	return data
}
