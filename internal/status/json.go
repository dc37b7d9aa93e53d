package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/relay-board/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	A             string       `json:"a"`
	B             string       `json:"b"`
	Wire          string       `json:"wire"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Link          LinkJSON     `json:"link"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"command_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// LinkJSON reports the wireless link state.
type LinkJSON struct {
	State      string `json:"state"`
	Port       string `json:"port"`
	Probes     int    `json:"probes"`
	Sent       int    `json:"replies_sent"`
	Suppressed int    `json:"replies_suppressed"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of command counts.
type CountsJSON struct {
	Dispatched int `json:"dispatched"`
	Unknown    int `json:"unknown"`
	Toggles    int `json:"toggles"`
	Heartbeats int `json:"heartbeats"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Port         string `json:"port"`
	Baud         int    `json:"baud"`
	TickMs       int64  `json:"tick_ms"`
	PacingMs     int64  `json:"pacing_ms"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	SettleMs     int64  `json:"settle_ms"`
	ReprobeMs    int64  `json:"reprobe_ms"`
	PinA         int    `json:"pin_a"`
	PinB         int    `json:"pin_b"`
	PinIndicator int    `json:"pin_indicator"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
}

// WireStatus renders channel states the way the link reports them ("1,0").
func WireStatus(snap Snapshot) string {
	out := make([]byte, 0, 2*len(snap.Channels))
	for i, st := range snap.Channels {
		if i > 0 {
			out = append(out, ',')
		}
		if st == logic.StateOn {
			out = append(out, '1')
		} else {
			out = append(out, '0')
		}
	}
	return string(out)
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		A:             string(snap.Channels[0]),
		B:             string(snap.Channels[1]),
		Wire:          WireStatus(snap),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Link: LinkJSON{
			State:      snap.Link.State,
			Port:       snap.Config.Port,
			Probes:     snap.Link.Probes,
			Sent:       snap.Link.Sent,
			Suppressed: snap.Link.Suppressed,
		},
		MQTT: MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Dispatched: snap.Counts.Dispatched,
			Unknown:    snap.Counts.Unknown,
			Toggles:    snap.Counts.Toggles,
			Heartbeats: snap.Counts.Heartbeats,
		},
		Config: ConfigJSON(snap.Config),
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
