package link

import (
	"bytes"
	"log"
	"time"
)

// State is the connection state of the link.
type State int

const (
	StateUninitialized State = iota
	StateProbing
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateProbing:
		return "PROBING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnected:
		return "DISCONNECTED"
	}
	return "UNKNOWN"
}

// ProbeToken is the single byte sent to the peer during the handshake.
const ProbeToken = 'z'

// ackTokens are the substrings that mark a reply as an acknowledgement.
var ackTokens = [][]byte{[]byte("PONG"), []byte("OK")}

// IsAck reports whether reply contains a recognized acknowledgement (case-sensitive).
func IsAck(reply []byte) bool {
	for _, tok := range ackTokens {
		if bytes.Contains(reply, tok) {
			return true
		}
	}
	return false
}

// Handshake tracks whether the peer answered the startup probe.
//
// With a zero retry interval a failed probe is final: the link stays
// DISCONNECTED and replies are suppressed for the life of the process.
type Handshake struct {
	state     State
	retry     time.Duration
	lastProbe time.Time
	probes    int
	lastReply []byte
}

// NewHandshake creates an UNINITIALIZED handshake.
// retry > 0 allows re-probing that long after a failed probe.
func NewHandshake(retry time.Duration) *Handshake {
	return &Handshake{retry: retry}
}

// Probe sends the probe token, waits settle, and scans whatever arrived.
// Bytes read during the probe are consumed as the reply and not dispatched.
func (h *Handshake) Probe(l Link, settle time.Duration, sleep func(time.Duration), now time.Time) State {
	h.state = StateProbing
	h.lastProbe = now
	h.probes++

	if _, err := l.Write([]byte{ProbeToken}); err != nil {
		log.Printf("link: probe write error: %v", err)
		h.state = StateDisconnected
		return h.state
	}

	if sleep != nil {
		sleep(settle)
	}

	reply, err := Drain(l, MaxBurst)
	if err != nil {
		log.Printf("link: probe read error: %v", err)
	}
	h.lastReply = reply

	if IsAck(reply) {
		h.state = StateConnected
		log.Printf("link: handshake ok (probe %d, reply %q)", h.probes, reply)
	} else {
		h.state = StateDisconnected
		if h.retry > 0 {
			log.Printf("link: handshake failed (probe %d, reply %q), retrying in %v", h.probes, reply, h.retry)
		} else {
			log.Printf("link: handshake failed (reply %q), replies disabled", reply)
		}
	}
	return h.state
}

// RetryDue reports whether a disconnected link should be probed again.
func (h *Handshake) RetryDue(now time.Time) bool {
	return h.retry > 0 && h.state == StateDisconnected && now.Sub(h.lastProbe) >= h.retry
}

// Connected reports whether replies may be sent.
func (h *Handshake) Connected() bool {
	return h.state == StateConnected
}

// State returns the current connection state.
func (h *Handshake) State() State {
	return h.state
}

// Probes returns how many probes have been sent.
func (h *Handshake) Probes() int {
	return h.probes
}

// LastReply returns the bytes received during the last probe.
func (h *Handshake) LastReply() []byte {
	return h.lastReply
}
