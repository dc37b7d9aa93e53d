// Package protocol implements the board side of the single-character command
// protocol: opcode dispatch and the text replies sent back over the link.
package protocol

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sweeney/relay-board/internal/logic"
)

// Reply tags.
const (
	TagAllOn     = "ALL_DEVICES_ON"
	TagAllOff    = "ALL_DEVICES_OFF"
	TagStatus    = "STATUS"
	TagPong      = "PONG"
	TagHeartbeat = "HEARTBEAT"
	TagError     = "ERROR"
)

// LineEnd terminates every outbound line.
const LineEnd = "\r\n"

// ErrorPulse is how long the indicator is held off when an error is signalled.
const ErrorPulse = 100 * time.Millisecond

// Gate decides whether replies may be transmitted.
type Gate interface {
	Connected() bool
}

// Indicator is the visible activity LED.
type Indicator interface {
	Toggle() error
	Pulse(sleep func(time.Duration), d time.Duration) error
}

// Emitter formats replies and writes them to the link while the gate is open.
type Emitter struct {
	w          io.Writer
	gate       Gate
	indicator  Indicator
	sleep      func(time.Duration)
	sent       int
	suppressed int
}

// NewEmitter creates an emitter. indicator and sleep may be nil.
func NewEmitter(w io.Writer, gate Gate, indicator Indicator, sleep func(time.Duration)) *Emitter {
	return &Emitter{w: w, gate: gate, indicator: indicator, sleep: sleep}
}

// FormatResponse returns "<tag>:<message>" with a line terminator.
func FormatResponse(tag, message string) string {
	return tag + ":" + message + LineEnd
}

// FormatError returns "ERROR:<code>:<message>" with a line terminator.
func FormatError(code int, message string) string {
	return fmt.Sprintf("%s:%d:%s%s", TagError, code, message, LineEnd)
}

// FormatStatus returns the status payload "c0,c1" where each field is 1 or 0.
func FormatStatus(states [logic.NumChannels]bool) string {
	fields := make([]string, len(states))
	for i, on := range states {
		if on {
			fields[i] = "1"
		} else {
			fields[i] = "0"
		}
	}
	return strings.Join(fields, ",")
}

// SendResponse transmits "<tag>:<message>". Nothing is written when the link
// handshake did not succeed.
func (e *Emitter) SendResponse(tag, message string) error {
	return e.send(tag, FormatResponse(tag, message))
}

// SendStatus transmits the full status snapshot.
func (e *Emitter) SendStatus(states [logic.NumChannels]bool) error {
	return e.SendResponse(TagStatus, FormatStatus(states))
}

// SendError transmits "ERROR:<code>:<message>" and pulses the indicator off
// then on. The pulse happens even when the link is down.
func (e *Emitter) SendError(code int, message string) error {
	err := e.send(TagError, FormatError(code, message))
	if e.indicator != nil {
		if perr := e.indicator.Pulse(e.sleep, ErrorPulse); perr != nil {
			log.Printf("emit: indicator pulse error: %v", perr)
		}
	}
	return err
}

// Sent returns how many lines were written.
func (e *Emitter) Sent() int {
	return e.sent
}

// Suppressed returns how many lines were dropped by the gate.
func (e *Emitter) Suppressed() int {
	return e.suppressed
}

func (e *Emitter) send(tag, line string) error {
	if e.gate == nil || !e.gate.Connected() {
		e.suppressed++
		log.Printf("emit: suppressed %s (link not connected)", tag)
		return nil
	}
	if _, err := io.WriteString(e.w, line); err != nil {
		return fmt.Errorf("write %s: %w", tag, err)
	}
	e.sent++
	return nil
}
