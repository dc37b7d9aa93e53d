package gpio

import (
	"fmt"
	"time"
)

// RelayDriver maps relay channel state onto active-low output pins.
// It implements logic.Driver.
type RelayDriver struct {
	w    Writer
	pins []int
}

// NewRelayDriver creates a driver for the given channel pins, indexed by channel.
func NewRelayDriver(w Writer, pins ...int) *RelayDriver {
	return &RelayDriver{w: w, pins: pins}
}

// Drive writes the inverse level of on: the relay module energizes on low.
func (d *RelayDriver) Drive(index int, on bool) error {
	if index < 0 || index >= len(d.pins) {
		return fmt.Errorf("relay channel %d out of range", index)
	}
	return d.w.SetValue(d.pins[index], RelayLevel(on))
}

// Pins returns the channel pin assignment.
func (d *RelayDriver) Pins() []int {
	return d.pins
}

// RelayLevel returns the raw level that puts an active-low relay in state on.
func RelayLevel(on bool) int {
	if on {
		return Low
	}
	return High
}

// Indicator is the visible activity LED.
type Indicator struct {
	w   Writer
	pin int
}

// NewIndicator creates an indicator on the given pin.
func NewIndicator(w Writer, pin int) *Indicator {
	return &Indicator{w: w, pin: pin}
}

// Toggle inverts the indicator's current level.
func (i *Indicator) Toggle() error {
	v, err := i.w.Value(i.pin)
	if err != nil {
		return fmt.Errorf("indicator: %w", err)
	}
	return i.w.SetValue(i.pin, 1-v)
}

// Lit reports whether the indicator is currently driven high.
func (i *Indicator) Lit() bool {
	v, err := i.w.Value(i.pin)
	return err == nil && v == High
}

// Pulse drives the indicator off, waits d, then drives it on.
func (i *Indicator) Pulse(sleep func(time.Duration), d time.Duration) error {
	if err := i.w.SetValue(i.pin, Low); err != nil {
		return fmt.Errorf("indicator: %w", err)
	}
	if sleep != nil {
		sleep(d)
	}
	if err := i.w.SetValue(i.pin, High); err != nil {
		return fmt.Errorf("indicator: %w", err)
	}
	return nil
}
