//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"sort"

	"github.com/warthog618/go-gpiocdev"
)

// RealWriter drives GPIO outputs on actual hardware using Linux GPIO character device.
type RealWriter struct {
	chip    *gpiocdev.Chip
	lines   map[int]*gpiocdev.Line
	initial map[int]int
}

// NewRealWriter requests each offset as an output driven to its initial level.
// The initial level is also the level restored on Close, so relays are left
// de-energized when the daemon exits.
func NewRealWriter(chipName string, initial map[int]int) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer("relay-board"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &RealWriter{
		chip:    chip,
		lines:   make(map[int]*gpiocdev.Line, len(initial)),
		initial: make(map[int]int, len(initial)),
	}

	// Request in a stable order so partial failures are reproducible.
	offsets := make([]int, 0, len(initial))
	for offset := range initial {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	for _, offset := range offsets {
		value := initial[offset]
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(value))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request output pin %d: %w", offset, err)
		}
		w.lines[offset] = line
		w.initial[offset] = value
	}

	return w, nil
}

// SetValue drives the line to the raw level.
func (w *RealWriter) SetValue(offset, value int) error {
	line, ok := w.lines[offset]
	if !ok {
		return fmt.Errorf("pin %d not requested", offset)
	}
	if err := line.SetValue(value); err != nil {
		return fmt.Errorf("set pin %d: %w", offset, err)
	}
	return nil
}

// Value returns the raw level currently driven on the line.
func (w *RealWriter) Value(offset int) (int, error) {
	line, ok := w.lines[offset]
	if !ok {
		return 0, fmt.Errorf("pin %d not requested", offset)
	}
	v, err := line.Value()
	if err != nil {
		return 0, fmt.Errorf("read pin %d: %w", offset, err)
	}
	return v, nil
}

// Close restores every line to its initial level before releasing it.
func (w *RealWriter) Close() error {
	var errs []error

	for offset, line := range w.lines {
		if err := line.SetValue(w.initial[offset]); err != nil {
			errs = append(errs, fmt.Errorf("restore pin %d: %w", offset, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", offset, err))
		}
	}
	w.lines = nil

	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		w.chip = nil
	}

	return errors.Join(errs...)
}
