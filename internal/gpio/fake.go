package gpio

import "fmt"

// Write records a single SetValue call.
type Write struct {
	Offset int
	Value  int
}

// FakeWriter is a test double that records GPIO writes.
type FakeWriter struct {
	// Writes contains every SetValue call in order.
	Writes []Write

	// Levels holds the current raw level of each known line.
	Levels map[int]int

	// initial holds the levels restored on Close.
	initial map[int]int

	// Closed tracks if Close was called
	Closed bool

	// WriteError, if set, will be returned by SetValue (the write is still recorded).
	WriteError error
}

// NewFakeWriter creates a FakeWriter with the given lines at their initial levels.
func NewFakeWriter(initial map[int]int) *FakeWriter {
	f := &FakeWriter{
		Levels:  make(map[int]int, len(initial)),
		initial: make(map[int]int, len(initial)),
	}
	for offset, v := range initial {
		f.Levels[offset] = v
		f.initial[offset] = v
	}
	return f
}

// SetValue records the write and updates the line level.
func (f *FakeWriter) SetValue(offset, value int) error {
	if _, ok := f.Levels[offset]; !ok {
		return fmt.Errorf("pin %d not requested", offset)
	}
	f.Writes = append(f.Writes, Write{Offset: offset, Value: value})
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Levels[offset] = value
	return nil
}

// Value returns the current level of the line.
func (f *FakeWriter) Value(offset int) (int, error) {
	v, ok := f.Levels[offset]
	if !ok {
		return 0, fmt.Errorf("pin %d not requested", offset)
	}
	return v, nil
}

// WritesTo returns the values written to one line, in order.
func (f *FakeWriter) WritesTo(offset int) []int {
	var out []int
	for _, w := range f.Writes {
		if w.Offset == offset {
			out = append(out, w.Value)
		}
	}
	return out
}

// Close restores initial levels and marks the writer as closed.
func (f *FakeWriter) Close() error {
	for offset, v := range f.initial {
		f.Levels[offset] = v
	}
	f.Closed = true
	return nil
}

// Reset clears recorded writes.
func (f *FakeWriter) Reset() {
	f.Writes = nil
	f.Closed = false
	f.WriteError = nil
}
