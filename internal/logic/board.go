package logic

// Driver mirrors a channel's logical state onto its output.
type Driver interface {
	Drive(index int, on bool) error
}

// Board is the single owner of relay channel state.
// Not safe for concurrent use; it belongs to the main loop.
type Board struct {
	states [NumChannels]bool
	driver Driver
}

// NewBoard creates a board with every channel off.
// The driver may be nil, in which case only the logical state is tracked.
func NewBoard(driver Driver) *Board {
	return &Board{driver: driver}
}

// Toggle flips the channel at index and drives its output.
// Out-of-range indices are ignored: no state change, no output write.
// Returns whether the index was valid and any driver error.
func (b *Board) Toggle(index int) (bool, error) {
	if index < 0 || index >= NumChannels {
		return false, nil
	}
	b.states[index] = !b.states[index]
	return true, b.drive(index)
}

// SetAll sets every channel to on and drives every output.
// All channels are updated even if a driver write fails; the first error is returned.
func (b *Board) SetAll(on bool) error {
	var first error
	for i := range b.states {
		b.states[i] = on
		if err := b.drive(i); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Sync drives every output to match the current logical state.
func (b *Board) Sync() error {
	var first error
	for i := range b.states {
		if err := b.drive(i); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// On reports whether the channel at index is on. Out-of-range indices report false.
func (b *Board) On(index int) bool {
	if index < 0 || index >= NumChannels {
		return false
	}
	return b.states[index]
}

// States returns a copy of the raw channel states.
func (b *Board) States() [NumChannels]bool {
	return b.states
}

// Snapshot returns the logical state of every channel.
func (b *Board) Snapshot() [NumChannels]State {
	var out [NumChannels]State
	for i, on := range b.states {
		out[i] = StateOf(on)
	}
	return out
}

func (b *Board) drive(index int) error {
	if b.driver == nil {
		return nil
	}
	return b.driver.Drive(index, b.states[index])
}
