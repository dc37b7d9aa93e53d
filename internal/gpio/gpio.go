// Package gpio provides relay and indicator outputs with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Writer drives GPIO output lines identified by BCM offset.
type Writer interface {
	// SetValue drives the line to the raw level (0 = low, 1 = high).
	SetValue(offset, value int) error

	// Value returns the raw level last driven on the line.
	Value(offset int) (int, error)

	// Close returns every line to its initial level and releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinRelayA    = 17 // Channel 0
	DefaultPinRelayB    = 27 // Channel 1
	DefaultPinIndicator = 22 // Activity LED
)

// Raw levels
const (
	Low  = 0
	High = 1
)

// DefaultChip is the GPIO character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"
