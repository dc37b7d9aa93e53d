package link

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// DefaultBaud is the rate of both the wireless module and the local console.
const DefaultBaud = 9600

// SerialLink is a Link over a serial port (e.g. an HC-05 bound to /dev/rfcomm0).
type SerialLink struct {
	port serial.Port
	name string
}

// OpenSerial opens the port 8N1 at baud. Reads time out after pacing, which
// both gates reads on availability and spaces out burst arrivals.
func OpenSerial(name string, baud int, pacing time.Duration) (*SerialLink, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}

	if err := port.SetReadTimeout(pacing); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	// Discard anything the module buffered before we were listening.
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("reset input buffer: %w", err)
	}

	return &SerialLink{port: port, name: name}, nil
}

// Read reads available bytes, returning 0, nil once the pacing timeout expires.
func (s *SerialLink) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

// Write sends bytes to the controller.
func (s *SerialLink) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Close releases the port.
func (s *SerialLink) Close() error {
	return s.port.Close()
}

// Name returns the device path.
func (s *SerialLink) Name() string {
	return s.name
}

// IsDisconnect reports whether err means the port went away
// (device unplugged, rfcomm binding dropped) rather than a configuration fault.
func IsDisconnect(err error) bool {
	if err == nil {
		return false
	}
	var code serial.PortErrorCode
	var portErr *serial.PortError
	var portErrVal serial.PortError
	switch {
	case errors.As(err, &portErr):
		code = portErr.Code()
	case errors.As(err, &portErrVal):
		code = portErrVal.Code()
	default:
		return false
	}
	switch code {
	case serial.PortNotFound, serial.PortClosed, serial.InvalidSerialPort:
		return true
	}
	return false
}
