package link

import (
	"bytes"
	"strings"
)

// FakeLink is a test double with a scripted inbound queue and recorded output.
type FakeLink struct {
	// inbound holds bytes not yet read.
	inbound []byte

	// Written contains everything written to the link.
	Written bytes.Buffer

	// Respond, if set, is called after every Write with the written bytes.
	// Whatever it returns is queued as inbound data (a scripted peer).
	Respond func(p []byte) []byte

	// ReadError and WriteError, if set, are returned by Read and Write.
	ReadError  error
	WriteError error

	// ReadSize limits how many bytes a single Read returns (0 = unlimited).
	ReadSize int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeLink creates a FakeLink with nothing queued.
func NewFakeLink() *FakeLink {
	return &FakeLink{}
}

// Feed queues bytes as if they arrived from the controller.
func (f *FakeLink) Feed(s string) {
	f.inbound = append(f.inbound, s...)
}

// Pending returns how many inbound bytes have not been read.
func (f *FakeLink) Pending() int {
	return len(f.inbound)
}

// Read returns queued bytes, or 0, nil when the queue is empty.
func (f *FakeLink) Read(p []byte) (int, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	n := len(p)
	if f.ReadSize > 0 && n > f.ReadSize {
		n = f.ReadSize
	}
	n = copy(p[:n], f.inbound)
	f.inbound = f.inbound[n:]
	return n, nil
}

// Write records the bytes and lets Respond queue a reply.
func (f *FakeLink) Write(p []byte) (int, error) {
	if f.WriteError != nil {
		return 0, f.WriteError
	}
	f.Written.Write(p)
	if f.Respond != nil {
		f.inbound = append(f.inbound, f.Respond(p)...)
	}
	return len(p), nil
}

// Close marks the link as closed.
func (f *FakeLink) Close() error {
	f.Closed = true
	return nil
}

// Lines returns the written output split into CRLF-terminated lines,
// without terminators. Bytes after the last terminator are dropped.
func (f *FakeLink) Lines() []string {
	s := f.Written.String()
	end := strings.LastIndex(s, "\r\n")
	if end < 0 {
		return nil
	}
	return strings.Split(s[:end], "\r\n")
}

// Reset clears recorded output and the inbound queue.
func (f *FakeLink) Reset() {
	f.inbound = nil
	f.Written.Reset()
	f.ReadError = nil
	f.WriteError = nil
}

// PongResponder replies to the probe token the way a live controller does.
func PongResponder(p []byte) []byte {
	if bytes.IndexByte(p, ProbeToken) >= 0 {
		return []byte("PONG\r\n")
	}
	return nil
}
