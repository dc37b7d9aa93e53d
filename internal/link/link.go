// Package link provides the wireless serial link to the paired controller
// and the startup handshake that decides whether replies are sent over it.
package link

import (
	"fmt"
	"io"
)

// Link is a byte stream to the paired controller.
//
// Read must not block indefinitely: when nothing arrives within the pacing
// window it returns 0, nil. This doubles as the availability check.
type Link interface {
	io.ReadWriteCloser
}

// MaxBurst caps how many bytes are drained in one loop iteration.
const MaxBurst = 256

// Drain reads every byte currently available, up to max.
// It stops at the first read that returns no data.
func Drain(r io.Reader, max int) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 64)
	for len(buf) < max {
		want := max - len(buf)
		if want > len(chunk) {
			want = len(chunk)
		}
		n, err := r.Read(chunk[:want])
		buf = append(buf, chunk[:n]...)
		if err != nil {
			if err == io.EOF {
				return buf, nil
			}
			return buf, fmt.Errorf("read link: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return buf, nil
}
