//go:build !tinygo

package console

import (
	"io"

	tty "github.com/mattn/go-tty"
)

// TTYSink backs the console hooks with a real terminal when the kernel
// runs in its host-side simulation mode (cmd/hostsim). It plays the role
// UART0 plays on hardware: PutByte writes a character, GetByte/Poll read
// one without blocking the caller indefinitely.
type TTYSink struct {
	t        *tty.TTY
	pending  byte
	hasInput bool
}

// NewTTYSink opens the controlling terminal in raw mode.
func NewTTYSink() (*TTYSink, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}
	return &TTYSink{t: t}, nil
}

// Close restores the terminal.
func (s *TTYSink) Close() error { return s.t.Close() }

func (s *TTYSink) PutByte(b byte) {
	s.t.Output().Write([]byte{b})
}

func (s *TTYSink) Poll() bool {
	if s.hasInput {
		return true
	}
	if !s.t.Buffered() {
		return false
	}
	n, err := s.t.ReadRune()
	if err != nil {
		if err == io.EOF {
			return false
		}
		return false
	}
	if n == 0 {
		return false
	}
	s.pending = byte(n)
	s.hasInput = true
	return true
}

func (s *TTYSink) GetByte() (byte, bool) {
	if s.hasInput {
		s.hasInput = false
		return s.pending, true
	}
	if !s.Poll() {
		return 0, false
	}
	s.hasInput = false
	return s.pending, true
}
