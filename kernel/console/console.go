// Package console implements the kernel's pluggable console hooks and a
// tiny printf-alike formatter. The kernel cannot import "fmt" in the
// freestanding build (it drags in reflection and an allocator the boot
// image doesn't have), so, like the reference kernel, it hand-rolls the
// small subset of formatting it actually needs.
package console

// Sink is the three-hook console contract: a byte sink, a non-blocking
// byte source, and a poll for pending input. A board that never installs
// one still boots, since a no-op sink is the default.
type Sink interface {
	PutByte(b byte)
	GetByte() (b byte, ok bool)
	Poll() bool
}

// nullSink is a no-op backend.
type nullSink struct{}

func (nullSink) PutByte(byte)             {}
func (nullSink) GetByte() (byte, bool)    { return 0, false }
func (nullSink) Poll() bool               { return false }

var active Sink = nullSink{}

// Install replaces the active console backend. Passing nil restores the
// no-op default.
func Install(s Sink) {
	if s == nil {
		s = nullSink{}
	}
	active = s
}

func putByte(b byte) { active.PutByte(b) }

// GetByte reads one byte from the active console, non-blocking.
func GetByte() (byte, bool) { return active.GetByte() }

// InputReady reports whether a byte is available without consuming it.
func InputReady() bool { return active.Poll() }

// PutString writes a raw string to the console.
func PutString(s string) {
	for i := 0; i < len(s); i++ {
		putByte(s[i])
	}
}

// PutInt writes a signed decimal integer to the console.
func PutInt(n int) {
	var buf [20]byte
	i := 0
	if n < 0 {
		putByte('-')
		n = -n
	}
	if n == 0 {
		putByte('0')
		return
	}
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		i++
		n /= 10
	}
	for i--; i >= 0; i-- {
		putByte(buf[i])
	}
}

const hexDigits = "0123456789abcdef"

// PutHex writes an unsigned value in hexadecimal, no leading "0x".
func PutHex(n uint32) {
	if n == 0 {
		putByte('0')
		return
	}
	var buf [8]byte
	i := 0
	for n > 0 {
		buf[i] = hexDigits[n&0xf]
		i++
		n >>= 4
	}
	for i--; i >= 0; i-- {
		putByte(buf[i])
	}
}

// Printf supports %d (int), %s (string), %c (byte/rune), %x (uint32 hex)
// and %% escapes. Unknown verbs are echoed literally, same as the
// reference kernel's formatter.
func Printf(format string, args ...interface{}) {
	argIdx := 0
	next := func() interface{} {
		if argIdx >= len(args) {
			return nil
		}
		a := args[argIdx]
		argIdx++
		return a
	}

	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			putByte(format[i])
			continue
		}
		i++
		switch format[i] {
		case 'd':
			if v, ok := next().(int); ok {
				PutInt(v)
			}
		case 's':
			if v, ok := next().(string); ok {
				PutString(v)
			}
		case 'c':
			switch v := next().(type) {
			case byte:
				putByte(v)
			case int:
				putByte(byte(v))
			case int32:
				putByte(byte(v))
			default:
				putByte('?')
			}
		case 'x', 'p':
			switch v := next().(type) {
			case uint32:
				PutHex(v)
			case uintptr:
				PutHex(uint32(v))
			case int:
				PutHex(uint32(v))
			default:
				putByte('?')
			}
		case '%':
			putByte('%')
		default:
			putByte('%')
			putByte(format[i])
		}
	}
}
