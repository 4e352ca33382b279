// Package input turns raw terminal bytes into discrete key events. The
// decoder is a pure state machine over an injected byte source so the timing
// logic is testable without a real terminal.
package input

import "time"

// Escape-sequence buffering windows. Arrow keys arrive as multi-byte
// sequences that remote terminals (ssh, WSL2) may fragment across reads, so
// after an ESC the decoder keeps collecting while bytes keep arriving within
// the inter-byte window, bounded by a hard cap from the moment ESC was seen.
const (
	InterByteTimeout = 50 * time.Millisecond
	EscapeHardCap    = 500 * time.Millisecond
)

const escByte = 0x1b

// KeyType identifies the kind of key event.
type KeyType int

const (
	KeyRune KeyType = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
)

// Key is one decoded keystroke. Rune is set for KeyRune events.
type Key struct {
	Type KeyType
	Rune rune
}

// ByteSource delivers raw input bytes. ReadByte waits up to timeout for the
// next byte; a zero (or negative) timeout is a non-blocking poll. ok=false
// means no byte arrived in time.
type ByteSource interface {
	ReadByte(timeout time.Duration) (byte, bool)
}

// Decoder decodes keystrokes from a byte source.
type Decoder struct {
	src ByteSource
	now func() time.Time
}

// NewDecoder creates a decoder over the given source.
func NewDecoder(src ByteSource) *Decoder {
	return &Decoder{src: src, now: time.Now}
}

// ReadKey polls for one key event. It never blocks: with no pending input it
// returns ok=false immediately. On ESC it collects a possible arrow-key
// sequence; if the collected bytes are not a recognized sequence, the literal
// ESC is returned, never the accumulated garbage.
func (d *Decoder) ReadKey() (Key, bool) {
	b, ok := d.src.ReadByte(0)
	if !ok {
		return Key{}, false
	}
	if b != escByte {
		return Key{Type: KeyRune, Rune: rune(b)}, true
	}

	if key, ok := parseEscapeSequence(d.collect()); ok {
		return key, true
	}
	return Key{Type: KeyRune, Rune: rune(escByte)}, true
}

// collect assembles the bytes following an ESC. Collection stops on the fast
// path as soon as a "["/"O"-led sequence hits an arrow terminator, or when
// the inter-byte window or the hard cap expires.
func (d *Decoder) collect() []byte {
	var seq []byte
	deadline := d.now().Add(EscapeHardCap)

	for {
		remaining := deadline.Sub(d.now())
		if remaining <= 0 {
			break
		}
		wait := InterByteTimeout
		if wait > remaining {
			wait = remaining
		}

		b, ok := d.src.ReadByte(wait)
		if !ok {
			break
		}
		seq = append(seq, b)

		if len(seq) >= 2 && isSequenceLead(seq[0]) && isArrowTerminator(b) {
			break
		}
	}
	return seq
}

// parseEscapeSequence maps a collected sequence (without the leading ESC) to
// an arrow key. Exact two-byte forms are matched first; longer sequences that
// start with a recognized lead and end in an arrow terminator map by their
// terminator.
func parseEscapeSequence(seq []byte) (Key, bool) {
	if len(seq) < 2 || !isSequenceLead(seq[0]) {
		return Key{}, false
	}

	last := seq[len(seq)-1]
	switch last {
	case 'A':
		return Key{Type: KeyArrowUp}, true
	case 'B':
		return Key{Type: KeyArrowDown}, true
	case 'C':
		return Key{Type: KeyArrowRight}, true
	case 'D':
		return Key{Type: KeyArrowLeft}, true
	}
	return Key{}, false
}

func isSequenceLead(b byte) bool {
	return b == '[' || b == 'O'
}

func isArrowTerminator(b byte) bool {
	return b == 'A' || b == 'B' || b == 'C' || b == 'D'
}
