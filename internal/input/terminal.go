package input

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/icecake0141/paraping/internal/errors"
)

// Terminal is the real ByteSource: a terminal switched to raw mode with a
// background reader feeding a channel, so timed reads become channel selects.
type Terminal struct {
	file     *os.File
	oldState *term.State
	bytes    chan byte
}

// NewTerminal puts the file (normally stdin) into raw mode and starts the
// reader. Callers must Restore before the process exits.
func NewTerminal(file *os.File) (*Terminal, error) {
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New(errors.ErrInput,
			"Standard input is not a terminal",
			"Interactive keys need a TTY; run without a pipe on stdin.")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			"Cannot switch the terminal to raw mode",
			"Check that the terminal supports raw mode.")
	}

	t := &Terminal{
		file:     file,
		oldState: oldState,
		bytes:    make(chan byte, 64),
	}
	go t.reader()
	return t, nil
}

// reader pumps single bytes from the file into the channel. It exits on any
// read error, which includes the file being closed.
func (t *Terminal) reader() {
	buf := make([]byte, 1)
	for {
		n, err := t.file.Read(buf)
		if err != nil {
			return
		}
		if n == 1 {
			t.bytes <- buf[0]
		}
	}
}

// ReadByte implements ByteSource.
func (t *Terminal) ReadByte(timeout time.Duration) (byte, bool) {
	if timeout <= 0 {
		select {
		case b := <-t.bytes:
			return b, true
		default:
			return 0, false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case b := <-t.bytes:
		return b, true
	case <-timer.C:
		return 0, false
	}
}

// Restore returns the terminal to its previous mode.
func (t *Terminal) Restore() error {
	return term.Restore(int(t.file.Fd()), t.oldState)
}

// Size returns the terminal dimensions of the file, falling back to 80x24
// when they cannot be determined.
func Size(file *os.File) (width, height int) {
	w, h, err := term.GetSize(int(file.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}
