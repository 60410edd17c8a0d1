package input

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// StdinReader reads a whole document from stdin. Stdin documents cannot
// be saved in place or watched; callers pass "-" as the path.
type StdinReader struct{}

// NewStdinReader creates a new StdinReader.
func NewStdinReader() *StdinReader {
	return &StdinReader{}
}

func (r *StdinReader) Read(_ string) (ReadResult, error) {
	// Reading a terminal would block forever waiting for input that is
	// never coming.
	if _, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), unix.TCGETS); err == nil {
		return ReadResult{}, errors.New("stdin is a terminal; pipe a document in or name a file")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ReadResult{}, err
	}
	return ReadResult{Data: data, Closer: noopCloser}, nil
}
