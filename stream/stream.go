package stream

import (
	"io"

	"github.com/jmgilman/texio/errors"
)

// Stream is a named byte stream owned by exactly one handle.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Size returns the total length of the stream in bytes. It may fail for
	// streams whose length is not known without consuming them.
	Size() (int64, error)

	// Flush pushes buffered bytes to the underlying store.
	Flush() error

	// Name returns the name the stream was opened with.
	Name() string

	sealed()
}

// IsEndOfStream reports whether err signals the end of a stream rather than
// a failure.
func IsEndOfStream(err error) bool {
	return errors.IsEndOfStream(err)
}

func unsupported(op, name string) error {
	return errors.WithContext(errors.New(errors.CodeUnsupported, op+" not supported by stream"), "name", name)
}

func closedErr(op, name string) error {
	return errors.WithContext(errors.New(errors.CodeClosed, op+" on closed stream"), "name", name)
}

// readErr keeps io.EOF bare, as io.Reader requires, and codes everything else.
func readErr(err error, name string) error {
	if err == nil || err == io.EOF {
		return err
	}
	return errors.FromIO(err, "read", name)
}

// writeAll performs a single all-or-nothing write.
func writeAll(w io.Writer, p []byte, name string) (int, error) {
	n, err := w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, errors.FromIO(err, "write", name)
	}
	return n, nil
}
