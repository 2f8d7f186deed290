package stream

import (
	"bytes"
	"io"

	"github.com/jmgilman/texio/errors"
)

// Entry is a read-only stream over a region of known size, such as a file
// inside an archive.
type Entry struct {
	name    string
	section *io.SectionReader
	closer  io.Closer
	closed  bool
}

// NewEntry serves size bytes of r starting at offset zero. The optional
// closer is released when the entry is closed.
func NewEntry(name string, r io.ReaderAt, size int64, closer io.Closer) *Entry {
	return &Entry{
		name:    name,
		section: io.NewSectionReader(r, 0, size),
		closer:  closer,
	}
}

// NewBytes serves an in-memory blob.
func NewBytes(name string, data []byte) *Entry {
	return NewEntry(name, bytes.NewReader(data), int64(len(data)), nil)
}

func (e *Entry) Name() string { return e.name }

func (e *Entry) Read(p []byte) (int, error) {
	if e.closed {
		return 0, closedErr("read", e.name)
	}
	n, err := e.section.Read(p)
	return n, readErr(err, e.name)
}

func (e *Entry) Write([]byte) (int, error) {
	return 0, unsupported("write", e.name)
}

func (e *Entry) Seek(offset int64, whence int) (int64, error) {
	if e.closed {
		return 0, closedErr("seek", e.name)
	}
	pos, err := e.section.Seek(offset, whence)
	if err != nil {
		return pos, errors.Wrap(err, errors.CodeIO, "seek failed")
	}
	return pos, nil
}

func (e *Entry) Size() (int64, error) {
	if e.closed {
		return 0, closedErr("size", e.name)
	}
	return e.section.Size(), nil
}

func (e *Entry) Flush() error { return nil }

func (e *Entry) Close() error {
	if e.closed {
		return closedErr("close", e.name)
	}
	e.closed = true
	if e.closer != nil {
		if err := e.closer.Close(); err != nil {
			return errors.FromIO(err, "close", e.name)
		}
	}
	return nil
}

func (*Entry) sealed() {}

var _ Stream = (*Entry)(nil)
