package stream

import (
	"io"

	"github.com/jmgilman/texio/errors"
)

// File is a random-access stream over an open file. Writes are delegated
// when the file is also an io.Writer.
type File struct {
	name   string
	file   io.ReadSeekCloser
	size   func() (int64, error)
	closed bool
}

// NewFile wraps f. The size function reports the file's length from
// metadata; when nil, Size fails and callers fall back to measuring.
func NewFile(name string, f io.ReadSeekCloser, size func() (int64, error)) *File {
	return &File{name: name, file: f, size: size}
}

func (f *File) Name() string { return f.name }

func (f *File) Read(p []byte) (int, error) {
	if f.closed {
		return 0, closedErr("read", f.name)
	}
	n, err := f.file.Read(p)
	return n, readErr(err, f.name)
}

func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, closedErr("write", f.name)
	}
	w, ok := f.file.(io.Writer)
	if !ok {
		return 0, unsupported("write", f.name)
	}
	return writeAll(w, p, f.name)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, closedErr("seek", f.name)
	}
	pos, err := f.file.Seek(offset, whence)
	if err != nil {
		return pos, errors.FromIO(err, "seek", f.name)
	}
	return pos, nil
}

func (f *File) Size() (int64, error) {
	if f.closed {
		return 0, closedErr("size", f.name)
	}
	if f.size == nil {
		return 0, unsupported("size", f.name)
	}
	n, err := f.size()
	if err != nil {
		return 0, errors.FromIO(err, "stat", f.name)
	}
	return n, nil
}

// Flush syncs the file when the underlying implementation supports it.
func (f *File) Flush() error {
	if f.closed {
		return closedErr("flush", f.name)
	}
	if s, ok := f.file.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			return errors.FromIO(err, "flush", f.name)
		}
	}
	return nil
}

func (f *File) Close() error {
	if f.closed {
		return closedErr("close", f.name)
	}
	f.closed = true
	if err := f.file.Close(); err != nil {
		return errors.FromIO(err, "close", f.name)
	}
	return nil
}

func (*File) sealed() {}

var _ Stream = (*File)(nil)
