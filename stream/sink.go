package stream

import (
	"io"

	"github.com/jmgilman/texio/errors"
)

// Sink is a write-only stream over a process-wide writer such as stdout.
// Closing a Sink flushes it but leaves the writer open.
type Sink struct {
	name   string
	w      io.Writer
	closed bool
}

// NewSink wraps w. Several sinks may share the same writer.
func NewSink(name string, w io.Writer) *Sink {
	return &Sink{name: name, w: w}
}

func (s *Sink) Name() string { return s.name }

func (s *Sink) Read([]byte) (int, error) {
	return 0, unsupported("read", s.name)
}

func (s *Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, closedErr("write", s.name)
	}
	return writeAll(s.w, p, s.name)
}

func (s *Sink) Seek(int64, int) (int64, error) {
	return 0, unsupported("seek", s.name)
}

func (s *Sink) Size() (int64, error) {
	return 0, unsupported("size", s.name)
}

// Flush flushes the writer when it buffers.
func (s *Sink) Flush() error {
	if s.closed {
		return closedErr("flush", s.name)
	}
	if f, ok := s.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return errors.FromIO(err, "flush", s.name)
		}
	}
	return nil
}

func (s *Sink) Close() error {
	if s.closed {
		return closedErr("close", s.name)
	}
	err := s.Flush()
	s.closed = true
	return err
}

func (*Sink) sealed() {}

var _ Stream = (*Sink)(nil)
