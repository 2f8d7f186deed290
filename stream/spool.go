package stream

import (
	"bytes"
	"io"

	"github.com/jmgilman/texio/errors"
)

// CommitFunc receives the full contents of a Spool when it is closed.
type CommitFunc func(r io.Reader, size int64) error

// Spool buffers writes in memory and hands them to a commit function on
// Close. It backs outputs on stores that only accept whole objects.
type Spool struct {
	name   string
	buf    bytes.Buffer
	commit CommitFunc
	closed bool
}

// NewSpool returns an empty spool for name.
func NewSpool(name string, commit CommitFunc) *Spool {
	return &Spool{name: name, commit: commit}
}

func (s *Spool) Name() string { return s.name }

func (s *Spool) Read([]byte) (int, error) {
	return 0, unsupported("read", s.name)
}

func (s *Spool) Write(p []byte) (int, error) {
	if s.closed {
		return 0, closedErr("write", s.name)
	}
	return s.buf.Write(p)
}

func (s *Spool) Seek(int64, int) (int64, error) {
	return 0, unsupported("seek", s.name)
}

// Size returns the number of bytes spooled so far.
func (s *Spool) Size() (int64, error) {
	return int64(s.buf.Len()), nil
}

func (s *Spool) Flush() error { return nil }

// Close commits the spooled bytes. The spool is closed even if the commit
// fails.
func (s *Spool) Close() error {
	if s.closed {
		return closedErr("close", s.name)
	}
	s.closed = true
	size := int64(s.buf.Len())
	if err := s.commit(bytes.NewReader(s.buf.Bytes()), size); err != nil {
		return errors.WrapWithContext(err, errors.CodeIO, "commit failed",
			map[string]interface{}{"name": s.name, "size": size})
	}
	s.buf.Reset()
	return nil
}

func (*Spool) sealed() {}

var _ Stream = (*Spool)(nil)
