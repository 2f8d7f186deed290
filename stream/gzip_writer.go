package stream

import (
	"github.com/klauspost/compress/gzip"

	"github.com/jmgilman/texio/errors"
)

// GzipWriter compresses everything written to it into another stream.
type GzipWriter struct {
	inner  Stream
	zw     *gzip.Writer
	closed bool
}

// NewGzipWriter starts a gzip member on inner.
func NewGzipWriter(inner Stream) *GzipWriter {
	return &GzipWriter{inner: inner, zw: gzip.NewWriter(inner)}
}

func (g *GzipWriter) Name() string { return g.inner.Name() }

func (g *GzipWriter) Read([]byte) (int, error) {
	return 0, unsupported("read", g.Name())
}

func (g *GzipWriter) Write(p []byte) (int, error) {
	if g.closed {
		return 0, closedErr("write", g.Name())
	}
	return writeAll(g.zw, p, g.Name())
}

func (g *GzipWriter) Seek(int64, int) (int64, error) {
	return 0, unsupported("seek", g.Name())
}

func (g *GzipWriter) Size() (int64, error) {
	return 0, unsupported("size", g.Name())
}

// Flush emits a sync block and flushes the inner stream.
func (g *GzipWriter) Flush() error {
	if g.closed {
		return closedErr("flush", g.Name())
	}
	if err := g.zw.Flush(); err != nil {
		return errors.FromIO(err, "flush", g.Name())
	}
	return g.inner.Flush()
}

// Close finishes the gzip member and closes the inner stream. The inner
// stream is closed even when finishing fails.
func (g *GzipWriter) Close() error {
	if g.closed {
		return closedErr("close", g.Name())
	}
	g.closed = true
	zerr := g.zw.Close()
	ierr := g.inner.Close()
	if zerr != nil {
		return errors.FromIO(zerr, "close", g.Name())
	}
	return ierr
}

func (*GzipWriter) sealed() {}

var _ Stream = (*GzipWriter)(nil)
