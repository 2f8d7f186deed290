package stream

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/jmgilman/texio/errors"
)

// Gzip decompresses another stream on the fly. Positions and sizes refer to
// the decompressed bytes.
//
// Forward seeks decompress and discard. Backward seeks rewind the inner
// stream and restart decompression from the first member.
type Gzip struct {
	inner  Stream
	zr     *gzip.Reader
	pos    int64
	size   int64
	closed bool
}

// NewGzip reads the gzip header from inner and returns a decompressing
// stream. On failure inner is left open.
func NewGzip(inner Stream) (*Gzip, error) {
	zr, err := gzip.NewReader(inner)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeIO, "invalid gzip stream",
			map[string]interface{}{"name": inner.Name()})
	}
	return &Gzip{inner: inner, zr: zr, size: -1}, nil
}

func (g *Gzip) Name() string { return g.inner.Name() }

func (g *Gzip) Read(p []byte) (int, error) {
	if g.closed {
		return 0, closedErr("read", g.Name())
	}
	n, err := g.zr.Read(p)
	g.pos += int64(n)
	return n, readErr(err, g.Name())
}

func (g *Gzip) Write([]byte) (int, error) {
	return 0, unsupported("write", g.Name())
}

func (g *Gzip) Seek(offset int64, whence int) (int64, error) {
	if g.closed {
		return 0, closedErr("seek", g.Name())
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = g.pos + offset
	case io.SeekEnd:
		size, err := g.Size()
		if err != nil {
			return g.pos, err
		}
		target = size + offset
	default:
		return g.pos, errors.Newf(errors.CodeInvalidOrigin, "invalid whence %d", whence)
	}
	if target < 0 {
		return g.pos, errors.Newf(errors.CodeInvalidInput, "negative position %d", target)
	}

	if target < g.pos {
		if err := g.rewind(); err != nil {
			return g.pos, err
		}
	}

	n, err := io.CopyN(io.Discard, g.zr, target-g.pos)
	g.pos += n
	if err != nil && err != io.EOF {
		return g.pos, errors.FromIO(err, "seek", g.Name())
	}
	// Seeking past the end is allowed; later reads report end of stream.
	g.pos = target
	return g.pos, nil
}

func (g *Gzip) rewind() error {
	if _, err := g.inner.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := g.zr.Reset(g.inner); err != nil {
		return errors.WrapWithContext(err, errors.CodeIO, "gzip restart failed",
			map[string]interface{}{"name": g.Name()})
	}
	g.pos = 0
	return nil
}

// Size returns the decompressed length. It is counted once by inflating
// every member from the start of the inner stream, so concatenated members
// and outputs past 4GiB are measured exactly. The inner position is restored
// afterwards so decompression continues undisturbed.
func (g *Gzip) Size() (int64, error) {
	if g.closed {
		return 0, closedErr("size", g.Name())
	}
	if g.size >= 0 {
		return g.size, nil
	}

	cur, err := g.inner.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if _, err := g.inner.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	n, countErr := countGzip(g.inner)
	if _, err := g.inner.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	if countErr != nil {
		return 0, errors.FromIO(countErr, "size", g.Name())
	}

	g.size = n
	return g.size, nil
}

func countGzip(r io.Reader) (int64, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return 0, err
	}
	defer zr.Close()
	return io.Copy(io.Discard, zr)
}

func (g *Gzip) Flush() error { return nil }

func (g *Gzip) Close() error {
	if g.closed {
		return closedErr("close", g.Name())
	}
	g.closed = true
	zerr := g.zr.Close()
	ierr := g.inner.Close()
	if zerr != nil {
		return errors.FromIO(zerr, "close", g.Name())
	}
	return ierr
}

func (*Gzip) sealed() {}

var _ Stream = (*Gzip)(nil)
