package boundary

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jmgilman/texio/engine"
	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/status"
)

const (
	// EOF is returned by getc at the end of an input and by putc on
	// failure.
	EOF = -1

	// GetcFailure is returned by getc when reading fails for any reason
	// other than the end of the input.
	GetcFailure = -2
)

// Adapter serializes access to an engine and translates its results into
// boundary sentinels.
type Adapter struct {
	mu sync.Mutex
	e  *engine.Engine
}

// New returns an adapter owning e.
func New(e *engine.Engine) *Adapter {
	return &Adapter{e: e}
}

// With runs fn with exclusive access to the engine.
func (a *Adapter) With(fn func(*engine.Engine) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.e)
}

// Close closes the engine and every handle still open on it.
func (a *Adapter) Close() error {
	return a.With(func(e *engine.Engine) error { return e.Close() })
}

// report is a failure collected while the lock is held and emitted after
// it is released, so a sink may call back into the adapter.
type report struct {
	err error
	msg string
}

func failure(err error, msg string, args ...any) *report {
	return &report{err: err, msg: fmt.Sprintf(msg, args...)}
}

// call runs fn under the lock and then reports what it returned on the
// engine's status sink. Fatal errors panic.
func (a *Adapter) call(fn func(*engine.Engine) *report) {
	r, sink := a.locked(fn)
	if r == nil {
		return
	}
	if errors.IsFatal(r.err) {
		panic(fmt.Sprintf("%s: %v", r.msg, r.err))
	}
	status.Warn(sink, r.err, "%s", r.msg)
}

func (a *Adapter) locked(fn func(*engine.Engine) *report) (*report, status.Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.e), a.e.Status()
}

// OutputOpen creates name for writing. Returns Null on failure; failures
// other than an unresolvable name are reported.
func (a *Adapter) OutputOpen(name string, gz bool) uint64 {
	t := Null
	a.call(func(e *engine.Engine) *report {
		k, err := e.OutputOpen(context.Background(), name, gz)
		if err != nil {
			if errors.IsExpected(err) {
				return nil
			}
			return failure(err, "open of output %q failed", name)
		}
		t = OutputToken(k)
		return nil
	})
	return t
}

// OutputOpenStdout opens the standard output.
func (a *Adapter) OutputOpenStdout() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return OutputToken(a.e.OutputOpenStdout())
}

// OutputPutc writes the low byte of c and returns c, or EOF on failure.
func (a *Adapter) OutputPutc(t uint64, c int) int {
	ret := c
	a.call(func(e *engine.Engine) *report {
		if err := e.OutputPutc(OutputKey(t), byte(c)); err != nil {
			ret = EOF
			return failure(err, "write failed")
		}
		return nil
	})
	return ret
}

// OutputWrite writes all of p and returns len(p), or 0 on failure.
func (a *Adapter) OutputWrite(t uint64, p []byte) int {
	n := len(p)
	a.call(func(e *engine.Engine) *report {
		if err := e.OutputWrite(OutputKey(t), p); err != nil {
			n = 0
			return failure(err, "write failed")
		}
		return nil
	})
	return n
}

// OutputFlush returns 0 on success and 1 on failure.
func (a *Adapter) OutputFlush(t uint64) int {
	ret := 0
	a.call(func(e *engine.Engine) *report {
		if err := e.OutputFlush(OutputKey(t)); err != nil {
			ret = 1
			return failure(err, "flush failed")
		}
		return nil
	})
	return ret
}

// OutputClose returns 0 on success and 1 on failure. Closing Null
// succeeds.
func (a *Adapter) OutputClose(t uint64) int {
	if t == Null {
		return 0
	}

	ret := 0
	a.call(func(e *engine.Engine) *report {
		if err := e.OutputClose(OutputKey(t)); err != nil {
			ret = 1
			return failure(err, "close of output failed")
		}
		return nil
	})
	return ret
}

// InputOpen resolves name as a file of the given kpathsea format code. An
// unrecognized code returns Null without consulting the backend. An
// unresolvable name returns Null silently; other failures are reported.
func (a *Adapter) InputOpen(name string, code int, gz bool) uint64 {
	kind, ok := format.Classify(code)
	if !ok {
		return Null
	}

	t := Null
	a.call(func(e *engine.Engine) *report {
		k, err := e.InputOpen(context.Background(), name, kind, gz)
		if err != nil {
			if errors.IsExpected(err) {
				return nil
			}
			return failure(err, "open of input %q failed", name)
		}
		t = InputToken(k)
		return nil
	})
	return t
}

// InputGetSize returns the size of the input, or 0 when it is unknown or
// the token is invalid.
func (a *Adapter) InputGetSize(t uint64) int64 {
	var size int64
	a.call(func(e *engine.Engine) *report {
		n, err := e.InputSize(InputKey(t))
		if err != nil {
			return failure(err, "failed to get input size")
		}
		size = n
		return nil
	})
	return size
}

// InputSeek moves the read position and returns the new offset, or -1 on
// failure. whence follows SEEK_SET, SEEK_CUR and SEEK_END; any other
// value panics.
func (a *Adapter) InputSeek(t uint64, offset int64, whence int) int64 {
	switch whence {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
	default:
		panic(fmt.Sprintf("unexpected fseek whence %d", whence))
	}

	pos := int64(-1)
	a.call(func(e *engine.Engine) *report {
		p, err := e.InputSeek(InputKey(t), offset, whence)
		if err != nil {
			return failure(err, "input seek failed")
		}
		pos = p
		return nil
	})
	return pos
}

// InputGetc returns the next byte, EOF at the end of the input, or
// GetcFailure when reading fails.
func (a *Adapter) InputGetc(t uint64) int {
	var ret int
	a.call(func(e *engine.Engine) *report {
		b, err := e.InputGetc(InputKey(t))
		switch {
		case err == nil:
			ret = int(b)
		case errors.IsEndOfStream(err):
			ret = EOF
		default:
			ret = GetcFailure
			return failure(err, "read failed")
		}
		return nil
	})
	return ret
}

// InputUngetc pushes the low byte of c back. Returns 0, or -1 on failure.
func (a *Adapter) InputUngetc(t uint64, c int) int {
	ret := 0
	a.call(func(e *engine.Engine) *report {
		if err := e.InputUngetc(InputKey(t), byte(c)); err != nil {
			ret = -1
			return failure(err, "ungetc() failed")
		}
		return nil
	})
	return ret
}

// InputRead fills p and returns len(p), or -1 on failure. A read that
// runs into the end of the input is a failure like any other.
func (a *Adapter) InputRead(t uint64, p []byte) int64 {
	n := int64(len(p))
	a.call(func(e *engine.Engine) *report {
		if err := e.InputRead(InputKey(t), p); err != nil {
			n = -1
			return failure(err, "%d-byte read failed", len(p))
		}
		return nil
	})
	return n
}

// InputClose returns 0 on success and 1 on failure. Closing Null
// succeeds.
func (a *Adapter) InputClose(t uint64) int {
	if t == Null {
		return 0
	}

	ret := 0
	a.call(func(e *engine.Engine) *report {
		if err := e.InputClose(InputKey(t)); err != nil {
			ret = 1
			return failure(err, "close of input failed")
		}
		return nil
	})
	return ret
}
