package engine

import (
	"bufio"
	"context"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/stream"
)

type outputHandle struct {
	name string
	s    stream.Stream
	w    *bufio.Writer
}

// OutputOpen creates name on the backend. With gz set the data is gzip
// compressed on the way out.
func (e *Engine) OutputOpen(ctx context.Context, name string, gz bool) (OutputKey, error) {
	if err := e.checkOpen("output open"); err != nil {
		return OutputKey{}, err
	}

	s, err := e.backend.OpenOutput(ctx, name)
	if err != nil {
		return OutputKey{}, err
	}
	if gz {
		s = stream.NewGzipWriter(s)
	}

	key, err := e.addOutput(name, s)
	if err != nil {
		return OutputKey{}, err
	}
	e.logger.Debug("output opened", "handle", key.String(), "name", name, "gz", gz)
	return key, nil
}

// OutputOpenStdout opens a handle on the engine's stdout writer. Closing it
// flushes but leaves the writer open. The zero key is returned only when
// the arena is exhausted.
func (e *Engine) OutputOpenStdout() OutputKey {
	key, err := e.addOutput("<stdout>", stream.NewSink("<stdout>", e.stdout))
	if err != nil {
		e.logger.Error("cannot open stdout handle", "error", err)
		return OutputKey{}
	}
	e.logger.Debug("output opened", "handle", key.String(), "name", "<stdout>")
	return key
}

func (e *Engine) addOutput(name string, s stream.Stream) (OutputKey, error) {
	h := &outputHandle{name: name, s: s, w: bufio.NewWriterSize(s, e.bufSize)}
	slot, gen, ok := e.outputs.insert(h)
	if !ok {
		_ = s.Close()
		return OutputKey{}, tooManyHandles()
	}
	return OutputKey{Slot: slot, Gen: gen}, nil
}

func (e *Engine) output(k OutputKey) (*outputHandle, error) {
	h, ok := e.outputs.get(k.Slot, k.Gen)
	if !ok {
		return nil, invalidHandle(k.String())
	}
	return h, nil
}

// OutputWrite writes all of p or fails. A failed write poisons the handle:
// later writes and flushes report the same failure.
func (e *Engine) OutputWrite(k OutputKey, p []byte) error {
	h, err := e.output(k)
	if err != nil {
		return err
	}
	if _, err := h.w.Write(p); err != nil {
		return ioFailure(err, "write failed", k.String())
	}
	return nil
}

// OutputPutc writes a single byte.
func (e *Engine) OutputPutc(k OutputKey, b byte) error {
	h, err := e.output(k)
	if err != nil {
		return err
	}
	if err := h.w.WriteByte(b); err != nil {
		return ioFailure(err, "putc failed", k.String())
	}
	return nil
}

// OutputFlush pushes buffered data into the stream and flushes the stream.
func (e *Engine) OutputFlush(k OutputKey) error {
	h, err := e.output(k)
	if err != nil {
		return err
	}
	if err := h.w.Flush(); err != nil {
		return ioFailure(err, "flush failed", k.String())
	}
	if err := h.s.Flush(); err != nil {
		return ioFailure(err, "flush failed", k.String())
	}
	return nil
}

// OutputClose flushes and closes the output. The key is released even when
// flushing or closing fails.
func (e *Engine) OutputClose(k OutputKey) error {
	h, ok := e.outputs.remove(k.Slot, k.Gen)
	if !ok {
		return invalidHandle(k.String())
	}

	e.logger.Debug("output closed", "handle", k.String(), "name", h.name)
	var errs []error
	if err := h.w.Flush(); err != nil {
		errs = append(errs, ioFailure(err, "flush failed", k.String()))
	}
	if err := h.s.Close(); err != nil {
		errs = append(errs, ioFailure(err, "close failed", k.String()))
	}
	return errors.Join(errs...)
}
