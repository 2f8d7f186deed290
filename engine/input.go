package engine

import (
	"context"
	"io"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

const noPushback = -1

type inputHandle struct {
	name     string
	kind     format.Kind
	s        stream.Stream
	pushback int
	eof      bool
}

// InputOpen resolves name as a file of the given kind and opens it. With gz
// set the stream is decompressed on the fly.
//
// A name that resolves nowhere yields an error coded errors.CodeNotFound.
func (e *Engine) InputOpen(ctx context.Context, name string, kind format.Kind, gz bool) (InputKey, error) {
	if err := e.checkOpen("input open"); err != nil {
		return InputKey{}, err
	}
	if !kind.Valid() {
		return InputKey{}, errors.WithContext(errors.New(errors.CodeInvalidInput, "invalid format kind"), "name", name)
	}

	s, err := e.backend.OpenInput(ctx, name, kind)
	if err != nil {
		return InputKey{}, err
	}
	if gz {
		g, err := stream.NewGzip(s)
		if err != nil {
			_ = s.Close()
			return InputKey{}, errors.WithContext(err, "name", name)
		}
		s = g
	}

	slot, gen, ok := e.inputs.insert(&inputHandle{name: name, kind: kind, s: s, pushback: noPushback})
	if !ok {
		_ = s.Close()
		return InputKey{}, tooManyHandles()
	}

	key := InputKey{Slot: slot, Gen: gen}
	e.logger.Debug("input opened", "handle", key.String(), "name", name, "kind", kind.String(), "gz", gz)
	return key, nil
}

func (e *Engine) input(k InputKey) (*inputHandle, error) {
	h, ok := e.inputs.get(k.Slot, k.Gen)
	if !ok {
		return nil, invalidHandle(k.String())
	}
	return h, nil
}

// InputSize returns the size of the input. When the stream cannot report
// its size, the size is measured by seeking to the end and back; when that
// fails as well the size is 0. Only an invalid key is an error.
func (e *Engine) InputSize(k InputKey) (int64, error) {
	h, err := e.input(k)
	if err != nil {
		return 0, err
	}

	if size, err := h.s.Size(); err == nil {
		return size, nil
	}

	cur, err := h.s.Seek(0, io.SeekCurrent)
	if err != nil {
		e.logger.Debug("input size unknown", "handle", k.String(), "error", err)
		return 0, nil
	}
	end, err := h.s.Seek(0, io.SeekEnd)
	if err != nil {
		e.logger.Debug("input size unknown", "handle", k.String(), "error", err)
		return 0, nil
	}
	if _, err := h.s.Seek(cur, io.SeekStart); err != nil {
		e.logger.Debug("failed to restore position after measuring", "handle", k.String(), "error", err)
	}
	return end, nil
}

// InputSeek moves the read position and returns the new absolute offset.
// Origins follow io.SeekStart, io.SeekCurrent and io.SeekEnd; anything else
// is errors.CodeInvalidOrigin.
//
// The offset goes to the stream unchanged. Every successful seek, a position
// query included, discards a pushed back byte and clears the end-of-file
// flag, so the next getc reads from the position returned.
func (e *Engine) InputSeek(k InputKey, offset int64, origin int) (int64, error) {
	h, err := e.input(k)
	if err != nil {
		return 0, err
	}

	switch origin {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
	default:
		return 0, errors.WithContext(errors.Newf(errors.CodeInvalidOrigin, "invalid seek origin %d", origin), "handle", k.String())
	}

	pos, err := h.s.Seek(offset, origin)
	if err != nil {
		return 0, ioFailure(err, "seek failed", k.String())
	}
	h.pushback = noPushback
	h.eof = false
	return pos, nil
}

// InputGetc returns the next byte. At the end of the input the error is
// coded errors.CodeEndOfStream and the end-of-file flag is set; further
// calls return the same error without touching the stream until a seek or
// an ungetc clears the flag.
func (e *Engine) InputGetc(k InputKey) (byte, error) {
	h, err := e.input(k)
	if err != nil {
		return 0, err
	}

	if h.pushback != noPushback {
		b := byte(h.pushback)
		h.pushback = noPushback
		return b, nil
	}
	if h.eof {
		return 0, errors.New(errors.CodeEndOfStream, "end of stream")
	}

	var buf [1]byte
	if _, err := io.ReadFull(h.s, buf[:]); err != nil {
		if errors.IsEndOfStream(err) {
			h.eof = true
			return 0, errors.New(errors.CodeEndOfStream, "end of stream")
		}
		return 0, ioFailure(err, "getc failed", k.String())
	}
	return buf[0], nil
}

// InputUngetc pushes b back so that the next getc or read returns it
// first. Only one byte fits; a second push is errors.CodePushbackFull.
func (e *Engine) InputUngetc(k InputKey, b byte) error {
	h, err := e.input(k)
	if err != nil {
		return err
	}
	if h.pushback != noPushback {
		return errors.WithContext(errors.New(errors.CodePushbackFull, "pushback slot already occupied"), "handle", k.String())
	}
	h.pushback = int(b)
	h.eof = false
	return nil
}

// InputRead fills p completely or fails with errors.CodeShortRead. A
// pushed back byte is delivered first. Bytes consumed by a failed read stay
// consumed.
func (e *Engine) InputRead(k InputKey, p []byte) error {
	h, err := e.input(k)
	if err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}

	rest := p
	if h.pushback != noPushback {
		rest[0] = byte(h.pushback)
		h.pushback = noPushback
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return nil
	}

	n, err := io.ReadFull(h.s, rest)
	if err == nil {
		return nil
	}
	if errors.IsEndOfStream(err) {
		h.eof = true
		short := errors.WrapWithContext(err, errors.CodeShortRead, "short read", map[string]interface{}{
			"handle": k.String(),
			"want":   len(rest),
			"got":    n,
		})
		return errors.WithClassification(short, errors.ClassificationReportable)
	}
	return ioFailure(err, "read failed", k.String())
}

// InputClose closes the input and releases its key. The key is invalid
// afterwards even when closing the stream fails.
func (e *Engine) InputClose(k InputKey) error {
	h, ok := e.inputs.remove(k.Slot, k.Gen)
	if !ok {
		return invalidHandle(k.String())
	}

	e.logger.Debug("input closed", "handle", k.String(), "name", h.name)
	if err := h.s.Close(); err != nil {
		return ioFailure(err, "close failed", k.String())
	}
	return nil
}
