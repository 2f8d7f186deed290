package engine

import (
	"io"
	"log/slog"
	"os"

	"github.com/jmgilman/texio/backend"
	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/status"
)

// DefaultBufferSize is the output buffer size used when none is configured.
const DefaultBufferSize = 64 * 1024

// Engine owns the handle arenas, the backend they resolve against and the
// ambient sinks. Build one with New and release it with Close.
type Engine struct {
	backend backend.Backend
	inputs  arena[*inputHandle]
	outputs arena[*outputHandle]

	stdout  io.Writer
	status  status.Sink
	logger  *slog.Logger
	bufSize int
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStdout sets the writer behind OutputOpenStdout. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) {
		if w != nil {
			e.stdout = w
		}
	}
}

// WithStatus sets the sink that receives warnings raised on behalf of the
// engine's callers.
func WithStatus(s status.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.status = s
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBufferSize sets the size of each output handle's write buffer.
// Non-positive sizes are ignored.
func WithBufferSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.bufSize = n
		}
	}
}

// New creates an Engine resolving names against b.
func New(b backend.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend: b,
		inputs:  newArena[*inputHandle](),
		outputs: newArena[*outputHandle](),
		stdout:  os.Stdout,
		status:  status.Nop,
		logger:  slog.New(slog.DiscardHandler),
		bufSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Status returns the engine's status sink.
func (e *Engine) Status() status.Sink { return e.status }

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// OpenInputs returns the number of live input handles.
func (e *Engine) OpenInputs() int { return e.inputs.len() }

// OpenOutputs returns the number of live output handles.
func (e *Engine) OpenOutputs() int { return e.outputs.len() }

// Close force-closes every live handle and then the backend. Outputs go
// first so that their buffered data reaches the backend. All failures are
// joined. Close is idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	for _, k := range e.outputs.keys() {
		if err := e.OutputClose(OutputKey{Slot: k[0], Gen: k[1]}); err != nil {
			errs = append(errs, err)
		}
	}
	for _, k := range e.inputs.keys() {
		if err := e.InputClose(InputKey{Slot: k[0], Gen: k[1]}); err != nil {
			errs = append(errs, err)
		}
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, errors.CodeIO, "failed to close backend"))
		}
	}

	e.logger.Debug("engine closed", "errors", len(errs))
	return errors.Join(errs...)
}

func (e *Engine) checkOpen(op string) error {
	if e.closed {
		return errors.WithContext(errors.New(errors.CodeClosed, "engine is closed"), "op", op)
	}
	return nil
}

func invalidHandle(key string) error {
	return errors.WithContext(errors.New(errors.CodeInvalidHandle, "no such handle"), "handle", key)
}

func tooManyHandles() error {
	return errors.Newf(errors.CodeInternal, "more than %d open handles", MaxHandles)
}

// ioFailure codes err as a reportable I/O failure, whatever classification
// its cause carries. An I/O failure never reads as an end of stream.
func ioFailure(err error, msg, key string) error {
	wrapped := errors.WithContext(errors.Wrap(err, errors.CodeIO, msg), "handle", key)
	return errors.WithClassification(wrapped, errors.ClassificationReportable)
}
