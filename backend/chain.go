package backend

import (
	"context"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// Chain searches backends in order.
//
// Inputs come from the first backend that resolves the name. A not-found
// moves the search on; any other failure ends it, so a broken bundle is
// reported instead of being silently skipped. Outputs go to the first
// backend that accepts them.
type Chain struct {
	backends []Backend
}

// NewChain searches backends in the given order.
func NewChain(backends ...Backend) *Chain {
	return &Chain{backends: append([]Backend(nil), backends...)}
}

// Len returns the number of chained backends.
func (c *Chain) Len() int {
	return len(c.backends)
}

func (c *Chain) OpenInput(ctx context.Context, name string, kind format.Kind) (stream.Stream, error) {
	for _, b := range c.backends {
		s, err := b.OpenInput(ctx, name, kind)
		if err == nil {
			return s, nil
		}
		if !errors.IsNotFound(err) {
			return nil, err
		}
	}
	return nil, notFound(name, kind)
}

func (c *Chain) OpenOutput(ctx context.Context, name string) (stream.Stream, error) {
	for _, b := range c.backends {
		s, err := b.OpenOutput(ctx, name)
		if err == nil {
			return s, nil
		}
		if errors.GetCode(err) != errors.CodeUnsupported {
			return nil, err
		}
	}
	return nil, errors.WithContext(errors.New(errors.CodeUnsupported, "no backend accepts outputs"), "name", name)
}

// Close closes every backend and joins their errors.
func (c *Chain) Close() error {
	var errs []error
	for _, b := range c.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Backend = (*Chain)(nil)
