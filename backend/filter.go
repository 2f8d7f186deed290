package backend

import (
	"context"

	"github.com/gobwas/glob"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// Filter exposes only the names of an inner backend that match at least
// one glob pattern. Patterns use '/' as the separator, so "*" stays within
// one path segment and "**" crosses segments. An input passes when any of
// its candidate names (see format.Candidates) matches.
type Filter struct {
	inner    Backend
	patterns []glob.Glob
}

// NewFilter compiles patterns. With no patterns every name is rejected.
func NewFilter(inner Backend, patterns ...string) (*Filter, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig, "invalid match pattern",
				map[string]interface{}{"pattern": p})
		}
		compiled = append(compiled, g)
	}
	return &Filter{inner: inner, patterns: compiled}, nil
}

func (f *Filter) match(name string) bool {
	clean, ok := archiveName(name)
	if !ok {
		return false
	}
	for _, g := range f.patterns {
		if g.Match(clean) {
			return true
		}
	}
	return false
}

func (f *Filter) OpenInput(ctx context.Context, name string, kind format.Kind) (stream.Stream, error) {
	for _, cand := range format.Candidates(name, kind) {
		if f.match(cand) {
			return f.inner.OpenInput(ctx, name, kind)
		}
	}
	return nil, notFound(name, kind)
}

func (f *Filter) OpenOutput(ctx context.Context, name string) (stream.Stream, error) {
	if !f.match(name) {
		return nil, errors.WithContext(errors.New(errors.CodeUnsupported, "name not accepted"), "name", name)
	}
	return f.inner.OpenOutput(ctx, name)
}

func (f *Filter) Close() error {
	return f.inner.Close()
}

var _ Backend = (*Filter)(nil)
