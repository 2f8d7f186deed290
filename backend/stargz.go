package backend

import (
	"context"
	"io"
	"os"

	"github.com/containerd/stargz-snapshotter/estargz"
	"github.com/opencontainers/go-digest"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// Stargz serves the regular files of an eStargz bundle. Only the table of
// contents is read up front; file contents are fetched on demand, which is
// what makes remote bundles cheap.
type Stargz struct {
	r      *estargz.Reader
	closer io.Closer
}

// OpenStargz opens a local eStargz bundle. When expected is non-empty the
// whole file is verified against it first.
func OpenStargz(path string, expected digest.Digest) (*Stargz, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FromIO(err, "open bundle", path)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.FromIO(err, "stat bundle", path)
	}

	if expected != "" {
		if err := verify(io.NewSectionReader(f, 0, fi.Size()), expected); err != nil {
			_ = f.Close()
			return nil, errors.WithContext(err, "path", path)
		}
	}

	s, err := NewStargz(f, fi.Size(), f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

// NewStargz reads the table of contents of an eStargz blob of the given
// size. The optional closer is released by Close.
func NewStargz(ra io.ReaderAt, size int64, closer io.Closer) (*Stargz, error) {
	r, err := estargz.Open(io.NewSectionReader(ra, 0, size))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "invalid estargz bundle")
	}
	return &Stargz{r: r, closer: closer}, nil
}

func verify(r io.Reader, expected digest.Digest) error {
	if err := expected.Validate(); err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "invalid bundle digest")
	}
	v := expected.Verifier()
	if _, err := io.Copy(v, r); err != nil {
		return errors.FromIO(err, "verify bundle", expected.String())
	}
	if !v.Verified() {
		return errors.Newf(errors.CodeIntegrity, "bundle does not match digest %s", expected)
	}
	return nil
}

func (s *Stargz) OpenInput(_ context.Context, name string, kind format.Kind) (stream.Stream, error) {
	for _, cand := range candidates(name, kind) {
		e, ok := s.r.Lookup(cand)
		if !ok || e.Type != "reg" {
			continue
		}
		sr, err := s.r.OpenFile(cand)
		if err != nil {
			return nil, errors.FromIO(err, "open entry", cand)
		}
		return stream.NewEntry(cand, sr, e.Size, nil), nil
	}
	return nil, notFound(name, kind)
}

func (s *Stargz) OpenOutput(_ context.Context, name string) (stream.Stream, error) {
	return nil, readOnly(name)
}

func (s *Stargz) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var _ Backend = (*Stargz)(nil)
