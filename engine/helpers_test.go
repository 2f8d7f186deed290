package engine

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/texio/backend"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// fakeBackend serves streams built by the test. Nil funcs fail the test
// when consulted.
type fakeBackend struct {
	t      *testing.T
	input  func(name string, kind format.Kind) (stream.Stream, error)
	output func(name string) (stream.Stream, error)
	closed int
}

func (f *fakeBackend) OpenInput(_ context.Context, name string, kind format.Kind) (stream.Stream, error) {
	if f.input == nil {
		f.t.Fatalf("backend consulted for input %q", name)
	}
	return f.input(name, kind)
}

func (f *fakeBackend) OpenOutput(_ context.Context, name string) (stream.Stream, error) {
	if f.output == nil {
		f.t.Fatalf("backend consulted for output %q", name)
	}
	return f.output(name)
}

func (f *fakeBackend) Close() error {
	f.closed++
	return nil
}

// recordingBackend counts closes of a real backend.
type recordingBackend struct {
	backend.Backend
	closed int
}

func (r *recordingBackend) Close() error {
	r.closed++
	return r.Backend.Close()
}

type nopCloser struct{ io.ReadSeeker }

func (nopCloser) Close() error { return nil }

// brokenFile fails every read and seek.
type brokenFile struct{}

func (brokenFile) Read([]byte) (int, error)       { return 0, stderrors.New("disk on fire") }
func (brokenFile) Write([]byte) (int, error)      { return 0, stderrors.New("disk on fire") }
func (brokenFile) Seek(int64, int) (int64, error) { return 0, stderrors.New("disk on fire") }
func (brokenFile) Close() error                   { return nil }

// unsizedStream returns a stream over data that cannot report its size.
func unsizedStream(name, data string) stream.Stream {
	return stream.NewFile(name, nopCloser{bytes.NewReader([]byte(data))}, nil)
}

func newMemoryEngine(t *testing.T, files map[string]string, opts ...Option) (*Engine, billy.Filesystem) {
	t.Helper()
	d := backend.NewMemory()
	for name, content := range files {
		f, err := d.Filesystem().Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}
	e := New(d, opts...)
	t.Cleanup(func() { _ = e.Close() })
	return e, d.Filesystem()
}

func openInput(t *testing.T, e *Engine, name string) InputKey {
	t.Helper()
	k, err := e.InputOpen(context.Background(), name, format.Tex, false)
	require.NoError(t, err)
	return k
}

func getc(t *testing.T, e *Engine, k InputKey) byte {
	t.Helper()
	b, err := e.InputGetc(k)
	require.NoError(t, err)
	return b
}
