package boundary

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/texio/backend"
	"github.com/jmgilman/texio/engine"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/status"
	"github.com/jmgilman/texio/stream"
)

const texCode = 26

// brokenBackend serves inputs whose reads always fail and fails the test
// when asked to resolve a name it was not set up for.
type brokenBackend struct {
	t *testing.T
}

type brokenFile struct{}

func (brokenFile) Read([]byte) (int, error)       { return 0, stderrors.New("disk on fire") }
func (brokenFile) Seek(int64, int) (int64, error) { return 0, stderrors.New("disk on fire") }
func (brokenFile) Close() error                   { return nil }

func (b brokenBackend) OpenInput(_ context.Context, name string, _ format.Kind) (stream.Stream, error) {
	if name != "broken" {
		b.t.Fatalf("unexpected input %q", name)
	}
	return stream.NewFile(name, brokenFile{}, nil), nil
}

func (b brokenBackend) OpenOutput(context.Context, string) (stream.Stream, error) {
	b.t.Fatal("unexpected output")
	return nil, nil
}

func (brokenBackend) Close() error { return nil }

// echoSink writes every report to an output of the adapter it reports for.
type echoSink struct {
	a   *Adapter
	out uint64
}

func (s *echoSink) Report(kind status.Kind, msg string, _ error) {
	s.a.OutputWrite(s.out, []byte(kind.String()+": "+msg+"\n"))
}

func newAdapter(t *testing.T, b backend.Backend, opts ...engine.Option) (*Adapter, *status.Recorder) {
	t.Helper()
	rec := &status.Recorder{}
	a := New(engine.New(b, append([]engine.Option{engine.WithStatus(rec)}, opts...)...))
	t.Cleanup(func() { _ = a.Close() })
	return a, rec
}

func TestAdapter_WriteThenReadBack(t *testing.T) {
	a, rec := newAdapter(t, backend.NewMemory())

	require.Equal(t, Null, a.InputOpen("greeting", texCode, false))

	out := a.OutputOpen("greeting", false)
	require.NotEqual(t, Null, out)
	require.Equal(t, 2, a.OutputWrite(out, []byte("hi")))
	require.Equal(t, 0, a.OutputClose(out))

	in := a.InputOpen("greeting", texCode, false)
	require.NotEqual(t, Null, in)
	require.Equal(t, int('h'), a.InputGetc(in))
	require.Equal(t, int('i'), a.InputGetc(in))
	require.Equal(t, EOF, a.InputGetc(in))
	require.Equal(t, 0, a.InputClose(in))

	require.Empty(t, rec.Entries())
}

func TestAdapter_UnrecognizedFormat(t *testing.T) {
	a, rec := newAdapter(t, brokenBackend{t: t})

	for _, code := range []int{0, 2, 21, 48, -1} {
		require.Equal(t, Null, a.InputOpen("anything", code, false))
	}
	require.Empty(t, rec.Entries())
}

func TestAdapter_NullClose(t *testing.T) {
	a, rec := newAdapter(t, brokenBackend{t: t})

	require.Equal(t, 0, a.InputClose(Null))
	require.Equal(t, 0, a.OutputClose(Null))
	require.Empty(t, rec.Entries())
}

func TestAdapter_GetcFailureWarnsOnce(t *testing.T) {
	a, rec := newAdapter(t, brokenBackend{t: t})

	in := a.InputOpen("broken", texCode, false)
	require.NotEqual(t, Null, in)

	require.Equal(t, GetcFailure, a.InputGetc(in))
	require.Equal(t, 1, rec.Count(status.Warning))
}

func TestAdapter_ReadFailureCarriesByteCount(t *testing.T) {
	a, rec := newAdapter(t, backend.NewMemory())

	out := a.OutputOpen("short.tex", false)
	require.Equal(t, 3, a.OutputWrite(out, []byte("abc")))
	require.Equal(t, 0, a.OutputClose(out))

	in := a.InputOpen("short", texCode, false)
	buf := make([]byte, 2)
	require.Equal(t, int64(2), a.InputRead(in, buf))
	require.Equal(t, "ab", string(buf))

	require.Equal(t, int64(-1), a.InputRead(in, make([]byte, 8)))
	entries := rec.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "8-byte read failed", entries[0].Message)
}

func TestAdapter_Ungetc(t *testing.T) {
	a, rec := newAdapter(t, backend.NewMemory())

	out := a.OutputOpen("u.tex", false)
	require.Equal(t, int('x'), a.OutputPutc(out, 'x'))
	require.Equal(t, 0, a.OutputClose(out))

	in := a.InputOpen("u", texCode, false)
	require.Equal(t, 0, a.InputUngetc(in, 'q'))
	require.Equal(t, -1, a.InputUngetc(in, 'r'))
	require.Equal(t, 1, rec.Count(status.Warning))

	require.Equal(t, int('q'), a.InputGetc(in))
	require.Equal(t, int('x'), a.InputGetc(in))
}

func TestAdapter_SeekAndSize(t *testing.T) {
	a, rec := newAdapter(t, backend.NewMemory())

	out := a.OutputOpen("s.tex", false)
	require.Equal(t, 6, a.OutputWrite(out, []byte("abcdef")))
	require.Equal(t, 0, a.OutputClose(out))

	in := a.InputOpen("s", texCode, false)
	require.Equal(t, int64(6), a.InputGetSize(in))
	require.Equal(t, int64(4), a.InputSeek(in, 4, io.SeekStart))
	require.Equal(t, int('e'), a.InputGetc(in))
	require.Equal(t, int64(5), a.InputSeek(in, 0, io.SeekCurrent))
	require.Empty(t, rec.Entries())

	require.Equal(t, int64(-1), a.InputSeek(Null, 0, io.SeekStart))
	require.Equal(t, int64(0), a.InputGetSize(Null))
	require.Equal(t, 2, rec.Count(status.Warning))
}

func TestAdapter_SeekDropsPushedBackByte(t *testing.T) {
	a, rec := newAdapter(t, backend.NewMemory())

	out := a.OutputOpen("p.tex", false)
	require.Equal(t, 3, a.OutputWrite(out, []byte("abc")))
	require.Equal(t, 0, a.OutputClose(out))

	in := a.InputOpen("p", texCode, false)
	require.Equal(t, int('a'), a.InputGetc(in))
	require.Equal(t, 0, a.InputUngetc(in, 'Z'))
	require.Equal(t, int64(1), a.InputSeek(in, 0, io.SeekCurrent))
	require.Equal(t, int('b'), a.InputGetc(in))
	require.Empty(t, rec.Entries())
}

func TestAdapter_InvalidWhencePanics(t *testing.T) {
	a, _ := newAdapter(t, backend.NewMemory())

	require.Panics(t, func() { a.InputSeek(Null, 0, 3) })

	// The adapter is still usable afterwards.
	require.NotEqual(t, Null, a.OutputOpenStdout())
}

func TestAdapter_StaleAndCrossedTokens(t *testing.T) {
	var stdout bytes.Buffer
	a, rec := newAdapter(t, backend.NewMemory(), engine.WithStdout(&stdout))

	out := a.OutputOpenStdout()
	require.Equal(t, GetcFailure, a.InputGetc(out), "an output token is not an input")
	require.Equal(t, 1, rec.Count(status.Warning))

	require.Equal(t, 0, a.OutputClose(out))
	require.Equal(t, 1, a.OutputClose(out))
	require.Equal(t, 0, a.OutputWrite(out, []byte("late")))
	require.Equal(t, 3, rec.Count(status.Warning))
}

func TestAdapter_StdoutAndFlush(t *testing.T) {
	var stdout bytes.Buffer
	a, rec := newAdapter(t, backend.NewMemory(), engine.WithStdout(&stdout))

	out := a.OutputOpenStdout()
	require.Equal(t, 5, a.OutputWrite(out, []byte("hello")))
	require.Equal(t, 0, a.OutputFlush(out))
	require.Equal(t, "hello", stdout.String())
	require.Equal(t, 1, a.OutputFlush(Null))
	require.Equal(t, 1, rec.Count(status.Warning))
}

func TestAdapter_With(t *testing.T) {
	a, _ := newAdapter(t, backend.NewMemory())
	a.OutputOpenStdout()

	var outputs int
	require.NoError(t, a.With(func(e *engine.Engine) error {
		outputs = e.OpenOutputs()
		return nil
	}))
	require.Equal(t, 1, outputs)
}

func TestTokens(t *testing.T) {
	in := engine.InputKey{Slot: 5, Gen: 3}
	out := engine.OutputKey{Slot: 5, Gen: 3}

	require.Equal(t, uint64(3)<<32|5, InputToken(in))
	require.Equal(t, uint64(3)<<32|1<<31|5, OutputToken(out))
	require.Equal(t, in, InputKey(InputToken(in)))
	require.Equal(t, out, OutputKey(OutputToken(out)))

	require.True(t, InputKey(OutputToken(out)).IsZero())
	require.True(t, OutputKey(InputToken(in)).IsZero())
	require.Equal(t, Null, InputToken(engine.InputKey{}))
	require.Equal(t, Null, OutputToken(engine.OutputKey{}))
}

func TestAdapter_SinkMayWriteThroughAdapter(t *testing.T) {
	var stdout bytes.Buffer
	sink := &echoSink{}
	a, _ := newAdapter(t, backend.NewMemory(), engine.WithStdout(&stdout), engine.WithStatus(sink))
	sink.a = a
	sink.out = a.OutputOpenStdout()

	done := make(chan int64)
	go func() { done <- a.InputGetSize(Null) }()

	select {
	case size := <-done:
		require.Zero(t, size)
	case <-time.After(5 * time.Second):
		t.Fatal("reporting a warning deadlocked the adapter")
	}

	require.Equal(t, 0, a.OutputClose(sink.out))
	require.Contains(t, stdout.String(), "warning: failed to get input size")
}
