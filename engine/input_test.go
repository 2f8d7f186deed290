package engine

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

func TestInput_UngetcThenGetc(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "xyz"})
	k := openInput(t, e, "a")

	require.Equal(t, byte('x'), getc(t, e, k))
	require.NoError(t, e.InputUngetc(k, 'q'))
	require.Equal(t, byte('q'), getc(t, e, k))
	require.Equal(t, byte('y'), getc(t, e, k))
}

func TestInput_DoubleUngetc(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "xyz"})
	k := openInput(t, e, "a")

	require.NoError(t, e.InputUngetc(k, 'a'))
	err := e.InputUngetc(k, 'b')
	require.Error(t, err)
	require.Equal(t, errors.CodePushbackFull, errors.GetCode(err))
	require.True(t, errors.IsReportable(err))

	// The first byte is still the one delivered.
	require.Equal(t, byte('a'), getc(t, e, k))
}

func TestInput_SeekDiscardsPushback(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "xyz"})
	k := openInput(t, e, "a")

	require.NoError(t, e.InputUngetc(k, 'q'))
	pos, err := e.InputSeek(k, 0, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(0), pos)
	require.Equal(t, byte('x'), getc(t, e, k))
}

func TestInput_PositionQueryDiscardsPushback(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "abcdef"})
	k := openInput(t, e, "a")

	require.Equal(t, byte('a'), getc(t, e, k))
	require.NoError(t, e.InputUngetc(k, 'Z'))

	pos, err := e.InputSeek(k, 0, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(1), pos)
	require.Equal(t, byte('b'), getc(t, e, k))

	// The slot is empty again, so a fresh ungetc succeeds.
	require.NoError(t, e.InputUngetc(k, 'Y'))
	pos, err = e.InputSeek(k, 1, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(3), pos)
	require.Equal(t, byte('d'), getc(t, e, k))
}

func TestInput_SeekEnd(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "abcdef"})
	k := openInput(t, e, "a")

	pos, err := e.InputSeek(k, -2, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(4), pos)
	require.Equal(t, byte('e'), getc(t, e, k))
}

func TestInput_InvalidOrigin(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "abc"})
	k := openInput(t, e, "a")

	_, err := e.InputSeek(k, 0, 7)
	require.Error(t, err)
	require.Equal(t, errors.CodeInvalidOrigin, errors.GetCode(err))
	require.True(t, errors.IsFatal(err))
}

func TestInput_SeekFailure(t *testing.T) {
	b := &fakeBackend{t: t, input: func(name string, _ format.Kind) (stream.Stream, error) {
		return stream.NewFile(name, brokenFile{}, nil), nil
	}}
	e := New(b)
	k, err := e.InputOpen(context.Background(), "a", format.Tex, false)
	require.NoError(t, err)

	_, err = e.InputSeek(k, 3, io.SeekStart)
	require.Error(t, err)
	require.Equal(t, errors.CodeIO, errors.GetCode(err))
	require.True(t, errors.IsReportable(err))
}

func TestInput_GetcEndOfStream(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "a"})
	k := openInput(t, e, "a")

	require.Equal(t, byte('a'), getc(t, e, k))

	_, err := e.InputGetc(k)
	require.Error(t, err)
	require.True(t, errors.IsEndOfStream(err))
	require.True(t, errors.IsExpected(err))

	// The flag is sticky until cleared.
	_, err = e.InputGetc(k)
	require.True(t, errors.IsEndOfStream(err))

	require.NoError(t, e.InputUngetc(k, 'z'))
	require.Equal(t, byte('z'), getc(t, e, k))
	_, err = e.InputGetc(k)
	require.True(t, errors.IsEndOfStream(err))

	_, err = e.InputSeek(k, 0, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, byte('a'), getc(t, e, k))
}

func TestInput_GetcFailureIsNotEndOfStream(t *testing.T) {
	b := &fakeBackend{t: t, input: func(name string, _ format.Kind) (stream.Stream, error) {
		return stream.NewFile(name, brokenFile{}, nil), nil
	}}
	e := New(b)
	k, err := e.InputOpen(context.Background(), "a", format.Tex, false)
	require.NoError(t, err)

	_, err = e.InputGetc(k)
	require.Error(t, err)
	require.Equal(t, errors.CodeIO, errors.GetCode(err))
	require.False(t, errors.IsEndOfStream(err))
	require.True(t, errors.IsReportable(err))
}

func TestInput_ReadExact(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "hello world"})
	k := openInput(t, e, "a")

	buf := make([]byte, 5)
	require.NoError(t, e.InputRead(k, buf))
	require.Equal(t, "hello", string(buf))

	require.NoError(t, e.InputRead(k, nil))

	err := e.InputRead(k, make([]byte, 100))
	require.Error(t, err)
	require.Equal(t, errors.CodeShortRead, errors.GetCode(err))
	require.True(t, errors.IsReportable(err))
}

func TestInput_ReadDeliversPushbackFirst(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "hello"})
	k := openInput(t, e, "a")

	require.NoError(t, e.InputUngetc(k, getc(t, e, k)))

	buf := make([]byte, 5)
	require.NoError(t, e.InputRead(k, buf))
	require.Equal(t, "hello", string(buf))

	require.NoError(t, e.InputUngetc(k, '!'))
	one := make([]byte, 1)
	require.NoError(t, e.InputRead(k, one))
	require.Equal(t, "!", string(one))
}

func TestInput_Size(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "hello world"})
	k := openInput(t, e, "a")

	size, err := e.InputSize(k)
	require.NoError(t, err)
	require.Equal(t, int64(11), size)
}

func TestInput_SizeFallsBackToMeasuring(t *testing.T) {
	b := &fakeBackend{t: t, input: func(name string, _ format.Kind) (stream.Stream, error) {
		return unsizedStream(name, "0123456789"), nil
	}}
	e := New(b)
	k, err := e.InputOpen(context.Background(), "a", format.Tex, false)
	require.NoError(t, err)

	require.Equal(t, byte('0'), getc(t, e, k))
	size, err := e.InputSize(k)
	require.NoError(t, err)
	require.Equal(t, int64(10), size)
	require.Equal(t, byte('1'), getc(t, e, k), "measuring restores the position")
}

func TestInput_SizeUnknownIsZero(t *testing.T) {
	b := &fakeBackend{t: t, input: func(name string, _ format.Kind) (stream.Stream, error) {
		return stream.NewFile(name, brokenFile{}, nil), nil
	}}
	e := New(b)
	k, err := e.InputOpen(context.Background(), "a", format.Tex, false)
	require.NoError(t, err)

	size, err := e.InputSize(k)
	require.NoError(t, err)
	require.Zero(t, size)
}

func TestInput_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("compressed content"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	e, _ := newMemoryEngine(t, map[string]string{"a.fmt.gz": buf.String(), "plain.fmt": "not gzip"})

	k, err := e.InputOpen(context.Background(), "a.fmt.gz", format.Format, true)
	require.NoError(t, err)

	size, err := e.InputSize(k)
	require.NoError(t, err)
	require.Equal(t, int64(18), size)

	data := make([]byte, 18)
	require.NoError(t, e.InputRead(k, data))
	require.Equal(t, "compressed content", string(data))

	_, err = e.InputOpen(context.Background(), "plain", format.Format, true)
	require.Error(t, err)
	require.Equal(t, 1, e.OpenInputs())
}

func TestInput_NotFound(t *testing.T) {
	e, _ := newMemoryEngine(t, nil)

	_, err := e.InputOpen(context.Background(), "missing", format.Tex, false)
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
	require.True(t, errors.IsExpected(err))
}

func TestInput_InvalidKindSkipsBackend(t *testing.T) {
	e := New(&fakeBackend{t: t})

	_, err := e.InputOpen(context.Background(), "a", format.Kind(0), false)
	require.Error(t, err)
	require.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestInput_StaleKeyRejected(t *testing.T) {
	e, _ := newMemoryEngine(t, map[string]string{"a.tex": "abc", "b.tex": "def"})

	first := openInput(t, e, "a")
	require.NoError(t, e.InputClose(first))

	second := openInput(t, e, "b")
	require.Equal(t, first.Slot, second.Slot)
	require.NotEqual(t, first.Gen, second.Gen)

	_, err := e.InputGetc(first)
	require.Error(t, err)
	require.Equal(t, errors.CodeInvalidHandle, errors.GetCode(err))

	err = e.InputClose(first)
	require.Equal(t, errors.CodeInvalidHandle, errors.GetCode(err))

	require.Equal(t, byte('d'), getc(t, e, second))
}

func TestInput_ZeroKeyInvalid(t *testing.T) {
	e, _ := newMemoryEngine(t, nil)

	_, err := e.InputSize(InputKey{})
	require.Equal(t, errors.CodeInvalidHandle, errors.GetCode(err))
	require.True(t, InputKey{}.IsZero())
}
