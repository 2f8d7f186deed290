package backend

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/containerd/stargz-snapshotter/estargz"
	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

func readInput(t *testing.T, b Backend, name string, kind format.Kind) (string, string) {
	t.Helper()
	s, err := b.OpenInput(context.Background(), name, kind)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	data, err := io.ReadAll(s)
	require.NoError(t, err)
	return s.Name(), string(data)
}

func writeFile(t *testing.T, fs billy.Filesystem, name, content string) {
	t.Helper()
	f, err := fs.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

type zipEntry struct {
	name    string
	content string
	method  uint16
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		require.NoError(t, err)
		_, err = w.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildTar(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "fonts/", Typeflag: tar.TypeDir, Mode: 0o755}))
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func buildStargz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	tarBlob := buildTar(t, files)
	blob, err := estargz.Build(io.NewSectionReader(bytes.NewReader(tarBlob), 0, int64(len(tarBlob))))
	require.NoError(t, err)
	defer blob.Close()

	data, err := io.ReadAll(blob)
	require.NoError(t, err)
	return data
}

// panicBackend fails the test if it is consulted at all.
type panicBackend struct{ t *testing.T }

func (p panicBackend) OpenInput(context.Context, string, format.Kind) (stream.Stream, error) {
	p.t.Fatal("backend must not be consulted")
	return nil, nil
}

func (p panicBackend) OpenOutput(context.Context, string) (stream.Stream, error) {
	p.t.Fatal("backend must not be consulted")
	return nil, nil
}

func (panicBackend) Close() error { return nil }
