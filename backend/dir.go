package backend

import (
	"context"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// Dir serves files from a go-billy filesystem. Names are resolved relative
// to the filesystem root and cannot escape it.
type Dir struct {
	fs       billy.Filesystem
	writable bool
}

// NewDir serves the local directory root.
func NewDir(root string, writable bool) *Dir {
	return &Dir{fs: osfs.New(root), writable: writable}
}

// NewMemory returns a writable, initially empty in-memory directory.
func NewMemory() *Dir {
	return &Dir{fs: memfs.New(), writable: true}
}

// NewDirFS serves an existing billy filesystem.
func NewDirFS(fs billy.Filesystem, writable bool) *Dir {
	return &Dir{fs: fs, writable: writable}
}

// Filesystem returns the underlying billy filesystem.
func (d *Dir) Filesystem() billy.Filesystem {
	return d.fs
}

func (d *Dir) OpenInput(_ context.Context, name string, kind format.Kind) (stream.Stream, error) {
	for _, cand := range candidates(name, kind) {
		fi, err := d.fs.Stat(cand)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.FromIO(err, "stat", cand)
		}
		if fi.IsDir() {
			continue
		}

		f, err := d.fs.Open(cand)
		if err != nil {
			return nil, errors.FromIO(err, "open", cand)
		}
		return stream.NewFile(cand, f, d.sizeOf(cand)), nil
	}
	return nil, notFound(name, kind)
}

func (d *Dir) OpenOutput(_ context.Context, name string) (stream.Stream, error) {
	if !d.writable {
		return nil, readOnly(name)
	}
	clean, ok := archiveName(name)
	if !ok {
		return nil, errors.WithContext(errors.New(errors.CodeInvalidInput, "invalid output name"), "name", name)
	}

	if dir := path.Dir(clean); dir != "." {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.FromIO(err, "mkdir", dir)
		}
	}
	f, err := d.fs.Create(clean)
	if err != nil {
		return nil, errors.FromIO(err, "create", clean)
	}
	return stream.NewFile(clean, f, d.sizeOf(clean)), nil
}

func (d *Dir) sizeOf(name string) func() (int64, error) {
	return func() (int64, error) {
		fi, err := d.fs.Stat(name)
		if err != nil {
			return 0, err
		}
		return fi.Size(), nil
	}
}

func (d *Dir) Close() error { return nil }

var _ Backend = (*Dir)(nil)
