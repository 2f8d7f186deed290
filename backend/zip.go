package backend

import (
	"context"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zip"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// Zip serves the files of a zip bundle. Stored entries are read in place;
// compressed entries are inflated into memory when opened.
type Zip struct {
	ra     io.ReaderAt
	size   int64
	closer io.Closer
	files  map[string]*zip.File
}

// OpenZip opens the zip bundle at path.
func OpenZip(path string) (*Zip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FromIO(err, "open bundle", path)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.FromIO(err, "stat bundle", path)
	}
	z, err := NewZip(f, fi.Size(), f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return z, nil
}

// NewZip reads the central directory of a zip bundle of the given size.
// The optional closer is released by Close.
func NewZip(ra io.ReaderAt, size int64, closer io.Closer) (*Zip, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "invalid zip bundle")
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if name, ok := archiveName(f.Name); ok {
			files[name] = f
		}
	}
	return &Zip{ra: ra, size: size, closer: closer, files: files}, nil
}

func (z *Zip) OpenInput(_ context.Context, name string, kind format.Kind) (stream.Stream, error) {
	for _, cand := range candidates(name, kind) {
		f, ok := z.files[cand]
		if !ok {
			continue
		}
		return z.open(cand, f)
	}
	return nil, notFound(name, kind)
}

func (z *Zip) open(name string, f *zip.File) (stream.Stream, error) {
	// Declared sizes come from the bundle and are not trusted.
	if f.UncompressedSize64 > math.MaxInt64 {
		return nil, corruptEntry(name, "entry size out of range", f.UncompressedSize64)
	}
	size := int64(f.UncompressedSize64)

	if f.Method == zip.Store {
		off, err := f.DataOffset()
		if err != nil {
			return nil, errors.FromIO(err, "locate entry", name)
		}
		if off < 0 || size > z.size-off {
			return nil, corruptEntry(name, "entry extends past end of bundle", f.UncompressedSize64)
		}
		return stream.NewEntry(name, io.NewSectionReader(z.ra, off, size), size, nil), nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, errors.FromIO(err, "open entry", name)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, size+1))
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeIO, "corrupt zip entry",
			map[string]interface{}{"name": name})
	}
	if int64(len(data)) != size {
		return nil, corruptEntry(name, "entry size mismatch", f.UncompressedSize64)
	}
	return stream.NewBytes(name, data), nil
}

func corruptEntry(name, msg string, declared uint64) error {
	err := errors.WithContext(errors.New(errors.CodeIO, msg), "name", name)
	return errors.WithContext(err, "declared", declared)
}

func (z *Zip) OpenOutput(_ context.Context, name string) (stream.Stream, error) {
	return nil, readOnly(name)
}

func (z *Zip) Close() error {
	if z.closer == nil {
		return nil
	}
	return z.closer.Close()
}

var _ Backend = (*Zip)(nil)
