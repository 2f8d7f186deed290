package backend

import (
	"context"
	"path"
	"strings"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// Backend opens input and output streams by name.
type Backend interface {
	// OpenInput resolves name for the given kind and opens it for reading.
	OpenInput(ctx context.Context, name string, kind format.Kind) (stream.Stream, error)

	// OpenOutput creates or truncates name and opens it for writing.
	OpenOutput(ctx context.Context, name string) (stream.Stream, error)

	// Close releases resources held by the backend. Streams already handed
	// out stay usable only where the backend says so.
	Close() error
}

func notFound(name string, kind format.Kind) error {
	err := errors.WithContext(errors.New(errors.CodeNotFound, "input not found"), "name", name)
	return errors.WithContext(err, "kind", kind.String())
}

func readOnly(name string) error {
	return errors.WithContext(
		errors.New(errors.CodeUnsupported, "backend is read-only"),
		"name", name,
	)
}

// archiveName normalizes a name for lookup inside a bundle: forward
// slashes, no leading "./" or "/", no "." or ".." segments. It reports
// false for names that escape the bundle root.
func archiveName(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	name = strings.TrimPrefix(name, "/")
	if name == "" || name == "." {
		return "", false
	}
	return name, true
}

// candidates lists the normalized archive names to try for name and kind.
func candidates(name string, kind format.Kind) []string {
	var out []string
	for _, c := range format.Candidates(name, kind) {
		if n, ok := archiveName(c); ok {
			out = append(out, n)
		}
	}
	return out
}
