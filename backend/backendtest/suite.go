// Package backendtest provides a conformance suite for backend
// implementations.
//
// Each backend package test seeds a fresh backend with a fixed set of files
// and hands it to TestSuite:
//
//	func TestZipConformance(t *testing.T) {
//	    backendtest.TestSuite(t, func(t *testing.T, files map[string]string) backend.Backend {
//	        return newZipWith(t, files)
//	    }, backendtest.ReadOnlyConfig())
//	}
//
// The suite checks the resolution contract shared by all backends: literal
// names win over suffixed ones, misses are coded as not found and outputs
// either round-trip or are refused as unsupported.
package backendtest

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/jmgilman/texio/backend"
	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
)

// Files is the content every backend is seeded with.
var Files = map[string]string{
	"plain.tex":         "\\catcode`\\{=1",
	"story":             "literal",
	"story.tex":         "suffixed",
	"fonts/cmr10.tfm":   "tfm data",
	"fonts/lmroman.otf": "otf data",
	"bib/refs.bib":      "@book{knuth}",
	"seek/alphabet.tex": "abcdefghijklmnopqrstuvwxyz",
}

// Factory returns a fresh backend holding files.
type Factory func(t *testing.T, files map[string]string) backend.Backend

// Config describes the behavior a backend is expected to show.
type Config struct {
	// Writable backends must accept outputs and serve them back as inputs.
	Writable bool

	// SkipTests lists subtests to skip, e.g. "Seek".
	SkipTests []string
}

// ReadOnlyConfig is the configuration for bundle backends.
func ReadOnlyConfig() Config {
	return Config{}
}

// WritableConfig is the configuration for directory-like backends.
func WritableConfig() Config {
	return Config{Writable: true}
}

// TestSuite runs every conformance test against backends built by factory.
func TestSuite(t *testing.T, factory Factory, config Config) {
	shouldSkip := func(name string) bool {
		for _, s := range config.SkipTests {
			if s == name {
				return true
			}
		}
		return false
	}

	tests := []struct {
		name string
		fn   func(t *testing.T, b backend.Backend, config Config)
	}{
		{"Resolve", testResolve},
		{"LiteralWins", testLiteralWins},
		{"NotFound", testNotFound},
		{"Seek", testSeek},
		{"Outputs", testOutputs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if shouldSkip(tt.name) {
				t.Skip("Skipped by backend configuration")
			}
			b := factory(t, Files)
			defer func() {
				if err := b.Close(); err != nil {
					t.Errorf("Close(): got error %v, want nil", err)
				}
			}()
			tt.fn(t, b, config)
		})
	}
}

func read(t *testing.T, b backend.Backend, name string, kind format.Kind) string {
	t.Helper()
	s, err := b.OpenInput(context.Background(), name, kind)
	if err != nil {
		t.Fatalf("OpenInput(%q, %s): got error %v, want nil", name, kind, err)
	}
	defer s.Close()

	data, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll(%q): got error %v, want nil", name, err)
	}
	return string(data)
}

func testResolve(t *testing.T, b backend.Backend, _ Config) {
	cases := []struct {
		name string
		kind format.Kind
		want string
	}{
		{"plain", format.Tex, Files["plain.tex"]},
		{"plain.tex", format.Tex, Files["plain.tex"]},
		{"fonts/cmr10", format.Tfm, Files["fonts/cmr10.tfm"]},
		{"fonts/cmr10", format.Ofm, Files["fonts/cmr10.tfm"]},
		{"fonts/lmroman", format.OpenType, Files["fonts/lmroman.otf"]},
		{"bib/refs", format.Bib, Files["bib/refs.bib"]},
	}
	for _, c := range cases {
		if got := read(t, b, c.name, c.kind); got != c.want {
			t.Errorf("OpenInput(%q, %s): got %q, want %q", c.name, c.kind, got, c.want)
		}
	}
}

func testLiteralWins(t *testing.T, b backend.Backend, _ Config) {
	if got := read(t, b, "story", format.Tex); got != "literal" {
		t.Errorf("OpenInput(story): got %q, want the literal name's content", got)
	}
}

func testNotFound(t *testing.T, b backend.Backend, _ Config) {
	for _, c := range []struct {
		name string
		kind format.Kind
	}{
		{"missing", format.Tex},
		{"plain", format.Bib},
		{"fonts", format.Tfm},
	} {
		_, err := b.OpenInput(context.Background(), c.name, c.kind)
		if !errors.IsNotFound(err) {
			t.Errorf("OpenInput(%q, %s): got error %v, want not found", c.name, c.kind, err)
		}
	}
}

func testSeek(t *testing.T, b backend.Backend, _ Config) {
	s, err := b.OpenInput(context.Background(), "seek/alphabet", format.Tex)
	if err != nil {
		t.Fatalf("OpenInput(seek/alphabet): got error %v, want nil", err)
	}
	defer s.Close()

	if size, err := s.Size(); err != nil || size != 26 {
		t.Errorf("Size(): got (%d, %v), want (26, nil)", size, err)
	}

	pos, err := s.Seek(-3, io.SeekEnd)
	if err != nil || pos != 23 {
		t.Fatalf("Seek(-3, end): got (%d, %v), want (23, nil)", pos, err)
	}
	tail, err := io.ReadAll(s)
	if err != nil || string(tail) != "xyz" {
		t.Errorf("read after seek: got (%q, %v), want (\"xyz\", nil)", tail, err)
	}

	if _, err := s.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("Seek(2, start): got error %v, want nil", err)
	}
	buf := make([]byte, 3)
	if _, err := io.ReadFull(s, buf); err != nil || !bytes.Equal(buf, []byte("cde")) {
		t.Errorf("read after rewind: got (%q, %v), want (\"cde\", nil)", buf, err)
	}
}

func testOutputs(t *testing.T, b backend.Backend, config Config) {
	s, err := b.OpenOutput(context.Background(), "out/doc.log")
	if !config.Writable {
		if errors.GetCode(err) != errors.CodeUnsupported {
			t.Errorf("OpenOutput on read-only backend: got error %v, want unsupported", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("OpenOutput(out/doc.log): got error %v, want nil", err)
	}

	if _, err := s.Write([]byte("This is TeX")); err != nil {
		t.Fatalf("Write(): got error %v, want nil", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	if got := read(t, b, "out/doc.log", format.Tex); got != "This is TeX" {
		t.Errorf("read back: got %q, want %q", got, "This is TeX")
	}
}
