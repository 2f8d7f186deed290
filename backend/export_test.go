package backend

import (
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Hooks for the conformance tests in package backend_test.

// ZipOf builds a zip bundle holding files, alternating between stored and
// deflated entries.
func ZipOf(t *testing.T, files map[string]string) []byte {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]zipEntry, 0, len(names))
	for i, name := range names {
		method := zip.Store
		if i%2 == 1 {
			method = zip.Deflate
		}
		entries = append(entries, zipEntry{name: name, content: files[name], method: method})
	}
	return buildZip(t, entries...)
}

// StargzOf builds an eStargz bundle holding files.
func StargzOf(t *testing.T, files map[string]string) []byte {
	return buildStargz(t, files)
}

// ServeBlob serves blob with or without range support.
var ServeBlob = serveBlob

// GitOf commits files to a fresh in-memory repository and serves HEAD.
func GitOf(t *testing.T, files map[string]string) *Git {
	repo := newMemoryRepo(t)
	commitFiles(t, repo, files, "conformance")
	g, err := NewGit(repo, "")
	if err != nil {
		t.Fatalf("NewGit(): %v", err)
	}
	return g
}
