package backend

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// Git serves files from the tree of one commit. The revision is resolved
// once when the backend is created, so later commits do not change what
// it serves.
type Git struct {
	commit *object.Commit
	tree   *object.Tree
}

// OpenGit opens the repository at path (standard or bare) and pins
// revision. An empty revision means HEAD.
func OpenGit(path, revision string) (*Git, error) {
	fs := osfs.New(path)

	var repo *gogit.Repository
	if fi, err := fs.Stat(".git"); err == nil && fi.IsDir() {
		dotGit, err := fs.Chroot(".git")
		if err != nil {
			return nil, errors.FromIO(err, "open repository", path)
		}
		repo, err = gogit.Open(filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), fs)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeIO, "failed to open repository",
				map[string]interface{}{"path": path})
		}
	} else {
		var err error
		repo, err = gogit.Open(filesystem.NewStorage(fs, cache.NewObjectLRUDefault()), nil)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeIO, "failed to open repository",
				map[string]interface{}{"path": path})
		}
	}
	return NewGit(repo, revision)
}

// NewGit pins revision of an already open repository.
func NewGit(repo *gogit.Repository, revision string) (*Git, error) {
	if revision == "" {
		revision = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidInput, "failed to resolve revision",
			map[string]interface{}{"revision": revision})
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeIO, "failed to load commit",
			map[string]interface{}{"revision": revision})
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeIO, "failed to load tree",
			map[string]interface{}{"revision": revision})
	}
	return &Git{commit: commit, tree: tree}, nil
}

// Commit returns the hash of the pinned commit.
func (g *Git) Commit() string {
	return g.commit.Hash.String()
}

func (g *Git) OpenInput(_ context.Context, name string, kind format.Kind) (stream.Stream, error) {
	for _, cand := range candidates(name, kind) {
		entry, err := g.tree.FindEntry(cand)
		if err != nil {
			if stderrors.Is(err, object.ErrEntryNotFound) || stderrors.Is(err, object.ErrDirectoryNotFound) ||
				stderrors.Is(err, plumbing.ErrObjectNotFound) {
				continue
			}
			return nil, errors.FromIO(err, "lookup", cand)
		}
		// Subtrees and submodules are not files.
		if !entry.Mode.IsFile() {
			continue
		}
		f, err := g.tree.TreeEntryFile(entry)
		if err != nil {
			return nil, errors.FromIO(err, "lookup", cand)
		}
		return g.read(cand, f)
	}
	return nil, notFound(name, kind)
}

func (g *Git) read(name string, f *object.File) (stream.Stream, error) {
	r, err := f.Reader()
	if err != nil {
		return nil, errors.FromIO(err, "open blob", name)
	}
	defer r.Close()

	data := make([]byte, f.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeIO, "corrupt blob",
			map[string]interface{}{"name": name})
	}
	return stream.NewBytes(name, data), nil
}

func (g *Git) OpenOutput(_ context.Context, name string) (stream.Stream, error) {
	return nil, readOnly(name)
}

func (g *Git) Close() error { return nil }

var _ Backend = (*Git)(nil)
