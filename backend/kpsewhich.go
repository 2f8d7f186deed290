package backend

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/internal/exec"
	"github.com/jmgilman/texio/stream"
)

// DefaultKpsewhichTimeout bounds a single lookup.
const DefaultKpsewhichTimeout = 10 * time.Second

// Kpsewhich resolves names with a TeX distribution's kpsewhich program and
// opens the resulting local files. It is read-only.
type Kpsewhich struct {
	program string
	runner  exec.Executor
	fs      billy.Filesystem
	timeout time.Duration
}

// NewKpsewhich uses program (default "kpsewhich") run through runner
// (default: a real process runner).
func NewKpsewhich(program string, runner exec.Executor) *Kpsewhich {
	if program == "" {
		program = "kpsewhich"
	}
	if runner == nil {
		runner = exec.New()
	}
	return &Kpsewhich{
		program: program,
		runner:  runner,
		fs:      osfs.New("/"),
		timeout: DefaultKpsewhichTimeout,
	}
}

// resolve asks kpsewhich for every candidate at once and returns the first
// path it prints. kpsewhich exits 1 when any argument is missing, so the exit
// status alone does not mean failure.
func (k *Kpsewhich) resolve(ctx context.Context, name string, kind format.Kind) (string, error) {
	res, err := exec.NewWrapper(k.runner, k.program).
		WithContext(ctx).
		WithTimeout(k.timeout).
		Run(format.Candidates(name, kind)...)
	if err != nil {
		var execErr *exec.ExecError
		if !stderrors.As(err, &execErr) || execErr.ExitCode != 1 || res == nil {
			return "", errors.WrapWithContext(err, errors.CodeIO, "kpsewhich failed",
				map[string]interface{}{"name": name})
		}
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		// kpsewhich prints paths relative to its working directory.
		abs, err := filepath.Abs(line)
		if err != nil {
			return "", errors.FromIO(err, "resolve", line)
		}
		return abs, nil
	}
	return "", notFound(name, kind)
}

func (k *Kpsewhich) OpenInput(ctx context.Context, name string, kind format.Kind) (stream.Stream, error) {
	resolved, err := k.resolve(ctx, name, kind)
	if err != nil {
		return nil, err
	}

	fi, err := k.fs.Stat(resolved)
	if err != nil {
		return nil, errors.FromIO(err, "stat", resolved)
	}
	f, err := k.fs.Open(resolved)
	if err != nil {
		return nil, errors.FromIO(err, "open", resolved)
	}
	size := fi.Size()
	return stream.NewFile(resolved, f, func() (int64, error) { return size, nil }), nil
}

func (k *Kpsewhich) OpenOutput(_ context.Context, name string) (stream.Stream, error) {
	return nil, readOnly(name)
}

func (k *Kpsewhich) Close() error { return nil }

var _ Backend = (*Kpsewhich)(nil)
