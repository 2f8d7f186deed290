package config

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/texio/backend"
	"github.com/jmgilman/texio/engine"
	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/internal/exec"
	"github.com/jmgilman/texio/status"
)

// RemoteTimeout bounds each HTTP request made by remote backends.
const RemoteTimeout = 30 * time.Second

// Build opens every configured backend and returns an engine over their
// chain. Backends are opened concurrently but searched in the listed
// order. Options in extra are applied after the configured ones.
//
// If any backend fails to open, the ones already open are closed.
func Build(ctx context.Context, cfg *Config, extra ...engine.Option) (*engine.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := status.NewSlog(status.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid log configuration")
	}

	backends := make([]backend.Backend, len(cfg.Backends))
	g, gctx := errgroup.WithContext(ctx)
	for i := range cfg.Backends {
		g.Go(func() error {
			b, err := Open(gctx, cfg.Backends[i])
			if err != nil {
				wrapped := errors.WrapWithContext(err, errors.CodeConfigLoadFailed, "failed to open backend",
					map[string]interface{}{"backend": i, "type": cfg.Backends[i].Type})
				return errors.WithClassification(wrapped, errors.ClassificationReportable)
			}
			backends[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, b := range backends {
			if b != nil {
				_ = b.Close()
			}
		}
		return nil, err
	}
	logger.Debug("backends opened", "count", len(backends))

	opts := []engine.Option{
		engine.WithStdout(stdoutWriter(cfg.Stdout)),
		engine.WithLogger(logger),
		engine.WithStatus(status.NewLogger(logger)),
		engine.WithBufferSize(cfg.BufferSize),
	}
	return engine.New(backend.NewChain(backends...), append(opts, extra...)...), nil
}

// Open opens the backend bc describes, wrapped in a filter when it has
// match patterns.
func Open(ctx context.Context, bc BackendConfig) (backend.Backend, error) {
	b, err := open(ctx, bc)
	if err != nil {
		return nil, err
	}
	if len(bc.Match) == 0 {
		return b, nil
	}

	f, err := backend.NewFilter(b, bc.Match...)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return f, nil
}

func open(ctx context.Context, bc BackendConfig) (backend.Backend, error) {
	switch bc.Type {
	case TypeDir:
		return backend.NewDir(bc.Path, bc.Writable), nil
	case TypeMemory:
		return backend.NewMemory(), nil
	case TypeZip:
		return backend.OpenZip(bc.Path)
	case TypeStargz:
		return backend.OpenStargz(bc.Path, digest.Digest(bc.Digest))
	case TypeRemote:
		return backend.OpenRemote(ctx, &http.Client{Timeout: RemoteTimeout}, bc.URL)
	case TypeGit:
		return backend.OpenGit(bc.Path, bc.Revision)
	case TypeS3:
		return backend.NewObject(backend.ObjectConfig{
			Endpoint:  bc.Endpoint,
			Bucket:    bc.Bucket,
			AccessKey: bc.AccessKey,
			SecretKey: bc.SecretKey,
			UseSSL:    bc.UseSSL,
			Prefix:    bc.Prefix,
			Writable:  bc.Writable,
		})
	case TypeKpsewhich:
		return backend.NewKpsewhich(bc.Command, exec.New()), nil
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "unknown backend type %q", bc.Type)
	}
}

func stdoutWriter(target string) io.Writer {
	switch target {
	case "stderr":
		return os.Stderr
	case "discard":
		return io.Discard
	default:
		return os.Stdout
	}
}
