package config

import (
	"context"
	_ "embed"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/jmgilman/texio/errors"
)

//go:embed schema.cue
var schemaSource string

// Load reads the configuration file at path. The format follows the
// extension: .cue, or .yaml/.yml.
func Load(ctx context.Context, path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeConfigLoadFailed, "invalid config path",
			map[string]interface{}{"path": path})
	}
	return LoadFS(ctx, osfs.New(filepath.Dir(abs)), filepath.Base(abs))
}

// LoadFS reads the configuration file name from fs.
func LoadFS(ctx context.Context, fs billy.Filesystem, name string) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigLoadFailed, "context cancelled")
	}

	data, err := util.ReadFile(fs, name)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeConfigLoadFailed, "failed to read config file",
			map[string]interface{}{"path": fs.Join(fs.Root(), name)})
	}
	return Parse(ctx, name, data)
}

// Parse decodes data, applying schema defaults and validation. The name's
// extension selects the format.
func Parse(ctx context.Context, name string, data []byte) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigLoadFailed, "context cancelled")
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "embedded schema is invalid")
	}

	var value cue.Value
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".cue":
		value = cctx.CompileBytes(data, cue.Filename(name))
	case ".yaml", ".yml":
		file, err := cueyaml.Extract(name, data)
		if err != nil {
			return nil, loadFailed(err, name, "failed to parse YAML")
		}
		value = cctx.BuildFile(file)
	default:
		return nil, errors.WithContext(
			errors.Newf(errors.CodeConfigLoadFailed, "unsupported config format %q", ext),
			"path", name,
		)
	}
	if err := value.Err(); err != nil {
		return nil, loadFailed(err, name, "failed to compile config")
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true), cue.All()); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig, "config does not match schema",
			map[string]interface{}{"path": name, "details": cueerrors.Details(err, nil)})
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig, "failed to decode config",
			map[string]interface{}{"path": name})
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithContext(err, "path", name)
	}
	return &cfg, nil
}

func loadFailed(err error, name, msg string) error {
	return errors.WrapWithContext(err, errors.CodeConfigLoadFailed, msg,
		map[string]interface{}{"path": name, "details": cueerrors.Details(err, nil)})
}
