package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/texio/engine"
	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/status"
)

func TestParse_CUEDefaults(t *testing.T) {
	cfg, err := Parse(context.Background(), "texio.cue", []byte(`backends: [{type: "memory"}]`))
	require.NoError(t, err)

	require.Equal(t, "stdout", cfg.Stdout)
	require.Equal(t, 65536, cfg.BufferSize)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Len(t, cfg.Backends, 1)
	require.Equal(t, TypeMemory, cfg.Backends[0].Type)
	require.Equal(t, "kpsewhich", cfg.Backends[0].Command)
	require.True(t, cfg.Backends[0].UseSSL)
	require.False(t, cfg.Backends[0].Writable)
}

func TestParse_YAML(t *testing.T) {
	src := `
stdout: discard
bufferSize: 512
log:
  level: debug
  format: json
backends:
  - type: dir
    path: /srv/tex
    writable: true
  - type: stargz
    path: /var/cache/texlive.esgz
    match: ["**.tfm", "**.tex"]
`
	cfg, err := Parse(context.Background(), "texio.yaml", []byte(src))
	require.NoError(t, err)

	require.Equal(t, "discard", cfg.Stdout)
	require.Equal(t, 512, cfg.BufferSize)
	require.Equal(t, Log{Level: "debug", Format: "json"}, cfg.Log)
	require.Len(t, cfg.Backends, 2)
	require.True(t, cfg.Backends[0].Writable)
	require.Equal(t, []string{"**.tfm", "**.tex"}, cfg.Backends[1].Match)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		code errors.ErrorCode
	}{
		{"schema violation", "c.cue", `stdout: "printer", backends: [{type: "memory"}]`, errors.CodeInvalidConfig},
		{"unknown field", "c.cue", `colour: 1, backends: [{type: "memory"}]`, errors.CodeInvalidConfig},
		{"unknown backend type", "c.yaml", "backends:\n  - type: ftp\n", errors.CodeInvalidConfig},
		{"missing path", "c.cue", `backends: [{type: "dir"}]`, errors.CodeInvalidConfig},
		{"syntax", "c.cue", `backends: [{`, errors.CodeConfigLoadFailed},
		{"bad yaml", "c.yml", "backends: [\n", errors.CodeConfigLoadFailed},
		{"unsupported format", "c.toml", ``, errors.CodeConfigLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), tt.file, []byte(tt.src))
			require.Error(t, err)
			require.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		backend BackendConfig
		wantErr bool
	}{
		{"dir", BackendConfig{Type: TypeDir, Path: "/tmp", Writable: true}, false},
		{"memory", BackendConfig{Type: TypeMemory, Writable: true}, false},
		{"kpsewhich", BackendConfig{Type: TypeKpsewhich}, false},
		{"stargz with digest", BackendConfig{Type: TypeStargz, Path: "b.esgz", Digest: "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"}, false},
		{"git with revision", BackendConfig{Type: TypeGit, Path: "repo", Revision: "v1.0"}, false},
		{"remote", BackendConfig{Type: TypeRemote, URL: "https://example.com/tex.esgz"}, false},
		{"s3", BackendConfig{Type: TypeS3, Bucket: "tex", Endpoint: "localhost:9000", Writable: true}, false},
		{"missing path", BackendConfig{Type: TypeZip}, true},
		{"writable zip", BackendConfig{Type: TypeZip, Path: "a.zip", Writable: true}, true},
		{"invalid digest", BackendConfig{Type: TypeStargz, Path: "b.esgz", Digest: "sha256:nope"}, true},
		{"digest on dir", BackendConfig{Type: TypeDir, Path: "/tmp", Digest: "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"}, true},
		{"revision on dir", BackendConfig{Type: TypeDir, Path: "/tmp", Revision: "main"}, true},
		{"ftp url", BackendConfig{Type: TypeRemote, URL: "ftp://example.com/x"}, true},
		{"s3 without bucket", BackendConfig{Type: TypeS3, Endpoint: "localhost:9000"}, true},
		{"bad pattern", BackendConfig{Type: TypeMemory, Match: []string{"[a-"}}, true},
		{"unknown type", BackendConfig{Type: "tape"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Backends: []BackendConfig{tt.backend}}
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate_TopLevel(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)

	cfg := &Config{
		Stdout:     "printer",
		BufferSize: -1,
		Log:        Log{Level: "loud", Format: "xml"},
		Backends:   []BackendConfig{{Type: TypeMemory}},
	}
	err = cfg.Validate()
	require.Error(t, err)

	var coded errors.Error
	require.True(t, errors.As(err, &coded))
	require.Equal(t, 4, coded.Context()["issues"])
}

func TestLoadFS(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "texio.cue", []byte(`backends: [{type: "memory", writable: true}]`), 0o644))

	cfg, err := LoadFS(context.Background(), fs, "texio.cue")
	require.NoError(t, err)
	require.True(t, cfg.Backends[0].Writable)

	_, err = LoadFS(context.Background(), fs, "missing.cue")
	require.Error(t, err)
	require.Equal(t, errors.CodeConfigLoadFailed, errors.GetCode(err))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texio.yml")
	require.NoError(t, os.WriteFile(path, []byte("backends:\n  - type: memory\n"), 0o644))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, TypeMemory, cfg.Backends[0].Type)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.tex"), []byte(`\relax`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "article.cls"), []byte("cls"), 0o644))

	cfg := &Config{
		Log: Log{Level: "error"},
		Backends: []BackendConfig{
			{Type: TypeDir, Path: dir, Match: []string{"*.tex"}},
			{Type: TypeMemory, Writable: true},
		},
	}

	var stdout bytes.Buffer
	rec := &status.Recorder{}
	e, err := Build(context.Background(), cfg, engine.WithStdout(&stdout), engine.WithStatus(rec))
	require.NoError(t, err)
	defer func() { require.NoError(t, e.Close()) }()
	require.Same(t, rec, e.Status())

	k, err := e.InputOpen(context.Background(), "plain", format.Tex, false)
	require.NoError(t, err)
	require.NoError(t, e.InputClose(k))

	_, err = e.InputOpen(context.Background(), "article.cls", format.Bst, false)
	require.True(t, errors.IsNotFound(err), "filtered out by the match patterns")

	out, err := e.OutputOpen(context.Background(), "plain.log", false)
	require.NoError(t, err, "outputs fall through the read-only dir to memory")
	require.NoError(t, e.OutputClose(out))

	so := e.OutputOpenStdout()
	require.NoError(t, e.OutputWrite(so, []byte("ok")))
	require.NoError(t, e.OutputClose(so))
	require.Equal(t, "ok", stdout.String())
}

func TestBuild_OpenFailure(t *testing.T) {
	cfg := &Config{Backends: []BackendConfig{
		{Type: TypeMemory},
		{Type: TypeZip, Path: filepath.Join(t.TempDir(), "missing.zip")},
	}}

	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
	require.Equal(t, errors.CodeConfigLoadFailed, errors.GetCode(err))
	require.True(t, errors.IsReportable(err))

	var coded errors.Error
	require.True(t, errors.As(err, &coded))
	require.Equal(t, 1, coded.Context()["backend"])
}

func TestDump_MasksSecrets(t *testing.T) {
	cfg := &Config{
		Stdout: "stdout",
		Backends: []BackendConfig{
			{Type: TypeS3, Bucket: "tex", Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "hunter2"},
		},
	}

	data, err := Dump(cfg)
	require.NoError(t, err)

	var round Config
	require.NoError(t, yaml.Unmarshal(data, &round))
	require.Equal(t, "tex", round.Backends[0].Bucket)
	require.Equal(t, "minio", round.Backends[0].AccessKey)
	require.Equal(t, "********", round.Backends[0].SecretKey)
	require.Equal(t, "hunter2", cfg.Backends[0].SecretKey, "the input is not modified")
}
