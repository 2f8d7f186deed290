package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/status"
)

// Backend types.
const (
	TypeDir       = "dir"
	TypeMemory    = "memory"
	TypeZip       = "zip"
	TypeStargz    = "stargz"
	TypeRemote    = "remote"
	TypeGit       = "git"
	TypeS3        = "s3"
	TypeKpsewhich = "kpsewhich"
)

// Config is the decoded configuration file.
type Config struct {
	Stdout     string          `json:"stdout" yaml:"stdout"`
	BufferSize int             `json:"bufferSize" yaml:"bufferSize"`
	Log        Log             `json:"log" yaml:"log"`
	Backends   []BackendConfig `json:"backends" yaml:"backends"`
}

// Log configures the logger.
type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// BackendConfig describes one backend. Which fields apply depends on Type.
type BackendConfig struct {
	Type      string   `json:"type" yaml:"type"`
	Path      string   `json:"path,omitempty" yaml:"path,omitempty"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Writable  bool     `json:"writable" yaml:"writable"`
	Digest    string   `json:"digest,omitempty" yaml:"digest,omitempty"`
	Revision  string   `json:"revision,omitempty" yaml:"revision,omitempty"`
	Bucket    string   `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Endpoint  string   `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	AccessKey string   `json:"accessKey,omitempty" yaml:"accessKey,omitempty"`
	SecretKey string   `json:"secretKey,omitempty" yaml:"secretKey,omitempty"`
	UseSSL    bool     `json:"useSSL" yaml:"useSSL"`
	Prefix    string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Command   string   `json:"command,omitempty" yaml:"command,omitempty"`
	Match     []string `json:"match,omitempty" yaml:"match,omitempty"`
}

// Validate checks the requirements the schema cannot express. All
// problems are reported together under errors.CodeInvalidConfig.
func (c *Config) Validate() error {
	var issues []error
	add := func(format string, args ...any) {
		issues = append(issues, fmt.Errorf(format, args...))
	}

	switch c.Stdout {
	case "", "stdout", "stderr", "discard":
	default:
		add("stdout: unknown target %q", c.Stdout)
	}
	if c.BufferSize < 0 {
		add("bufferSize: must not be negative")
	}
	if c.Log.Level != "" {
		if _, err := status.ParseLevel(c.Log.Level); err != nil {
			add("log.level: %q is not a level", c.Log.Level)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		add("log.format: unknown format %q", c.Log.Format)
	}

	if len(c.Backends) == 0 {
		add("backends: at least one backend is required")
	}
	for i, b := range c.Backends {
		for _, msg := range b.problems() {
			add("backends[%d] (%s): %s", i, b.Type, msg)
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return errors.WithContext(
		errors.Wrap(errors.Join(issues...), errors.CodeInvalidConfig, "invalid configuration"),
		"issues", len(issues),
	)
}

func (b *BackendConfig) problems() []string {
	var out []string
	need := func(field, value string) {
		if value == "" {
			out = append(out, field+" is required")
		}
	}

	switch b.Type {
	case TypeDir, TypeZip, TypeStargz, TypeGit:
		need("path", b.Path)
	case TypeRemote:
		need("url", b.URL)
		if b.URL != "" {
			u, err := url.Parse(b.URL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				out = append(out, fmt.Sprintf("url %q is not an http(s) URL", b.URL))
			}
		}
	case TypeS3:
		need("bucket", b.Bucket)
		need("endpoint", b.Endpoint)
	case TypeMemory, TypeKpsewhich:
	default:
		out = append(out, fmt.Sprintf("unknown type %q", b.Type))
	}

	if b.Writable {
		switch b.Type {
		case TypeDir, TypeMemory, TypeS3:
		default:
			out = append(out, "backend cannot be writable")
		}
	}
	if b.Digest != "" {
		if b.Type != TypeStargz {
			out = append(out, "digest applies to stargz backends only")
		} else if _, err := digest.Parse(b.Digest); err != nil {
			out = append(out, fmt.Sprintf("digest %q is invalid", b.Digest))
		}
	}
	if b.Revision != "" && b.Type != TypeGit {
		out = append(out, "revision applies to git backends only")
	}
	for _, p := range b.Match {
		if _, err := glob.Compile(p, '/'); err != nil {
			out = append(out, fmt.Sprintf("match pattern %q is invalid", p))
		}
	}
	return out
}

// Dump renders c as YAML. Secret keys are masked.
func Dump(c *Config) ([]byte, error) {
	masked := *c
	masked.Backends = make([]BackendConfig, len(c.Backends))
	for i, b := range c.Backends {
		if b.SecretKey != "" {
			b.SecretKey = "********"
		}
		masked.Backends[i] = b
	}

	data, err := yaml.Marshal(&masked)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to encode configuration")
	}
	return data, nil
}
