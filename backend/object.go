package backend

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmgilman/texio/errors"
	"github.com/jmgilman/texio/format"
	"github.com/jmgilman/texio/stream"
)

// ObjectConfig configures an Object backend.
type ObjectConfig struct {
	// Endpoint is the server address, e.g. "localhost:9000".
	Endpoint string
	// Bucket is required.
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Prefix is prepended to every object key.
	Prefix string
	// Writable enables outputs. Outputs are uploaded when closed.
	Writable bool
	// Client overrides Endpoint and credentials when set.
	Client *minio.Client
}

func (c *ObjectConfig) validate() error {
	if c.Bucket == "" {
		return errors.New(errors.CodeInvalidConfig, "bucket is required")
	}
	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return errors.New(errors.CodeInvalidConfig, "endpoint is required when client is not provided")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return errors.New(errors.CodeInvalidConfig, "credentials are required when client is not provided")
	}
	return nil
}

// Object serves objects from an S3-compatible bucket.
type Object struct {
	client   *minio.Client
	bucket   string
	prefix   string
	writable bool
}

// NewObject creates the client described by cfg. It does not contact the
// server.
func NewObject(cfg ObjectConfig) (*Object, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create object store client")
		}
	}

	return &Object{
		client:   client,
		bucket:   cfg.Bucket,
		prefix:   strings.Trim(strings.ReplaceAll(cfg.Prefix, "\\", "/"), "/"),
		writable: cfg.Writable,
	}, nil
}

func (o *Object) key(name string) string {
	if o.prefix == "" {
		return name
	}
	return path.Join(o.prefix, name)
}

func (o *Object) OpenInput(ctx context.Context, name string, kind format.Kind) (stream.Stream, error) {
	// The object outlives this call; its reads must not be bound to ctx.
	ctx = context.WithoutCancel(ctx)

	for _, cand := range candidates(name, kind) {
		key := o.key(cand)
		info, err := o.client.StatObject(ctx, o.bucket, key, minio.StatObjectOptions{})
		if err != nil {
			if isNoSuchKey(err) {
				continue
			}
			return nil, translate(err, "stat", cand)
		}

		obj, err := o.client.GetObject(ctx, o.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, translate(err, "get", cand)
		}
		size := info.Size
		return stream.NewFile(cand, obj, func() (int64, error) { return size, nil }), nil
	}
	return nil, notFound(name, kind)
}

func (o *Object) OpenOutput(ctx context.Context, name string) (stream.Stream, error) {
	if !o.writable {
		return nil, readOnly(name)
	}
	clean, ok := archiveName(name)
	if !ok {
		return nil, errors.WithContext(errors.New(errors.CodeInvalidInput, "invalid output name"), "name", name)
	}

	ctx = context.WithoutCancel(ctx)
	key := o.key(clean)
	return stream.NewSpool(clean, func(r io.Reader, size int64) error {
		_, err := o.client.PutObject(ctx, o.bucket, key, r, size, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return translate(err, "put", clean)
		}
		return nil
	}), nil
}

func (o *Object) Close() error { return nil }

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func translate(err error, op, name string) error {
	resp := minio.ToErrorResponse(err)
	code := errors.CodeNetwork
	switch resp.Code {
	case "NoSuchKey":
		code = errors.CodeNotFound
	case "NoSuchBucket", "AccessDenied":
		code = errors.CodeIO
	}
	return errors.WrapWithContext(err, code, op+" failed",
		map[string]interface{}{"name": name, "s3code": resp.Code})
}

var _ Backend = (*Object)(nil)
