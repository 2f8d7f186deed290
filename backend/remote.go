package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/docker/distribution/registry/client/transport"

	"github.com/jmgilman/texio/errors"
)

// OpenRemote opens an eStargz bundle served over HTTP. The server must
// report the blob size and honor range requests; every entry read becomes
// one or more range requests.
func OpenRemote(ctx context.Context, client *http.Client, url string) (*Stargz, error) {
	if client == nil {
		client = http.DefaultClient
	}

	size, err := remoteSize(ctx, client, url)
	if err != nil {
		return nil, err
	}
	if !supportsRange(ctx, client, url) {
		return nil, errors.WithContext(
			errors.New(errors.CodeUnsupported, "server does not support range requests"),
			"url", url)
	}

	rs := transport.NewHTTPReadSeeker(client, url, nil)
	s, err := NewStargz(newReaderAtFromSeeker(rs, size), size, rs)
	if err != nil {
		_ = rs.Close()
		return nil, errors.WithContext(err, "url", url)
	}
	return s, nil
}

func remoteSize(ctx context.Context, client *http.Client, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInvalidInput, "invalid bundle url")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.WrapWithContext(err, errors.CodeNetwork, "bundle unreachable",
			map[string]interface{}{"url": url})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.WithContext(
			errors.Newf(errors.CodeNetwork, "unexpected status %d", resp.StatusCode),
			"url", url)
	}
	if resp.ContentLength < 0 {
		return 0, errors.WithContext(
			errors.New(errors.CodeNetwork, "server did not report bundle size"),
			"url", url)
	}
	return resp.ContentLength, nil
}

// supportsRange sends a one-byte range request and checks for 206 Partial
// Content. Any failure counts as no support.
func supportsRange(ctx context.Context, client *http.Client, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Range", "bytes=0-0")

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusPartialContent
}

// readerAtFromSeeker adapts an io.ReadSeeker to io.ReaderAt. Each ReadAt is
// a seek followed by a read, so calls are serialized.
type readerAtFromSeeker struct {
	mu     sync.Mutex
	seeker io.ReadSeeker
	size   int64
}

func newReaderAtFromSeeker(seeker io.ReadSeeker, size int64) *readerAtFromSeeker {
	return &readerAtFromSeeker{seeker: seeker, size: size}
}

func (r *readerAtFromSeeker) ReadAt(p []byte, offset int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset >= r.size {
		return 0, io.EOF
	}
	if _, err := r.seeker.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek to offset %d failed: %w", offset, err)
	}

	want := p
	if remaining := r.size - offset; int64(len(want)) > remaining {
		want = want[:remaining]
	}
	n, err := io.ReadFull(r.seeker, want)
	if err == nil && len(want) < len(p) {
		err = io.EOF
	}
	return n, err
}
