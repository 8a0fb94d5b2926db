// Package fetch retrieves public objects (photo bytes) over HTTP for the
// moderation path.
package fetch

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/macrofuel/macrofuel-api/internal/resilience"
)

// maxObjectBytes caps fetched object size; provider vision inputs are far
// below this anyway.
const maxObjectBytes = 20 << 20

// Object is a fetched binary payload.
type Object struct {
	Data        []byte
	ContentType string
}

// Fetcher downloads objects with transient-failure retries.
type Fetcher struct {
	http  *http.Client
	retry resilience.RetryConfig
}

// New creates a fetcher with the default retry policy.
func New() *Fetcher {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("fetch", "get_object")
	return &Fetcher{
		http:  &http.Client{Timeout: 30 * time.Second},
		retry: cfg,
	}
}

// WithHTTPClient overrides the underlying client, for tests.
func (f *Fetcher) WithHTTPClient(hc *http.Client) *Fetcher {
	f.http = hc
	return f
}

// Get downloads the object at url.
func (f *Fetcher) Get(ctx context.Context, url string) (*Object, error) {
	return resilience.DoVal(ctx, f.retry, func(ctx context.Context) (*Object, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "fetch: create request %s", url)
		}

		resp, err := f.http.Do(req)
		if err != nil {
			return nil, eris.Wrapf(err, "fetch: get %s", url)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("fetch: unexpected status %d for %s", resp.StatusCode, url)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxObjectBytes+1))
		if err != nil {
			return nil, eris.Wrapf(err, "fetch: read body %s", url)
		}
		if len(data) > maxObjectBytes {
			return nil, eris.Errorf("fetch: object at %s exceeds %d bytes", url, maxObjectBytes)
		}

		ct := resp.Header.Get("Content-Type")
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
		ct = strings.TrimSpace(ct)
		if ct == "" {
			ct = http.DetectContentType(data)
		}

		return &Object{Data: data, ContentType: ct}, nil
	})
}

// base64ChunkBytes is a multiple of 3 so every chunk encodes without padding
// except the last, keeping the concatenation a valid base64 stream.
const base64ChunkBytes = 3 * 64 * 1024

// EncodeBase64Chunked encodes data chunk by chunk, bounding the size of any
// single encoder call on very large arrays.
func EncodeBase64Chunked(data []byte) string {
	var b strings.Builder
	b.Grow(base64.StdEncoding.EncodedLen(len(data)))

	for len(data) > 0 {
		n := base64ChunkBytes
		if n > len(data) {
			n = len(data)
		}
		b.WriteString(base64.StdEncoding.EncodeToString(data[:n]))
		data = data[n:]
	}
	return b.String()
}
