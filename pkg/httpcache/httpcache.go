// Package httpcache executes upstream API requests with an optional
// response cache and an operator-controlled retry policy.
package httpcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
)

// UserAgent identifies this service to upstream APIs.
const UserAgent = "peoplesearch/1.0"

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 4 << 20

// Cacher allows external cache implementations for sharing across clients.
type Cacher interface {
	GetSet(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl ...time.Duration) ([]byte, error)
	TTL() time.Duration
}

// Cache wraps sfcache for upstream response caching.
type Cache struct {
	*sfcache.TieredCache[string, []byte]

	ttl time.Duration
}

// New creates a Cache persisted under cachePath.
func New(ttl time.Duration, cachePath string) (*Cache, error) {
	if err := os.MkdirAll(cachePath, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	persist, err := localfs.New[string, []byte]("peoplesearch", cachePath)
	if err != nil {
		return nil, fmt.Errorf("create persistence layer: %w", err)
	}

	tc, err := sfcache.NewTiered[string, []byte](persist, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Cache{TieredCache: tc, ttl: ttl}, nil
}

// TTL returns the default TTL for cache entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// URLToKey converts a URL to a cache key using SHA256 hash.
// Keys never contain the credentials carried in query strings.
func URLToKey(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(hash[:])
}

// HTTPError represents a non-2xx upstream response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}

// Policy controls how many times a request is attempted.
// The zero value makes exactly one attempt.
type Policy struct {
	Attempts uint
	Delay    time.Duration
}

func (p Policy) attempts() uint {
	return max(p.Attempts, 1)
}

// FetchURL performs req and returns the response body.
// With a non-nil cache, successful bodies are stored and concurrent
// identical requests share one upstream call. Failures are never cached.
func FetchURL(ctx context.Context, cache Cacher, client *http.Client, req *http.Request, logger *slog.Logger, policy Policy) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	safeURL := RedactURL(req.URL)

	if cache == nil {
		return doFetch(ctx, client, req, logger, policy, safeURL)
	}

	var fetched bool
	data, err := cache.GetSet(ctx, URLToKey(req.URL.String()), func(ctx context.Context) ([]byte, error) {
		fetched = true
		logger.DebugContext(ctx, "cache miss", "url", safeURL)
		return doFetch(ctx, client, req, logger, policy, safeURL)
	}, cache.TTL())
	if err != nil {
		return nil, err
	}
	if !fetched {
		logger.DebugContext(ctx, "cache hit", "url", safeURL)
	}
	return data, nil
}

func doFetch(ctx context.Context, client *http.Client, req *http.Request, logger *slog.Logger, policy Policy, safeURL string) ([]byte, error) {
	return retry.DoWithData(
		func() ([]byte, error) {
			resp, err := client.Do(req.WithContext(ctx))
			if err != nil {
				return nil, fmt.Errorf("request %s: %w", safeURL, scrubURLError(err))
			}
			defer resp.Body.Close() //nolint:errcheck // intentional

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return nil, &HTTPError{StatusCode: resp.StatusCode, URL: safeURL}
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			if err != nil {
				return nil, fmt.Errorf("read body %s: %w", safeURL, err)
			}
			return body, nil
		},
		retry.Context(ctx),
		retry.Attempts(policy.attempts()),
		retry.Delay(policy.Delay),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			logger.DebugContext(ctx, "retrying upstream request", "attempt", n+1, "url", safeURL, "error", err)
		}),
	)
}

// isRetryableError returns true for transient errors that may be retried.
func isRetryableError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	return !errors.Is(err, context.Canceled)
}

// sensitiveParams are query parameters that carry credentials.
var sensitiveParams = []string{"key", "api_key", "apikey", "token", "access_token"}

// RedactURL renders u with credential query parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, name := range sensitiveParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}

// scrubURLError drops the raw URL from *url.Error so that credentials in
// the query string never reach logs.
func scrubURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", strings.ToLower(uerr.Op), uerr.Err)
	}
	return err
}
