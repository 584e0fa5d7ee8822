package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultFetchTimeout bounds every asset request.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxAssetSize caps a single fetched asset (20MB).
const DefaultMaxAssetSize = 20 << 20

// namePlaceholder is substituted by the escaped asset name in endpoint
// templates. Endpoints without it get the name appended as a path segment.
const namePlaceholder = "{name}"

// Fetcher retrieves the asset behind a reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref Reference) (Asset, error)
}

// Endpoints maps schemes to their asset-serving URLs.
type Endpoints struct {
	Template string
	Cloud    string
}

// URL builds the request URL for ref.
func (e Endpoints) URL(ref Reference) (string, error) {
	var base string
	switch ref.Scheme {
	case SchemeTemplate:
		base = e.Template
	case SchemeCloud:
		base = e.Cloud
	}
	if base == "" {
		return "", fmt.Errorf("%w: %s", ErrNoEndpoint, ref.Scheme)
	}
	escaped := url.PathEscape(ref.Name)
	if strings.Contains(base, namePlaceholder) {
		return strings.ReplaceAll(base, namePlaceholder, escaped), nil
	}
	return strings.TrimRight(base, "/") + "/" + escaped, nil
}

// HTTPFetcher fetches assets with bounded-timeout GET requests.
type HTTPFetcher struct {
	client    *http.Client
	endpoints Endpoints
	timeout   time.Duration
	maxSize   int64
	limiter   *rate.Limiter
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithFetchTimeout sets the per-request timeout.
func WithFetchTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxSize sets the maximum accepted asset size in bytes.
func WithMaxSize(n int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxSize = n
		}
	}
}

// WithRateLimit throttles requests toward the asset endpoints.
// A zero interval disables throttling.
func WithRateLimit(every time.Duration, burst int) HTTPOption {
	return func(f *HTTPFetcher) {
		if every <= 0 {
			f.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Every(every), burst)
	}
}

// NewHTTPFetcher creates a fetcher for the given endpoints.
func NewHTTPFetcher(endpoints Endpoints, opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: DefaultFetchTimeout},
		endpoints: endpoints,
		timeout:   DefaultFetchTimeout,
		maxSize:   DefaultMaxAssetSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs the GET request for ref. Non-2xx responses, timeouts and
// oversized bodies are returned as *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref Reference) (Asset, error) {
	fail := func(status int, err error) (Asset, error) {
		return Asset{}, &FetchError{Ref: ref, Status: status, Err: err}
	}

	target, err := f.endpoints.URL(ref)
	if err != nil {
		return fail(0, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return fail(0, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fail(0, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return fail(resp.StatusCode, ErrUnexpectedCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return fail(0, fmt.Errorf("reading body: %w", err))
	}
	if int64(len(data)) > f.maxSize {
		return fail(0, fmt.Errorf("%w: more than %d bytes", ErrAssetTooLarge, f.maxSize))
	}
	if len(data) == 0 {
		return fail(0, ErrEmptyAsset)
	}

	return Asset{
		ContentType: ContentType(resp.Header.Get("Content-Type"), ref.Name),
		Data:        data,
	}, nil
}

// Compile-time interface check.
var _ Fetcher = (*HTTPFetcher)(nil)
