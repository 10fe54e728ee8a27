package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"podclaw/internal/logging"
)

// Fetcher retrieves the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPDoer describes the HTTP client used by HTTPFetcher.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProgressFunc opens a sink that receives a copy of the response body as it is
// read. total is the advertised content length, or -1 when unknown. The sink
// is closed once the body has been consumed.
type ProgressFunc func(total int64) io.WriteCloser

// HTTPFetcher fetches URLs with plain GET requests.
type HTTPFetcher struct {
	client    HTTPDoer
	userAgent string
	timeout   time.Duration
	progress  ProgressFunc
	logger    *slog.Logger
}

// Option customizes an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient replaces the HTTP client.
func WithClient(client HTTPDoer) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(f *HTTPFetcher) {
		f.userAgent = strings.TrimSpace(agent)
	}
}

// WithTimeout bounds each request. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

// WithProgress attaches a progress sink to every request.
func WithProgress(progress ProgressFunc) Option {
	return func(f *HTTPFetcher) {
		f.progress = progress
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// NewHTTPFetcher constructs a fetcher backed by http.DefaultClient unless
// WithClient says otherwise.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{client: http.DefaultClient}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "feed")
	return f
}

// Fetch performs a GET request and returns the full response body. Only http
// and https URLs are accepted and any non-2xx status is a failure.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %w", ErrRequest, target, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	started := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrRequest, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: get %s: unexpected status %d", ErrRequest, target, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.progress != nil {
		if sink := f.progress(resp.ContentLength); sink != nil {
			defer sink.Close()
			body = io.TeeReader(resp.Body, sink)
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrRequest, target, err)
	}

	f.logger.Debug("fetched url",
		logging.String(logging.FieldURL, target),
		logging.Int("status", resp.StatusCode),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", time.Since(started)))
	return data, nil
}

func parseURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: parse url %q: %w", ErrRequest, trimmed, err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("%w: unsupported url %q", ErrRequest, trimmed)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: url %q has no host", ErrRequest, trimmed)
	}
	return parsed.String(), nil
}
