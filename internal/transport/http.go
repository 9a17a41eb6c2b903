package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "reel/1.0"
)

// HTTPLoader fetches fragments from the published data endpoint.
// This is the transport used by clients of a deployed site.
type HTTPLoader struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// HTTPOption configures an HTTPLoader
type HTTPOption func(*HTTPLoader)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(l *HTTPLoader) { l.httpClient = c }
}

// WithRateLimit caps outgoing requests per second; 0 disables the cap
func WithRateLimit(perSecond float64) HTTPOption {
	return func(l *HTTPLoader) {
		if perSecond > 0 {
			burst := int(perSecond)
			if burst < 1 {
				burst = 1
			}
			l.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewHTTPLoader creates a loader for the data endpoint at baseURL
func NewHTTPLoader(baseURL string, logger *slog.Logger, opts ...HTTPOption) *HTTPLoader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &HTTPLoader{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BaseURL returns the data endpoint
func (l *HTTPLoader) BaseURL() string { return l.baseURL }

// Fetch performs a GET for path against the data endpoint
func (l *HTTPLoader) Fetch(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, &domain.FetchError{Path: path, Err: domain.ErrInvalidPath}
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return nil, &domain.FetchError{Path: path, Err: err}
	}

	reqURL := l.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Path: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	l.logger.Debug("data request", "url", reqURL)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.logger.Warn("data request failed", "url", reqURL, "error", err)
		return nil, &domain.FetchError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return nil, &domain.FetchError{Path: path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return body, nil
}
