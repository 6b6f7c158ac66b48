package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindConnectionFailed covers transport-level failures (DNS, refused, reset).
	KindConnectionFailed Kind = iota
	// KindTimeout covers per-request deadline expiry.
	KindTimeout
	// KindHTTPStatus covers responses outside 2xx.
	KindHTTPStatus
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http status"
	default:
		return "connection failed"
	}
}

// Error is the fetch collaborator's terminal failure, carrying enough context
// (URL, status) to be user-actionable.
type Error struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: %s %d", e.URL, e.Kind, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client wraps http.Client with a browser-like User-Agent, a per-request
// timeout, bounded retry with exponential backoff on transient errors, and a
// polite fixed delay between successive requests.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request.
	PerRequestTimeout time.Duration
	// RetryBaseDelay is the first backoff interval; it doubles per attempt.
	RetryBaseDelay time.Duration
	// Delay is the minimum spacing between requests (resource courtesy
	// toward the scraped site). Zero disables the limiter.
	Delay time.Duration
	// RedirectMaxHops caps redirect following. Zero means default (5).
	RedirectMaxHops int

	limiter     *rate.Limiter
	limiterOnce sync.Once
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// Get issues a GET with context and returns body and content type. Transient
// failures (5xx, timeouts) are retried up to MaxAttempts with exponential
// backoff; everything else fails immediately with a *Error.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := c.RetryBaseDelay
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := c.politeWait(ctx); err != nil {
			return nil, "", &Error{Kind: KindConnectionFailed, URL: rawURL, Err: err}
		}
		body, ct, err := c.tryOnce(ctx, rawURL)
		if err == nil {
			return body, ct, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			return nil, "", err
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, "", &Error{Kind: KindTimeout, URL: rawURL, Err: ctx.Err()}
		}
		backoff *= 2
	}
	return nil, "", lastErr
}

func (c *Client) tryOnce(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &Error{Kind: KindConnectionFailed, URL: rawURL, Err: err}
	}
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, "", &Error{Kind: KindConnectionFailed, URL: rawURL, Err: fmt.Errorf("unsupported URL scheme")}
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(req.Context(), c.PerRequestTimeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		kind := KindConnectionFailed
		if errors.Is(err, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return nil, "", &Error{Kind: kind, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &Error{Kind: KindHTTPStatus, URL: rawURL, Status: resp.StatusCode}
	}
	contentType := resp.Header.Get("Content-Type")
	if !isAllowedHTMLContentType(contentType) {
		return nil, "", &Error{Kind: KindHTTPStatus, URL: rawURL, Status: resp.StatusCode,
			Err: fmt.Errorf("unsupported content type: %s", contentType)}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Kind: KindConnectionFailed, URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return b, contentType, nil
}

// politeWait enforces the inter-request delay. The limiter is created on
// first use so a zero-value Client stays usable.
func (c *Client) politeWait(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	c.limiterOnce.Do(func() {
		c.limiter = rate.NewLimiter(rate.Every(c.Delay), 1)
	})
	return c.limiter.Wait(ctx)
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach the redirect policy without mutating caller's client.
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isTransient(err error) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	if fe.Kind == KindTimeout {
		return true
	}
	return fe.Kind == KindHTTPStatus && fe.Status >= 500 && fe.Status <= 599
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
