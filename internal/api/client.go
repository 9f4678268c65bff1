// Package api is the HTTP client for the bookstore service: a single-request
// executor, a retrying wrapper with exponential backoff, and failure
// classification. No raw transport or validation error ever escapes this
// package; callers only see *apierror.APIError.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"circlepos/internal/domain"
	"circlepos/internal/metrics"
	"circlepos/internal/validate"
	"circlepos/pkg/apierror"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultMaxRetries     = 3
	defaultBaseDelay      = time.Second
	defaultMaxJitter      = time.Second
	defaultRequestTimeout = 15 * time.Second
)

// Options tunes the client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration // per-attempt timeout, ignored when HTTPClient is set
	MaxRetries     int
	BaseDelay      time.Duration
	MaxJitter      time.Duration
	Debug          bool
}

// Client calls the bookstore API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxJitter  time.Duration
	debug      bool
}

// New creates a client for the bookstore API at opts.BaseURL.
func New(opts Options) *Client {
	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		maxJitter:  opts.MaxJitter,
		debug:      opts.Debug,
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.baseDelay <= 0 {
		c.baseDelay = defaultBaseDelay
	}
	if c.maxJitter <= 0 {
		c.maxJitter = defaultMaxJitter
	}
	if c.httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c
}

// GetBooks fetches and validates the full catalog.
func (c *Client) GetBooks(ctx context.Context) ([]domain.Book, error) {
	const endpoint = "GET /books"
	resp, err := withRetry(ctx, c, endpoint, func(ctx context.Context) (domain.BooksResponse, error) {
		raw, err := c.fetchJSON(ctx, http.MethodGet, "/books", nil)
		if err != nil {
			return domain.BooksResponse{}, err
		}
		return validate.BooksResponse(raw)
	})
	if err != nil {
		return nil, err
	}
	return resp.Books, nil
}

// GetBook fetches and validates a single book by identifier.
func (c *Client) GetBook(ctx context.Context, id int) (domain.Book, error) {
	endpoint := fmt.Sprintf("GET /books/%d", id)
	resp, err := withRetry(ctx, c, endpoint, func(ctx context.Context) (domain.BookDetailResponse, error) {
		raw, err := c.fetchJSON(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), nil)
		if err != nil {
			return domain.BookDetailResponse{}, err
		}
		return validate.BookDetailResponse(raw)
	})
	if err != nil {
		return domain.Book{}, err
	}
	return resp.Book, nil
}

// PurchaseBook submits a purchase for a book. POST semantics, empty body.
func (c *Client) PurchaseBook(ctx context.Context, id int) (domain.PurchaseResponse, error) {
	endpoint := fmt.Sprintf("POST /books/%d/purchase", id)
	return withRetry(ctx, c, endpoint, func(ctx context.Context) (domain.PurchaseResponse, error) {
		raw, err := c.fetchJSON(ctx, http.MethodPost, fmt.Sprintf("/books/%d/purchase", id), nil)
		if err != nil {
			return domain.PurchaseResponse{}, err
		}
		if c.debug {
			logPurchaseResponse(endpoint, raw)
		}
		return validate.PurchaseResponse(raw)
	})
}

// fetchJSON executes one request and decodes the body into an untyped value
// for validation. An undecodable body is treated like a transport failure.
func (c *Client) fetchJSON(ctx context.Context, method, path string, headers http.Header) (any, error) {
	body, err := c.do(ctx, method, path, headers)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &requestError{msg: fmt.Sprintf("decoding response body: %v", err)}
	}
	return raw, nil
}

// do executes a single request and returns the raw body. A non-2xx status
// yields a *requestError carrying the status; a transport failure yields one
// without. Content-Type is always set; caller-supplied headers may override
// it.
func (c *Client) do(ctx context.Context, method, path string, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, &requestError{msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &requestError{msg: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &requestError{msg: err.Error()}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &requestError{
			msg:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			status: resp.StatusCode,
		}
	}

	return body, nil
}

// withRetry runs op until it succeeds, the failure is not retryable, or the
// retry budget is spent. Attempts are strictly sequential and each backoff
// delay is waited out in full. Jitter is uniform so concurrent clients do
// not retry in lockstep.
func withRetry[T any](ctx context.Context, c *Client, endpoint string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			metrics.APIRequests.WithLabelValues(endpoint, "success").Inc()
			return v, nil
		}

		apiErr := c.classify(err, endpoint)

		// A validation failure signals an API contract mismatch, not a
		// transient condition; it is surfaced after a single attempt.
		var verr *validate.Error
		if errors.As(err, &verr) || !apiErr.Retryable || attempt == c.maxRetries {
			metrics.APIRequests.WithLabelValues(endpoint, "failure").Inc()
			return zero, apiErr
		}

		delay := c.baseDelay*time.Duration(1<<attempt) + rand.N(c.maxJitter)
		metrics.APIRetries.WithLabelValues(endpoint).Inc()

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			metrics.APIRequests.WithLabelValues(endpoint, "failure").Inc()
			return zero, apiErr
		}
	}
}

// classify funnels any failure into the single user-facing error shape.
// Diagnostic detail goes to the internal log only; the messages here are the
// ones end users see.
func (c *Client) classify(err error, endpoint string) *apierror.APIError {
	var verr *validate.Error
	if errors.As(err, &verr) {
		c.logValidationError(verr, endpoint)
		return apierror.Validation("The server returned invalid data. Please try again or contact support if the problem persists.")
	}

	var rerr *requestError
	if errors.As(err, &rerr) {
		switch {
		case rerr.status == 0:
			c.logNetworkError(rerr.msg, endpoint)
			return apierror.Network("Unable to connect to the server. Please check your internet connection.")
		case rerr.status >= http.StatusInternalServerError:
			c.logServerError(rerr.msg, endpoint, rerr.status)
			return apierror.Server("Server error occurred. Please try again in a moment.")
		case rerr.status == http.StatusNotFound:
			return apierror.NotFound("The requested item was not found.")
		case rerr.status == http.StatusBadRequest:
			return apierror.BadRequest("Invalid request. Please refresh the page and try again.")
		}
	}

	return apierror.Unknown("Something went wrong. Please try again.")
}
