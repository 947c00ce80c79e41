package netutil

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// LeveledZap adapts a zap sugared logger to retryablehttp's leveled
// interface. Intermediate retry failures are downgraded to WARN.
type LeveledZap struct {
	inner *zap.SugaredLogger
}

func (l LeveledZap) Error(msg string, keysAndValues ...any) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l LeveledZap) Warn(msg string, keysAndValues ...any) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l LeveledZap) Info(msg string, keysAndValues ...any) {
	l.inner.Infow(msg, keysAndValues...)
}

func (l LeveledZap) Debug(msg string, keysAndValues ...any) {
	l.inner.Debugw(msg, keysAndValues...)
}

type Option func(*retryablehttp.Client)

// WithMaxRetries sets how many times a request is retried after the
// initial attempt.
func WithMaxRetries(maxRetries int) Option {
	return func(client *retryablehttp.Client) {
		client.RetryMax = maxRetries
	}
}

// WithRetryWaitMin sets the minimum wait time between retries.
func WithRetryWaitMin(waitMin time.Duration) Option {
	return func(client *retryablehttp.Client) {
		client.RetryWaitMin = waitMin
	}
}

// WithRetryWaitMax sets the maximum wait time between retries.
func WithRetryWaitMax(waitMax time.Duration) Option {
	return func(client *retryablehttp.Client) {
		client.RetryWaitMax = waitMax
	}
}

// WithLogger routes the client's retry chatter through the given logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(client *retryablehttp.Client) {
		client.Logger = retryablehttp.LeveledLogger(LeveledZap{inner: logger})
	}
}

// WithTimeout sets the overall per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(client *retryablehttp.Client) {
		client.HTTPClient.Timeout = timeout
	}
}

// RateLimitRetryPolicy retries HTTP 429 and nothing else. Other HTTP
// errors and network failures surface immediately so the caller can
// record them. After the retry budget is exhausted the last response is
// handed back to the caller, which maps the status to its own error
// type.
func RateLimitRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil && resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}
	return false, nil
}

// NewClient builds an HTTP client with bounded retry-with-backoff
// behavior shared by every outbound integration. The returned client has
// the stdlib http.Client interface with retryablehttp logic inside.
func NewClient(options ...Option) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = cleanhttp.DefaultPooledClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(LeveledZap{inner: zap.S()})
	retryClient.CheckRetry = RateLimitRetryPolicy
	// Hand the final response back instead of a synthesized "giving up"
	// error, so callers can map the status onto their own error type.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = 30 * time.Second

	for _, option := range options {
		option(retryClient)
	}

	return retryClient.StandardClient()
}
