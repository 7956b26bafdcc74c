package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"time"

	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/shared/contextutil"
	"go-hris-admin/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeader = "X-Request-ID"
	RateLimitReset  = "X-RateLimit-Reset"

	maxBodyBytes = 10 << 20
)

type Config struct {
	BaseURL           string
	Timeout           time.Duration
	Retries           int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestsPerSecond float64
	Burst             int
	Credentials       Credentials
	CookieJar         bool
	// Transport overrides http.DefaultTransport (tests).
	Transport http.RoundTripper
}

// Client is the HTTP collaborator for the admin backend. Every call is
// bounded by Timeout, passes a client-side token bucket and carries a
// request id. Only GETs are retried.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	retries   int
	baseDelay time.Duration
	maxDelay  time.Duration
	limiter   *rate.Limiter
	creds     Credentials
	logger    *zap.Logger
}

func New(cfg Config, logger ...*zap.Logger) (*Client, error) {
	l := zap.L().Named("apiclient")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("apiclient")
	}

	hc := &http.Client{Transport: cfg.Transport}
	if cfg.CookieJar {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 200 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	creds := cfg.Credentials
	if creds == nil {
		creds = noCredentials{}
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		http:      hc,
		timeout:   cfg.Timeout,
		retries:   cfg.Retries,
		baseDelay: cfg.BaseDelay,
		maxDelay:  cfg.MaxDelay,
		limiter:   limiter,
		creds:     creds,
		logger:    l,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string) (*response.RawEnvelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*response.RawEnvelope, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*response.RawEnvelope, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*response.RawEnvelope, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*response.RawEnvelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends a JSON request and decodes the envelope.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*response.RawEnvelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
	}

	build := func(ctx context.Context) (*http.Request, error) {
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}

	raw, status, _, err := c.send(ctx, method, path, build)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(raw, status)
}

// Upload posts a single multipart file part.
func (c *Client) Upload(ctx context.Context, path, field, filename, contentType string, content []byte) (*response.RawEnvelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	payload := buf.Bytes()
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	}

	raw, status, _, err := c.send(ctx, http.MethodPost, path, build)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(raw, status)
}

// Fetch downloads a raw resource (images). Non-2xx responses become AppErrors.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	}
	raw, status, header, err := c.send(ctx, http.MethodGet, path, build)
	if err != nil {
		return nil, "", err
	}
	if status < 200 || status > 299 {
		return nil, "", apperror.FromStatus(status, "", nil)
	}
	return raw, header.Get("Content-Type"), nil
}

func (c *Client) send(
	ctx context.Context,
	method, path string,
	build func(context.Context) (*http.Request, error),
) ([]byte, int, http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rid := contextutil.GetRequestID(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}
	logger := contextutil.GetLogger(ctx, c.logger).With(
		zap.String("request_id", rid),
		zap.String("method", method),
		zap.String("path", path),
	)

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, nil, networkError(ctx, err)
		}

		req, err := build(ctx)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("build %s %s: %w", method, path, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set(RequestIDHeader, rid)
		if err := c.creds.Apply(req); err != nil {
			return nil, 0, nil, err
		}

		started := time.Now()
		res, err := c.http.Do(req)
		if err != nil {
			if c.canRetry(method, attempt) && ctx.Err() == nil {
				logger.Warn("request failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
				if c.sleep(ctx, c.backoff(attempt)) == nil {
					continue
				}
			}
			logger.Warn("request failed", zap.Error(err))
			return nil, 0, nil, networkError(ctx, err)
		}

		body, readErr := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
		_ = res.Body.Close()
		logger.Debug("request done",
			zap.Int("status", res.StatusCode),
			zap.Duration("took", time.Since(started)),
		)
		if readErr != nil {
			return nil, 0, nil, networkError(ctx, readErr)
		}

		if (res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500) && c.canRetry(method, attempt) {
			wait := c.backoff(attempt)
			if res.StatusCode == http.StatusTooManyRequests {
				if d, ok := retryAfter(res.Header); ok {
					wait = d
				}
			}
			logger.Warn("retryable status", zap.Int("status", res.StatusCode), zap.Int("attempt", attempt))
			if err := c.sleep(ctx, wait); err != nil {
				return nil, 0, nil, networkError(ctx, err)
			}
			continue
		}

		return body, res.StatusCode, res.Header, nil
	}
}

func (c *Client) canRetry(method string, attempt int) bool {
	return method == http.MethodGet && attempt < c.retries
}

// backoff is exponential with 50-100% jitter, capped at maxDelay.
func (c *Client) backoff(attempt int) time.Duration {
	exp := c.baseDelay << attempt
	if exp <= 0 || exp > c.maxDelay {
		exp = c.maxDelay
	}
	jitter := exp / 2
	if jitter <= 0 {
		return exp
	}
	return exp - jitter + time.Duration(rand.Int64N(int64(jitter)))
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryAfter(h http.Header) (time.Duration, bool) {
	v := h.Get(RateLimitReset)
	if v == "" {
		return 0, false
	}
	ms, err := time.ParseDuration(v + "ms")
	if err != nil {
		return 0, false
	}
	return ms + 10*time.Millisecond, true
}

func networkError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.Wrap(err, apperror.CodeNetwork, "The request timed out", 0)
	}
	return apperror.Wrap(err, apperror.CodeNetwork, apperror.ErrNetwork.Message, 0)
}

func decodeEnvelope(raw []byte, status int) (*response.RawEnvelope, error) {
	var env response.RawEnvelope
	decodeErr := json.Unmarshal(raw, &env)

	if status < 200 || status > 299 {
		var details any
		if len(env.Errors) > 0 {
			details = env.Errors
		}
		return nil, apperror.FromStatus(status, env.Message, details)
	}
	if decodeErr != nil {
		return nil, apperror.Wrap(decodeErr, apperror.CodeRequestFailed, "Unexpected response from server", status)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "Request was not successful"
		}
		appErr := apperror.New(apperror.CodeRequestFailed, msg, status)
		if len(env.Errors) > 0 {
			appErr = appErr.WithDetails(env.Errors)
		}
		return nil, appErr
	}
	return &env, nil
}

// DecodeData unmarshals the envelope's data into T. Absent data yields the zero value.
func DecodeData[T any](env *response.RawEnvelope) (T, error) {
	var out T
	if env == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, apperror.Wrap(err, apperror.CodeRequestFailed, "Unexpected response from server", 0)
	}
	return out, nil
}
