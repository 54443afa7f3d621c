package rest

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	clientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_client_requests_total",
			Help: "Total number of finance API requests",
		},
		[]string{"method", "status"},
	)

	clientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finance_client_request_duration_seconds",
			Help:    "Finance API request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method"},
	)
)

// Transport is the http.RoundTripper behind the entity client: it injects
// the session bearer token, records request metrics, optionally retries
// idempotent GETs with exponential backoff, and logs at debug level. The
// entity client itself stays retry-free.
type Transport struct {
	base       http.RoundTripper
	session    Session
	logger     zerolog.Logger
	retryGET   bool
	maxElapsed time.Duration
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithBase sets the underlying RoundTripper.
func WithBase(rt http.RoundTripper) TransportOption {
	return func(t *Transport) { t.base = rt }
}

// WithLogger sets the debug logger.
func WithLogger(logger zerolog.Logger) TransportOption {
	return func(t *Transport) { t.logger = logger }
}

// WithRetry enables GET retries with exponential backoff, bounded by
// maxElapsed.
func WithRetry(maxElapsed time.Duration) TransportOption {
	return func(t *Transport) {
		t.retryGET = true
		t.maxElapsed = maxElapsed
	}
}

// NewTransport creates a Transport around session.
func NewTransport(session Session, opts ...TransportOption) *Transport {
	t := &Transport{
		base:    http.DefaultTransport,
		session: session,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewHTTPClient builds an http.Client backed by a Transport.
func NewHTTPClient(session Session, timeout time.Duration, opts ...TransportOption) *http.Client {
	return &http.Client{
		Transport: NewTransport(session, opts...),
		Timeout:   timeout,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.session.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("resolve session token: %w", err)
	}

	req = req.Clone(req.Context())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()

	var resp *http.Response
	if t.retryGET && req.Method == http.MethodGet {
		resp, err = t.doWithRetry(req)
	} else {
		resp, err = t.base.RoundTrip(req)
	}

	duration := time.Since(start)
	clientRequestDuration.WithLabelValues(req.Method).Observe(duration.Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	clientRequestsTotal.WithLabelValues(req.Method, status).Inc()

	t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("status", status).
		Dur("duration", duration).
		Msg("finance api request")

	return resp, err
}

func (t *Transport) doWithRetry(req *http.Request) (*http.Response, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxElapsedTime = t.maxElapsed

	return backoff.RetryWithData(func() (*http.Response, error) {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		// Only transient upstream failures are worth retrying.
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("transient upstream status %d", resp.StatusCode)
		}

		return resp, nil
	}, backoff.WithContext(policy, req.Context()))
}
