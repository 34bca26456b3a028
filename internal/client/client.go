// Package client is the single chokepoint for all outbound HTTP calls.
// It enforces a process-wide minimum inter-request interval, caches GET
// responses for a short TTL, bounds every dispatch with a timeout, and
// parks requests in a FIFO queue while the client is offline.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"cinehub/internal/observability"

	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token attached to authenticated
// requests. A nil TokenSource means requests go out unauthenticated.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	// MinRequestInterval is the global minimum spacing between any two
	// dispatched requests. Enforced by delaying, never by dropping.
	MinRequestInterval time.Duration
	// Timeout bounds each dispatch; on expiry the in-flight call is
	// cancelled and the request fails with ErrTimeout.
	Timeout time.Duration
	// CacheTTL is how long a GET response stays usable.
	CacheTTL time.Duration
	// AuthExemptHosts lists hosts that must not receive the bearer
	// token (the metadata API authenticates with a query parameter).
	AuthExemptHosts []string
}

// Client issues rate-limited, cached, timeout-bounded HTTP requests.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *responseCache
	queue      *requestQueue
	timeout    time.Duration
	exempt     map[string]struct{}

	mu     sync.RWMutex
	tokens TokenSource

	online  atomic.Bool
	drainMu sync.Mutex
}

// New creates a Client. The client starts online.
func New(opts Options) *Client {
	exempt := make(map[string]struct{}, len(opts.AuthExemptHosts))
	for _, host := range opts.AuthExemptHosts {
		exempt[host] = struct{}{}
	}

	c := &Client{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Every(opts.MinRequestInterval), 1),
		cache:      newResponseCache(opts.CacheTTL),
		queue:      &requestQueue{},
		timeout:    opts.Timeout,
		exempt:     exempt,
	}
	c.online.Store(true)
	return c
}

// SetTokenSource installs the bearer token supplier. It exists as a
// setter because the session layer both owns the tokens and depends on
// this client.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *Client) tokenSource() TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// Get issues a GET request, consulting the response cache first.
func (c *Client) Get(ctx context.Context, rawURL string, out any) error {
	return c.Do(ctx, http.MethodGet, rawURL, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, rawURL string, body, out any) error {
	return c.Do(ctx, http.MethodPost, rawURL, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, rawURL string, body, out any) error {
	return c.Do(ctx, http.MethodPut, rawURL, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, rawURL string) error {
	return c.Do(ctx, http.MethodDelete, rawURL, nil, nil)
}

// Do dispatches one request. The call suspends until the minimum
// inter-request interval has elapsed since the previous dispatch. For
// GET requests a fresh cache hit short-circuits the network entirely;
// a successful GET repopulates the cache. While the client is flagged
// offline, mutations are parked in the queue and fail with
// ErrQueuedOffline, and uncached GETs fail with ErrOffline. Non-2xx
// responses fail with *StatusError; timeouts with ErrTimeout.
func (c *Client) Do(ctx context.Context, method, rawURL string, body, out any) error {
	return c.do(ctx, method, rawURL, body, out, false)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any, replay bool) error {
	isGet := method == http.MethodGet

	// Global rate limit: cooperative delay, never a drop.
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request cancelled while rate limited: %w", err)
	}

	if isGet {
		if payload, ok := c.cache.get(rawURL); ok {
			observability.CacheHitsTotal.Inc()
			return decode(payload, out)
		}
		observability.CacheMissesTotal.Inc()
	}

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to serialize request body: %w", err)
		}
	}

	// Queue replays skip this branch so a drain interrupted by going
	// offline fails with a network error and reinserts at the head.
	if !replay && !c.Online() {
		if !isGet {
			c.Enqueue(QueuedRequest{Method: method, URL: rawURL, Body: data})
			return ErrQueuedOffline
		}
		return fmt.Errorf("%w: client is offline", ErrOffline)
	}

	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachToken(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(req, start, 0)
		return c.classify(ctx, err)
	}
	defer resp.Body.Close()
	c.observe(req, start, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.classify(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode)}
	}

	if isGet {
		c.cache.set(rawURL, payload)
	}

	return decode(payload, out)
}

func (c *Client) attachToken(req *http.Request) {
	ts := c.tokenSource()
	if ts == nil {
		return
	}
	if _, exempt := c.exempt[req.URL.Hostname()]; exempt {
		return
	}
	if token := ts.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// classify maps a transport failure into the error taxonomy. Timeout
// wins over offline so a slow response is never misreported as lost
// connectivity; while offline everything else is connectivity.
func (c *Client) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return ErrTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() && ctx.Err() == nil {
		return ErrTimeout
	}
	if !c.Online() {
		return fmt.Errorf("%w: %s", ErrOffline, err)
	}
	return fmt.Errorf("request failed: %w", err)
}

func (c *Client) observe(req *http.Request, start time.Time, status int) {
	host := req.URL.Hostname()
	code := strconv.Itoa(status)
	observability.OutboundRequestsTotal.WithLabelValues(host, req.Method, code).Inc()
	observability.OutboundRequestDuration.WithLabelValues(host, req.Method, code).
		Observe(time.Since(start).Seconds())
}

func decode(payload []byte, out any) error {
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// ClearCache drops every cached response. Called on logout so
// session-scoped data cannot leak across identities.
func (c *Client) ClearCache() {
	c.cache.clear()
}

// InvalidateCachePrefix drops cached responses whose URL starts with
// prefix. Mutating a collection invalidates its cached listings so
// reads observe the write immediately.
func (c *Client) InvalidateCachePrefix(prefix string) {
	c.cache.invalidatePrefix(prefix)
}

// Online reports the connectivity flag.
func (c *Client) Online() bool {
	return c.online.Load()
}

// SetOnline flips the connectivity flag. Coming back online starts a
// drain of the offline queue in the background.
func (c *Client) SetOnline(online bool) {
	wasOnline := c.online.Swap(online)
	if online && !wasOnline && c.queue.len() > 0 {
		go c.ProcessQueue(context.Background())
	}
}

// Enqueue parks a request for replay once connectivity returns.
func (c *Client) Enqueue(req QueuedRequest) {
	c.queue.push(req)
	observability.OfflineQueueDepth.Set(float64(c.queue.len()))
}

// QueuedRequests returns the parked requests in replay order.
func (c *Client) QueuedRequests() []QueuedRequest {
	return c.queue.snapshot()
}

// ProcessQueue drains the offline queue strictly in order, replaying
// each request through Do. A network-class failure puts the request
// back at the head of the queue and ends the pass, so the client does
// not hot-loop against a down network. Any other failure is logged and
// dropped: at-most-once for non-network failures, at-least-once intent
// for network failures. Replaying a side-effecting request that
// succeeded server-side before the disconnect can duplicate it; the
// wire format carries no idempotency key.
func (c *Client) ProcessQueue(ctx context.Context) {
	c.drainMu.Lock()
	defer c.drainMu.Unlock()
	defer func() {
		observability.OfflineQueueDepth.Set(float64(c.queue.len()))
	}()

	for c.Online() {
		req, ok := c.queue.shift()
		if !ok {
			return
		}

		var body any
		if len(req.Body) > 0 {
			body = req.Body
		}

		if err := c.do(ctx, req.Method, req.URL, body, nil, true); err != nil {
			if IsNetworkError(err) {
				c.queue.unshift(req)
				slog.Warn("queued request failed with network error, halting drain",
					slog.String("url", req.URL),
					slog.String("error", err.Error()))
				return
			}
			observability.QueuedRequestsDropped.Inc()
			slog.Error("dropping queued request after replay failure",
				slog.String("method", req.Method),
				slog.String("url", req.URL),
				slog.String("error", err.Error()))
		}
	}
}
