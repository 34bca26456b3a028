package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		MinRequestInterval: time.Millisecond,
		Timeout:            2 * time.Second,
		CacheTTL:           5 * time.Minute,
	}
}

func TestClient_RateLimitSpacing(t *testing.T) {
	var mu sync.Mutex
	var arrivals []time.Time

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	opts := testOptions()
	opts.MinRequestInterval = 100 * time.Millisecond
	c := New(opts)

	ctx := context.Background()
	// Distinct URLs so the cache cannot short-circuit any dispatch
	require.NoError(t, c.Get(ctx, server.URL+"/a", nil))
	require.NoError(t, c.Get(ctx, server.URL+"/b", nil))
	require.NoError(t, c.Get(ctx, server.URL+"/c", nil))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, arrivals, 3)
	for i := 1; i < len(arrivals); i++ {
		gap := arrivals[i].Sub(arrivals[i-1])
		// Small tolerance for limiter reservation rounding
		assert.GreaterOrEqual(t, gap, 90*time.Millisecond,
			"dispatches %d and %d closer than the minimum interval", i-1, i)
	}
}

func TestClient_CachedGetSkipsNetwork(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"page":1}`))
	}))
	defer server.Close()

	c := New(testOptions())
	ctx := context.Background()

	var first, second map[string]any
	require.NoError(t, c.Get(ctx, server.URL+"/movies", &first))
	require.NoError(t, c.Get(ctx, server.URL+"/movies", &second))

	assert.Equal(t, 1, hits, "second GET should be served from cache")
	assert.Equal(t, first, second)
}

func TestClient_PostNotCached(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c := New(testOptions())
	ctx := context.Background()

	require.NoError(t, c.Post(ctx, server.URL+"/ratings", map[string]int{"score": 8}, nil))
	require.NoError(t, c.Post(ctx, server.URL+"/ratings", map[string]int{"score": 8}, nil))

	assert.Equal(t, 2, hits)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	opts := testOptions()
	opts.Timeout = 50 * time.Millisecond
	c := New(opts)

	err := c.Get(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, IsNetworkError(err), "timeouts are not network-class")
}

func TestClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := New(testOptions())
	err := c.Get(context.Background(), server.URL+"/movies/999", nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.False(t, IsNetworkError(err), "status errors are not network-class")
}

func TestClient_OfflineClassification(t *testing.T) {
	deadURL := unreachableURL(t)

	c := New(testOptions())
	c.SetOnline(false)

	err := c.Get(context.Background(), deadURL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOffline)
	assert.True(t, IsNetworkError(err))
}

func TestClient_OfflineMutationIsQueued(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c := New(testOptions())
	c.SetOnline(false)

	err := c.Post(context.Background(), server.URL+"/ratings", map[string]int{"score": 8}, nil)
	require.ErrorIs(t, err, ErrQueuedOffline)
	assert.Zero(t, hits, "offline mutation must not reach the network")

	queued := c.QueuedRequests()
	require.Len(t, queued, 1)
	assert.Equal(t, http.MethodPost, queued[0].Method)

	// Coming back online replays the parked request.
	c.SetOnline(true)
	require.Eventually(t, func() bool {
		return len(c.QueuedRequests()) == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hits)
}

func TestClient_OfflineGetServedFromCache(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"page":1}`))
	}))
	defer server.Close()

	c := New(testOptions())
	ctx := context.Background()

	require.NoError(t, c.Get(ctx, server.URL+"/movies", nil))
	c.SetOnline(false)

	var cached map[string]any
	require.NoError(t, c.Get(ctx, server.URL+"/movies", &cached),
		"a fresh cache entry serves offline reads")
	assert.Equal(t, 1, hits)

	err := c.Get(ctx, server.URL+"/other", nil)
	assert.ErrorIs(t, err, ErrOffline, "an uncached offline GET fails")
}

func TestClient_BearerToken(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c := New(testOptions())
	c.SetTokenSource(staticToken("abc123"))

	require.NoError(t, c.Get(context.Background(), server.URL+"/users/1", nil))
	assert.Equal(t, "Bearer abc123", got)
}

func TestClient_AuthExemptHost(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	opts := testOptions()
	opts.AuthExemptHosts = []string{"127.0.0.1"}
	c := New(opts)
	c.SetTokenSource(staticToken("abc123"))

	require.NoError(t, c.Get(context.Background(), server.URL+"/trending", nil))
	assert.Empty(t, got, "exempt host must not receive the bearer token")
}

func TestClient_ProcessQueue_HeadReinsertionOnNetworkFailure(t *testing.T) {
	var mu sync.Mutex
	var served []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		served = append(served, r.URL.Path)
		mu.Unlock()
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	deadURL := unreachableURL(t)

	c := New(testOptions())
	c.Enqueue(QueuedRequest{Method: http.MethodPost, URL: server.URL + "/first"})
	c.Enqueue(QueuedRequest{Method: http.MethodPost, URL: deadURL})
	c.Enqueue(QueuedRequest{Method: http.MethodPost, URL: server.URL + "/third"})

	c.ProcessQueue(context.Background())

	mu.Lock()
	assert.Equal(t, []string{"/first"}, served,
		"only the first request should reach the network in this pass")
	mu.Unlock()

	remaining := c.QueuedRequests()
	require.Len(t, remaining, 2)
	assert.Equal(t, deadURL, remaining[0].URL, "failed request must return to the head")
	assert.Equal(t, server.URL+"/third", remaining[1].URL)
}

func TestClient_ProcessQueue_DropsNonNetworkFailures(t *testing.T) {
	var mu sync.Mutex
	var served []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		served = append(served, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/bad" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c := New(testOptions())
	c.Enqueue(QueuedRequest{Method: http.MethodPost, URL: server.URL + "/bad"})
	c.Enqueue(QueuedRequest{Method: http.MethodPost, URL: server.URL + "/good"})

	c.ProcessQueue(context.Background())

	mu.Lock()
	assert.Equal(t, []string{"/bad", "/good"}, served,
		"a non-network failure is dropped and draining continues")
	mu.Unlock()
	assert.Empty(t, c.QueuedRequests())
}

func TestClient_ClearCache(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	c := New(testOptions())
	ctx := context.Background()

	require.NoError(t, c.Get(ctx, server.URL, nil))
	c.ClearCache()
	require.NoError(t, c.Get(ctx, server.URL, nil))

	assert.Equal(t, 2, hits)
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

// unreachableURL returns a URL nothing listens on.
func unreachableURL(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

func TestIsNetworkError(t *testing.T) {
	assert.False(t, IsNetworkError(nil))
	assert.False(t, IsNetworkError(errors.New("something else")))
	assert.True(t, IsNetworkError(ErrOffline))
	assert.False(t, IsNetworkError(ErrTimeout))
}
