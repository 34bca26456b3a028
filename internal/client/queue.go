package client

import (
	"encoding/json"
	"sync"
)

// QueuedRequest is a request parked while the client is offline.
type QueuedRequest struct {
	Method string          `json:"method"`
	URL    string          `json:"url"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// requestQueue is a FIFO of requests awaiting replay. A request that
// fails replay with a network-class error goes back to the head, not
// the tail, so ordering is preserved across drain passes.
type requestQueue struct {
	mu    sync.Mutex
	items []QueuedRequest
}

func (q *requestQueue) push(req QueuedRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, req)
}

func (q *requestQueue) shift() (QueuedRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return QueuedRequest{}, false
	}
	req := q.items[0]
	q.items = q.items[1:]
	return req, true
}

func (q *requestQueue) unshift(req QueuedRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append([]QueuedRequest{req}, q.items...)
}

func (q *requestQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// snapshot returns a copy of the queued requests in order.
func (q *requestQueue) snapshot() []QueuedRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]QueuedRequest, len(q.items))
	copy(out, q.items)
	return out
}
