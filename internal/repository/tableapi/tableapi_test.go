package tableapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cinehub/internal/client"
)

// fakeTableServer emulates the generic REST table store: collections
// addressed as /collection or /collection/id, fuzzy search over record
// fields, and list responses wrapped in a data envelope.
type fakeTableServer struct {
	mu      sync.Mutex
	records map[string][]map[string]any
	server  *httptest.Server
}

func newFakeTableServer(t *testing.T) *fakeTableServer {
	t.Helper()
	f := &fakeTableServer{records: make(map[string][]map[string]any)}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeTableServer) baseURL() string {
	return f.server.URL
}

func (f *fakeTableServer) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	collection := parts[0]
	var id string
	if len(parts) > 1 {
		id = parts[1]
	}

	switch {
	case r.Method == http.MethodGet && id == "":
		search := r.URL.Query().Get("search")
		var matched []map[string]any
		for _, rec := range f.records[collection] {
			if search == "" || recordMatches(rec, search) {
				matched = append(matched, rec)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": matched})

	case r.Method == http.MethodGet:
		if rec, ok := f.find(collection, id); ok {
			json.NewEncoder(w).Encode(rec)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)

	case r.Method == http.MethodPost:
		var rec map[string]any
		json.NewDecoder(r.Body).Decode(&rec)
		f.records[collection] = append(f.records[collection], rec)
		json.NewEncoder(w).Encode(rec)

	case r.Method == http.MethodPut:
		var rec map[string]any
		json.NewDecoder(r.Body).Decode(&rec)
		for i, existing := range f.records[collection] {
			if existing["id"] == id {
				f.records[collection][i] = rec
				json.NewEncoder(w).Encode(rec)
				return
			}
		}
		http.Error(w, "not found", http.StatusNotFound)

	case r.Method == http.MethodDelete:
		for i, existing := range f.records[collection] {
			if existing["id"] == id {
				f.records[collection] = append(f.records[collection][:i], f.records[collection][i+1:]...)
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("{}"))
				return
			}
		}
		http.Error(w, "not found", http.StatusNotFound)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (f *fakeTableServer) find(collection, id string) (map[string]any, bool) {
	for _, rec := range f.records[collection] {
		if rec["id"] == id {
			return rec, true
		}
	}
	return nil, false
}

func (f *fakeTableServer) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[collection])
}

// recordMatches emulates fuzzy search: any field containing the terms.
func recordMatches(rec map[string]any, search string) bool {
	blob := ""
	for k, v := range rec {
		blob += k + ":" + fmt.Sprint(v) + " "
	}
	for _, term := range strings.Fields(strings.ReplaceAll(search, "AND", " ")) {
		if !strings.Contains(blob, term) {
			return false
		}
	}
	return true
}

func newTestStore(t *testing.T, f *fakeTableServer) *Store {
	t.Helper()
	api := client.New(client.Options{
		MinRequestInterval: time.Millisecond,
		Timeout:            2 * time.Second,
		CacheTTL:           5 * time.Minute,
	})
	return NewStore(api, f.baseURL())
}
