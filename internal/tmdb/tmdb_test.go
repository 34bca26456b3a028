package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinehub/internal/client"
)

func testClient() *client.Client {
	return client.New(client.Options{
		MinRequestInterval: time.Millisecond,
		Timeout:            2 * time.Second,
		CacheTTL:           5 * time.Minute,
	})
}

func newTestAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(testClient(), Config{
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.example.com/t/p",
		APIKey:       "test-key",
		Language:     "en-US",
		Region:       "US",
		PosterSize:   "w500",
		BackdropSize: "original",
	})
}

func TestTrending_QueryParameters(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/movie/week" {
			t.Errorf("Expected trending path, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			t.Errorf("Expected api_key query parameter, got %q", q.Get("api_key"))
		}
		if q.Get("language") != "en-US" {
			t.Errorf("Expected language en-US, got %q", q.Get("language"))
		}
		if q.Get("region") != "US" {
			t.Errorf("Expected region US, got %q", q.Get("region"))
		}
		if q.Get("page") != "2" {
			t.Errorf("Expected page 2, got %q", q.Get("page"))
		}
		w.Write([]byte(`{"page":2,"results":[{"id":603,"title":"The Matrix","vote_average":8.2}],"total_pages":10,"total_results":200}`))
	})

	page, err := api.Trending(context.Background(), 2)
	if err != nil {
		t.Fatalf("Trending() error: %v", err)
	}

	if page.Page != 2 {
		t.Errorf("Expected page 2, got %d", page.Page)
	}
	if len(page.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(page.Results))
	}
	if page.Results[0].Title != "The Matrix" {
		t.Errorf("Expected The Matrix, got %s", page.Results[0].Title)
	}
}

func TestDetails_ExpandsIDAndAppendsSubresources(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("Expected /movie/603, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,videos,similar,recommendations" {
			t.Errorf("Unexpected append_to_response: %q", got)
		}
		w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136,"genres":[{"id":878,"name":"Science Fiction"}],"credits":{"cast":[{"id":1,"name":"Keanu Reeves","character":"Neo"}]}}`))
	})

	details, err := api.Details(context.Background(), 603)
	if err != nil {
		t.Fatalf("Details() error: %v", err)
	}

	if details.Runtime != 136 {
		t.Errorf("Expected runtime 136, got %d", details.Runtime)
	}
	if len(details.Genres) != 1 || details.Genres[0].Name != "Science Fiction" {
		t.Errorf("Unexpected genres: %+v", details.Genres)
	}
	if details.Credits == nil || len(details.Credits.Cast) != 1 {
		t.Fatalf("Expected appended credits, got %+v", details.Credits)
	}
}

func TestSearch_EncodesQuery(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "blade runner 2049" {
			t.Errorf("Expected decoded query, got %q", got)
		}
		w.Write([]byte(`{"page":1,"results":[]}`))
	})

	if _, err := api.Search(context.Background(), "blade runner 2049", 1); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
}

func TestGenres(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/movie/list" {
			t.Errorf("Expected genre list path, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`))
	})

	list, err := api.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres() error: %v", err)
	}
	if len(list.Genres) != 2 {
		t.Errorf("Expected 2 genres, got %d", len(list.Genres))
	}
}

func TestDiscover_PassesFilters(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("with_genres") != "878" {
			t.Errorf("Expected with_genres filter, got %q", q.Get("with_genres"))
		}
		if q.Get("page") != "3" {
			t.Errorf("Expected page 3, got %q", q.Get("page"))
		}
		w.Write([]byte(`{"page":3,"results":[]}`))
	})

	filters := map[string][]string{"with_genres": {"878"}}
	if _, err := api.Discover(context.Background(), filters, 3); err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
}

func TestImageURLs(t *testing.T) {
	api := New(testClient(), Config{
		ImageBaseURL: "https://image.example.com/t/p",
		PosterSize:   "w500",
		BackdropSize: "original",
	})

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"poster", api.PosterURL("/abc.jpg"), "https://image.example.com/t/p/w500/abc.jpg"},
		{"poster placeholder", api.PosterURL(""), PlaceholderPoster},
		{"backdrop", api.BackdropURL("/xyz.jpg"), "https://image.example.com/t/p/original/xyz.jpg"},
		{"backdrop placeholder", api.BackdropURL(""), PlaceholderBackdrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://api.themoviedb.org/3"); got != "api.themoviedb.org" {
		t.Errorf("Host() = %q", got)
	}
}
