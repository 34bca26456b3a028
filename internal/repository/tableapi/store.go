// Package tableapi implements the domain repositories on top of the
// generic REST table store. Collections are addressed as `collection`
// or `collection/id`; list endpoints accept search, page, limit and
// sort parameters and wrap results in a {"data": [...]} envelope.
package tableapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"cinehub/internal/client"
)

// Table store collections.
const (
	CollectionUsers       = "users"
	CollectionMovies      = "movies"
	CollectionReviews     = "reviews"
	CollectionRatings     = "ratings"
	CollectionWatchlist   = "watchlist"
	CollectionReviewLikes = "review_likes"
)

// Query narrows and paginates a collection listing.
type Query struct {
	Search string
	Page   int
	Limit  int
	Sort   string
}

type listEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// Store issues raw table store calls through the shared request layer.
type Store struct {
	api     *client.Client
	baseURL string
}

// NewStore creates a table store client rooted at baseURL.
func NewStore(api *client.Client, baseURL string) *Store {
	return &Store{api: api, baseURL: baseURL}
}

func (s *Store) collectionURL(collection string, q *Query) string {
	u := s.baseURL + "/" + collection
	if q == nil {
		return u
	}

	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if len(params) == 0 {
		return u
	}
	return u + "?" + params.Encode()
}

func (s *Store) recordURL(collection, id string) string {
	return s.baseURL + "/" + collection + "/" + id
}

// List fetches matching records from a collection into out, unwrapping
// the data envelope.
func (s *Store) List(ctx context.Context, collection string, q Query, out any) error {
	var envelope listEnvelope
	if err := s.api.Get(ctx, s.collectionURL(collection, &q), &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s listing: %w", collection, err)
	}
	return nil
}

// Get fetches a single record by id.
func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	return s.api.Get(ctx, s.recordURL(collection, id), out)
}

// Create inserts a record, decoding the stored representation into out
// when out is non-nil.
func (s *Store) Create(ctx context.Context, collection string, record, out any) error {
	defer s.invalidate(collection)
	return s.api.Post(ctx, s.collectionURL(collection, nil), record, out)
}

// Update replaces a record by id.
func (s *Store) Update(ctx context.Context, collection, id string, record, out any) error {
	defer s.invalidate(collection)
	return s.api.Put(ctx, s.recordURL(collection, id), record, out)
}

// Delete removes a record by id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	defer s.invalidate(collection)
	return s.api.Delete(ctx, s.recordURL(collection, id))
}

// invalidate drops cached reads of a collection after a write so that
// a listing issued right after a mutation reflects it.
func (s *Store) invalidate(collection string) {
	s.api.InvalidateCachePrefix(s.baseURL + "/" + collection)
}

// isNotFound reports whether err is an HTTP 404 from the table store.
func isNotFound(err error) bool {
	var statusErr *client.StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}
