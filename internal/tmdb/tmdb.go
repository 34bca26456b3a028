// Package tmdb is the read-only client for the external movie metadata
// API. Every call authenticates with an API key query parameter and
// carries language/region defaults; endpoints are path templates with
// an {id} placeholder substituted per call.
package tmdb

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"cinehub/internal/client"
	"cinehub/internal/domain"
)

// Endpoint path templates.
const (
	EndpointTrending        = "/trending/movie/week"
	EndpointPopular         = "/movie/popular"
	EndpointTopRated        = "/movie/top_rated"
	EndpointNowPlaying      = "/movie/now_playing"
	EndpointUpcoming        = "/movie/upcoming"
	EndpointMovieDetails    = "/movie/{id}"
	EndpointMovieCredits    = "/movie/{id}/credits"
	EndpointMovieVideos     = "/movie/{id}/videos"
	EndpointMovieSimilar    = "/movie/{id}/similar"
	EndpointRecommendations = "/movie/{id}/recommendations"
	EndpointSearch          = "/search/movie"
	EndpointGenres          = "/genre/movie/list"
	EndpointDiscover        = "/discover/movie"
)

// Placeholder image URLs used when a movie has no artwork.
const (
	PlaceholderPoster   = "https://via.placeholder.com/500x750/374151/ffffff?text=No+Poster"
	PlaceholderBackdrop = "https://via.placeholder.com/1920x1080/374151/ffffff?text=No+Backdrop"
)

// Config carries the metadata API settings.
type Config struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Language     string
	Region       string
	PosterSize   string
	BackdropSize string
}

// Client fetches movie metadata through the shared request layer.
type Client struct {
	api *client.Client
	cfg Config
}

// New creates a metadata API client
func New(api *client.Client, cfg Config) *Client {
	return &Client{api: api, cfg: cfg}
}

// Host returns the API host, used to exempt it from bearer auth.
func Host(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// buildURL expands the {id} placeholder and appends the API key,
// language and region plus any caller parameters.
func (c *Client) buildURL(endpoint string, id int64, params url.Values) string {
	path := endpoint
	if strings.Contains(path, "{id}") {
		path = strings.ReplaceAll(path, "{id}", strconv.FormatInt(id, 10))
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.cfg.APIKey)
	if params.Get("language") == "" {
		params.Set("language", c.cfg.Language)
	}
	if params.Get("region") == "" {
		params.Set("region", c.cfg.Region)
	}

	return c.cfg.BaseURL + path + "?" + params.Encode()
}

func pageParams(page int) url.Values {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}

func (c *Client) getPage(ctx context.Context, endpoint string, page int) (*domain.MoviePage, error) {
	var result domain.MoviePage
	if err := c.api.Get(ctx, c.buildURL(endpoint, 0, pageParams(page)), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Trending returns the movies trending this week.
func (c *Client) Trending(ctx context.Context, page int) (*domain.MoviePage, error) {
	return c.getPage(ctx, EndpointTrending, page)
}

// Popular returns the current popular movies.
func (c *Client) Popular(ctx context.Context, page int) (*domain.MoviePage, error) {
	return c.getPage(ctx, EndpointPopular, page)
}

// TopRated returns the all-time top rated movies.
func (c *Client) TopRated(ctx context.Context, page int) (*domain.MoviePage, error) {
	return c.getPage(ctx, EndpointTopRated, page)
}

// NowPlaying returns movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context, page int) (*domain.MoviePage, error) {
	return c.getPage(ctx, EndpointNowPlaying, page)
}

// Upcoming returns movies with upcoming releases.
func (c *Client) Upcoming(ctx context.Context, page int) (*domain.MoviePage, error) {
	return c.getPage(ctx, EndpointUpcoming, page)
}

// Details returns full movie details with credits, videos, similar and
// recommended movies appended in a single call.
func (c *Client) Details(ctx context.Context, movieID int64) (*domain.MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos,similar,recommendations")

	var result domain.MovieDetails
	if err := c.api.Get(ctx, c.buildURL(EndpointMovieDetails, movieID, params), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Credits returns the cast for a movie.
func (c *Client) Credits(ctx context.Context, movieID int64) (*domain.Credits, error) {
	var result domain.Credits
	if err := c.api.Get(ctx, c.buildURL(EndpointMovieCredits, movieID, nil), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Videos returns trailers and clips for a movie.
func (c *Client) Videos(ctx context.Context, movieID int64) (*domain.VideoList, error) {
	var result domain.VideoList
	if err := c.api.Get(ctx, c.buildURL(EndpointMovieVideos, movieID, nil), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Similar returns movies similar to the given one.
func (c *Client) Similar(ctx context.Context, movieID int64, page int) (*domain.MoviePage, error) {
	var result domain.MoviePage
	if err := c.api.Get(ctx, c.buildURL(EndpointMovieSimilar, movieID, pageParams(page)), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Recommendations returns recommended movies for the given one.
func (c *Client) Recommendations(ctx context.Context, movieID int64, page int) (*domain.MoviePage, error) {
	var result domain.MoviePage
	if err := c.api.Get(ctx, c.buildURL(EndpointRecommendations, movieID, pageParams(page)), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search searches movies by title.
func (c *Client) Search(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	params := pageParams(page)
	params.Set("query", query)

	var result domain.MoviePage
	if err := c.api.Get(ctx, c.buildURL(EndpointSearch, 0, params), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres returns the movie genre list.
func (c *Client) Genres(ctx context.Context) (*domain.GenreList, error) {
	var result domain.GenreList
	if err := c.api.Get(ctx, c.buildURL(EndpointGenres, 0, nil), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Discover returns movies matching the given filter parameters.
func (c *Client) Discover(ctx context.Context, filters url.Values, page int) (*domain.MoviePage, error) {
	params := url.Values{}
	for key, values := range filters {
		params[key] = values
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	var result domain.MoviePage
	if err := c.api.Get(ctx, c.buildURL(EndpointDiscover, 0, params), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PosterURL returns the full poster image URL, or a placeholder when
// the movie has none.
func (c *Client) PosterURL(path string) string {
	if path == "" {
		return PlaceholderPoster
	}
	return c.cfg.ImageBaseURL + "/" + c.cfg.PosterSize + path
}

// BackdropURL returns the full backdrop image URL, or a placeholder
// when the movie has none.
func (c *Client) BackdropURL(path string) string {
	if path == "" {
		return PlaceholderBackdrop
	}
	return c.cfg.ImageBaseURL + "/" + c.cfg.BackdropSize + path
}
