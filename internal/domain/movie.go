package domain

// Movie represents a movie summary as returned by the metadata API.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
	GenreIDs     []int64 `json:"genre_ids"`
	Popularity   float64 `json:"popularity"`
}

// MoviePage is one page of movie results.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a metadata API genre entry.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenreList is the metadata API genre list response.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// CastMember is one credited cast entry.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// Credits holds cast and crew for a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// Video is a trailer or clip reference.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// VideoList is the metadata API video list response.
type VideoList struct {
	Results []Video `json:"results"`
}

// MovieDetails is the full details response, optionally including
// appended sub-resources.
type MovieDetails struct {
	Movie
	Runtime         int        `json:"runtime"`
	Tagline         string     `json:"tagline"`
	Status          string     `json:"status"`
	Genres          []Genre    `json:"genres"`
	Credits         *Credits   `json:"credits,omitempty"`
	Videos          *VideoList `json:"videos,omitempty"`
	Similar         *MoviePage `json:"similar,omitempty"`
	Recommendations *MoviePage `json:"recommendations,omitempty"`
}
