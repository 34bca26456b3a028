package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage keys for locally persisted state. Every value is stored as a
// JSON document under its own namespaced key.
const (
	KeyUserSession     = "cinehub_user_session"
	KeyUserPreferences = "cinehub_user_preferences"
	KeyCachedMovies    = "cinehub_cached_movies"
	KeySearchHistory   = "cinehub_search_history"
	KeyTheme           = "cinehub_theme"
)

// Features toggles optional subsystems on and off.
type Features struct {
	UserAuthentication bool
	MovieReviews       bool
	MovieRatings       bool
	Watchlist          bool
	SocialFeatures     bool
	AdvancedSearch     bool
	Recommendations    bool
	UserProfiles       bool
	OfflineSupport     bool
}

// Config holds application configuration
type Config struct {
	// TMDB metadata API (read-only key, passed as a query parameter)
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	BackdropSize     string
	PosterSize       string
	ProfileSize      string

	// Generic REST table store for application data
	TableAPIBaseURL string

	// Locale defaults, overridable by stored user preferences
	Language string
	Region   string

	// Request layer tunables
	CacheTTL           time.Duration
	MinRequestInterval time.Duration
	RequestTimeout     time.Duration

	// Session tunables
	SessionLifetime      time.Duration
	SessionCheckInterval time.Duration
	SessionSecret        string

	// Pagination and limits
	MoviesPerPage    int
	ReviewsPerPage   int
	MaxSearchResults int

	// Rating bounds
	MinRating float64
	MaxRating float64

	// Local state directory for the key-value store
	StateDir string

	// Ops listener (health + metrics)
	OpsPort string

	Features Features

	Environment string // development, staging, production
}

// Load loads configuration from environment variables and validates for production
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		TMDBAPIKey:       getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
		BackdropSize:     getEnv("TMDB_BACKDROP_SIZE", "original"),
		PosterSize:       getEnv("TMDB_POSTER_SIZE", "w500"),
		ProfileSize:      getEnv("TMDB_PROFILE_SIZE", "w185"),

		TableAPIBaseURL: getEnv("TABLE_API_BASE_URL", "http://localhost:3000/tables"),

		Language: getEnv("DEFAULT_LANGUAGE", "en-US"),
		Region:   getEnv("DEFAULT_REGION", "US"),

		CacheTTL:           getEnvDuration("CACHE_TTL", 5*time.Minute),
		MinRequestInterval: getEnvDuration("MIN_REQUEST_INTERVAL", 200*time.Millisecond),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		SessionLifetime:      getEnvDuration("SESSION_LIFETIME", 24*time.Hour),
		SessionCheckInterval: getEnvDuration("SESSION_CHECK_INTERVAL", 5*time.Minute),
		SessionSecret:        getEnv("SESSION_SECRET", ""),

		MoviesPerPage:    getEnvInt("MOVIES_PER_PAGE", 20),
		ReviewsPerPage:   getEnvInt("REVIEWS_PER_PAGE", 10),
		MaxSearchResults: getEnvInt("MAX_SEARCH_RESULTS", 50),

		MinRating: 1,
		MaxRating: 10,

		StateDir: getEnv("STATE_DIR", defaultStateDir()),
		OpsPort:  getEnv("OPS_PORT", "9090"),

		Features: Features{
			UserAuthentication: getEnvBool("FEATURE_USER_AUTHENTICATION", true),
			MovieReviews:       getEnvBool("FEATURE_MOVIE_REVIEWS", true),
			MovieRatings:       getEnvBool("FEATURE_MOVIE_RATINGS", true),
			Watchlist:          getEnvBool("FEATURE_WATCHLIST", true),
			SocialFeatures:     getEnvBool("FEATURE_SOCIAL", true),
			AdvancedSearch:     getEnvBool("FEATURE_ADVANCED_SEARCH", true),
			Recommendations:    getEnvBool("FEATURE_RECOMMENDATIONS", true),
			UserProfiles:       getEnvBool("FEATURE_USER_PROFILES", true),
			OfflineSupport:     getEnvBool("FEATURE_OFFLINE_SUPPORT", false),
		},

		Environment: getEnv("ENVIRONMENT", "development"),
	}

	// Validate production configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	return cfg
}

// Validate checks configuration for security and correctness
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" {
		log.Println("WARNING: TMDB_API_KEY not configured, metadata API calls will fail")
	}

	if c.MinRequestInterval <= 0 {
		return fmt.Errorf("MIN_REQUEST_INTERVAL must be positive (got %s)", c.MinRequestInterval)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive (got %s)", c.CacheTTL)
	}
	if c.SessionLifetime <= 0 {
		return fmt.Errorf("SESSION_LIFETIME must be positive (got %s)", c.SessionLifetime)
	}

	// Production environment requires a strong session secret
	if c.IsProduction() {
		if c.SessionSecret == "" || c.SessionSecret == "change-this-in-production" {
			return fmt.Errorf("SESSION_SECRET must be set to a strong random value in production")
		}

		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production (got %d)", len(c.SessionSecret))
		}
	} else if c.SessionSecret == "" {
		// Development/staging: provide default if not set
		c.SessionSecret = "dev-secret-not-for-production"
		log.Println("Using default SESSION_SECRET for development")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cinehub"
	}
	return home + "/.cinehub"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
