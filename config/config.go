package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Fetch   FetchConfig
	Browser BrowserConfig
	Sources SourcesConfig
	Detail  DetailConfig
	Log     LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 3000
	Mode string // "debug", "release", "test"; default: "release"

	// PublicDir is the static asset directory served at the site root.
	PublicDir string // default: "public"

	// ShutdownTimeout bounds the graceful drain on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration // default: 5s
}

// FetchConfig controls outbound requests to upstream sources.
type FetchConfig struct {
	// Engine selects the fetch engine: "http" (utls) or "browser" (rod).
	Engine string // default: "http"

	// Timeout is the per-fetch deadline.
	Timeout time.Duration // default: 10s

	// Proxy is the outbound proxy URL ("http://host:port").
	Proxy string

	// RotateUserAgent picks a random desktop user agent per request.
	RotateUserAgent bool // default: true

	// UpstreamRPS paces outbound fetches. 0 disables pacing.
	UpstreamRPS float64 // default: 0

	// UpstreamBurst is the pacing bucket size.
	UpstreamBurst int // default: 1
}

// BrowserConfig controls the rod browser engine.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// BlockedResources lists resource types the browser never downloads.
	// Only the document markup is needed. Allowed: Image, Stylesheet,
	// Font, Media, Script.
	BlockedResources []string // default: Image,Stylesheet,Font,Media

	// BlockAds drops requests to known ad and tracking hosts.
	BlockAds bool // default: true
}

// SourcesConfig configures the upstream shopping sources.
type SourcesConfig struct {
	// DefaultPlatform is used when /api/search omits platform.
	DefaultPlatform string // default: "bing"

	// BingURL is the Bing Shopping search endpoint.
	BingURL string // default: "https://www.bing.com/shop"

	// BingMarket is passed as the mkt parameter when set (e.g. "en-US").
	BingMarket string
}

// DetailConfig controls product detail extraction.
type DetailConfig struct {
	// MaxImages caps the images returned per product.
	MaxImages int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            envOr("PRICECHECK_HOST", "0.0.0.0"),
			Port:            envIntOr("PORT", 3000),
			Mode:            envOr("PRICECHECK_MODE", "release"),
			PublicDir:       envOr("PRICECHECK_PUBLIC_DIR", "public"),
			ShutdownTimeout: envDurationOr("PRICECHECK_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Fetch: FetchConfig{
			Engine:          strings.ToLower(envOr("PRICECHECK_FETCH_ENGINE", "http")),
			Timeout:         envDurationOr("PRICECHECK_FETCH_TIMEOUT", 10*time.Second),
			Proxy:           os.Getenv("PRICECHECK_PROXY"),
			RotateUserAgent: envBoolOr("PRICECHECK_ROTATE_UA", true),
			UpstreamRPS:     envFloatOr("PRICECHECK_UPSTREAM_RPS", 0),
			UpstreamBurst:   envIntOr("PRICECHECK_UPSTREAM_BURST", 1),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("PRICECHECK_HEADLESS", true),
			MaxPages:   envIntOr("PRICECHECK_MAX_PAGES", 4),
			NoSandbox:  envBoolOr("PRICECHECK_NO_SANDBOX", false),
			BrowserBin: os.Getenv("PRICECHECK_BROWSER_BIN"),
			BlockedResources: envSliceOr("PRICECHECK_BLOCKED_RESOURCES",
				[]string{"Image", "Stylesheet", "Font", "Media"}),
			BlockAds: envBoolOr("PRICECHECK_BLOCK_ADS", true),
		},
		Sources: SourcesConfig{
			DefaultPlatform: envOr("PRICECHECK_DEFAULT_PLATFORM", "bing"),
			BingURL:         envOr("PRICECHECK_BING_URL", "https://www.bing.com/shop"),
			BingMarket:      os.Getenv("PRICECHECK_BING_MARKET"),
		},
		Detail: DetailConfig{
			MaxImages: envIntOr("PRICECHECK_MAX_IMAGES", 10),
		},
		Log: LogConfig{
			Level:  envOr("PRICECHECK_LOG_LEVEL", "info"),
			Format: envOr("PRICECHECK_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
