package engine

import (
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public YouTube origin.
const DefaultBaseURL = "https://www.youtube.com"

// Config holds all engine configuration, injected from main.
type Config struct {
	BaseURL         string // YouTube origin; tests point this at httptest
	UserAgent       string // "random" = rotate via go-stealth
	AcceptLanguage  string
	TranscriptLangs []string      // preferred caption languages, in order
	FetchTimeout    time.Duration // per-command deadline
	MaxRetries      int           // 0 = single attempt
	HTTPClient      *http.Client
	BrowserClient   *BrowserClient // nil = plain net/http for page fetches
}

// DefaultConfig returns the configuration used when main has not called Init.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		UserAgent:       UserAgentChrome,
		AcceptLanguage:  "en-US,en;q=0.9",
		TranscriptLangs: []string{"en"},
		FetchTimeout:    30 * time.Second,
		HTTPClient:      &http.Client{Timeout: 30 * time.Second},
	}
}

var cfg = DefaultConfig()

// Cfg exposes the engine configuration for sub-packages (sources, cli).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero fields fall back to DefaultConfig values.
func Init(c Config) {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.AcceptLanguage == "" {
		c.AcceptLanguage = d.AcceptLanguage
	}
	if len(c.TranscriptLangs) == 0 {
		c.TranscriptLangs = d.TranscriptLangs
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.HTTPClient == nil {
		c.HTTPClient = d.HTTPClient
	}
	cfg = c
	Cfg = &cfg
}

// WatchURL returns the canonical watch URL for a video ID.
// Always uses the public origin so printed URLs stay stable.
func WatchURL(videoID string) string {
	return DefaultBaseURL + "/watch?v=" + videoID
}
