// go_youtube - YouTube search and transcript CLI.
//
// Commands: search <query>, transcript <url>, serve (MCP over HTTP).
// Results go to stdout, diagnostics to stderr.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_youtube/internal/cli"
	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
)

var version = "dev"

const browserTimeoutSeconds = 30

func main() {
	initLogger()
	initEngine()

	cli.Execute(cli.Deps{
		Transcripts: sources.YouTubeTranscripts{},
		Version:     version,
	})
}

// initLogger keeps stdout clean for results; LOG_LEVEL defaults to warn.
func initLogger() {
	var level slog.Level
	switch strings.ToLower(env.Str("LOG_LEVEL", "warn")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func initEngine() {
	fetchTimeout := env.Duration("FETCH_TIMEOUT", 30*time.Second)
	c := engine.Config{
		BaseURL:         env.Str("YT_BASE_URL", engine.DefaultBaseURL),
		UserAgent:       env.Str("YT_USER_AGENT", engine.UserAgentChrome),
		AcceptLanguage:  env.Str("YT_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
		TranscriptLangs: env.List("YT_TRANSCRIPT_LANGS", "en"),
		FetchTimeout:    fetchTimeout,
		MaxRetries:      env.Int("HTTP_MAX_RETRIES", 0),
		HTTPClient: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
	if browserTLS, _ := strconv.ParseBool(env.Str("YT_BROWSER_TLS", "false")); browserTLS {
		c.BrowserClient = newBrowserClient()
	}

	engine.Init(c)
	slog.Debug("engine initialized",
		slog.String("base_url", engine.Cfg.BaseURL),
		slog.Int("max_retries", engine.Cfg.MaxRetries),
		slog.Bool("browser_tls", engine.Cfg.BrowserClient != nil),
	)
}

// newBrowserClient builds the Chrome TLS-fingerprint client, optionally behind
// a Webshare proxy pool. Returns nil (plain net/http) if construction fails.
func newBrowserClient() *engine.BrowserClient {
	opts := []stealth.ClientOption{stealth.WithTimeout(browserTimeoutSeconds)}

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Warn("stealth client init failed, using net/http", slog.Any("error", err))
		return nil
	}
	return bc
}
