package engine

import (
	stealth "github.com/anatolykoptev/go-stealth"
)

// BrowserClient is go-stealth's Chrome TLS-fingerprint client.
type BrowserClient = stealth.BrowserClient

func RandomUserAgent() string { return stealth.RandomUserAgent() }

// retryConfig is go-stealth's default backoff with the attempt budget from Cfg.
// MaxRetries 0 means a single attempt.
func retryConfig() stealth.RetryConfig {
	rc := stealth.DefaultRetryConfig
	rc.MaxRetries = Cfg.MaxRetries
	return rc
}

// BrowserHeaders returns Chrome-like request headers with the configured
// User-Agent and Accept-Language applied.
// accept-encoding is dropped so net/http keeps transparent gzip decoding.
func BrowserHeaders() map[string]string {
	h := stealth.ChromeHeaders()
	delete(h, "accept-encoding")
	h["accept-language"] = Cfg.AcceptLanguage
	if ua := userAgent(); ua != "" {
		h["user-agent"] = ua
	}
	return h
}

func userAgent() string {
	if Cfg.UserAgent == UserAgentRandom {
		return RandomUserAgent()
	}
	return Cfg.UserAgent
}
