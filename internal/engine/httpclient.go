package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Body size caps for YouTube responses.
const (
	MaxPageBytes = 8 * 1024 * 1024
	MaxJSONBytes = 3 * 1024 * 1024
)

// FetchPage GETs rawURL with browser-like headers and returns the body.
// Non-2xx responses surface as *StatusError. extra overrides individual headers.
// Cfg.BrowserClient, when set, carries the request with a Chrome TLS fingerprint.
func FetchPage(ctx context.Context, rawURL string, extra map[string]string) ([]byte, error) {
	headers := BrowserHeaders()
	for k, v := range extra {
		headers[k] = v
	}

	resp, err := RetryHTTP(ctx, rawURL, func() (*http.Response, error) {
		if bc := Cfg.BrowserClient; bc != nil {
			return browserGet(bc, rawURL, headers)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes))
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// browserGet adapts a BrowserClient round trip to *http.Response so both
// transports share RetryHTTP's status handling.
func browserGet(bc *BrowserClient, rawURL string, headers map[string]string) (*http.Response, error) {
	data, _, status, err := bc.Do(http.MethodGet, rawURL, headers, nil)
	if err != nil {
		return nil, fmt.Errorf("browser client: %w", err)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
	}, nil
}

// PostJSON POSTs payload as JSON and returns the raw response body.
func PostJSON(ctx context.Context, rawURL string, payload any, headers map[string]string) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := RetryHTTP(ctx, rawURL, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, MaxJSONBytes))
}
