package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// RetryHTTP runs fn through go-stealth's retry loop with retryConfig().
// Any final non-2xx response, including an exhausted retryable one,
// comes back as *StatusError with the body closed.
func RetryHTTP(ctx context.Context, rawURL string, fn func() (*http.Response, error)) (*http.Response, error) {
	var lastStatus int
	resp, err := stealth.RetryHTTP(ctx, retryConfig(), func() (*http.Response, error) {
		lastStatus = 0
		resp, err := fn()
		if err == nil {
			lastStatus = resp.StatusCode
		}
		return resp, err
	})
	if err != nil {
		if lastStatus != 0 && !is2xx(lastStatus) {
			return nil, &StatusError{StatusCode: lastStatus, URL: rawURL}
		}
		return nil, err
	}
	if !is2xx(resp.StatusCode) {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}
	return resp, nil
}

func is2xx(code int) bool { return code >= 200 && code <= 299 }
