package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// statusServer answers with codes in order, repeating the last one.
func statusServer(t *testing.T, codes ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(codes) {
			n = len(codes) - 1
		}
		w.WriteHeader(codes[n])
		_, _ = w.Write([]byte("body"))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func get(srv *httptest.Server) func() (*http.Response, error) {
	return func() (*http.Response, error) { return srv.Client().Get(srv.URL) }
}

func TestRetryHTTP(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		codes      []int
		wantStatus int // 0 = success
		wantCalls  int32
	}{
		{"ok", 0, []int{200}, 0, 1},
		{"not found is final", 2, []int{404}, 404, 1},
		{"forbidden is final", 2, []int{403}, 403, 1},
		{"503 without retries", 0, []int{503}, 503, 1},
		{"429 without retries", 0, []int{429}, 429, 1},
		{"503 then ok", 1, []int{503, 200}, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(Config{MaxRetries: tt.maxRetries})
			t.Cleanup(func() { Init(DefaultConfig()) })

			srv, calls := statusServer(t, tt.codes...)
			resp, err := RetryHTTP(context.Background(), srv.URL, get(srv))

			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("RetryHTTP() error = %v", err)
				}
				resp.Body.Close()
			} else {
				if !IsStatus(err, tt.wantStatus) {
					t.Fatalf("expected %d StatusError, got %v", tt.wantStatus, err)
				}
				var se *StatusError
				if errors.As(err, &se) && se.URL != srv.URL {
					t.Errorf("StatusError.URL = %q, want %q", se.URL, srv.URL)
				}
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetryHTTPTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := RetryHTTP(context.Background(), url, func() (*http.Response, error) {
		return http.Get(url)
	})
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("transport failure reported as status %d", se.StatusCode)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: 404, URL: "https://www.youtube.com/results"}
	want := "HTTP 404 Not Found for https://www.youtube.com/results"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if (&StatusError{StatusCode: 500}).Error() != "HTTP 500 Internal Server Error" {
		t.Errorf("unexpected message without URL")
	}
}
