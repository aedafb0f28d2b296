package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	stealth "github.com/anatolykoptev/go-stealth"
)

func TestBrowserHeaders(t *testing.T) {
	Init(Config{UserAgent: "test-agent/1.0", AcceptLanguage: "de-DE"})
	t.Cleanup(func() { Init(DefaultConfig()) })

	h := BrowserHeaders()
	if h["user-agent"] != "test-agent/1.0" {
		t.Errorf("user-agent = %q, want configured value", h["user-agent"])
	}
	if h["accept-language"] != "de-DE" {
		t.Errorf("accept-language = %q, want de-DE", h["accept-language"])
	}
	if _, ok := h["accept-encoding"]; ok {
		t.Error("accept-encoding must be left to net/http")
	}
}

func TestBrowserHeadersRandomUA(t *testing.T) {
	Init(Config{UserAgent: UserAgentRandom})
	t.Cleanup(func() { Init(DefaultConfig()) })

	ua := BrowserHeaders()["user-agent"]
	if len(ua) < 20 {
		t.Errorf("user-agent too short: %q", ua)
	}
}

func TestFetchPage(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	Init(Config{HTTPClient: srv.Client()})
	t.Cleanup(func() { Init(DefaultConfig()) })

	body, err := FetchPage(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if string(body) != "<html>ok</html>" {
		t.Errorf("body = %q", body)
	}
	if gotUA != UserAgentChrome {
		t.Errorf("User-Agent = %q, want Chrome UA", gotUA)
	}
}

func TestFetchPageNon2xx(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	Init(Config{HTTPClient: srv.Client()})
	t.Cleanup(func() { Init(DefaultConfig()) })

	_, err := FetchPage(context.Background(), srv.URL, nil)
	if !IsStatus(err, http.StatusServiceUnavailable) {
		t.Fatalf("expected 503 StatusError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt with default config, got %d", calls)
	}
}

func TestFetchPageBrowserClient(t *testing.T) {
	bc, err := stealth.NewClient()
	if err != nil {
		t.Skipf("stealth client unavailable: %v", err)
	}

	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.Header.Get("Accept-Language")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("<html>browser</html>"))
	}))
	defer srv.Close()

	Init(Config{BrowserClient: bc, AcceptLanguage: "fr-FR"})
	t.Cleanup(func() { Init(DefaultConfig()) })

	body, err := FetchPage(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if string(body) != "<html>browser</html>" {
		t.Errorf("body = %q", body)
	}
	if gotLang != "fr-FR" {
		t.Errorf("Accept-Language = %q, want fr-FR", gotLang)
	}

	_, err = FetchPage(context.Background(), srv.URL+"/missing", nil)
	if !IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 StatusError via browser client, got %v", err)
	}
}
