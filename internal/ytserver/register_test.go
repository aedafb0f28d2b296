package ytserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscripts struct {
	segs  []engine.TranscriptSegment
	err   error
	calls int
}

func (f *fakeTranscripts) FetchTranscript(_ context.Context, _ string) ([]engine.TranscriptSegment, error) {
	f.calls++
	return f.segs, f.err
}

func TestRegisterTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "dev"}, nil)
	assert.NotPanics(t, func() { RegisterTools(server, &fakeTranscripts{}) })
}

func TestTranscript(t *testing.T) {
	f := &fakeTranscripts{segs: []engine.TranscriptSegment{{Text: "Hello"}, {Text: "world"}}}
	_, out, err := Transcript(context.Background(), f, engine.YouTubeTranscriptInput{URL: "https://www.youtube.com/watch?v=abc123"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", out.VideoID)
	assert.Equal(t, 2, out.Segments)
	assert.Equal(t, "Hello world", out.Text)
}

func TestTranscriptBadURL(t *testing.T) {
	f := &fakeTranscripts{}
	_, _, err := Transcript(context.Background(), f, engine.YouTubeTranscriptInput{URL: "https://example.com/"})
	assert.ErrorIs(t, err, sources.ErrInvalidVideoID)
	assert.Zero(t, f.calls)
}

func TestTranscriptFetchError(t *testing.T) {
	f := &fakeTranscripts{err: errors.New("boom")}
	_, _, err := Transcript(context.Background(), f, engine.YouTubeTranscriptInput{URL: "https://www.youtube.com/watch?v=abc123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><script>var ytInitialData = {"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[]}}]}}}}};</script></html>`))
	}))
	defer srv.Close()
	engine.Init(engine.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	t.Cleanup(func() { engine.Init(engine.DefaultConfig()) })

	_, out, err := Search(context.Background(), engine.YouTubeSearchInput{Query: " golang "})
	require.NoError(t, err)
	assert.Equal(t, "golang", out.Query)
	assert.True(t, out.Found)
	assert.NotNil(t, out.Results)
	assert.Empty(t, out.Results)

	_, _, err = Search(context.Background(), engine.YouTubeSearchInput{Query: "  "})
	assert.Error(t, err)
}
