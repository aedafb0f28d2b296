// Package ytserver exposes the YouTube search and transcript operations as MCP tools.
package ytserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"github.com/anatolykoptev/go_youtube/internal/engine/sources"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers youtube_search and youtube_transcript on the given MCP server.
func RegisterTools(server *mcp.Server, transcripts sources.TranscriptFetcher) {
	registerSearch(server)
	registerTranscript(server, transcripts)
}

func registerSearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_search",
		Description: "Search YouTube and return the first page of video results (title, watch URL, description snippet). Scrapes the public results page; no API key needed.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.YouTubeSearchInput) (*mcp.CallToolResult, engine.YouTubeSearchOutput, error) {
		return Search(ctx, input)
	})
}

func registerTranscript(server *mcp.Server, transcripts sources.TranscriptFetcher) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch the caption transcript of a YouTube video and return it as one space-joined string. Input is a watch URL containing v=<video id>.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.YouTubeTranscriptInput) (*mcp.CallToolResult, engine.YouTubeTranscriptOutput, error) {
		return Transcript(ctx, transcripts, input)
	})
}

// Search runs a youtube_search tool call.
func Search(ctx context.Context, input engine.YouTubeSearchInput) (*mcp.CallToolResult, engine.YouTubeSearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, engine.YouTubeSearchOutput{}, fmt.Errorf("query is required")
	}
	results, found, err := sources.SearchYouTube(ctx, query, input.Limit)
	if err != nil {
		return nil, engine.YouTubeSearchOutput{}, err
	}
	if results == nil {
		results = []engine.SearchResult{}
	}
	return nil, engine.YouTubeSearchOutput{Query: query, Found: found, Results: results}, nil
}

// Transcript runs a youtube_transcript tool call.
func Transcript(ctx context.Context, transcripts sources.TranscriptFetcher, input engine.YouTubeTranscriptInput) (*mcp.CallToolResult, engine.YouTubeTranscriptOutput, error) {
	videoID, err := sources.ExtractVideoID(input.URL)
	if err != nil {
		return nil, engine.YouTubeTranscriptOutput{}, err
	}
	segs, err := transcripts.FetchTranscript(ctx, videoID)
	if err != nil {
		return nil, engine.YouTubeTranscriptOutput{}, fmt.Errorf("transcript for %s: %w", videoID, err)
	}
	return nil, engine.YouTubeTranscriptOutput{
		VideoID:  videoID,
		Segments: len(segs),
		Text:     sources.JoinSegments(segs),
	}, nil
}
