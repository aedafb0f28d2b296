package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests      atomic.Int64
	SearchBlocksSkipped atomic.Int64
	SearchEmpty         atomic.Int64
	TranscriptRequests  atomic.Int64
	TranscriptErrors    atomic.Int64
	TranscriptFallbacks atomic.Int64
	FetchErrors         atomic.Int64
}

var metricKeys = []string{
	"youtube_search_requests", "youtube_search_blocks_skipped", "youtube_search_empty",
	"youtube_transcript_requests", "youtube_transcript_errors", "youtube_transcript_fallbacks",
	"fetch_errors",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"youtube_search_requests":       metrics.SearchRequests.Load(),
		"youtube_search_blocks_skipped": metrics.SearchBlocksSkipped.Load(),
		"youtube_search_empty":          metrics.SearchEmpty.Load(),
		"youtube_transcript_requests":   metrics.TranscriptRequests.Load(),
		"youtube_transcript_errors":     metrics.TranscriptErrors.Load(),
		"youtube_transcript_fallbacks":  metrics.TranscriptFallbacks.Load(),
		"fetch_errors":                  metrics.FetchErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ sub-package.
func IncrYouTubeSearch()      { metrics.SearchRequests.Add(1) }
func IncrSearchBlockSkipped() { metrics.SearchBlocksSkipped.Add(1) }
func IncrSearchEmpty()        { metrics.SearchEmpty.Add(1) }
func IncrYouTubeTranscript()  { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptError()    { metrics.TranscriptErrors.Add(1) }
func IncrTranscriptFallback() { metrics.TranscriptFallbacks.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
