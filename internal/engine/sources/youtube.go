// Package sources implements the YouTube data sources: search-page scraping
// and caption transcript retrieval.
package sources

// YouTube implementation is split across three files by responsibility:
//   youtube_innertube.go  - Innertube API types, constants, and low-level HTTP primitives
//   youtube_transcript.go - transcript fetching (watch page, engagement panel, ANDROID player)
//   youtube_search.go     - search URL building and ytInitialData extraction
