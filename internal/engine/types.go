package engine

// --- Core types ---

// SearchResult is one video entry scraped from a search results page.
// Description is nil when the entry carries no description snippet.
type SearchResult struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
}

// TranscriptSegment is one timed caption unit. Only Text is used for output.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// --- MCP tool inputs ---

type YouTubeSearchInput struct {
	Query string `json:"query" jsonschema:"Free-text YouTube search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results to return (default: all results on the first page)"`
}

type YouTubeTranscriptInput struct {
	URL string `json:"url" jsonschema:"YouTube watch URL containing v=<video id>"`
}

// --- MCP tool outputs ---

type YouTubeSearchOutput struct {
	Query   string         `json:"query"`
	Found   bool           `json:"found"` // false = no ytInitialData block could be read
	Results []SearchResult `json:"results"`
}

type YouTubeTranscriptOutput struct {
	VideoID  string `json:"video_id"`
	Segments int    `json:"segments"`
	Text     string `json:"text"`
}
