package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"golang.org/x/net/html"
)

// ytInitialDataMarker identifies the script block carrying inline page state.
const ytInitialDataMarker = "ytInitialData"

var errPathMissing = errors.New("ytInitialData: search results path missing")

// --- ytInitialData scraping types ---

// ytInitialData mirrors only the fixed path
// contents → twoColumnSearchResultsRenderer → primaryContents → sectionListRenderer
// → contents[0] → itemSectionRenderer → contents.
// Pointers distinguish an absent key from an empty value.
// Items stay raw so one malformed entry cannot fail the whole block.
type ytInitialData struct {
	Contents *struct {
		TwoColumnSearchResultsRenderer *struct {
			PrimaryContents *struct {
				SectionListRenderer *struct {
					Contents []struct {
						ItemSectionRenderer *struct {
							Contents []json.RawMessage `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type ytSearchItem struct {
	VideoRenderer *struct {
		VideoID            string  `json:"videoId"`
		Title              *ytText `json:"title"`
		DescriptionSnippet *ytText `json:"descriptionSnippet"`
	} `json:"videoRenderer"`
}

type ytText struct {
	Runs []struct {
		Text *string `json:"text"`
	} `json:"runs"`
}

// firstRun returns the text of the first run, or nil.
func (t *ytText) firstRun() *string {
	if t == nil || len(t.Runs) == 0 {
		return nil
	}
	return t.Runs[0].Text
}

// SearchURL builds the results page URL for query, percent-encoding spaces as %20.
func SearchURL(query string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return engine.Cfg.BaseURL + "/results?search_query=" + escaped
}

// SearchYouTube fetches the search results page for query and extracts video entries.
// found is false when no script block yielded parseable ytInitialData.
// limit <= 0 returns every entry of the first section.
func SearchYouTube(ctx context.Context, query string, limit int) (results []engine.SearchResult, found bool, err error) {
	engine.IncrYouTubeSearch()

	body, err := engine.FetchPage(ctx, SearchURL(query), nil)
	if err != nil {
		return nil, false, fmt.Errorf("youtube search page: %w", err)
	}

	results, found = ExtractSearchResults(body)
	if !found {
		engine.IncrSearchEmpty()
		slog.Warn("youtube: no readable ytInitialData block", slog.String("query", query))
		return nil, false, nil
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	slog.Debug("youtube search results", slog.Int("count", len(results)), slog.String("query", query))
	return results, true, nil
}

// ExtractSearchResults scans every script element of page for the ytInitialData
// marker and returns the videos of the first block that parses and walks.
// Malformed blocks are skipped. A block with zero videos still counts as found.
func ExtractSearchResults(page []byte) ([]engine.SearchResult, bool) {
	for _, block := range scriptBlocks(page) {
		if !strings.Contains(block, ytInitialDataMarker) {
			continue
		}
		results, err := parseInitialDataBlock(block)
		if err != nil {
			engine.IncrSearchBlockSkipped()
			slog.Debug("youtube: skipping ytInitialData block",
				slog.Any("error", err),
				slog.String("snippet", engine.TruncateRunes(strings.TrimSpace(block), 120, "...")),
			)
			continue
		}
		return results, true
	}
	return nil, false
}

// parseInitialDataBlock decodes the right-hand side of "var ytInitialData = {...};"
// and walks the fixed search results path.
func parseInitialDataBlock(block string) ([]engine.SearchResult, error) {
	_, rhs, ok := strings.Cut(block, "=")
	if !ok {
		return nil, errors.New("ytInitialData: no assignment")
	}
	rhs = strings.TrimRight(strings.TrimSpace(rhs), ";")

	var data ytInitialData
	if err := json.Unmarshal([]byte(rhs), &data); err != nil {
		return nil, fmt.Errorf("decode ytInitialData: %w", err)
	}

	items, err := searchItems(&data)
	if err != nil {
		return nil, err
	}

	results := make([]engine.SearchResult, 0, len(items))
	for i, raw := range items {
		var item ytSearchItem
		if err := json.Unmarshal(raw, &item); err != nil {
			slog.Debug("youtube: skipping malformed search item", slog.Int("index", i), slog.Any("error", err))
			continue
		}
		vr := item.VideoRenderer
		if vr == nil || vr.VideoID == "" {
			continue
		}
		title := vr.Title.firstRun()
		if title == nil || *title == "" {
			continue
		}
		results = append(results, engine.SearchResult{
			Title:       *title,
			URL:         engine.WatchURL(vr.VideoID),
			Description: vr.DescriptionSnippet.firstRun(),
		})
	}
	return results, nil
}

func searchItems(data *ytInitialData) ([]json.RawMessage, error) {
	c := data.Contents
	if c == nil || c.TwoColumnSearchResultsRenderer == nil {
		return nil, errPathMissing
	}
	pc := c.TwoColumnSearchResultsRenderer.PrimaryContents
	if pc == nil || pc.SectionListRenderer == nil || len(pc.SectionListRenderer.Contents) == 0 {
		return nil, errPathMissing
	}
	section := pc.SectionListRenderer.Contents[0].ItemSectionRenderer
	if section == nil || section.Contents == nil {
		return nil, errPathMissing
	}
	return section.Contents, nil
}

// scriptBlocks returns the text of every <script> element in document order.
func scriptBlocks(page []byte) []string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil
	}

	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			blocks = append(blocks, sb.String())
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks
}
