package sources

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_youtube/internal/engine"
	"golang.org/x/net/html"
)

// YouTube transcript fetching.
// Primary:  watch page ytInitialPlayerResponse → caption track XML
// Fallback: /next → engagement panel → /get_transcript  (works from datacenter IPs)
// Fallback: ANDROID Innertube /player → captionTracks

// Transcript failure classes, matchable with errors.Is.
var (
	ErrInvalidVideoID      = errors.New("could not extract video ID")
	ErrTranscriptsDisabled = errors.New("no captions available")
	ErrVideoUnavailable    = errors.New("video unavailable")
	ErrTooManyRequests     = errors.New("too many requests: YouTube is rate limiting this IP")
	ErrPoTokenRequired     = errors.New("all caption tracks require a PoToken")
)

// PlayabilityError reports a non-OK playabilityStatus from the player response.
type PlayabilityError struct {
	Status string
	Reason string
}

func (e *PlayabilityError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("video unavailable (%s): %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("video unavailable (%s)", e.Status)
}

func (e *PlayabilityError) Unwrap() error { return ErrVideoUnavailable }

// TranscriptFetcher retrieves the caption segments of a video in order.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) ([]engine.TranscriptSegment, error)
}

// videoIDRE matches v=<id> up to the next '&' or end of string.
var videoIDRE = regexp.MustCompile(`v=([^&]+)`)

// ExtractVideoID pulls the video ID from the v= parameter of rawURL.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", fmt.Errorf("%w from %q", ErrInvalidVideoID, rawURL)
	}
	return m[1], nil
}

// JoinSegments concatenates every segment's text with a single space.
func JoinSegments(segs []engine.TranscriptSegment) string {
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	return strings.Join(texts, " ")
}

// YouTubeTranscripts is the default TranscriptFetcher backed by YouTube's
// public watch page and Innertube endpoints.
type YouTubeTranscripts struct {
	Langs []string // preferred caption languages; empty = engine.Cfg.TranscriptLangs
}

type transcriptStrategy struct {
	name  string
	fetch func(ctx context.Context, videoID string, langs []string) ([]engine.TranscriptSegment, error)
}

var transcriptStrategies = []transcriptStrategy{
	{"watch page", fetchTranscriptViaPageScrape},
	{"engagement panel", fetchTranscriptViaEngagementPanel},
	{"android player", fetchTranscriptViaPlayer},
}

// FetchTranscript tries each strategy in order and returns the first non-empty transcript.
// Rate limiting and removed videos stop the chain; other failures fall through.
func (y YouTubeTranscripts) FetchTranscript(ctx context.Context, videoID string) ([]engine.TranscriptSegment, error) {
	engine.IncrYouTubeTranscript()

	langs := y.Langs
	if len(langs) == 0 {
		langs = engine.Cfg.TranscriptLangs
	}

	var errs []error
	for i, s := range transcriptStrategies {
		segs, err := s.fetch(ctx, videoID, langs)
		if err == nil && len(segs) > 0 {
			return segs, nil
		}
		if err == nil {
			err = ErrTranscriptsDisabled
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		if isDefinitive(err) || ctx.Err() != nil {
			break
		}
		if i < len(transcriptStrategies)-1 {
			engine.IncrTranscriptFallback()
			slog.Info("youtube: transcript strategy failed, trying next",
				slog.String("id", videoID), slog.String("strategy", s.name), slog.Any("error", err))
		}
	}
	engine.IncrTranscriptError()
	return nil, errors.Join(errs...)
}

// isDefinitive reports failures no other strategy can recover from.
func isDefinitive(err error) bool {
	if errors.Is(err, ErrTooManyRequests) {
		return true
	}
	var pe *PlayabilityError
	return errors.As(err, &pe) && pe.Status == "ERROR"
}

// classifyHTTP maps HTTP 429 to ErrTooManyRequests.
func classifyHTTP(err error) error {
	if engine.IsStatus(err, http.StatusTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrTooManyRequests, err)
	}
	return err
}

// checkPlayability turns a non-OK playabilityStatus into an error.
func checkPlayability(resp *innertubePlayerResp) error {
	ps := resp.PlayabilityStatus
	if ps == nil || ps.Status == "" || ps.Status == "OK" {
		return nil
	}
	if ps.Status == "LOGIN_REQUIRED" && strings.Contains(ps.Reason, "not a bot") {
		return fmt.Errorf("%w: %s", ErrTooManyRequests, ps.Reason)
	}
	return &PlayabilityError{Status: ps.Status, Reason: ps.Reason}
}

// captionSegments picks a track from a player response and downloads it.
func captionSegments(ctx context.Context, resp *innertubePlayerResp, langs []string) ([]engine.TranscriptSegment, error) {
	if err := checkPlayability(resp); err != nil {
		return nil, err
	}
	if resp.Captions == nil {
		return nil, ErrTranscriptsDisabled
	}
	tracks := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrTranscriptsDisabled
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return nil, ErrPoTokenRequired
	}
	return fetchTimedText(ctx, track.BaseURL)
}

// getTranscriptRE extracts the continuation token from a raw /next JSON response.
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

func extractTranscriptToken(data []byte) (string, error) {
	if m := getTranscriptRE.FindSubmatch(data); len(m) >= 2 {
		// The params value in the /next JSON response is URL-encoded.
		// /get_transcript expects the decoded (raw base64) form.
		decoded, err := url.QueryUnescape(string(m[1]))
		if err != nil {
			return string(m[1]), nil
		}
		return decoded, nil
	}
	return "", fmt.Errorf("%w: getTranscriptEndpoint not found in engagement panels", ErrTranscriptsDisabled)
}

// parseTranscriptSegments converts a /get_transcript response into segments.
func parseTranscriptSegments(resp ytGetTranscriptResp) []engine.TranscriptSegment {
	var segs []engine.TranscriptSegment
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		items := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, item := range items {
			r := item.TranscriptSegmentRenderer
			if r == nil {
				continue
			}
			var sb strings.Builder
			for _, run := range r.Snippet.Runs {
				sb.WriteString(run.Text)
			}
			text := strings.TrimSpace(sb.String())
			if text == "" {
				continue
			}
			start := msToSeconds(r.StartMs)
			segs = append(segs, engine.TranscriptSegment{
				Text:     text,
				Start:    start,
				Duration: max(msToSeconds(r.EndMs)-start, 0),
			})
		}
	}
	return segs
}

func msToSeconds(ms string) float64 {
	n, err := strconv.ParseFloat(ms, 64)
	if err != nil {
		return 0
	}
	return n / 1000
}

// fetchTranscriptViaEngagementPanel fetches a transcript via:
//  1. POST /next → get engagementPanels containing transcript continuation token
//  2. POST /get_transcript with the token → JSON segments
//
// This approach works from datacenter IPs where /player returns LOGIN_REQUIRED.
func fetchTranscriptViaEngagementPanel(ctx context.Context, videoID string, _ []string) ([]engine.TranscriptSegment, error) {
	visitorData := generateVisitorData()

	nextData, err := postInnerTubeWEB(ctx, ytNextPath, map[string]any{
		"videoId": videoID,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("/next: %w", err)
	}

	token, err := extractTranscriptToken(nextData)
	if err != nil {
		return nil, err
	}

	transcriptData, err := postInnerTubeWEB(ctx, ytGetTranscriptPath, map[string]any{
		"params":  token,
		"context": ytWebContext(visitorData),
	}, visitorData)
	if err != nil {
		return nil, fmt.Errorf("/get_transcript: %w", err)
	}

	var transcriptResp ytGetTranscriptResp
	if err := json.Unmarshal(transcriptData, &transcriptResp); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return parseTranscriptSegments(transcriptResp), nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Skips tracks that require PoToken, those only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func fetchTimedText(ctx context.Context, baseURL string) ([]engine.TranscriptSegment, error) {
	if strings.HasPrefix(baseURL, "/") {
		baseURL = engine.Cfg.BaseURL + baseURL
	}
	body, err := engine.FetchPage(ctx, baseURL, map[string]string{"accept": "*/*"})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", classifyHTTP(err))
	}
	return parseTimedText(body)
}

// parseTimedText decodes timedtext XML into segments, dropping empty lines.
func parseTimedText(body []byte) ([]engine.TranscriptSegment, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segs := make([]engine.TranscriptSegment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := cleanCaption(line.Text)
		if text == "" {
			continue
		}
		segs = append(segs, engine.TranscriptSegment{Text: text, Start: line.Start, Duration: line.Dur})
	}
	return segs, nil
}

// cleanCaption undoes the second level of entity escaping YouTube applies
// inside timedtext (e.g. &amp;#39;) and strips inline formatting tags.
func cleanCaption(s string) string {
	return engine.CleanHTML(html.UnescapeString(s))
}

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// fetchTranscriptViaPageScrape scrapes the YouTube watch page HTML and extracts
// the caption track XML URL from ytInitialPlayerResponse. Works from any IP.
func fetchTranscriptViaPageScrape(ctx context.Context, videoID string, langs []string) ([]engine.TranscriptSegment, error) {
	body, err := engine.FetchPage(ctx, engine.Cfg.BaseURL+"/watch?v="+url.QueryEscape(videoID), nil)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", classifyHTTP(err))
	}

	page := string(body)
	if strings.Contains(page, `class="g-recaptcha"`) {
		return nil, fmt.Errorf("%w: captcha on watch page", ErrTooManyRequests)
	}

	idx := strings.Index(page, ytInitialPlayerResponseMarker)
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return captionSegments(ctx, &playerResp, langs)
}

// fetchTranscriptViaPlayer uses the ANDROID Innertube /player endpoint.
// Works from non-blocked (residential/cloud) IP addresses.
func fetchTranscriptViaPlayer(ctx context.Context, videoID string, langs []string) ([]engine.TranscriptSegment, error) {
	data, err := postInnerTubeAndroid(ctx, videoID)
	if err != nil {
		return nil, err
	}
	var playerResp innertubePlayerResp
	if err := json.Unmarshal(data, &playerResp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return captionSegments(ctx, &playerResp, langs)
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
