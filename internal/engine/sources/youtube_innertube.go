package sources

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// YouTube Innertube API: low-level constants, types, and HTTP primitives.
// All higher-level logic lives in youtube_transcript.go.

const (
	ytPlayerPath        = "/youtubei/v1/player"
	ytNextPath          = "/youtubei/v1/next"
	ytGetTranscriptPath = "/youtubei/v1/get_transcript"
	ytWebVersion        = "2.20250222.10.00"
	ytAndroidVersion    = "20.10.38"
	ytAndroidUA         = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
)

// --- ANDROID client types (/player endpoint) ---

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

// innertubePlayerResp is shared by the ANDROID /player response and the
// ytInitialPlayerResponse embedded in the watch page.
type innertubePlayerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// --- WEB client types (/next and /get_transcript endpoints) ---

type ytWebClientCtx struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	VisitorData   string `json:"visitorData,omitempty"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type ytWebUser struct {
	EnableSafetyMode bool `json:"enableSafetyMode"`
}

type ytWebReqCtx struct {
	UseSsl bool `json:"useSsl"`
}

// --- Timedtext XML types ---

type ytTimedText struct {
	Lines []ytLine `xml:"text"`
}

type ytLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

// --- /get_transcript response ---

type ytGetTranscriptResp struct {
	Actions []struct {
		UpdateEngagementPanelAction *struct {
			Content struct {
				TranscriptRenderer struct {
					Content struct {
						TranscriptSearchPanelRenderer struct {
							Body struct {
								TranscriptSegmentListRenderer struct {
									InitialSegments []struct {
										TranscriptSegmentRenderer *ytSegmentRenderer `json:"transcriptSegmentRenderer"`
									} `json:"initialSegments"`
								} `json:"transcriptSegmentListRenderer"`
							} `json:"body"`
						} `json:"transcriptSearchPanelRenderer"`
					} `json:"content"`
				} `json:"transcriptRenderer"`
			} `json:"content"`
		} `json:"updateEngagementPanelAction"`
	} `json:"actions"`
}

type ytSegmentRenderer struct {
	StartMs string `json:"startMs"`
	EndMs   string `json:"endMs"`
	Snippet struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"snippet"`
}

// generateVisitorData creates a random 11-char visitor ID for Innertube requests.
func generateVisitorData() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := make([]byte, 11)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))] //nolint:gosec // non-cryptographic use
	}
	return string(b)
}

// ytWebContext builds the standard WEB client context for Innertube payloads.
func ytWebContext(visitorData string) map[string]any {
	return map[string]any{
		"client": ytWebClientCtx{
			ClientName:    "WEB",
			ClientVersion: ytWebVersion,
			VisitorData:   visitorData,
			Hl:            "en",
			Gl:            "US",
		},
		"user":    ytWebUser{EnableSafetyMode: false},
		"request": ytWebReqCtx{UseSsl: true},
	}
}

// postInnerTubeWEB POSTs to a YouTube Innertube endpoint with WEB client headers.
func postInnerTubeWEB(ctx context.Context, path string, payload any, visitorData string) ([]byte, error) {
	data, err := engine.PostJSON(ctx, engine.Cfg.BaseURL+path+"?prettyPrint=false", payload, map[string]string{
		"Accept":                   "*/*",
		"User-Agent":               engine.UserAgentChrome,
		"X-Youtube-Client-Name":    "1",
		"X-Youtube-Client-Version": ytWebVersion,
		"X-Goog-Visitor-Id":        visitorData,
		"Origin":                   engine.DefaultBaseURL,
		"Referer":                  engine.DefaultBaseURL + "/",
	})
	if err != nil {
		return nil, fmt.Errorf("innertube WEB [%s]: %w", path, classifyHTTP(err))
	}
	return data, nil
}

// postInnerTubeAndroid POSTs to the /player endpoint as the ANDROID client.
func postInnerTubeAndroid(ctx context.Context, videoID string) ([]byte, error) {
	payload := innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	}
	data, err := engine.PostJSON(ctx, engine.Cfg.BaseURL+ytPlayerPath+"?prettyPrint=false", payload, map[string]string{
		"User-Agent":               ytAndroidUA,
		"X-Youtube-Client-Name":    "3",
		"X-Youtube-Client-Version": ytAndroidVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", classifyHTTP(err))
	}
	return data, nil
}
