package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vodscribe/internal/article"
	"vodscribe/internal/services"
)

const (
	defaultOEmbedURL    = "https://www.youtube.com/oembed"
	defaultTimedtextURL = "https://www.youtube.com/api/timedtext"
	watchURLTemplate    = "https://www.youtube.com/watch?v=%s"
)

// Client fetches metadata and captions over the public endpoints that
// require neither an API key nor credentials.
type Client struct {
	oembedURL    string
	timedtextURL string
	userAgent    string
	httpClient   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithOEmbedURL overrides the oEmbed endpoint, for tests.
func WithOEmbedURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.oembedURL = u
		}
	}
}

// WithTimedtextURL overrides the timedtext endpoint, for tests.
func WithTimedtextURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.timedtextURL = u
		}
	}
}

// New creates a client with conservative timeouts.
func New(opts ...Option) *Client {
	c := &Client{
		oembedURL:    defaultOEmbedURL,
		timedtextURL: defaultTimedtextURL,
		userAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type oembedPayload struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// FetchMetadata resolves title, channel and thumbnail via oEmbed.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*article.VideoMetadata, error) {
	watchURL := fmt.Sprintf(watchURLTemplate, videoID)
	endpoint, err := url.Parse(c.oembedURL)
	if err != nil {
		return nil, fmt.Errorf("parse oembed url: %w", err)
	}
	params := url.Values{}
	params.Set("url", watchURL)
	params.Set("format", "json")
	endpoint.RawQuery = params.Encode()

	body, status, err := c.get(ctx, endpoint.String())
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcription", "oembed", "fetch metadata for "+videoID, err)
	}
	switch {
	case status == http.StatusNotFound || status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, services.Wrap(services.ErrUnavailable, "transcription", "oembed", fmt.Sprintf("video %s returned %d", videoID, status), nil)
	case status != http.StatusOK:
		return nil, services.Wrap(services.ErrTransient, "transcription", "oembed", fmt.Sprintf("status %d for %s", status, videoID), nil)
	}

	var payload oembedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcription", "oembed", "decode response", err)
	}
	return &article.VideoMetadata{
		VideoID:      videoID,
		URL:          watchURL,
		Title:        payload.Title,
		Channel:      payload.AuthorName,
		ThumbnailURL: payload.ThumbnailURL,
	}, nil
}

// timedtext json3 payload
type timedtextPayload struct {
	Events []struct {
		StartMS    int64 `json:"tStartMs"`
		DurationMS int64 `json:"dDurationMs"`
		Segs       []struct {
			Text string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// FetchCaptions requests the json3 timedtext track for each language in
// order and returns the first non-empty one. An empty body means the
// video exposes no track for that language.
func (c *Client) FetchCaptions(ctx context.Context, videoID string, languages []string) ([]article.TranscriptSegment, error) {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	var lastErr error
	for _, lang := range languages {
		segments, err := c.fetchCaptionTrack(ctx, videoID, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if len(segments) > 0 {
			return segments, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, services.Wrap(services.ErrUnavailable, "transcription", "timedtext",
		fmt.Sprintf("no caption track for %s in %s", videoID, strings.Join(languages, ",")), nil)
}

func (c *Client) fetchCaptionTrack(ctx context.Context, videoID, lang string) ([]article.TranscriptSegment, error) {
	endpoint, err := url.Parse(c.timedtextURL)
	if err != nil {
		return nil, fmt.Errorf("parse timedtext url: %w", err)
	}
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", lang)
	params.Set("fmt", "json3")
	endpoint.RawQuery = params.Encode()

	body, status, err := c.get(ctx, endpoint.String())
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcription", "timedtext", "fetch captions for "+videoID, err)
	}
	if status != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "transcription", "timedtext", fmt.Sprintf("status %d for %s", status, videoID), nil)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var payload timedtextPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "transcription", "timedtext", "unexpected track format", err)
	}

	segments := make([]article.TranscriptSegment, 0, len(payload.Events))
	for _, event := range payload.Events {
		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.Text)
		}
		trimmed := strings.TrimSpace(strings.ReplaceAll(text.String(), "\n", " "))
		if trimmed == "" {
			continue
		}
		start := float64(event.StartMS) / 1000
		segments = append(segments, article.TranscriptSegment{
			Start: start,
			End:   start + float64(event.DurationMS)/1000,
			Text:  trimmed,
		})
	}
	return segments, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
