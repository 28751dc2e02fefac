package youtube

import (
	"context"
	"fmt"
	"time"

	"github.com/ytget/ytdlp/v2"

	"vodscribe/internal/services"
)

// PlaylistEntry is one video of an expanded playlist.
type PlaylistEntry struct {
	VideoID string
	Title   string
	URL     string
}

// PlaylistResolver expands a playlist ID into its member videos.
type PlaylistResolver struct {
	timeout time.Duration
}

// NewPlaylistResolver builds a resolver with the default expansion
// timeout.
func NewPlaylistResolver() *PlaylistResolver {
	return &PlaylistResolver{timeout: time.Minute}
}

// SetTimeout adjusts the expansion timeout.
func (r *PlaylistResolver) SetTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

// Resolve lists every video in the playlist, in playlist order.
func (r *PlaylistResolver) Resolve(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	if playlistID == "" {
		return nil, services.Wrap(services.ErrValidation, "", "resolve playlist", "empty playlist id", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "", "resolve playlist", "list items for "+playlistID, err)
	}

	entries := make([]PlaylistEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, PlaylistEntry{
			VideoID: item.VideoID,
			Title:   item.Title,
			URL:     fmt.Sprintf(watchURLTemplate, item.VideoID),
		})
	}
	if len(entries) == 0 {
		return nil, services.Wrap(services.ErrUnavailable, "", "resolve playlist", "playlist "+playlistID+" has no videos", nil)
	}
	return entries, nil
}
