package acquire

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"vodscribe/internal/services"
)

// YtdlpFetcher downloads audio through yt-dlp, mapping the strategy's
// cookie source to --cookies-from-browser and its client profile to a
// youtube extractor argument.
type YtdlpFetcher struct{}

// NewYtdlpFetcher returns a Fetcher backed by the yt-dlp binary.
func NewYtdlpFetcher() *YtdlpFetcher {
	return &YtdlpFetcher{}
}

// Download fetches bestaudio for videoID into destDir and returns the
// resulting file path.
func (f *YtdlpFetcher) Download(ctx context.Context, videoID string, strategy Strategy, destDir string) (string, error) {
	dl := ytdlp.New().
		NoPlaylist().
		ForceOverwrites().
		RestrictFilenames().
		ExtractAudio().
		AudioFormat("mp3").
		Format("bestaudio/best").
		Output(filepath.Join(destDir, "%(id)s.%(ext)s"))

	if strategy.UsesCookies() {
		dl = dl.CookiesFromBrowser(strategy.CookieSource)
	}
	if strategy.ClientProfile != "" {
		dl = dl.ExtractorArgs(fmt.Sprintf("youtube:player_client=%s", strategy.ClientProfile))
	}

	result, err := dl.Run(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		return "", classifyDownloadError(videoID, strategy, err)
	}

	if result != nil {
		info, infoErr := result.GetExtractedInfo()
		if infoErr == nil && len(info) > 0 && info[0].Filename != nil {
			return audioPath(*info[0].Filename), nil
		}
	}
	return filepath.Join(destDir, videoID+".mp3"), nil
}

// audioPath accounts for the post-processed extension after audio
// extraction.
func audioPath(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" || ext == ".mp3" {
		return filename
	}
	return strings.TrimSuffix(filename, ext) + ".mp3"
}

// classifyDownloadError maps yt-dlp failures onto the acquisition
// failure taxonomy by inspecting the error text, which is the only
// signal the binary exposes.
func classifyDownloadError(videoID string, strategy Strategy, err error) error {
	msg := strings.ToLower(err.Error())
	op := "download " + strategy.String()
	switch {
	case strings.Contains(msg, "could not copy") && strings.Contains(msg, "cookie"),
		strings.Contains(msg, "could not find") && strings.Contains(msg, "cookies"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "permission denied") && strings.Contains(msg, "cookie"):
		return services.Wrap(services.ErrCredentials, "acquisition", op, "cookie store inaccessible", err)
	case strings.Contains(msg, "sign in to confirm"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "429"),
		strings.Contains(msg, "captcha"),
		strings.Contains(msg, "not a bot"):
		return services.Wrap(services.ErrBlocked, "acquisition", op, "request rejected upstream", err)
	case strings.Contains(msg, "video unavailable"),
		strings.Contains(msg, "private video"),
		strings.Contains(msg, "members-only"),
		strings.Contains(msg, "removed"):
		return services.Wrap(services.ErrUnavailable, "acquisition", op, "video not accessible", err)
	case strings.Contains(msg, "requested format is not available"),
		strings.Contains(msg, "unable to extract"):
		return services.Wrap(services.ErrUnavailable, "acquisition", op, "extraction format changed upstream", err)
	default:
		return services.Wrap(services.ErrTransient, "acquisition", op, "download failed for "+videoID, err)
	}
}
