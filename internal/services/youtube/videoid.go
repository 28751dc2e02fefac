package youtube

import (
	"net/url"
	"regexp"
	"strings"

	"vodscribe/internal/services"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video ID out of the common URL
// forms: watch?v=, youtu.be/, embed/, shorts/, live/, or a bare ID.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", services.Wrap(services.ErrValidation, "", "extract video id", "empty url", nil)
	}
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "", "extract video id", "unparseable url", err)
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	switch host {
	case "youtu.be":
		if id := firstPathSegment(parsed.Path); videoIDPattern.MatchString(id) {
			return id, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if id := parsed.Query().Get("v"); videoIDPattern.MatchString(id) {
			return id, nil
		}
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if len(segments) >= 2 {
			switch segments[0] {
			case "embed", "shorts", "live", "v":
				if videoIDPattern.MatchString(segments[1]) {
					return segments[1], nil
				}
			}
		}
	}
	return "", services.Wrap(services.ErrValidation, "", "extract video id", "no video id in "+raw, nil)
}

// IsPlaylistURL reports whether the URL addresses a playlist rather
// than a single video.
func IsPlaylistURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return parsed.Query().Get("list") != "" && parsed.Query().Get("v") == ""
}

// ExtractPlaylistID returns the list parameter of a playlist URL.
func ExtractPlaylistID(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "", "extract playlist id", "unparseable url", err)
	}
	id := parsed.Query().Get("list")
	if id == "" {
		return "", services.Wrap(services.ErrValidation, "", "extract playlist id", "no list parameter in "+raw, nil)
	}
	return id, nil
}

func firstPathSegment(path string) string {
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			return segment
		}
	}
	return ""
}
