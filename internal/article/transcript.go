package article

import "strings"

// TranscriptSource identifies how a transcript was obtained.
type TranscriptSource string

const (
	// SourceCaptions means the transcript came from publicly exposed caption data.
	SourceCaptions TranscriptSource = "captions"
	// SourceWhisper means the transcript came from downloaded audio run
	// through speech recognition.
	SourceWhisper TranscriptSource = "whisper"
)

// VideoMetadata describes the source video.
type VideoMetadata struct {
	VideoID         string `json:"video_id"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	DurationSeconds int    `json:"duration_seconds"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	UploadDate      string `json:"upload_date,omitempty"`
}

// TranscriptSegment is one timestamped piece of transcript text.
type TranscriptSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// TranscriptResult is the output of the transcription stage.
type TranscriptResult struct {
	VideoID         string              `json:"video_id"`
	Title           string              `json:"title"`
	Channel         string              `json:"channel"`
	DurationSeconds int                 `json:"duration_seconds"`
	Transcript      string              `json:"transcript"`
	Segments        []TranscriptSegment `json:"segments"`
	Source          TranscriptSource    `json:"source"`
	Language        string              `json:"language"`
	ThumbnailURL    string              `json:"thumbnail_url,omitempty"`
	UploadDate      string              `json:"upload_date,omitempty"`
}

// JoinSegments rebuilds the flat transcript text from segments.
func JoinSegments(segments []TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
