package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency vodscribe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external binaries the pipeline shells out to.
// Both are needed only on the audio fallback path, so they are optional:
// caption-only runs succeed without them.
func Requirements() []Requirement {
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     "yt-dlp",
			Description: "Downloads audio when a video has no usable captions",
			Optional:    true,
		},
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Extracts mp3 audio from downloaded streams",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
