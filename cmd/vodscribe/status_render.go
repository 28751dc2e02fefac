package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"vodscribe/internal/progress"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiDim    = "\x1b[2m"
)

// newConsoleRenderer returns a progress callback that prints one line per
// event. Colors are applied only when out is an interactive terminal.
func newConsoleRenderer(out io.Writer) progress.Callback {
	colorize := shouldColorize(out)
	return func(event progress.Event) {
		fmt.Fprintln(out, renderEventLine(event, colorize))
	}
}

func renderEventLine(event progress.Event, colorize bool) string {
	percent := fmt.Sprintf("%3.0f%%", event.Progress*100)
	message := event.Message
	if event.Step != "" && event.Level != progress.LevelMilestone {
		message = fmt.Sprintf("%s: %s", event.Step, message)
	}
	if event.Err != "" {
		message = fmt.Sprintf("%s (%s)", message, event.Err)
	}
	line := fmt.Sprintf("[%s] %-18s %s", percent, event.Stage, message)
	if colorize {
		if color := levelColor(event.Level); color != "" {
			return color + line + ansiReset
		}
	}
	return line
}

func levelColor(level progress.Level) string {
	switch level {
	case progress.LevelMilestone:
		return ansiGreen
	case progress.LevelWarning:
		return ansiYellow
	case progress.LevelError:
		return ansiRed
	case progress.LevelDebug:
		return ansiDim
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
