package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vodscribe/internal/config"
)

const userAgent = "Vodscribe-Go/1.0.0"

// Event enumerates the notifiable run milestones.
type Event string

const (
	EventRunStarted   Event = "run_started"
	EventRunCompleted Event = "run_completed"
	EventRunFailed    Event = "run_failed"
	EventRunCancelled Event = "run_cancelled"
	EventTest         Event = "test"
)

// Payload carries event-specific values used to format the message.
type Payload map[string]string

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		sendRuns:   cfg.Notifications.Runs,
		sendErrors: cfg.Notifications.Errors,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	sendRuns   bool
	sendErrors bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if n.suppressed(event) {
		return nil
	}
	msg, ok := formatMessage(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) suppressed(event Event) bool {
	switch event {
	case EventRunStarted, EventRunCompleted, EventRunCancelled:
		return !n.sendRuns
	case EventRunFailed:
		return !n.sendErrors
	}
	return false
}

func formatMessage(event Event, payload Payload) (message, bool) {
	title := strings.TrimSpace(payload["title"])
	if title == "" {
		title = payload["video_id"]
	}

	switch event {
	case EventRunStarted:
		return message{
			title: "Vodscribe - Run Started",
			body:  fmt.Sprintf("Processing started: %s", title),
			tags:  []string{"vodscribe", "run", "started"},
		}, true
	case EventRunCompleted:
		body := fmt.Sprintf("✅ Article ready: %s", title)
		if rating := strings.TrimSpace(payload["quality_rating"]); rating != "" {
			body = fmt.Sprintf("%s (quality: %s)", body, rating)
		}
		return message{
			title:    "Vodscribe - Complete",
			body:     body,
			tags:     []string{"vodscribe", "run", "completed"},
			priority: "high",
		}, true
	case EventRunFailed:
		reason := strings.TrimSpace(payload["error"])
		if reason == "" {
			reason = "unknown"
		}
		return message{
			title:    "Vodscribe - Error",
			body:     fmt.Sprintf("❌ Run failed for %s: %s", title, reason),
			tags:     []string{"vodscribe", "error", "alert"},
			priority: "high",
		}, true
	case EventRunCancelled:
		return message{
			title: "Vodscribe - Cancelled",
			body:  fmt.Sprintf("Run cancelled: %s", title),
			tags:  []string{"vodscribe", "run", "cancelled"},
		}, true
	case EventTest:
		return message{
			title:    "Vodscribe - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"vodscribe", "test"},
			priority: "low",
		}, true
	}
	return message{}, false
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
