package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"intake/internal/config"
)

const userAgent = "intake/0.1.0"

// Event identifies a capture outcome worth telling the user about.
type Event string

const (
	// EventCaptureRouted fires when a capture lands in its inferred trackers.
	EventCaptureRouted Event = "capture_routed"
	// EventReviewRouted fires when low confidence sends a capture to review.
	EventReviewRouted Event = "review_routed"
	// EventEmergencyCapture fires when inference failed and the text was
	// parked in a review queue verbatim.
	EventEmergencyCapture Event = "emergency_capture"
	// EventCaptureFailed fires when every placement attempt failed; the
	// notification carries the original text so nothing is lost silently.
	EventCaptureFailed Event = "capture_failed"
	// EventTest exercises the delivery path on demand.
	EventTest Event = "test"
)

// Payload carries event-specific fields used to compose the message.
type Payload map[string]string

func (p Payload) get(key, fallback string) string {
	value := strings.TrimSpace(p[key])
	if value == "" {
		return fallback
	}
	return value
}

// Service defines the notification surface exposed to capture components.
type Service interface {
	Publish(ctx context.Context, event Event, data Payload) error
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
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		captures: cfg.Notifications.Captures,
		review:   cfg.Notifications.Review,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	captures bool
	review   bool
	errors   bool
}

// Publish composes and sends the message for event. Events suppressed by
// config toggles return nil without touching the network.
func (n *ntfyService) Publish(ctx context.Context, event Event, data Payload) error {
	msg, ok := n.compose(event, data)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) compose(event Event, data Payload) (payload, bool) {
	switch event {
	case EventCaptureRouted:
		if !n.captures {
			return payload{}, false
		}
		message := fmt.Sprintf("✅ Routed to %s: %s", data.get("tracker", "unknown"), data.get("text", ""))
		if items := data.get("items", ""); items != "" {
			message = fmt.Sprintf("%s\nItems placed: %s", message, items)
		}
		return payload{
			title:   "Intake - Captured",
			message: message,
			tags:    []string{"intake", "capture", "routed"},
		}, true
	case EventReviewRouted:
		if !n.review {
			return payload{}, false
		}
		return payload{
			title: "Intake - Needs Review",
			message: fmt.Sprintf("❓ Needs review (guess: %s, confidence %s): %s",
				data.get("guess", "none"), data.get("confidence", "0.00"), data.get("text", "")),
			tags: []string{"intake", "review", "routed"},
		}, true
	case EventEmergencyCapture:
		if !n.errors {
			return payload{}, false
		}
		message := fmt.Sprintf("🚨 Emergency capture (%s): %s", data.get("cause", "unknown"), data.get("text", ""))
		if tracker := data.get("tracker", ""); tracker != "" {
			message = fmt.Sprintf("%s\nSaved to: %s", message, tracker)
		}
		return payload{
			title:    "Intake - Emergency Capture",
			message:  message,
			tags:     []string{"intake", "emergency", "alert"},
			priority: "high",
		}, true
	case EventCaptureFailed:
		if !n.errors {
			return payload{}, false
		}
		message := fmt.Sprintf("❌ Capture failed: %s", data.get("error", "unknown"))
		if text := data.get("text", ""); text != "" {
			message = fmt.Sprintf("%s\nText: %s", message, text)
		}
		return payload{
			title:    "Intake - Capture Failed",
			message:  message,
			tags:     []string{"intake", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return payload{
			title:    "Intake - Test",
			message:  "🧪 Notification system test",
			tags:     []string{"intake", "test"},
			priority: "low",
		}, true
	default:
		return payload{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
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
