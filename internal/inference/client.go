package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"intake/internal/config"
	"intake/internal/logging"
	"intake/internal/services/llm"
	"intake/internal/tracker"
)

const component = "inference"

// fallbackConfidence is the confidence reported when inference never produced
// a usable decision.
const fallbackConfidence = 0.1

// CompletionService is the transport slice of the llm client the inference
// client needs.
type CompletionService interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client turns captures into validated routing decisions.
type Client struct {
	svc       CompletionService
	threshold float64
	logger    *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithCompletionService overrides the LLM transport (useful for tests).
func WithCompletionService(svc CompletionService) Option {
	return func(c *Client) {
		if svc != nil {
			c.svc = svc
		}
	}
}

// NewClient constructs an inference client from the runtime configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		threshold: cfg.Routing.ConfidenceThreshold,
		logger:    logging.NewComponentLogger(logger, component),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.svc == nil {
		resolved := cfg.GetLLM()
		client.svc = llm.NewClient(llm.Config{
			APIKey:         resolved.APIKey,
			BaseURL:        resolved.BaseURL,
			Model:          resolved.Model,
			Referer:        resolved.Referer,
			Title:          resolved.Title,
			TimeoutSeconds: resolved.TimeoutSeconds,
		})
	}
	return client
}

// Infer routes one capture against the tracker roster. It never returns a
// non-nil error: every failure degrades into a fallback result that sends the
// verbatim input to review.
func (c *Client) Infer(ctx context.Context, input CaptureInput, summaries []tracker.Summary) (Result, error) {
	payload, err := buildPromptPayload(input, summaries)
	if err != nil {
		c.logger.Warn("inference request could not be encoded",
			logging.Error(err))
		return c.fallback(input, fmt.Sprintf("encode request: %v", err)), nil
	}

	content, err := c.svc.CompleteJSON(ctx, RoutingPrompt, payload)
	if err != nil {
		c.logger.Warn("inference request failed, routing to review",
			logging.Error(err))
		return c.fallback(input, err.Error()), nil
	}

	var wire wireResult
	if err := llm.DecodeLLMJSON(content, &wire); err != nil {
		c.logger.Warn("inference payload unparseable, routing to review",
			logging.Error(err))
		return c.fallback(input, fmt.Sprintf("parse payload: %v", err)), nil
	}

	return c.repair(input, wire), nil
}

// fallback is the result used when inference produced nothing usable: one
// synthetic review item carrying the input verbatim.
func (c *Client) fallback(input CaptureInput, cause string) Result {
	return Result{
		Confidence:     fallbackConfidence,
		Rationale:      cause,
		RequiresReview: true,
		Items: []Item{{
			Type:      ItemReview,
			Priority:  PriorityMedium,
			Content:   SyntheticReviewContent(input.Text),
			Rationale: cause,
		}},
	}
}

// repair normalizes a decoded payload into a valid Result.
func (c *Client) repair(input CaptureInput, wire wireResult) Result {
	result := Result{
		PrimaryTracker: strings.ToLower(strings.TrimSpace(wire.PrimaryTracker)),
		Confidence:     clampConfidence(wire.Confidence),
		Rationale:      strings.TrimSpace(wire.Rationale),
		RequiresReview: wire.RequiresReview,
	}

	for _, raw := range wire.Items {
		content := strings.TrimSpace(raw.Content)
		if content == "" {
			c.logger.Warn("dropping inference item without content",
				logging.String(logging.FieldTracker, raw.Tracker))
			continue
		}
		itemType, knownType := ParseItemType(raw.Type)
		if !knownType && strings.TrimSpace(raw.Type) != "" {
			c.logger.Debug("coercing unknown item type to review",
				logging.String("type", raw.Type))
		}
		priority, _ := ParsePriority(raw.Priority)
		itemTracker := strings.ToLower(strings.TrimSpace(raw.Tracker))
		if itemTracker == "" {
			itemTracker = result.PrimaryTracker
		}
		result.Items = append(result.Items, Item{
			Tracker:   itemTracker,
			Type:      itemType,
			Priority:  priority,
			Content:   content,
			Rationale: strings.TrimSpace(raw.Rationale),
		})
	}
	if len(result.Items) == 0 {
		result.Items = []Item{{
			Tracker:   result.PrimaryTracker,
			Type:      ItemReview,
			Priority:  PriorityMedium,
			Content:   SyntheticReviewContent(input.Text),
			Rationale: "model returned no items",
		}}
	}

	for _, raw := range wire.Completions {
		description := strings.TrimSpace(raw.Description)
		if description == "" {
			continue
		}
		result.Completions = append(result.Completions, TaskCompletion{
			Tracker:     strings.ToLower(strings.TrimSpace(raw.Tracker)),
			Description: description,
			Rationale:   strings.TrimSpace(raw.Rationale),
		})
	}

	// The threshold is authoritative; the model's flag is only ever forced on.
	if result.Confidence < c.threshold {
		result.RequiresReview = true
	}
	return result
}

func clampConfidence(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

type promptTracker struct {
	Tag            string   `json:"tag"`
	Name           string   `json:"name"`
	Context        string   `json:"context"`
	Keywords       []string `json:"keywords,omitempty"`
	RecentActivity []string `json:"recentActivity,omitempty"`
}

type promptRequest struct {
	Text          string          `json:"text"`
	InputType     string          `json:"inputType"`
	ForcedContext string          `json:"forcedContext,omitempty"`
	Timestamp     string          `json:"timestamp"`
	Trackers      []promptTracker `json:"trackers"`
}

func buildPromptPayload(input CaptureInput, summaries []tracker.Summary) (string, error) {
	when := input.Timestamp
	if when.IsZero() {
		when = time.Now()
	}
	request := promptRequest{
		Text:          input.Text,
		InputType:     string(ParseInputType(string(input.InputType))),
		ForcedContext: strings.TrimSpace(input.ForcedContext),
		Timestamp:     when.Format(time.RFC3339),
		Trackers:      make([]promptTracker, 0, len(summaries)),
	}
	for _, summary := range summaries {
		request.Trackers = append(request.Trackers, promptTracker{
			Tag:            summary.Tag,
			Name:           summary.Name,
			Context:        string(summary.Context),
			Keywords:       summary.Keywords,
			RecentActivity: summary.RecentActivity,
		})
	}
	encoded, err := json.Marshal(request)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

type wireItem struct {
	Tracker   string `json:"tracker"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	Content   string `json:"content"`
	Rationale string `json:"rationale"`
}

type wireCompletion struct {
	Tracker     string `json:"tracker"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
}

type wireResult struct {
	PrimaryTracker string           `json:"primary_tracker"`
	Confidence     float64          `json:"confidence"`
	Rationale      string           `json:"rationale"`
	Items          []wireItem       `json:"items"`
	Completions    []wireCompletion `json:"completions"`
	RequiresReview bool             `json:"requires_review"`
}
