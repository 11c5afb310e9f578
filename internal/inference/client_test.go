package inference_test

import (
	"context"
	"strings"
	"testing"

	"intake/internal/inference"
	"intake/internal/logging"
	"intake/internal/testsupport"
	"intake/internal/tracker"
)

type fakeCompletion struct {
	response string
	err      error

	lastSystem string
	lastUser   string
}

func (f *fakeCompletion) CompleteJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestClient(t *testing.T, fake *fakeCompletion, opts ...testsupport.ConfigOption) *inference.Client {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	return inference.NewClient(cfg, logging.NewNop(), inference.WithCompletionService(fake))
}

func rosterSummaries() []tracker.Summary {
	return []tracker.Summary{
		{Tag: "health", Name: "Health", Context: tracker.CategoryPersonal, Keywords: []string{"running", "sleep"}},
		{Tag: "finances", Name: "Finances", Context: tracker.CategoryBusiness},
	}
}

func TestInferHappyPath(t *testing.T) {
	fake := &fakeCompletion{response: `{
		"primary_tracker": "Health",
		"confidence": 0.92,
		"rationale": "past-tense exercise",
		"items": [
			{"tracker": "health", "type": "activity", "priority": "medium", "content": "Walked 5k", "rationale": "happened"},
			{"tracker": "", "type": "action", "priority": "high", "content": "Book checkup", "rationale": "todo"}
		],
		"completions": [{"tracker": "health", "description": "morning stretch", "rationale": "capture says done"}],
		"requires_review": false
	}`}
	client := newTestClient(t, fake)

	result, err := client.Infer(context.Background(), inference.CaptureInput{Text: "walked 5k, need checkup"}, rosterSummaries())
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}

	if result.PrimaryTracker != "health" {
		t.Errorf("primary tracker = %q, want lowercased health", result.PrimaryTracker)
	}
	if result.Confidence != 0.92 || result.RequiresReview {
		t.Errorf("confidence/review = %v/%v", result.Confidence, result.RequiresReview)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(result.Items))
	}
	if result.Items[0].Type != inference.ItemActivity || result.Items[0].Type.Section() != tracker.SectionActivityLog {
		t.Errorf("first item should be an activity targeting the activity log: %+v", result.Items[0])
	}
	if result.Items[1].Tracker != "health" {
		t.Errorf("empty item tracker should inherit primary, got %q", result.Items[1].Tracker)
	}
	if len(result.Completions) != 1 || result.Completions[0].Description != "morning stretch" {
		t.Errorf("completions = %+v", result.Completions)
	}

	if !strings.Contains(fake.lastUser, `"tag":"health"`) || !strings.Contains(fake.lastUser, `"tag":"finances"`) {
		t.Errorf("user payload should carry the tracker roster: %s", fake.lastUser)
	}
	if fake.lastSystem != inference.RoutingPrompt {
		t.Error("system prompt should be the routing prompt constant")
	}
}

func TestInferTransportFailureFallsBackToReview(t *testing.T) {
	fake := &fakeCompletion{err: context.DeadlineExceeded}
	client := newTestClient(t, fake)

	result, err := client.Infer(context.Background(), inference.CaptureInput{Text: "remember the milk"}, rosterSummaries())
	if err != nil {
		t.Fatalf("Infer must not surface transport errors, got %v", err)
	}

	if result.Confidence != 0.1 || !result.RequiresReview {
		t.Fatalf("fallback result = %+v", result)
	}
	if result.PrimaryTracker != "" {
		t.Errorf("fallback must not guess a tracker, got %q", result.PrimaryTracker)
	}
	if len(result.Items) != 1 {
		t.Fatalf("fallback items = %d, want exactly 1", len(result.Items))
	}
	item := result.Items[0]
	if item.Type != inference.ItemReview || item.Content != "Unrouted capture: remember the milk" {
		t.Fatalf("fallback item = %+v", item)
	}
}

func TestInferUnparseablePayloadFallsBack(t *testing.T) {
	fake := &fakeCompletion{response: "I could not decide, sorry!"}
	client := newTestClient(t, fake)

	result, err := client.Infer(context.Background(), inference.CaptureInput{Text: "odd reply"}, rosterSummaries())
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if !result.RequiresReview || len(result.Items) != 1 || result.Items[0].Content != "Unrouted capture: odd reply" {
		t.Fatalf("unexpected fallback: %+v", result)
	}
}

func TestInferClampsConfidence(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1.7", 1},
		{"-0.2", 0},
		{"0.55", 0.55},
	}
	for _, tt := range tests {
		fake := &fakeCompletion{response: `{"primary_tracker":"health","confidence":` + tt.raw +
			`,"items":[{"tracker":"health","type":"activity","content":"x"}]}`}
		client := newTestClient(t, fake)
		result, err := client.Infer(context.Background(), inference.CaptureInput{Text: "x"}, rosterSummaries())
		if err != nil {
			t.Fatalf("Infer: %v", err)
		}
		if result.Confidence != tt.want {
			t.Errorf("confidence %s -> %v, want %v", tt.raw, result.Confidence, tt.want)
		}
	}
}

func TestInferCoercesUnknownTypeAndPriority(t *testing.T) {
	fake := &fakeCompletion{response: `{
		"primary_tracker": "health", "confidence": 0.9,
		"items": [{"tracker": "health", "type": "memo", "priority": "urgent", "content": "strange fields"}]
	}`}
	client := newTestClient(t, fake)

	result, err := client.Infer(context.Background(), inference.CaptureInput{Text: "strange"}, rosterSummaries())
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	item := result.Items[0]
	if item.Type != inference.ItemReview {
		t.Errorf("unknown type should coerce to review, got %q", item.Type)
	}
	if item.Priority != inference.PriorityMedium {
		t.Errorf("unknown priority should coerce to medium, got %q", item.Priority)
	}
}

func TestInferEmptyItemsGetSynthetic(t *testing.T) {
	fake := &fakeCompletion{response: `{"primary_tracker":"health","confidence":0.9,"items":[]}`}
	client := newTestClient(t, fake)

	result, err := client.Infer(context.Background(), inference.CaptureInput{Text: "lost capture"}, rosterSummaries())
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want synthetic single item", len(result.Items))
	}
	item := result.Items[0]
	if item.Type != inference.ItemReview || item.Tracker != "health" {
		t.Errorf("synthetic item = %+v", item)
	}
	if item.Content != "Unrouted capture: lost capture" {
		t.Errorf("synthetic content = %q", item.Content)
	}
}

func TestInferDropsContentlessItems(t *testing.T) {
	fake := &fakeCompletion{response: `{
		"primary_tracker": "health", "confidence": 0.9,
		"items": [{"tracker": "health", "type": "activity", "content": "   "}]
	}`}
	client := newTestClient(t, fake)

	result, err := client.Infer(context.Background(), inference.CaptureInput{Text: "blank content"}, rosterSummaries())
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Content != "Unrouted capture: blank content" {
		t.Fatalf("contentless items should collapse to the synthetic entry: %+v", result.Items)
	}
}

func TestInferThresholdForcesReview(t *testing.T) {
	response := `{"primary_tracker":"health","confidence":0.5,"requires_review":false,` +
		`"items":[{"tracker":"health","type":"activity","content":"x"}]}`

	fake := &fakeCompletion{response: response}
	client := newTestClient(t, fake)
	result, _ := client.Infer(context.Background(), inference.CaptureInput{Text: "x"}, rosterSummaries())
	if !result.RequiresReview {
		t.Error("confidence 0.5 under default threshold 0.7 should force review")
	}

	fake = &fakeCompletion{response: response}
	client = newTestClient(t, fake, testsupport.WithConfidenceThreshold(0.5))
	result, _ = client.Infer(context.Background(), inference.CaptureInput{Text: "x"}, rosterSummaries())
	if result.RequiresReview {
		t.Error("confidence 0.5 at threshold 0.5 should not force review")
	}
}

func TestInferModelReviewFlagIsNeverCleared(t *testing.T) {
	fake := &fakeCompletion{response: `{"primary_tracker":"health","confidence":0.99,"requires_review":true,` +
		`"items":[{"tracker":"health","type":"activity","content":"x"}]}`}
	client := newTestClient(t, fake)

	result, _ := client.Infer(context.Background(), inference.CaptureInput{Text: "x"}, rosterSummaries())
	if !result.RequiresReview {
		t.Error("model's advisory review flag must survive high confidence")
	}
}

func TestParseItemType(t *testing.T) {
	tests := []struct {
		raw  string
		want inference.ItemType
		ok   bool
	}{
		{"action", inference.ItemAction, true},
		{" Activity ", inference.ItemActivity, true},
		{"REFERENCE", inference.ItemReference, true},
		{"someday", inference.ItemSomeday, true},
		{"review", inference.ItemReview, true},
		{"memo", inference.ItemReview, false},
		{"", inference.ItemReview, false},
	}
	for _, tt := range tests {
		got, ok := inference.ParseItemType(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseItemType(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		raw  string
		want inference.Priority
		ok   bool
	}{
		{"critical", inference.PriorityCritical, true},
		{"High", inference.PriorityHigh, true},
		{"medium", inference.PriorityMedium, true},
		{"low", inference.PriorityLow, true},
		{"urgent", inference.PriorityMedium, false},
		{"", inference.PriorityMedium, false},
	}
	for _, tt := range tests {
		got, ok := inference.ParsePriority(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePriority(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
