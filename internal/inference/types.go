package inference

import (
	"strings"
	"time"

	"intake/internal/tracker"
)

// InputType records how the capture text arrived.
type InputType string

const (
	InputText  InputType = "text"
	InputVoice InputType = "voice"
)

// ParseInputType normalizes a raw input-type value; anything unrecognized
// counts as plain text.
func ParseInputType(raw string) InputType {
	if InputType(strings.ToLower(strings.TrimSpace(raw))) == InputVoice {
		return InputVoice
	}
	return InputText
}

// CaptureInput is one piece of free-form text to route. Ephemeral.
type CaptureInput struct {
	Text          string
	InputType     InputType
	ForcedContext string // optional context-category hint
	Timestamp     time.Time
}

// ItemType classifies a generated item and implies its target section.
type ItemType string

const (
	ItemAction    ItemType = "action"
	ItemActivity  ItemType = "activity"
	ItemReview    ItemType = "review"
	ItemReference ItemType = "reference"
	ItemSomeday   ItemType = "someday"
)

// ParseItemType normalizes a raw item type. Unrecognized values resolve to
// ItemReview with ok=false so nothing routes to a section that cannot hold it.
func ParseItemType(raw string) (ItemType, bool) {
	switch ItemType(strings.ToLower(strings.TrimSpace(raw))) {
	case ItemAction:
		return ItemAction, true
	case ItemActivity:
		return ItemActivity, true
	case ItemReview:
		return ItemReview, true
	case ItemReference:
		return ItemReference, true
	case ItemSomeday:
		return ItemSomeday, true
	default:
		return ItemReview, false
	}
}

// Section returns the tracker section an item type routes into.
func (t ItemType) Section() tracker.Section {
	switch t {
	case ItemAction:
		return tracker.SectionActionItems
	case ItemActivity:
		return tracker.SectionActivityLog
	case ItemReference:
		return tracker.SectionReferences
	case ItemSomeday:
		return tracker.SectionSomedayMaybe
	default:
		return tracker.SectionReviewQueue
	}
}

// Priority ranks a generated action item.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// ParsePriority normalizes a raw priority. Unrecognized values resolve to
// PriorityMedium with ok=false.
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case PriorityCritical:
		return PriorityCritical, true
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityLow:
		return PriorityLow, true
	default:
		return PriorityMedium, false
	}
}

// Item is one typed entry the model wants placed.
type Item struct {
	Tracker   string   `json:"tracker"`
	Type      ItemType `json:"item_type"`
	Priority  Priority `json:"priority"`
	Content   string   `json:"content"`
	Rationale string   `json:"rationale,omitempty"`
}

// TaskCompletion reports an existing task the capture appears to complete.
// Surfaced to the caller only, never applied automatically.
type TaskCompletion struct {
	Tracker     string `json:"tracker"`
	Description string `json:"description"`
	Rationale   string `json:"rationale,omitempty"`
}

// Result is the validated routing decision for one capture.
type Result struct {
	PrimaryTracker string
	Confidence     float64
	Rationale      string
	Items          []Item
	Completions    []TaskCompletion
	RequiresReview bool
}

// SyntheticReviewContent wraps raw capture text in the unrouted-capture
// template. The entry renderer supplies the timestamp, so the template
// carries the text only.
func SyntheticReviewContent(text string) string {
	return "Unrouted capture: " + strings.TrimSpace(text)
}
