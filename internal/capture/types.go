package capture

import (
	"time"

	"intake/internal/inference"
	"intake/internal/tracker"
)

// Disposition names where a capture ultimately landed.
type Disposition string

const (
	// DispositionRouted means at least one inferred item was placed.
	DispositionRouted Disposition = "routed"
	// DispositionReview means the raw text went to a review queue for triage.
	DispositionReview Disposition = "review"
	// DispositionEmergency means inference failed and the text was parked
	// verbatim in the first tracker that would take it.
	DispositionEmergency Disposition = "emergency"
	// DispositionFailed means no tracker anywhere accepted a write.
	DispositionFailed Disposition = "failed"
)

// ItemOutcome records one attempted append and how it went.
type ItemOutcome struct {
	Tracker string          `json:"tracker"`
	Section tracker.Section `json:"section"`
	Line    string          `json:"line"`
	Error   string          `json:"error,omitempty"`
}

// Placed reports whether the append succeeded.
func (o ItemOutcome) Placed() bool {
	return o.Error == ""
}

// Result describes everything that happened to one capture. Success is false
// only when every tracker rejected every write; in that case UnwrittenEntry
// carries the rendered entry, original text included, so the caller can still
// preserve it.
type Result struct {
	CaptureID      string                     `json:"capture_id"`
	CapturedAt     time.Time                  `json:"captured_at"`
	InputText      string                     `json:"input_text"`
	InputType      inference.InputType        `json:"input_type"`
	Success        bool                       `json:"success"`
	PrimaryTracker string                     `json:"primary_tracker,omitempty"`
	Confidence     float64                    `json:"confidence"`
	RequiresReview bool                       `json:"requires_review"`
	Disposition    Disposition                `json:"disposition"`
	Rationale      string                     `json:"rationale,omitempty"`
	Items          []ItemOutcome              `json:"items,omitempty"`
	Completions    []inference.TaskCompletion `json:"completions,omitempty"`
	UnwrittenEntry string                     `json:"unwritten_entry,omitempty"`
	ErrorMessage   string                     `json:"error,omitempty"`
}

// ItemsPlaced counts the outcomes whose append succeeded.
func (r Result) ItemsPlaced() int {
	placed := 0
	for _, item := range r.Items {
		if item.Placed() {
			placed++
		}
	}
	return placed
}

// ItemsFailed counts the outcomes whose append failed.
func (r Result) ItemsFailed() int {
	failed := 0
	for _, item := range r.Items {
		if !item.Placed() {
			failed++
		}
	}
	return failed
}
