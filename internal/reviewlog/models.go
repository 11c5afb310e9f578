package reviewlog

import "time"

// Entry is one recorded capture outcome.
type Entry struct {
	ID             string
	CapturedAt     time.Time
	InputText      string
	InputType      string
	PrimaryTracker string
	Confidence     float64
	RequiresReview bool
	Success        bool
	Disposition    string
	Error          string
	ItemsPlaced    int
	ItemsFailed    int
}

// Stats aggregates recorded captures by disposition.
type Stats struct {
	Total     int
	Routed    int
	Review    int
	Emergency int
	Failed    int
}
