package tracker

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"intake/internal/textutil"
)

const (
	maxSummaryKeywords = 10
	maxRecentActivity  = 5
)

// Summary is the per-tracker context handed to the inference service.
type Summary struct {
	Tag            string
	Name           string
	Context        Category
	Keywords       []string
	RecentActivity []string
}

var displayReplacer = strings.NewReplacer("-", " ", "_", " ")

// DisplayName derives a human-readable name from a tracker tag.
func DisplayName(tag string) string {
	cleaned := strings.TrimSpace(displayReplacer.Replace(tag))
	if cleaned == "" {
		return tag
	}
	return cases.Title(language.English).String(cleaned)
}

// BuildContextSummary returns one summary per loaded tracker in registry
// order: display name, context category, derived keywords, and the most
// recent activity entries. Pure in-memory walk; runs on every capture.
func (s *Store) BuildContextSummary() []Summary {
	out := make([]Summary, 0, len(s.order))
	for _, tag := range s.order {
		t := s.trackers[tag]
		summary := Summary{Tag: t.Tag, Name: t.Name, Context: t.Context}
		if t.doc != nil {
			summary.Keywords = textutil.Keywords(t.doc.PlainText(), maxSummaryKeywords)
			activity := t.doc.SectionEntries(SectionActivityLog)
			if len(activity) > maxRecentActivity {
				activity = activity[len(activity)-maxRecentActivity:]
			}
			summary.RecentActivity = activity
		}
		out = append(out, summary)
	}
	return out
}
