package tracker

import "strings"

// Section identifies one canonical tracker document section.
type Section string

const (
	SectionActivityLog  Section = "activity-log"
	SectionActionItems  Section = "action-items"
	SectionReviewQueue  Section = "review-queue"
	SectionReferences   Section = "references"
	SectionSomedayMaybe Section = "someday-maybe"
	SectionNotes        Section = "notes"
)

// sectionTitles maps section kinds to their rendered header text.
var sectionTitles = map[Section]string{
	SectionActivityLog:  "Activity Log",
	SectionActionItems:  "Action Items",
	SectionReviewQueue:  "Review Queue",
	SectionReferences:   "References",
	SectionSomedayMaybe: "Someday/Maybe",
	SectionNotes:        "Notes",
}

// canonicalOrder fixes the relative position of known sections in a document.
var canonicalOrder = []Section{
	SectionActivityLog,
	SectionActionItems,
	SectionReviewQueue,
	SectionReferences,
	SectionSomedayMaybe,
	SectionNotes,
}

// SectionOrder returns the canonical section order.
func SectionOrder() []Section {
	out := make([]Section, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// Valid reports whether s names a known section kind.
func (s Section) Valid() bool {
	_, ok := sectionTitles[s]
	return ok
}

// Title returns the header text rendered for the section.
func (s Section) Title() string {
	if title, ok := sectionTitles[s]; ok {
		return title
	}
	return string(s)
}

// rank returns the canonical position of s; unknown sections rank last.
func (s Section) rank() int {
	for i, kind := range canonicalOrder {
		if kind == s {
			return i
		}
	}
	return len(canonicalOrder)
}

// SectionForHeader resolves a raw header text to a section kind. Matching is
// case-insensitive and accepts both the rendered title and the kind slug.
func SectionForHeader(header string) (Section, bool) {
	normalized := strings.ToLower(strings.TrimSpace(header))
	if normalized == "" {
		return "", false
	}
	for kind, title := range sectionTitles {
		if strings.ToLower(title) == normalized {
			return kind, true
		}
	}
	for _, kind := range canonicalOrder {
		if string(kind) == normalized {
			return kind, true
		}
	}
	return "", false
}
