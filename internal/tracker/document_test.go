package tracker_test

import (
	"strings"
	"testing"

	"intake/internal/tracker"
)

const roundTripDoc = `---
tag: project-55
name: Auth Revamp
context: project
active: true
owner: sam
---

Intro paragraph kept verbatim.

## Action Items

- [ ] 2026-08-10 [high] Ship login flow
  - sub-point stays nested

## Journal

Free prose block.

## Notes

- plain note
`

func TestParseRenderRoundTrip(t *testing.T) {
	doc, err := tracker.ParseDocument([]byte(roundTripDoc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if got := string(doc.Render()); got != roundTripDoc {
		t.Fatalf("round trip mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, roundTripDoc)
	}

	meta := doc.Meta()
	if meta.Tag != "project-55" || meta.Name != "Auth Revamp" || meta.Context != "project" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.Active == nil || !*meta.Active {
		t.Fatalf("expected active true, got %+v", meta.Active)
	}
}

func TestParseRejectsUnterminatedFrontmatter(t *testing.T) {
	if _, err := tracker.ParseDocument([]byte("---\ntag: broken\n")); err == nil {
		t.Fatal("expected error for unterminated frontmatter")
	}
}

func TestParseRejectsMalformedFrontmatter(t *testing.T) {
	if _, err := tracker.ParseDocument([]byte("---\ntag: [unclosed\n---\n")); err == nil {
		t.Fatal("expected error for malformed frontmatter yaml")
	}
}

func TestInsertCreatesSectionAfterExistingContent(t *testing.T) {
	source := `---
tag: health
active: true
---

## Activity Log

- 2026-08-20 09:00 Morning run
`
	doc, err := tracker.ParseDocument([]byte(source))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActionItems, "- [ ] 2026-08-23 [high] Book dentist")

	want := source + `
## Action Items

- [ ] 2026-08-23 [high] Book dentist
`
	if got := string(doc.Render()); got != want {
		t.Fatalf("unexpected render:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestInsertCreatesSectionBeforeLaterCanonicalSection(t *testing.T) {
	source := `## Notes

Some prose.
`
	doc, err := tracker.ParseDocument([]byte(source))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActivityLog, "- 2026-08-23 10:00 Logged")

	want := `## Activity Log

- 2026-08-23 10:00 Logged

## Notes

Some prose.
`
	if got := string(doc.Render()); got != want {
		t.Fatalf("unexpected render:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestInsertCreatesSectionBetweenCanonicalNeighbors(t *testing.T) {
	source := `## Activity Log

- 2026-08-20 09:00 Older entry

## References

- 2026-08-19 A link
`
	doc, err := tracker.ParseDocument([]byte(source))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionReviewQueue, "- [?] 2026-08-23 10:00 Check me")

	want := `## Activity Log

- 2026-08-20 09:00 Older entry

## Review Queue

- [?] 2026-08-23 10:00 Check me

## References

- 2026-08-19 A link
`
	if got := string(doc.Render()); got != want {
		t.Fatalf("unexpected render:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestInsertSkipsUnknownSectionsWhenPositioning(t *testing.T) {
	source := `## Activity Log

- 2026-08-20 09:00 Entry

## Journal

Custom prose stays put.

## Notes

- a note
`
	doc, err := tracker.ParseDocument([]byte(source))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActionItems, "- [ ] 2026-08-23 New action")

	got := string(doc.Render())
	journalIdx := strings.Index(got, "## Journal")
	actionIdx := strings.Index(got, "## Action Items")
	notesIdx := strings.Index(got, "## Notes")
	if journalIdx < 0 || actionIdx < 0 || notesIdx < 0 {
		t.Fatalf("missing sections in render:\n%s", got)
	}
	if !(journalIdx < actionIdx && actionIdx < notesIdx) {
		t.Fatalf("expected action items between journal and notes:\n%s", got)
	}
	if !strings.Contains(got, "Custom prose stays put.") {
		t.Fatalf("unknown section content lost:\n%s", got)
	}
}

func TestInsertIntoEmptyDocumentCreatesFirstSection(t *testing.T) {
	doc, err := tracker.ParseDocument(nil)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionReviewQueue, "- [?] 2026-08-23 10:00 Orphan")

	want := `## Review Queue

- [?] 2026-08-23 10:00 Orphan
`
	if got := string(doc.Render()); got != want {
		t.Fatalf("unexpected render:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestInsertActionGoesDirectlyUnderHeader(t *testing.T) {
	source := `## Action Items

- [ ] 2026-08-10 Old action
- [ ] 2026-08-12 Another old action
`
	doc, err := tracker.ParseDocument([]byte(source))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActionItems, "- [ ] 2026-08-23 Newest action")

	want := `## Action Items

- [ ] 2026-08-23 Newest action
- [ ] 2026-08-10 Old action
- [ ] 2026-08-12 Another old action
`
	if got := string(doc.Render()); got != want {
		t.Fatalf("unexpected render:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestActivityInsertsStayChronological(t *testing.T) {
	doc, err := tracker.ParseDocument(nil)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActivityLog, "- 2026-08-22 10:00 Second")
	doc.Insert(tracker.SectionActivityLog, "- 2026-08-20 08:00 First")
	doc.Insert(tracker.SectionActivityLog, "- 2026-08-21 12:00 Middle")
	doc.Insert(tracker.SectionActivityLog, "- 2026-08-23 07:30 Last")

	entries := doc.SectionEntries(tracker.SectionActivityLog)
	want := []string{
		"2026-08-20 08:00 First",
		"2026-08-21 12:00 Middle",
		"2026-08-22 10:00 Second",
		"2026-08-23 07:30 Last",
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, entries[i], want[i])
		}
	}
}

func TestActivityEqualStampsInsertAfterExisting(t *testing.T) {
	doc, err := tracker.ParseDocument(nil)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActivityLog, "- 2026-08-21 09:00 First written")
	doc.Insert(tracker.SectionActivityLog, "- 2026-08-21 09:00 Second written")

	entries := doc.SectionEntries(tracker.SectionActivityLog)
	if len(entries) != 2 || entries[0] != "2026-08-21 09:00 First written" {
		t.Fatalf("equal stamps should keep arrival order, got %v", entries)
	}
}

func TestActivityUnstampedEntriesSortOldest(t *testing.T) {
	source := `## Activity Log

- handwritten note without a date
- 2026-08-22 10:00 Stamped
`
	doc, err := tracker.ParseDocument([]byte(source))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActivityLog, "- 2026-08-20 09:00 Early")

	entries := doc.SectionEntries(tracker.SectionActivityLog)
	want := []string{
		"handwritten note without a date",
		"2026-08-20 09:00 Early",
		"2026-08-22 10:00 Stamped",
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entries = %v, want %v", entries, want)
		}
	}
}

func TestActivityDateOnlyStampsParse(t *testing.T) {
	doc, err := tracker.ParseDocument(nil)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActivityLog, "- 2026-08-22 Date only later")
	doc.Insert(tracker.SectionActivityLog, "- 2026-08-20 Date only earlier")

	entries := doc.SectionEntries(tracker.SectionActivityLog)
	if entries[0] != "2026-08-20 Date only earlier" {
		t.Fatalf("date-only stamps should order chronologically, got %v", entries)
	}
}

func TestInsertPreservesNestedListLines(t *testing.T) {
	source := `## Action Items

- [ ] 2026-08-10 Parent action
  - nested detail line
`
	doc, err := tracker.ParseDocument([]byte(source))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc.Insert(tracker.SectionActionItems, "- [ ] 2026-08-23 New action")

	got := string(doc.Render())
	if !strings.Contains(got, "- [ ] 2026-08-23 New action\n- [ ] 2026-08-10 Parent action\n  - nested detail line") {
		t.Fatalf("nested lines must stay attached to their parent:\n%s", got)
	}
}

func TestNewDocumentRendersFrontmatter(t *testing.T) {
	active := true
	doc := tracker.NewDocument(tracker.Metadata{
		Tag:     "inbox",
		Name:    "Inbox",
		Context: "system",
		Active:  &active,
	})
	doc.Insert(tracker.SectionReviewQueue, "- [?] 2026-08-23 10:00 First entry")

	want := `---
tag: inbox
name: Inbox
context: system
active: true
---

## Review Queue

- [?] 2026-08-23 10:00 First entry
`
	if got := string(doc.Render()); got != want {
		t.Fatalf("unexpected render:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestSectionForHeader(t *testing.T) {
	tests := []struct {
		header string
		want   tracker.Section
		ok     bool
	}{
		{"Activity Log", tracker.SectionActivityLog, true},
		{"activity log", tracker.SectionActivityLog, true},
		{"someday/maybe", tracker.SectionSomedayMaybe, true},
		{"someday-maybe", tracker.SectionSomedayMaybe, true},
		{"Review Queue", tracker.SectionReviewQueue, true},
		{"Journal", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := tracker.SectionForHeader(tt.header)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("SectionForHeader(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
