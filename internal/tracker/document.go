package tracker

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Metadata holds the recognized frontmatter keys of a tracker document.
// Unknown keys are preserved verbatim through parse/render cycles.
type Metadata struct {
	Tag     string `yaml:"tag"`
	Name    string `yaml:"name,omitempty"`
	Context string `yaml:"context,omitempty"`
	Active  *bool  `yaml:"active,omitempty"`
}

// bodySection is one "## " headed region of the document body.
type bodySection struct {
	kind   Section // empty when the header is not a recognized section
	header string  // raw header text without the "## " marker
	lines  []string
}

// Document is the parsed in-memory form of one tracker file. Rendering a
// parsed document reproduces its text; entry insertion is the only mutation.
type Document struct {
	hasFrontmatter bool
	frontmatter    []string // raw lines between the --- markers
	meta           Metadata
	preamble       []string // body lines before the first section header
	sections       []*bodySection
}

// NewDocument builds an empty document carrying only a frontmatter block.
// Used when a registry entry's backing file does not exist yet.
func NewDocument(meta Metadata) *Document {
	return &Document{
		hasFrontmatter: true,
		frontmatter:    renderFrontmatter(meta),
		meta:           meta,
	}
}

// ParseDocument parses raw tracker file contents.
func ParseDocument(data []byte) (*Document, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	// Split turns a trailing newline into a final empty element; drop it so
	// render can reattach exactly one.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	doc := &Document{}
	idx := 0

	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		closing := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				closing = i
				break
			}
		}
		if closing < 0 {
			return nil, fmt.Errorf("frontmatter block not terminated")
		}
		doc.hasFrontmatter = true
		doc.frontmatter = append(doc.frontmatter, lines[1:closing]...)
		if err := yaml.Unmarshal([]byte(strings.Join(doc.frontmatter, "\n")), &doc.meta); err != nil {
			return nil, fmt.Errorf("parse frontmatter: %w", err)
		}
		idx = closing + 1
	}

	var current *bodySection
	for ; idx < len(lines); idx++ {
		line := lines[idx]
		if strings.HasPrefix(line, "## ") {
			header := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			kind, _ := SectionForHeader(header)
			current = &bodySection{kind: kind, header: header}
			doc.sections = append(doc.sections, current)
			continue
		}
		if current != nil {
			current.lines = append(current.lines, line)
		} else {
			doc.preamble = append(doc.preamble, line)
		}
	}

	return doc, nil
}

// Meta returns the parsed frontmatter metadata.
func (d *Document) Meta() Metadata {
	return d.meta
}

// Render reproduces the document as file contents.
func (d *Document) Render() []byte {
	var lines []string
	if d.hasFrontmatter {
		lines = append(lines, "---")
		lines = append(lines, d.frontmatter...)
		lines = append(lines, "---")
	}
	lines = append(lines, d.preamble...)
	for _, sec := range d.sections {
		lines = append(lines, "## "+sec.header)
		lines = append(lines, sec.lines...)
	}
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Insert places an entry line into the named section, creating the section
// in canonical position when absent. Activity-log entries keep chronological
// order; all other entries go immediately under the section header.
func (d *Document) Insert(kind Section, entry string) {
	sec := d.findSection(kind)
	if sec == nil {
		d.createSection(kind, entry)
		return
	}
	if kind == SectionActivityLog {
		sec.insertChronological(entry)
		return
	}
	sec.insertAtTop(entry)
}

// SectionEntries returns a section's top-level entry lines without the list
// marker, in document order. Nil when the section is absent.
func (d *Document) SectionEntries(kind Section) []string {
	sec := d.findSection(kind)
	if sec == nil {
		return nil
	}
	var out []string
	for _, line := range sec.lines {
		if isEntryLine(line) {
			out = append(out, strings.TrimPrefix(line, "- "))
		}
	}
	return out
}

// PlainText returns the body text of the document for keyword derivation.
func (d *Document) PlainText() string {
	var b strings.Builder
	for _, line := range d.preamble {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, sec := range d.sections {
		for _, line := range sec.lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (d *Document) findSection(kind Section) *bodySection {
	for _, sec := range d.sections {
		if sec.kind == kind {
			return sec
		}
	}
	return nil
}

// createSection materializes a missing section in canonical position with one
// blank line before and after its header and the entry directly following.
func (d *Document) createSection(kind Section, entry string) {
	sec := &bodySection{kind: kind, header: kind.Title(), lines: []string{"", entry}}

	pos := len(d.sections)
	for i, existing := range d.sections {
		if existing.kind.Valid() && existing.kind.rank() > kind.rank() {
			pos = i
			break
		}
	}

	if pos == 0 {
		if d.hasFrontmatter || len(d.preamble) > 0 {
			d.preamble = withSingleTrailingBlank(d.preamble)
		}
	} else {
		prev := d.sections[pos-1]
		prev.lines = withSingleTrailingBlank(prev.lines)
	}
	if pos < len(d.sections) {
		sec.lines = append(sec.lines, "")
	}

	d.sections = append(d.sections, nil)
	copy(d.sections[pos+1:], d.sections[pos:])
	d.sections[pos] = sec
}

// insertAtTop places the entry before the first existing entry, or directly
// after the header (and its following blank) when the section has none.
func (s *bodySection) insertAtTop(entry string) {
	for i, line := range s.lines {
		if isEntryLine(line) {
			s.lines = insertLineAt(s.lines, i, entry)
			return
		}
	}
	idx := 0
	if idx < len(s.lines) && strings.TrimSpace(s.lines[idx]) == "" {
		idx++
	}
	s.lines = insertLineAt(s.lines, idx, entry)
}

// insertChronological keeps activity entries ordered oldest first by their
// leading date stamp. Entries without a parseable stamp sort as oldest and
// keep their relative order; equal stamps insert after existing equals.
func (s *bodySection) insertChronological(entry string) {
	when, _ := entryTimestamp(entry)

	insertIdx := -1
	lastEntry := -1
	for i, line := range s.lines {
		if !isEntryLine(line) {
			continue
		}
		lastEntry = i
		if insertIdx >= 0 {
			continue
		}
		existing, _ := entryTimestamp(line)
		if existing.After(when) {
			insertIdx = i
		}
	}

	if insertIdx < 0 {
		if lastEntry >= 0 {
			insertIdx = lastEntry + 1
		} else {
			insertIdx = 0
			if insertIdx < len(s.lines) && strings.TrimSpace(s.lines[insertIdx]) == "" {
				insertIdx++
			}
		}
	}
	s.lines = insertLineAt(s.lines, insertIdx, entry)
}

// isEntryLine reports whether the line is a top-level list entry. Indented
// markers belong to their parent entry and are left untouched.
func isEntryLine(line string) bool {
	return strings.HasPrefix(line, "- ")
}

// entryTimestamp parses the leading "YYYY-MM-DD" or "YYYY-MM-DD HH:MM" stamp
// of an entry line, skipping an optional "[x]" style status marker.
func entryTimestamp(line string) (time.Time, bool) {
	if !isEntryLine(line) {
		return time.Time{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "- "))
	if strings.HasPrefix(rest, "[") {
		if end := strings.Index(rest, "]"); end >= 1 && end <= 3 {
			rest = strings.TrimSpace(rest[end+1:])
		}
	}
	if len(rest) >= 16 {
		if t, err := time.Parse("2006-01-02 15:04", rest[:16]); err == nil {
			return t, true
		}
	}
	if len(rest) >= 10 {
		if t, err := time.Parse("2006-01-02", rest[:10]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func insertLineAt(lines []string, idx int, line string) []string {
	lines = append(lines, "")
	copy(lines[idx+1:], lines[idx:])
	lines[idx] = line
	return lines
}

// withSingleTrailingBlank trims trailing blank lines down to exactly one.
func withSingleTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return append(lines, "")
}

func renderFrontmatter(meta Metadata) []string {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return []string{"tag: " + meta.Tag}
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return lines
}
