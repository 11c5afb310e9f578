package tracker_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"intake/internal/config"
	"intake/internal/logging"
	"intake/internal/services"
	"intake/internal/testsupport"
	"intake/internal/tracker"
)

func healthBody() string {
	return testsupport.DocumentBody("health", "Health", "personal",
		"## Activity Log\n\n- 2026-08-20 09:00 Morning run\n")
}

func seedBasicVault(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	testsupport.SeedVault(t, cfg,
		testsupport.TrackerFixture{Tag: "health", Name: "Health", Context: "personal", Body: healthBody()},
		testsupport.TrackerFixture{Tag: "project-55", Name: "Auth Revamp", Context: "project"},
		testsupport.TrackerFixture{Tag: "inbox", Context: "system", Missing: true},
	)
	return cfg
}

func TestOpenLoadsRegisteredTrackers(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	tags := store.Tags()
	want := []string{"health", "project-55", "inbox"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", tags, want)
		}
	}

	health, ok := store.GetByTag("  HEALTH ")
	if !ok {
		t.Fatal("expected health tracker to resolve case-insensitively")
	}
	if health.Name != "Health" {
		t.Errorf("health name = %q, want %q (from frontmatter)", health.Name, "Health")
	}
	if health.Context != tracker.CategoryPersonal {
		t.Errorf("health context = %q, want personal", health.Context)
	}

	inbox, ok := store.GetByTag("inbox")
	if !ok {
		t.Fatal("expected inbox tracker despite missing backing file")
	}
	if inbox.Name != "Inbox" {
		t.Errorf("inbox name = %q, want derived display name", inbox.Name)
	}
}

func TestOpenSkipsInactiveTrackers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inactive := false
	testsupport.SeedVault(t, cfg,
		testsupport.TrackerFixture{Tag: "health", Context: "personal"},
		testsupport.TrackerFixture{Tag: "archived", Context: "personal", Active: &inactive},
	)
	store := testsupport.MustOpenStore(t, cfg)

	if _, ok := store.GetByTag("archived"); ok {
		t.Fatal("inactive tracker should not load")
	}
	if tags := store.Tags(); len(tags) != 1 || tags[0] != "health" {
		t.Fatalf("tags = %v, want [health]", tags)
	}
}

func TestOpenSkipsUnparseableDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedVault(t, cfg,
		testsupport.TrackerFixture{Tag: "broken", Context: "personal", Body: "---\ntag: broken\n"},
		testsupport.TrackerFixture{Tag: "health", Context: "personal"},
	)
	store := testsupport.MustOpenStore(t, cfg)

	if _, ok := store.GetByTag("broken"); ok {
		t.Fatal("unparseable document should be skipped")
	}
	if _, ok := store.GetByTag("health"); !ok {
		t.Fatal("healthy tracker should still load")
	}
}

func TestGetByContextFilters(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	projects := store.GetByContext(tracker.CategoryProject)
	if len(projects) != 1 || projects[0].Tag != "project-55" {
		t.Fatalf("project trackers = %v", tagsOf(projects))
	}

	all := store.GetByContext("")
	if len(all) != 3 {
		t.Fatalf("all trackers = %v, want 3", tagsOf(all))
	}
}

func tagsOf(trackers []*tracker.Tracker) []string {
	out := make([]string, len(trackers))
	for i, t := range trackers {
		out[i] = t.Tag
	}
	return out
}

func TestAppendItemWritesEntry(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.AppendItem("health", "- 2026-08-23 10:00 Walked 5k", tracker.SectionActivityLog); err != nil {
		t.Fatalf("AppendItem: %v", err)
	}

	health, _ := store.GetByTag("health")
	data, err := os.ReadFile(health.Path)
	if err != nil {
		t.Fatalf("read tracker file: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "- 2026-08-20 09:00 Morning run\n- 2026-08-23 10:00 Walked 5k\n") {
		t.Fatalf("new activity entry should follow the older one:\n%s", got)
	}

	entries := health.Document().SectionEntries(tracker.SectionActivityLog)
	if len(entries) != 2 || entries[1] != "2026-08-23 10:00 Walked 5k" {
		t.Fatalf("in-memory document not updated: %v", entries)
	}
}

func TestAppendItemCreatesMissingDocument(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.AppendItem("inbox", "- [?] 2026-08-23 10:00 Orphan capture", tracker.SectionReviewQueue); err != nil {
		t.Fatalf("AppendItem: %v", err)
	}

	inbox, _ := store.GetByTag("inbox")
	data, err := os.ReadFile(inbox.Path)
	if err != nil {
		t.Fatalf("tracker file should exist after first append: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "tag: inbox") {
		t.Errorf("created document missing frontmatter tag:\n%s", got)
	}
	if !strings.Contains(got, "## Review Queue\n\n- [?] 2026-08-23 10:00 Orphan capture\n") {
		t.Errorf("created document missing review queue entry:\n%s", got)
	}
}

func TestAppendItemUnknownTracker(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	err := store.AppendItem("nope", "- entry", tracker.SectionNotes)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAppendItemRejectsBadInput(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.AppendItem("health", "- entry", tracker.Section("bogus")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("unknown section err = %v, want ErrValidation", err)
	}
	if err := store.AppendItem("health", "  \n ", tracker.SectionNotes); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty line err = %v, want ErrValidation", err)
	}
}

func TestAppendItemFlattensNewlines(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.AppendItem("health", "- 2026-08-23 multi\nline entry", tracker.SectionNotes); err != nil {
		t.Fatalf("AppendItem: %v", err)
	}

	health, _ := store.GetByTag("health")
	data, _ := os.ReadFile(health.Path)
	if !strings.Contains(string(data), "- 2026-08-23 multi line entry") {
		t.Fatalf("newlines should flatten to spaces:\n%s", data)
	}
}

func TestAppendItemPreservesOutOfBandEdits(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	health, _ := store.GetByTag("health")
	edited := healthBody() + "\n## Notes\n\n- note added outside the process\n"
	if err := os.WriteFile(health.Path, []byte(edited), 0o644); err != nil {
		t.Fatalf("external edit: %v", err)
	}

	if err := store.AppendItem("health", "- 2026-08-23 10:00 Walked 5k", tracker.SectionActivityLog); err != nil {
		t.Fatalf("AppendItem: %v", err)
	}

	data, _ := os.ReadFile(health.Path)
	got := string(data)
	if !strings.Contains(got, "- note added outside the process") {
		t.Fatalf("out-of-band edit lost:\n%s", got)
	}
	if !strings.Contains(got, "- 2026-08-23 10:00 Walked 5k") {
		t.Fatalf("appended entry missing:\n%s", got)
	}
}

func TestOpenFailsWhenVaultLocked(t *testing.T) {
	cfg := seedBasicVault(t)
	testsupport.MustOpenStore(t, cfg)

	second, err := tracker.Open(cfg, logging.NewNop())
	if err == nil {
		_ = second.Close()
		t.Fatal("expected second open on the same vault to fail")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestCloseReleasesVaultLock(t *testing.T) {
	cfg := seedBasicVault(t)

	first, err := tracker.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := tracker.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("open after close: %v", err)
	}
	_ = second.Close()
}

func TestRefreshPicksUpRegistryChanges(t *testing.T) {
	cfg := seedBasicVault(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedVault(t, cfg,
		testsupport.TrackerFixture{Tag: "health", Name: "Health", Context: "personal", Body: healthBody()},
		testsupport.TrackerFixture{Tag: "project-55", Name: "Auth Revamp", Context: "project"},
		testsupport.TrackerFixture{Tag: "inbox", Context: "system", Missing: true},
		testsupport.TrackerFixture{Tag: "reading", Context: "personal"},
	)

	if err := store.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, ok := store.GetByTag("reading"); !ok {
		t.Fatal("refresh should pick up newly registered tracker")
	}
}
