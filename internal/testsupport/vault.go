package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"intake/internal/config"
)

// TrackerFixture describes one registry entry and optional document body for
// a seeded test vault.
type TrackerFixture struct {
	Tag     string
	Name    string
	Context string
	Path    string // relative to the vault dir; defaults to <tag>.md
	Active  *bool  // nil means active
	Missing bool   // registry entry only, no backing file
	Body    string // raw document contents; empty writes a frontmatter-only file
}

// SeedVault writes a registry and tracker documents under the config's vault
// directory.
func SeedVault(t testing.TB, cfg *config.Config, fixtures ...TrackerFixture) {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.VaultDir, 0o755); err != nil {
		t.Fatalf("mkdir vault: %v", err)
	}

	var registry bytes.Buffer
	registry.WriteString("trackers:\n")
	for _, fixture := range fixtures {
		docPath := fixture.Path
		if docPath == "" {
			docPath = fixture.Tag + ".md"
		}
		fmt.Fprintf(&registry, "  - tag: %s\n", fixture.Tag)
		fmt.Fprintf(&registry, "    path: %s\n", docPath)
		if fixture.Context != "" {
			fmt.Fprintf(&registry, "    context: %s\n", fixture.Context)
		}
		if fixture.Active != nil {
			fmt.Fprintf(&registry, "    active: %t\n", *fixture.Active)
		}

		if fixture.Missing {
			continue
		}
		body := fixture.Body
		if body == "" {
			body = DocumentBody(fixture.Tag, fixture.Name, fixture.Context, "")
		}
		target := filepath.Join(cfg.Paths.VaultDir, docPath)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatalf("mkdir tracker dir: %v", err)
		}
		if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
			t.Fatalf("write tracker %s: %v", fixture.Tag, err)
		}
	}

	if err := os.WriteFile(cfg.Paths.RegistryPath, registry.Bytes(), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
}

// DocumentBody renders a minimal tracker document: frontmatter plus an
// optional pre-rendered body appended after a blank line.
func DocumentBody(tag, name, context, body string) string {
	var b bytes.Buffer
	b.WriteString("---\n")
	fmt.Fprintf(&b, "tag: %s\n", tag)
	if name != "" {
		fmt.Fprintf(&b, "name: %s\n", name)
	}
	if context != "" {
		fmt.Fprintf(&b, "context: %s\n", context)
	}
	b.WriteString("active: true\n")
	b.WriteString("---\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}
