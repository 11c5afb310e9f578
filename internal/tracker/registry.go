package tracker

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"intake/internal/logging"
	"intake/internal/services"
)

// Category classifies a tracker's area of life.
type Category string

const (
	CategoryBusiness Category = "business"
	CategoryPersonal Category = "personal"
	CategoryProject  Category = "project"
	CategorySystem   Category = "system"
)

// ParseCategory normalizes a raw context value. Unrecognized values resolve
// to CategoryPersonal with ok=false so callers can warn.
func ParseCategory(raw string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryBusiness:
		return CategoryBusiness, true
	case CategoryPersonal:
		return CategoryPersonal, true
	case CategoryProject:
		return CategoryProject, true
	case CategorySystem:
		return CategorySystem, true
	default:
		return CategoryPersonal, false
	}
}

// RegistryEntry describes one tracker the store should load.
type RegistryEntry struct {
	Tag        string
	Path       string
	Collection string
	Priority   int
	Context    Category
	Active     bool
}

type registryEntryYAML struct {
	Tag        string `yaml:"tag"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	Priority   int    `yaml:"priority"`
	Context    string `yaml:"context"`
	Active     *bool  `yaml:"active"`
}

type registryFileYAML struct {
	Trackers []registryEntryYAML `yaml:"trackers"`
}

// LoadRegistry reads the YAML tracker registry. An unreadable or unparseable
// registry is a hard error; individual malformed entries are skipped with a
// warning. Entries keep file order. An absent active key means active.
func LoadRegistry(path string, logger *slog.Logger) ([]RegistryEntry, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "tracker", "load_registry",
			fmt.Sprintf("read registry %s", path), err)
	}

	var parsed registryFileYAML
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "tracker", "load_registry",
			fmt.Sprintf("parse registry %s", path), err)
	}

	entries := make([]RegistryEntry, 0, len(parsed.Trackers))
	seen := make(map[string]struct{}, len(parsed.Trackers))
	for i, raw := range parsed.Trackers {
		tag := strings.ToLower(strings.TrimSpace(raw.Tag))
		docPath := strings.TrimSpace(raw.Path)
		if tag == "" || docPath == "" {
			logger.Warn("skipping registry entry without tag or path",
				logging.Int("index", i))
			continue
		}
		if _, dup := seen[tag]; dup {
			logger.Warn("skipping duplicate registry tag",
				logging.String(logging.FieldTracker, tag))
			continue
		}
		seen[tag] = struct{}{}

		category, known := ParseCategory(raw.Context)
		if !known && strings.TrimSpace(raw.Context) != "" {
			logger.Warn("unknown context category, defaulting to personal",
				logging.String(logging.FieldTracker, tag),
				logging.String("context", raw.Context))
		}

		active := raw.Active == nil || *raw.Active
		entries = append(entries, RegistryEntry{
			Tag:        tag,
			Path:       docPath,
			Collection: strings.TrimSpace(raw.Collection),
			Priority:   raw.Priority,
			Context:    category,
			Active:     active,
		})
	}

	return entries, nil
}
