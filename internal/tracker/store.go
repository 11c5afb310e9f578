package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"intake/internal/config"
	"intake/internal/fileutil"
	"intake/internal/logging"
	"intake/internal/services"
)

const component = "tracker"

// lockFilename is the vault's single-writer lock file.
const lockFilename = ".intake.lock"

// Tracker is one loaded document plus its registry metadata.
type Tracker struct {
	Tag        string
	Name       string
	Context    Category
	Collection string
	Priority   int
	Path       string

	doc *Document
}

// Document returns the tracker's in-memory document.
func (t *Tracker) Document() *Document {
	return t.doc
}

// Store owns the loaded trackers and the vault lock. Reads are served from
// memory; writes go through AppendItem, which re-reads the backing file.
type Store struct {
	cfg      *config.Config
	logger   *slog.Logger
	lock     *flock.Flock
	lockPath string

	order    []string
	trackers map[string]*Tracker
}

// Open reads the registry, acquires the vault lock, and loads every active
// tracker document. A second store on the same vault fails fast.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("tracker store requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, component)

	if err := os.MkdirAll(cfg.Paths.VaultDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "open",
			fmt.Sprintf("create vault directory %s", cfg.Paths.VaultDir), err)
	}

	lockPath := filepath.Join(cfg.Paths.VaultDir, lockFilename)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "open",
			"acquire vault lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, component, "open",
			fmt.Sprintf("another intake process holds the vault lock at %s", lockPath), nil)
	}

	store := &Store{
		cfg:      cfg,
		logger:   logger,
		lock:     lock,
		lockPath: lockPath,
	}
	if err := store.load(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the vault lock.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release vault lock: %w", err)
	}
	return nil
}

// Refresh re-reads the registry and every document, discarding in-memory
// state. The vault lock is retained across the reload.
func (s *Store) Refresh() error {
	return s.load()
}

func (s *Store) load() error {
	entries, err := LoadRegistry(s.cfg.Paths.RegistryPath, s.logger)
	if err != nil {
		return err
	}

	order := make([]string, 0, len(entries))
	trackers := make(map[string]*Tracker, len(entries))
	for _, entry := range entries {
		if !entry.Active {
			s.logger.Debug("skipping inactive tracker",
				logging.String(logging.FieldTracker, entry.Tag))
			continue
		}

		path := entry.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.cfg.Paths.VaultDir, path)
		}

		doc, err := s.readDocumentFile(path, entry)
		if err != nil {
			s.logger.Warn("skipping unreadable tracker document",
				logging.String(logging.FieldTracker, entry.Tag),
				logging.String("path", path),
				logging.Error(err))
			continue
		}

		name := strings.TrimSpace(doc.Meta().Name)
		if name == "" {
			name = DisplayName(entry.Tag)
		}

		trackers[entry.Tag] = &Tracker{
			Tag:        entry.Tag,
			Name:       name,
			Context:    entry.Context,
			Collection: entry.Collection,
			Priority:   entry.Priority,
			Path:       path,
			doc:        doc,
		}
		order = append(order, entry.Tag)
	}

	s.order = order
	s.trackers = trackers
	s.logger.Info("tracker documents loaded",
		logging.Int("trackers", len(order)),
		logging.String("registry", s.cfg.Paths.RegistryPath))
	return nil
}

// readDocumentFile reads and parses one backing file. A missing file yields
// an empty document seeded from the registry entry; it is written on the
// first successful append.
func (s *Store) readDocumentFile(path string, entry RegistryEntry) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDocument(metadataFor(entry)), nil
		}
		return nil, services.Wrap(services.ErrTransient, component, "read_document",
			fmt.Sprintf("read %s", path), err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, component, "read_document",
			fmt.Sprintf("parse %s", path), err)
	}
	return doc, nil
}

func metadataFor(entry RegistryEntry) Metadata {
	active := true
	return Metadata{
		Tag:     entry.Tag,
		Name:    DisplayName(entry.Tag),
		Context: string(entry.Context),
		Active:  &active,
	}
}

// GetByTag returns the loaded tracker for tag.
func (s *Store) GetByTag(tag string) (*Tracker, bool) {
	t, ok := s.trackers[strings.ToLower(strings.TrimSpace(tag))]
	return t, ok
}

// GetByContext returns active trackers in registry order, filtered by
// category. An empty category returns all.
func (s *Store) GetByContext(category Category) []*Tracker {
	out := make([]*Tracker, 0, len(s.order))
	for _, tag := range s.order {
		t := s.trackers[tag]
		if category != "" && t.Context != category {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Tags returns the loaded tracker tags in registry order.
func (s *Store) Tags() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// AppendItem inserts a rendered entry line into the named section of the
// tagged tracker. nil means the entry is on disk; any error means it is not.
// The backing file is re-read in full immediately before the rewrite so
// out-of-band edits survive, and the flush is atomic.
func (s *Store) AppendItem(tag string, renderedLine string, kind Section) error {
	const op = "append_item"

	t, ok := s.GetByTag(tag)
	if !ok {
		return services.Wrap(services.ErrNotFound, component, op,
			fmt.Sprintf("tracker %q not registered", tag), nil)
	}
	if !kind.Valid() {
		return services.Wrap(services.ErrValidation, component, op,
			fmt.Sprintf("unknown section %q", kind), nil)
	}

	line := strings.TrimSpace(strings.ReplaceAll(renderedLine, "\n", " "))
	if line == "" {
		return services.Wrap(services.ErrValidation, component, op,
			"empty entry line", nil)
	}

	doc, err := s.readDocumentFile(t.Path, RegistryEntry{Tag: t.Tag, Context: t.Context})
	if err != nil {
		return err
	}
	doc.Insert(kind, line)

	if err := fileutil.WriteFileAtomic(t.Path, doc.Render(), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, component, op,
			fmt.Sprintf("write tracker %q", t.Tag), err)
	}
	t.doc = doc

	s.logger.Debug("entry placed",
		logging.String(logging.FieldTracker, t.Tag),
		logging.String("section", string(kind)))
	return nil
}
