package reviewlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"intake/internal/config"
	"intake/internal/logging"
)

const component = "reviewlog"

// defaultQueryLimit bounds Recent and Search when the caller passes no limit.
const defaultQueryLimit = 20

// Store manages capture-history persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the review log database.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("review log requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, component)

	path := cfg.Paths.ReviewLogPath
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("review log path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create review log directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open review log db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logger}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the backing database path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Record inserts one capture outcome.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return errors.New("record capture: id required")
	}
	if strings.TrimSpace(entry.Disposition) == "" {
		return errors.New("record capture: disposition required")
	}
	capturedAt := entry.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO captures (
            id, captured_at, input_text, input_type, primary_tracker,
            confidence, requires_review, success, disposition, error_message,
            items_placed, items_failed
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		capturedAt.UTC().Format(time.RFC3339Nano),
		entry.InputText,
		entry.InputType,
		nullableString(entry.PrimaryTracker),
		entry.Confidence,
		boolToInt(entry.RequiresReview),
		boolToInt(entry.Success),
		entry.Disposition,
		nullableString(entry.Error),
		entry.ItemsPlaced,
		entry.ItemsFailed,
	)
	if err != nil {
		return fmt.Errorf("record capture: %w", err)
	}

	s.logger.Debug("capture outcome recorded",
		logging.String(logging.FieldCaptureID, entry.ID),
		logging.String("disposition", entry.Disposition))
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM captures ORDER BY captured_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent captures: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Search returns entries whose input text or primary tracker matches the
// term, most recent first.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]Entry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.Recent(ctx, limit)
	}
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	pattern := "%" + term + "%"
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM captures
         WHERE input_text LIKE ? OR primary_tracker LIKE ?
         ORDER BY captured_at DESC, id DESC LIMIT ?`,
		pattern,
		pattern,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search captures: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// TotalsByDisposition returns a count of captures grouped by disposition.
func (s *Store) TotalsByDisposition(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT disposition, COUNT(1) FROM captures GROUP BY disposition`)
	if err != nil {
		return nil, fmt.Errorf("capture totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var disposition string
		var count int
		if err := rows.Scan(&disposition, &count); err != nil {
			return nil, err
		}
		totals[disposition] = count
	}
	return totals, rows.Err()
}

// Stats aggregates capture totals for diagnostic output.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	totals, err := s.TotalsByDisposition(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{}
	for disposition, count := range totals {
		stats.Total += count
		switch disposition {
		case "routed":
			stats.Routed += count
		case "review":
			stats.Review += count
		case "emergency":
			stats.Emergency += count
		case "failed":
			stats.Failed += count
		}
	}
	return stats, nil
}

const entryColumns = "id, captured_at, input_text, input_type, primary_tracker, confidence, requires_review, success, disposition, error_message, items_placed, items_failed"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry          Entry
		capturedRaw    string
		primaryTracker sql.NullString
		requiresReview sql.NullInt64
		success        sql.NullInt64
		errorMessage   sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&capturedRaw,
		&entry.InputText,
		&entry.InputType,
		&primaryTracker,
		&entry.Confidence,
		&requiresReview,
		&success,
		&entry.Disposition,
		&errorMessage,
		&entry.ItemsPlaced,
		&entry.ItemsFailed,
	); err != nil {
		return Entry{}, err
	}
	entry.PrimaryTracker = primaryTracker.String
	entry.RequiresReview = requiresReview.Valid && requiresReview.Int64 != 0
	entry.Success = success.Valid && success.Int64 != 0
	entry.Error = errorMessage.String
	if captured, err := parseTimeString(capturedRaw); err == nil {
		entry.CapturedAt = captured
	}
	return entry, nil
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
