// Package reviewlog persists one row per capture outcome in SQLite so the
// review queue can be searched and summarized later.
//
// The store is advisory: the capture pipeline records outcomes after
// resolution and treats recording failures as log-worthy, never fatal.
// Supports Record, Recent, Search (LIKE over input text and tracker), and
// Stats (totals by disposition).
package reviewlog
