// Package tracker implements the document store: the tracker registry, the
// markdown document model, and structural writes.
//
// A tracker is one markdown file with a YAML frontmatter metadata block and a
// sectioned body. The store loads every active registry entry at startup,
// holds the vault's single-writer lock, and serves reads from memory. Every
// write re-reads the backing file in full, inserts the new entry into the
// correct section (creating the section in canonical order when absent), and
// flushes the whole document atomically via a temp file rename. Unknown
// frontmatter keys, unknown sections, and free prose survive rewrites
// verbatim.
package tracker
