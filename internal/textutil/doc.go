// Package textutil provides text processing utilities for tokenization and
// keyword extraction.
//
// The primary use cases are:
//   - Tokenizing tracker content into lowercase terms for ranking
//   - Extracting hashtag markers from raw capture text
//   - Deriving a small ranked keyword set for tracker context summaries
//
// The tokenization process lowercases text, splits on non-alphanumeric
// characters, and filters tokens shorter than 3 characters. Keyword ranking
// puts explicit hashtags first, then remaining tokens by frequency with stop
// words excluded.
package textutil
