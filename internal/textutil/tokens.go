package textutil

import (
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize splits text into lowercase tokens, filtering short tokens.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if len(token) < 3 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// stopWords are common English terms excluded from keyword ranking.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "any": {}, "can": {}, "had": {}, "her": {},
	"was": {}, "one": {}, "our": {}, "out": {}, "has": {}, "him": {},
	"his": {}, "how": {}, "its": {}, "may": {}, "new": {}, "now": {},
	"old": {}, "see": {}, "two": {}, "who": {}, "did": {}, "get": {},
	"with": {}, "this": {}, "that": {}, "from": {}, "they": {}, "have": {},
	"been": {}, "were": {}, "said": {}, "each": {}, "which": {}, "their": {},
	"will": {}, "would": {}, "there": {}, "what": {}, "about": {}, "when": {},
	"then": {}, "them": {}, "these": {}, "some": {}, "into": {}, "more": {},
	"also": {}, "just": {}, "over": {}, "such": {}, "only": {}, "very": {},
	"need": {}, "needs": {}, "todo": {}, "done": {}, "item": {}, "note": {},
	"notes": {}, "today": {}, "tomorrow": {}, "yesterday": {},
}

// IsStopWord reports whether the token is excluded from keyword ranking.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}
