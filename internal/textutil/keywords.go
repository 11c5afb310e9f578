package textutil

import (
	"regexp"
	"sort"
	"strings"
)

// hashtagPattern matches explicit #tag markers in raw text.
var hashtagPattern = regexp.MustCompile(`(?:^|[^0-9A-Za-z&])#([0-9A-Za-z][0-9A-Za-z_-]*)`)

// ExtractHashtags returns lowercase hashtag bodies in first-seen order,
// deduplicated, without the leading '#'.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, match := range matches {
		tag := strings.ToLower(match[1])
		if len(tag) < 2 {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Keywords derives up to max ranked keywords from text. Explicit hashtags
// come first in their order of appearance; remaining slots are filled with
// the most frequent non-stop-word tokens, ties broken by first appearance.
func Keywords(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	keywords := make([]string, 0, max)
	used := make(map[string]struct{}, max)
	for _, tag := range ExtractHashtags(text) {
		if len(keywords) >= max {
			return keywords
		}
		if _, ok := used[tag]; ok {
			continue
		}
		used[tag] = struct{}{}
		keywords = append(keywords, tag)
	}

	type ranked struct {
		token string
		count int
		first int
	}
	var order []ranked
	index := make(map[string]int)
	for position, token := range Tokenize(text) {
		if IsStopWord(token) {
			continue
		}
		if _, ok := used[token]; ok {
			continue
		}
		if at, ok := index[token]; ok {
			order[at].count++
			continue
		}
		index[token] = len(order)
		order = append(order, ranked{token: token, count: 1, first: position})
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	for _, entry := range order {
		if len(keywords) >= max {
			break
		}
		keywords = append(keywords, entry.token)
	}
	return keywords
}
