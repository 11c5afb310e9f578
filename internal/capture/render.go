package capture

import (
	"fmt"
	"strings"
	"time"

	"intake/internal/inference"
)

const (
	stampDate   = "2006-01-02"
	stampMinute = "2006-01-02 15:04"
)

// renderItem produces the entry line for one inferred item. Formats by type:
//
//	action:    - [ ] 2026-03-01 [high] content   (priority tag omitted for medium)
//	activity:  - 2026-03-01 09:30 content
//	review:    - [?] 2026-03-01 09:30 content
//	reference: - 2026-03-01 content
//	someday:   - 2026-03-01 content
func renderItem(item inference.Item, when time.Time) string {
	content := strings.TrimSpace(item.Content)
	switch item.Type {
	case inference.ItemAction:
		if item.Priority == inference.PriorityMedium {
			return fmt.Sprintf("- [ ] %s %s", when.Format(stampDate), content)
		}
		return fmt.Sprintf("- [ ] %s [%s] %s", when.Format(stampDate), item.Priority, content)
	case inference.ItemActivity:
		return fmt.Sprintf("- %s %s", when.Format(stampMinute), content)
	case inference.ItemReference, inference.ItemSomeday:
		return fmt.Sprintf("- %s %s", when.Format(stampDate), content)
	default:
		return fmt.Sprintf("- [?] %s %s", when.Format(stampMinute), content)
	}
}

// renderReviewEntry produces the review-routing line carrying the original
// text plus the best guess and confidence when inference produced one.
func renderReviewEntry(text, guess string, confidence float64, when time.Time) string {
	guess = strings.TrimSpace(guess)
	if guess == "" {
		guess = "none"
	}
	return fmt.Sprintf("- [?] %s (guess: %s, confidence %.2f) %s",
		when.Format(stampMinute), guess, confidence, strings.TrimSpace(text))
}

// renderEmergencyEntry embeds the raw text and the causing error so the entry
// stands alone wherever it lands.
func renderEmergencyEntry(text string, cause error, when time.Time) string {
	reason := "unknown"
	if cause != nil {
		reason = strings.TrimSpace(cause.Error())
	}
	return fmt.Sprintf("- [!] %s Emergency capture (%s): %s",
		when.Format(stampMinute), reason, strings.TrimSpace(text))
}
