package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"intake/internal/capture"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 12
	statusIndent     = "  "
	detailIndent     = "    "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderCaptureResult prints a human-readable account of one capture: the
// outcome headline, every attempted placement, suggested completions, and,
// on total failure, the unwritten entry so the text survives on screen.
func renderCaptureResult(w io.Writer, label string, result capture.Result, colorize bool) {
	kind, message := captureOutcome(result)
	fmt.Fprintln(w, renderStatusLine(label, kind, message, colorize))
	for _, item := range result.Items {
		if item.Placed() {
			fmt.Fprintf(w, "%s%s (%s): %s\n", detailIndent, item.Tracker, item.Section.Title(), item.Line)
		} else {
			fmt.Fprintf(w, "%s%s: %s\n", detailIndent, item.Tracker, item.Error)
		}
	}
	for _, completion := range result.Completions {
		fmt.Fprintf(w, "%scompletion suggested for %s: %s\n", detailIndent, completion.Tracker, completion.Description)
	}
	if result.Disposition == capture.DispositionFailed && result.UnwrittenEntry != "" {
		fmt.Fprintf(w, "%sunwritten entry: %s\n", detailIndent, result.UnwrittenEntry)
	}
}

func captureOutcome(result capture.Result) (statusKind, string) {
	switch result.Disposition {
	case capture.DispositionRouted:
		return statusOK, fmt.Sprintf("routed to %s (confidence %.2f)", result.PrimaryTracker, result.Confidence)
	case capture.DispositionReview:
		guess := result.PrimaryTracker
		if guess == "" {
			guess = "none"
		}
		return statusWarn, fmt.Sprintf("needs review; parked in %s (guess: %s, confidence %.2f)",
			acceptedTracker(result), guess, result.Confidence)
	case capture.DispositionEmergency:
		return statusWarn, fmt.Sprintf("emergency capture saved to %s", result.PrimaryTracker)
	default:
		return statusError, fmt.Sprintf("failed: %s", result.ErrorMessage)
	}
}

// acceptedTracker names the tracker that finally took the entry. Placements
// are attempted in order, so the last placed item is the accepting one.
func acceptedTracker(result capture.Result) string {
	for i := len(result.Items) - 1; i >= 0; i-- {
		if result.Items[i].Placed() {
			return result.Items[i].Tracker
		}
	}
	return "nowhere"
}
