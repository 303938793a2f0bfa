package project

import "strings"

const (
	maxTitleLen       = 30
	maxDescriptionLen = 100

	fallbackTitle       = "Unnamed Project"
	fallbackDescription = "No description available."
)

// Summary holds a project title and description derived from a first
// message.
type Summary struct {
	Title       string
	Description string
}

// SummarizeFirstMessage derives a concise title and description from the
// user's first chat message. A blank message yields the fixed fallbacks.
func SummarizeFirstMessage(message string) Summary {
	msg := strings.Join(strings.Fields(message), " ")
	if msg == "" {
		return Summary{Title: fallbackTitle, Description: fallbackDescription}
	}

	return Summary{
		Title:       truncate(msg, maxTitleLen),
		Description: truncate(msg, maxDescriptionLen),
	}
}

// truncate shortens s to at most max runes, trimming at a word boundary
// where one is close enough and appending an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	cut := string(runes[:max-1])
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ") + "…"
}
