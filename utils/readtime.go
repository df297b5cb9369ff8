package utils

import (
	"fmt"
	"strings"
)

const wordsPerMinute = 200

// EstimateReadTime derives a human display string like "3 min read" from
// story content. Used when the client does not supply one.
func EstimateReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
