package blogservice

import "strings"

// WordsPerMinute is the reading speed used to estimate reading time.
const WordsPerMinute = 256

// ReadingTime estimates the minutes needed to read body, rounded up.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}

	return (words + WordsPerMinute - 1) / WordsPerMinute
}
