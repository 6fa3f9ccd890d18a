package ocr

import (
	"strings"
	"unicode"
)

// HeuristicConfidence estimates recognition quality from the decoded text
// alone, for providers that report no native confidence. Scores are
// additive and capped at 1: clean character classes, plausible word
// shapes and enough content each raise the estimate.
func HeuristicConfidence(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	score := 0.2 // base

	var clean, total int
	for _, r := range trimmed {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.IsPunct(r) {
			clean++
		}
	}
	if total > 0 && float64(clean)/float64(total) > 0.95 {
		score += 0.3
	}

	words := strings.Fields(trimmed)
	if len(words) > 3 {
		var sum int
		for _, w := range words {
			sum += len([]rune(w))
		}
		avg := float64(sum) / float64(len(words))
		if avg >= 2 && avg <= 12 {
			score += 0.3
		}
	}

	if len(trimmed) > 120 {
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
