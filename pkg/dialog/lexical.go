package dialog

import (
	"strings"
)

// InferCategory scans conversation text for category vocabulary and returns
// the best-matching category, "" when nothing matches.
func InferCategory(text string) string {
	lower := strings.ToLower(text)

	best := ""
	bestHits := 0
	for _, category := range Categories() {
		req, _ := RequirementsFor(category)
		hits := 0
		for _, word := range req.Vocabulary {
			if strings.Contains(lower, word) {
				hits++
			}
		}
		if hits > bestHits {
			best = category
			bestHits = hits
		}
	}
	return best
}

// ContainsTopicVocabulary reports whether the conversation mentions any
// topic-relevant word for the category. Gates ready_to_search so that a
// conversation of pure slot answers without substance keeps clarifying.
func ContainsTopicVocabulary(text, category string) bool {
	req, ok := RequirementsFor(category)
	if !ok {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range req.Vocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// LexicalSpecificity scores how specific the conversation text is, 0..1.
// Kept as a named function so the heuristic is testable and replaceable
// in one place.
func LexicalSpecificity(text, category string) float64 {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return 0
	}

	score := 0.0

	// Topic vocabulary density, up to 0.5
	if category != "" {
		req, _ := RequirementsFor(category)
		hits := 0
		for _, word := range req.Vocabulary {
			if strings.Contains(lower, word) {
				hits++
			}
		}
		if hits > 3 {
			hits = 3
		}
		score += float64(hits) / 3.0 * 0.5
	}

	// Enough words to describe a problem, up to 0.3
	words := len(strings.Fields(lower))
	switch {
	case words >= 20:
		score += 0.3
	case words >= 8:
		score += 0.2
	case words >= 3:
		score += 0.1
	}

	// First-person need markers, 0.2
	for _, marker := range []string{"i need", "i want", "help me", "looking for", "i have", "i feel"} {
		if strings.Contains(lower, marker) {
			score += 0.2
			break
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}
