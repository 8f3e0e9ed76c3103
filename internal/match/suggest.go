package match

import "fmt"

// MinSimilarity is the lowest score a candidate needs to be suggested.
const MinSimilarity = 0.5

// Closest returns the candidate most similar to name. Ties keep the earlier
// candidate. It reports false when no candidate reaches MinSimilarity.
func Closest(name string, candidates []string) (string, bool) {
	best, bestScore := "", 0.0

	for _, c := range candidates {
		if score := Similarity(name, c); score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < MinSimilarity {
		return "", false
	}

	return best, true
}

// Hint returns ` (did you mean "x"?)` for the closest candidate, or "".
func Hint(name string, candidates []string) string {
	if c, ok := Closest(name, candidates); ok && c != name {
		return fmt.Sprintf(" (did you mean %q?)", c)
	}

	return ""
}
