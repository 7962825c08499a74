// Package suggest proposes likely intended names for mistyped input.
package suggest

import "github.com/agext/levenshtein"

// minScore is the similarity score a candidate must reach before it is
// offered as a suggestion. Scores are normalized to 0..1 where 1 is an
// exact match.
const minScore = 0.6

// String returns the candidate that most closely matches want. If no
// candidate is similar enough to be a plausible misspelling, an empty
// string is returned.
func String(want string, candidates []string) string {
	var (
		best  string
		score float64
	)
	for _, cand := range candidates {
		if s := levenshtein.Similarity(want, cand, nil); s > score {
			best, score = cand, s
		}
	}
	if score < minScore {
		return ""
	}
	return best
}
