package ocr

import "fmt"

// MismatchError reports recognized text whose best candidate is
// further away than the configured ceiling. It signals recognition
// quality degraded beyond plausible correction, as opposed to ordinary
// background noise, which is silently dropped.
type MismatchError struct {
	Text     string
	Nearest  string
	Distance int
	Ceiling  int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("ocr: recognized %q, nearest candidate %q at distance %d exceeds ceiling %d",
		e.Text, e.Nearest, e.Distance, e.Ceiling)
}

// EditDistance is the Levenshtein distance between two strings, with
// insertion, deletion and substitution each costing 1. It operates on
// runes, so a CJK ideograph counts as one unit and is never split by
// encoding.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	dp := make([]int, len(rb)+1)
	for j := range dp {
		dp[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= len(rb); j++ {
			tmp := dp[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[j] = min3(dp[j]+1, dp[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return dp[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// fuzzyMatch returns the candidate at minimum edit distance from text
// when that distance is within threshold. Ties resolve to the first
// candidate.
func fuzzyMatch(text string, candidates []string, threshold int) (string, bool) {
	best := ""
	bestDist := threshold + 1
	for _, c := range candidates {
		if d := EditDistance(text, c); d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist > threshold {
		return "", false
	}
	return best, true
}

// nearest returns the closest candidate and its distance, with no
// threshold applied. Candidates must be non-empty.
func nearest(text string, candidates []string) (string, int) {
	best := candidates[0]
	bestDist := EditDistance(text, best)
	for _, c := range candidates[1:] {
		if d := EditDistance(text, c); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, bestDist
}
