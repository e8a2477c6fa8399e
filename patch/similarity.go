package patch

import "github.com/xrash/smetrics"

// fuzzThreshold is the minimum similarity at which a drifted context or
// removed line is still accepted.
const fuzzThreshold = 0.8

// Similarity scores how close two lines are, as one minus the normalized
// Levenshtein distance. 1.0 is an exact match, 0.0 shares nothing. Two
// empty strings compare as a match.
func Similarity(expected, actual string) float64 {
	maxLen := max(len(expected), len(actual))
	if maxLen == 0 {
		return 1.0
	}
	dist := smetrics.WagnerFischer(expected, actual, 1, 1, 1)
	return 1.0 - float64(dist)/float64(maxLen)
}

// withinFuzz reports whether actual is close enough to expected to accept.
// The comparison stays in integer space so a line sitting exactly on the
// threshold is not lost to float rounding: dist/maxLen <= 0.2 becomes
// 5*dist <= maxLen.
func withinFuzz(expected, actual string) bool {
	maxLen := max(len(expected), len(actual))
	if maxLen == 0 {
		return true
	}
	dist := smetrics.WagnerFischer(expected, actual, 1, 1, 1)
	return 5*dist <= maxLen
}
