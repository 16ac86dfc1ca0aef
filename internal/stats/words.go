package stats

import (
	"unicode/utf8"

	"github.com/drpaneas/redditpersona/internal/textutil"
)

// DefaultWordCloudSize is the number of words kept for the word cloud.
const DefaultWordCloudSize = 100

// WordFrequencies counts non-stopword tokens longer than two letters and
// returns the n most frequent.
func WordFrequencies(texts []string, n int) []Count {
	counts := map[string]int{}
	for _, t := range texts {
		for _, w := range textutil.Words(t) {
			if utf8.RuneCountInString(w) <= 2 || textutil.IsStopword(w) || isNumber(w) {
				continue
			}
			counts[w]++
		}
	}
	return topCounts(counts, n)
}

func isNumber(w string) bool {
	for _, r := range w {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
