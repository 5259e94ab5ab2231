package store

import (
	"sort"
	"strings"
)

// closeMatches returns up to n candidate names similar to query, best
// first. Similarity is the classic ratio 2*M/T where M is the length of
// the longest common subsequence (case-insensitive) and T the combined
// length; candidates below cutoff are dropped.
func closeMatches(query string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		name  string
		score float64
	}
	q := strings.ToLower(query)
	var matches []scored
	for _, c := range candidates {
		s := similarity(q, strings.ToLower(c))
		if s >= cutoff {
			matches = append(matches, scored{name: c, score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	m := lcsLength(a, b)
	return 2 * float64(m) / float64(len(a)+len(b))
}

func lcsLength(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
