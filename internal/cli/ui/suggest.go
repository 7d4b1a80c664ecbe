package ui

import (
	"sort"
	"strings"
)

// MaxSuggestions bounds the "Did you mean" list
const MaxSuggestions = 3

// Suggest returns up to MaxSuggestions candidates within edit distance
// maxDistance of target, closest first. Matching ignores case.
// A maxDistance of zero picks a bound from the length of target.
func Suggest(target string, candidates []string, maxDistance int) []string {
	if maxDistance <= 0 {
		maxDistance = len(target)/3 + 1
	}

	type match struct {
		name string
		dist int
	}

	lower := strings.ToLower(target)
	var matches []match
	for _, c := range candidates {
		d := Distance(lower, strings.ToLower(c))
		if d <= maxDistance {
			matches = append(matches, match{name: c, dist: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, MaxSuggestions)
	for i := 0; i < len(matches) && i < MaxSuggestions; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

// Distance returns the Levenshtein distance between a and b
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
