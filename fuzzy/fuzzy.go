// Package fuzzy resolves free-text mentions of species names against the
// catalog using normalization, containment and Levenshtein similarity.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/antmaster"
)

// Threshold profiles. SuggestThreshold is used when proactively suggesting
// corrections for a failed direct lookup, DidYouMeanThreshold for an
// explicit "did you mean" answer and for expert attachments.
const (
	SuggestThreshold    = 55.0
	DidYouMeanThreshold = 60.0
)

// Scores for the non edit-distance signals.
const (
	exactScore    = 100.0
	containsScore = 90.0
)

var punctuation = strings.NewReplacer(
	"¿", " ", "?", " ", "¡", " ", "!", " ",
	".", " ", ",", " ", ":", " ", ";", " ",
	"\r", " ", "\n", " ", "\t", " ",
)

// Normalize lower-cases s, replaces punctuation and newlines with spaces and
// collapses runs of whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(punctuation.Replace(strings.ToLower(s))), " ")
}

// EditDistance returns the Levenshtein distance between a and b, counted in
// runes with unit cost for insertion, deletion and substitution.
func EditDistance(a, b string) int {
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

// Similarity scores a against b in [0,100] after normalizing both. It is the
// maximum of exact match (100), containment in either direction (90) and
// 100*(1 - distance/maxLen). Two empty strings score 100.
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return exactScore
	}
	best := levenshteinScore(a, b)
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		best = max(best, containsScore)
	}
	return best
}

func levenshteinScore(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return exactScore
	}
	return 100 * (1 - float64(EditDistance(a, b))/float64(longest))
}

// FindSimilar scores input against every species with a non-empty name and
// returns those at or above threshold, ordered by descending similarity and
// then by descending name length. The result is recomputed on each call.
func FindSimilar(input string, species []*antmaster.Species, threshold float64) []antmaster.Match {
	var matches []antmaster.Match
	for _, s := range species {
		if s == nil || strings.TrimSpace(s.ScientificName) == "" {
			continue
		}
		score := Similarity(input, s.ScientificName)
		if score < threshold {
			continue
		}
		matches = append(matches, antmaster.Match{Species: s, Similarity: score})
	}
	slices.SortStableFunc(matches, func(x, y antmaster.Match) int {
		if c := cmp.Compare(y.Similarity, x.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(utf8.RuneCountInString(y.Species.ScientificName), utf8.RuneCountInString(x.Species.ScientificName))
	})
	return matches
}

// Best returns the top match for input at threshold, if any.
func Best(input string, species []*antmaster.Species, threshold float64) (antmaster.Match, bool) {
	matches := FindSimilar(input, species, threshold)
	if len(matches) == 0 {
		return antmaster.Match{}, false
	}
	return matches[0], true
}
