package rfc

import (
	"sort"
	"strings"
)

const (
	// DefaultThreshold is the highest normalized distance a search match may have
	DefaultThreshold = 0.35
	// SuggestThreshold is the looser threshold used for "did you mean" suggestions
	SuggestThreshold = 0.6

	// bodyPenalty is added to body scores so title and author hits rank first
	bodyPenalty = 0.1
	// bodySearchLimit is the number of leading body runes considered by the search
	bodySearchLimit = 2000
)

// Match is a single fuzzy search hit
type Match struct {
	RFC RFC
	// Score is the normalized distance of the best matching field, 0 is an exact match
	Score float64
	// Field is the field the best match was found in
	Field Field

	lengthDelta int
}

// Relevance is the inverse of Score, higher is better
func (m Match) Relevance() float64 {
	return 1 - m.Score
}

// Search ranks items by approximate similarity to query over title, author
// and body, and returns those whose score does not exceed threshold. The
// ordering is deterministic: score, then how closely the matched field's
// length fits the query, then RFC number.
func Search(query string, items []RFC, threshold float64) []Match {
	pattern := []rune(strings.ToLower(strings.TrimSpace(query)))
	matches := make([]Match, 0)
	if len(pattern) == 0 {
		return matches
	}

	for _, item := range items {
		best := Match{RFC: item, Score: 1}
		for _, candidate := range []struct {
			field   Field
			text    string
			penalty float64
		}{
			{FieldTitle, item.Title, 0},
			{FieldAuthor, item.Author, 0},
			{FieldBody, truncateRunes(item.Body, bodySearchLimit), bodyPenalty},
		} {
			text := []rune(strings.ToLower(candidate.text))
			if len(text) == 0 {
				continue
			}
			score := float64(substringDistance(pattern, text))/float64(len(pattern)) + candidate.penalty
			if score > 1 {
				score = 1
			}
			delta := abs(len(text) - len(pattern))
			if score < best.Score || (score == best.Score && delta < best.lengthDelta) {
				best.Score = score
				best.Field = candidate.field
				best.lengthDelta = delta
			}
		}
		if best.Field != "" && best.Score <= threshold {
			matches = append(matches, best)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score < matches[j].Score
		}
		if matches[i].lengthDelta != matches[j].lengthDelta {
			return matches[i].lengthDelta < matches[j].lengthDelta
		}
		return matches[i].RFC.Number < matches[j].RFC.Number
	})
	return matches
}

// MatchedRFCs strips the scores from a search result
func MatchedRFCs(matches []Match) []RFC {
	items := make([]RFC, 0, len(matches))
	for _, match := range matches {
		items = append(items, match.RFC)
	}
	return items
}

// substringDistance returns the smallest edit distance between pattern and
// any substring of text.
func substringDistance(pattern, text []rune) int {
	previous := make([]int, len(text)+1)
	current := make([]int, len(text)+1)
	for i := 1; i <= len(pattern); i++ {
		current[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			current[j] = min(previous[j-1]+cost, previous[j]+1, current[j-1]+1)
		}
		previous, current = current, previous
	}

	best := len(pattern)
	for _, distance := range previous {
		best = min(best, distance)
	}
	return best
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
