package taxonomy

import (
	"sort"
	"strings"
)

// Match kinds, from strongest to weakest relationship.
const (
	KindExact          = "exact"
	KindPluralSingular = "plural-singular"
	KindSubstring      = "substring"
	KindTypo           = "typo"
	KindSimilar        = "similar"
)

// DefaultSimilarityThreshold is used by FindSimilar when no threshold is given.
const DefaultSimilarityThreshold = 0.7

// Similarity scores how close two tags are on a [0,1] scale: 1.0 for equal
// strings, 0.9 for a plural/singular pair, 0.85 for a substring containment,
// and 1 - normalized Levenshtein distance otherwise.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if pluralPair(a, b) {
		return 0.9
	}
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return 0.85
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// Classify names the relationship between two tags, using the same rules as
// Similarity. Levenshtein-close pairs whose lengths differ by at most two are
// reported as typos.
func Classify(a, b string) string {
	switch {
	case a == b:
		return KindExact
	case pluralPair(a, b):
		return KindPluralSingular
	case a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)):
		return KindSubstring
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff <= 2 {
		return KindTypo
	}
	return KindSimilar
}

// Match is one ranked similarity candidate.
type Match struct {
	Candidate string  `json:"candidate"`
	Score     float64 `json:"score"`
	Kind      string  `json:"kind"`
}

// FindSimilar scores tag against every candidate in pool and returns those at
// or above threshold, strongest first. A non-positive threshold selects
// DefaultSimilarityThreshold.
func FindSimilar(tag string, pool []string, threshold float64) []Match {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	var out []Match
	for _, cand := range pool {
		score := Similarity(tag, cand)
		if score >= threshold {
			out = append(out, Match{Candidate: cand, Score: score, Kind: Classify(tag, cand)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Candidate < out[j].Candidate
	})
	return out
}

func pluralPair(a, b string) bool {
	return a == b+"s" || a == b+"es" || b == a+"s" || b == a+"es"
}

// levenshtein computes edit distance with a two-row rolling buffer.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, min(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
