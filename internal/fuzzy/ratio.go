package fuzzy

import "strings"

// Ratio returns an edit-distance similarity between a and b in [0, 1].
// 1.0 means identical, 0.0 means nothing in common. Symmetric and
// deterministic for identical inputs.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}

	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// WindowRatio slides a window of len(words(phrase)) words over text and
// returns the best Ratio between the phrase and any window. Falls back to
// a whole-string Ratio when text has fewer words than the phrase.
func WindowRatio(text, phrase string) float64 {
	words := strings.Fields(text)
	pwords := strings.Fields(phrase)
	if len(pwords) == 0 {
		return 0.0
	}
	if len(words) < len(pwords) {
		return Ratio(text, phrase)
	}

	best := 0.0
	for i := 0; i+len(pwords) <= len(words); i++ {
		window := strings.Join(words[i:i+len(pwords)], " ")
		if r := Ratio(window, phrase); r > best {
			best = r
		}
	}
	return best
}

// levenshtein computes the edit distance between two strings using two
// rows instead of the full matrix.
func levenshtein(a, b string) int {
	r1 := []rune(a)
	r2 := []rune(b)
	len1, len2 := len(r1), len(r2)

	prev := make([]int, len2+1)
	curr := make([]int, len2+1)

	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}
