package text

import "strings"

// Normalize trims and lowercases an utterance. Total and idempotent:
// empty input yields empty output.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsKeyword reports whether the normalized utterance contains any
// of the given keywords as a substring.
func ContainsKeyword(s string, keywords ...string) bool {
	norm := Normalize(s)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(norm, Normalize(kw)) {
			return true
		}
	}
	return false
}

// ExtractParam strips command stopwords from an utterance and returns
// whatever is left, e.g. "create folder my stuff" -> "my stuff".
func ExtractParam(s string, stopwords ...string) string {
	drop := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		drop[Normalize(w)] = true
	}

	var kept []string
	for _, w := range strings.Fields(Normalize(s)) {
		if !drop[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
