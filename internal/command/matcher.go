package command

import (
	log "log/slog"
	"strings"

	"matrix/internal/fuzzy"
	"matrix/internal/text"
)

// DefaultThreshold is the minimum fuzzy similarity for a match. Exact
// substring hits bypass it entirely.
const DefaultThreshold = 0.6

// Matcher resolves a free-form utterance to at most one registered
// command. Exact substring matches win immediately in registration order;
// fuzzy scoring only runs when no pattern appears verbatim, to tolerate
// transcription noise like "opn crome".
type Matcher struct {
	registry  *Registry
	threshold float64
}

func NewMatcher(registry *Registry, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{registry: registry, threshold: threshold}
}

// Match scans all (command, pattern) pairs in registration order. The
// first pattern found as a substring of the normalized text returns with
// score 1.0; otherwise the best fuzzy ratio across all patterns wins if
// it clears the threshold.
func (m *Matcher) Match(input string) Result {
	norm := text.Normalize(input)
	if norm == "" {
		return Result{}
	}

	var (
		best      *Definition
		bestScore float64
	)

	for _, cmd := range m.registry.All() {
		for _, pattern := range cmd.Patterns {
			if strings.Contains(norm, pattern) {
				return Result{Command: cmd, Score: 1.0}
			}

			if score := fuzzy.Ratio(norm, pattern); score > bestScore {
				bestScore = score
				best = cmd
			}
		}
	}

	if best == nil || bestScore < m.threshold {
		return Result{}
	}

	log.Debug("Fuzzy matched", "score", bestScore, "command", best.Description)
	return Result{Command: best, Score: bestScore}
}
