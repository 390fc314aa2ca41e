// Package wakeword decides whether an utterance contains the assistant's
// activation phrase. Exact substring matching is tried first, then a
// bounded fuzzy fallback over sliding word windows, so "hay matrix" still
// wakes the assistant while unrelated speech does not.
package wakeword

import (
	"context"
	log "log/slog"
	"strings"
	"time"

	"matrix/internal/fuzzy"
	"matrix/internal/speech"
	"matrix/internal/text"
)

type Config struct {
	Phrase        string        // primary activation phrase
	Alternates    []string      // additional accepted phrasings
	Sensitivity   float64       // fuzzy threshold (0.0-1.0)
	Fuzzy         bool          // enable the fuzzy fallback
	Debounce      time.Duration // suppression window after a confirmed detection
	ListenTimeout time.Duration // per-attempt transcription timeout
	PhraseLimit   time.Duration // max utterance length per attempt
	MaxRetries    int           // transcriber errors tolerated before giving up
}

func DefaultConfig() Config {
	return Config{
		Phrase:        "hey matrix",
		Alternates:    []string{"matrix", "hey metrics", "a matrix"},
		Sensitivity:   0.75,
		Fuzzy:         true,
		Debounce:      2 * time.Second,
		ListenTimeout: 5 * time.Second,
		PhraseLimit:   10 * time.Second,
		MaxRetries:    3,
	}
}

// Stats are the detector's running counters.
type Stats struct {
	Detections    uint64
	AvgConfidence float64
}

// Detector holds the wake phrase configuration plus the debounce clock
// and running statistics. Driven from a single goroutine.
type Detector struct {
	cfg           Config
	phrases       []string // normalized, primary first
	lastDetection time.Time
	stats         Stats
	onDetected    func(remainder string)
}

func NewDetector(cfg Config) *Detector {
	if cfg.Phrase == "" {
		cfg.Phrase = DefaultConfig().Phrase
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = DefaultConfig().Sensitivity
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}

	phrases := make([]string, 0, 1+len(cfg.Alternates))
	phrases = append(phrases, text.Normalize(cfg.Phrase))
	for _, alt := range cfg.Alternates {
		if norm := text.Normalize(alt); norm != "" {
			phrases = append(phrases, norm)
		}
	}

	return &Detector{cfg: cfg, phrases: phrases}
}

// SetOnDetected registers a callback invoked with the command remainder
// on every confirmed detection.
func (d *Detector) SetOnDetected(cb func(remainder string)) {
	d.onDetected = cb
}

// Detect reports whether the utterance contains a wake phrase and with
// what confidence. Exact substring hits score 1.0 and skip fuzzy scoring
// entirely. A confirmed detection within the debounce window of the
// previous one is suppressed; overlapping capture windows can hand the
// same utterance over twice.
func (d *Detector) Detect(utterance string) (bool, float64) {
	norm := text.Normalize(utterance)
	if norm == "" {
		return false, 0.0
	}

	confidence := 0.0
	for _, phrase := range d.phrases {
		if strings.Contains(norm, phrase) {
			confidence = 1.0
			break
		}
	}

	if confidence < 1.0 && d.cfg.Fuzzy {
		for _, phrase := range d.phrases {
			if r := fuzzy.Ratio(norm, phrase); r > confidence {
				confidence = r
			}
			if r := fuzzy.WindowRatio(norm, phrase); r > confidence {
				confidence = r
			}
		}
	}

	if confidence < d.cfg.Sensitivity && confidence < 1.0 {
		return false, confidence
	}

	now := time.Now()
	if !d.lastDetection.IsZero() && now.Sub(d.lastDetection) < d.cfg.Debounce {
		log.Debug("Wake word suppressed by debounce", "confidence", confidence)
		return false, confidence
	}
	d.lastDetection = now

	d.stats.Detections++
	n := float64(d.stats.Detections)
	d.stats.AvgConfidence += (confidence - d.stats.AvgConfidence) / n

	log.Info("Wake word detected", "confidence", confidence)

	if d.onDetected != nil {
		d.onDetected(d.Remainder(utterance))
	}

	return true, confidence
}

// Remainder extracts the command text after the earliest matched phrase,
// keeping the original casing. When nothing trails the phrase the whole
// trimmed utterance is returned unchanged; callers that fed a bare wake
// phrase get it back and must treat it as "no command yet".
func (d *Detector) Remainder(utterance string) string {
	lower := strings.ToLower(utterance)
	for _, phrase := range d.phrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(utterance[idx+len(phrase):])
		if rest != "" {
			return rest
		}
		break
	}
	return strings.TrimSpace(utterance)
}

// IsBarePhrase reports whether the utterance is nothing but a wake
// phrase, i.e. Remainder's fallback handed the wake phrase itself back.
func (d *Detector) IsBarePhrase(utterance string) bool {
	norm := text.Normalize(utterance)
	for _, phrase := range d.phrases {
		if norm == phrase {
			return true
		}
	}
	return false
}

// Stats returns a copy of the running counters.
func (d *Detector) Stats() Stats { return d.stats }

const retryDelay = 500 * time.Millisecond

// WaitForWake blocks until a wake phrase is heard and returns the command
// remainder. Empty transcriptions are retried without limit; transcriber
// errors sleep briefly and abort after MaxRetries consecutive failures.
// Cancelling the context stops the loop at the next iteration boundary.
func (d *Detector) WaitForWake(ctx context.Context, tr speech.Transcriber) (string, bool) {
	retries := 0
	for {
		select {
		case <-ctx.Done():
			return "", false
		default:
		}

		utterance, err := tr.Listen(d.cfg.ListenTimeout, d.cfg.PhraseLimit)
		if err != nil {
			retries++
			log.Warn("Transcriber error while waiting for wake word", "err", err, "attempt", retries)
			if retries >= d.cfg.MaxRetries {
				log.Error("Giving up on wake word detection", "retries", retries)
				return "", false
			}
			select {
			case <-ctx.Done():
				return "", false
			case <-time.After(retryDelay):
			}
			continue
		}
		retries = 0

		if utterance == "" {
			continue
		}

		if ok, _ := d.Detect(utterance); ok {
			return d.Remainder(utterance), true
		}
	}
}
