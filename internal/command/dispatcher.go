package command

import (
	"fmt"
	log "log/slog"
	"time"

	"matrix/internal/text"
)

// Spoken responses for the failure paths. Every recoverable error is
// acknowledged out loud, never silently swallowed.
const (
	responseNotUnderstood = "I didn't understand that command. Please try again."
	responseHandlerError  = "Sorry, there was an error executing that command."
)

// DefaultHistorySize bounds the command history ring.
const DefaultHistorySize = 50

// Speaker is the voice-out collaborator the dispatcher needs. Fire and
// forget; implementations must not fail.
type Speaker interface {
	Speak(text string)
}

// Stats are the process-lifetime dispatch counters. Successful plus
// Failed always equals TotalProcessed.
type Stats struct {
	TotalProcessed uint64
	Successful     uint64
	Failed         uint64
	ByCategory     map[string]uint64
}

// SuccessRate returns the fraction of processed commands that succeeded.
func (s Stats) SuccessRate() float64 {
	if s.TotalProcessed == 0 {
		return 0.0
	}
	return float64(s.Successful) / float64(s.TotalProcessed)
}

// HistoryEntry records one dispatched command.
type HistoryEntry struct {
	When     time.Time
	Command  string
	Category string
	Success  bool
}

// Dispatcher runs matched commands, isolates their failures and keeps
// usage statistics. Owned and driven by the single session goroutine;
// readers must go through Stats()/Recent(), which copy.
type Dispatcher struct {
	matcher     *Matcher
	speaker     Speaker
	stats       Stats
	history     []HistoryEntry
	historySize int
}

func NewDispatcher(matcher *Matcher, speaker Speaker) *Dispatcher {
	return &Dispatcher{
		matcher:     matcher,
		speaker:     speaker,
		stats:       Stats{ByCategory: make(map[string]uint64)},
		historySize: DefaultHistorySize,
	}
}

// Process matches and executes one utterance. Handler failures are
// contained here: they are logged, counted and spoken, and never
// propagate to the caller. Returns whether the command succeeded.
func (d *Dispatcher) Process(input string) bool {
	d.stats.TotalProcessed++

	norm := text.Normalize(input)
	if norm == "" {
		d.stats.Failed++
		d.speaker.Speak(responseNotUnderstood)
		return false
	}

	res := d.matcher.Match(norm)
	if !res.Matched() {
		log.Warn("Unknown command", "text", norm)
		d.stats.Failed++
		d.speaker.Speak(responseNotUnderstood)
		return false
	}

	cmd := res.Command
	log.Info("Executing command", "command", cmd.Description, "score", res.Score)

	if err := d.invoke(cmd, norm); err != nil {
		log.Error("Command failed", "command", cmd.Description, "err", err)
		d.stats.Failed++
		d.speaker.Speak(responseHandlerError)
		return false
	}

	d.stats.Successful++
	d.stats.ByCategory[cmd.Category]++
	d.remember(HistoryEntry{
		When:     time.Now(),
		Command:  norm,
		Category: cmd.Category,
		Success:  true,
	})

	return true
}

// invoke calls the handler, converting panics into errors so a misbehaving
// action cannot take down the session loop.
func (d *Dispatcher) invoke(cmd *Definition, norm string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	if cmd.RequiresArg {
		return cmd.Handler.Call(norm)
	}
	return cmd.Handler.Call("")
}

func (d *Dispatcher) remember(e HistoryEntry) {
	d.history = append(d.history, e)
	if len(d.history) > d.historySize {
		d.history = d.history[len(d.history)-d.historySize:]
	}
}

// Stats returns a snapshot with a copied category map, safe to hand to
// telemetry readers.
func (d *Dispatcher) Stats() Stats {
	snap := d.stats
	snap.ByCategory = make(map[string]uint64, len(d.stats.ByCategory))
	for k, v := range d.stats.ByCategory {
		snap.ByCategory[k] = v
	}
	return snap
}

// Recent returns up to n most recent history entries, oldest first.
func (d *Dispatcher) Recent(n int) []HistoryEntry {
	if n <= 0 || len(d.history) == 0 {
		return nil
	}
	if n > len(d.history) {
		n = len(d.history)
	}
	out := make([]HistoryEntry, n)
	copy(out, d.history[len(d.history)-n:])
	return out
}
