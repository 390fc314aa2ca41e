// Package session drives the assistant's activity lifecycle: idle until
// the wake word, then a listen/process loop until an exit phrase or the
// inactivity timeout sends it back to idle.
package session

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"matrix/internal/command"
	"matrix/internal/speech"
	"matrix/internal/text"
	"matrix/internal/wakeword"
)

// Activity is the assistant's current state.
type Activity int

const (
	Idle Activity = iota
	AwaitingWake
	Listening
	Processing
	Speaking
	Error
)

func (a Activity) String() string {
	switch a {
	case Idle:
		return "idle"
	case AwaitingWake:
		return "awaiting-wake"
	case Listening:
		return "listening"
	case Processing:
		return "processing"
	case Speaking:
		return "speaking"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

type Config struct {
	Timeout       time.Duration // inactivity before going back to idle
	ListenTimeout time.Duration // per-utterance transcription timeout
	PhraseLimit   time.Duration // max utterance length
	Greeting      string
	Acks          []string // wake acknowledgements, round-robin
	ExitPhrases   []string // sends the session back to idle, bypassing dispatch
	SleepReply    string
	TimeoutReply  string
}

// DefaultConfig carries the session defaults. Earlier revisions of this
// project disagreed on the inactivity timeout (10s vs 15s); it is a single
// configurable value here, defaulting to the outermost layer's 15s.
func DefaultConfig() Config {
	return Config{
		Timeout:       15 * time.Second,
		ListenTimeout: 5 * time.Second,
		PhraseLimit:   10 * time.Second,
		Greeting:      "Hello Sir, I am Matrix. Ready for command.",
		Acks: []string{
			"Yes Sir?",
			"How can I help?",
			"At your service.",
			"Listening.",
		},
		ExitPhrases:  []string{"goodbye", "sleep", "standby", "deactivate", "stop listening"},
		SleepReply:   "Going to sleep mode.",
		TimeoutReply: "No activity detected. Going idle.",
	}
}

// Speaker is the voice-out collaborator. Enqueue and return.
type Speaker interface {
	Speak(text string)
}

// Session owns one instance each of the detector, dispatcher and the
// collaborator references. Single goroutine drives it; Activity and
// Active are safe to read only from notifications or after Run returns.
type Session struct {
	cfg         Config
	detector    *wakeword.Detector
	dispatcher  *command.Dispatcher
	transcriber speech.Transcriber
	speaker     Speaker

	activity        Activity
	active          bool
	lastInteraction time.Time
	notify          func(Activity)
}

func New(cfg Config, det *wakeword.Detector, disp *command.Dispatcher, tr speech.Transcriber, sp Speaker) *Session {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if len(cfg.Acks) == 0 {
		cfg.Acks = DefaultConfig().Acks
	}
	if len(cfg.ExitPhrases) == 0 {
		cfg.ExitPhrases = DefaultConfig().ExitPhrases
	}
	return &Session{
		cfg:         cfg,
		detector:    det,
		dispatcher:  disp,
		transcriber: tr,
		speaker:     sp,
	}
}

// SetNotify registers a state-change callback, used by the telemetry bus.
func (s *Session) SetNotify(cb func(Activity)) { s.notify = cb }

func (s *Session) Activity() Activity { return s.activity }

// Active reports the legacy boolean gate: true exactly while the session
// is listening, processing or speaking.
func (s *Session) Active() bool { return s.active }

func (s *Session) setActivity(a Activity) {
	if s.activity == a {
		return
	}
	log.Debug("Session state", "from", s.activity, "to", a)
	s.activity = a
	s.active = a == Listening || a == Processing || a == Speaking
	if s.notify != nil {
		s.notify(a)
	}
}

// Run executes the session loop until the context is cancelled or the
// wake-word engine fails fatally. Cancellation is checked between
// utterances, never mid-handler.
func (s *Session) Run(ctx context.Context) error {
	s.speaker.Speak(s.cfg.Greeting)

	for {
		s.setActivity(AwaitingWake)

		remainder, ok := s.detector.WaitForWake(ctx, s.transcriber)
		if !ok {
			s.setActivity(Idle)
			if ctx.Err() != nil {
				return nil
			}
			s.setActivity(Error)
			return fmt.Errorf("wake word detection aborted")
		}

		s.wake(remainder)
		s.converse(ctx)

		if ctx.Err() != nil {
			s.setActivity(Idle)
			return nil
		}
	}
}

// wake acknowledges the detection and handles a command spoken in the
// same breath as the wake phrase, if any.
func (s *Session) wake(remainder string) {
	s.setActivity(Listening)

	ack := s.cfg.Acks[s.dispatcher.Stats().TotalProcessed%uint64(len(s.cfg.Acks))]
	s.speaker.Speak(ack)
	s.lastInteraction = time.Now()

	if remainder != "" && !s.detector.IsBarePhrase(remainder) {
		s.consume(remainder)
	}
}

// converse runs the listening loop until an exit phrase, the inactivity
// timeout or cancellation drops the session back to idle.
func (s *Session) converse(ctx context.Context) {
	for s.active {
		if ctx.Err() != nil {
			return
		}

		if time.Since(s.lastInteraction) > s.cfg.Timeout {
			log.Info("Session timed out", "timeout", s.cfg.Timeout)
			s.speaker.Speak(s.cfg.TimeoutReply)
			s.setActivity(Idle)
			return
		}

		utterance, err := s.transcriber.Listen(s.cfg.ListenTimeout, s.cfg.PhraseLimit)
		if err != nil {
			// Recovered locally: treated as silence, the timeout keeps
			// ticking.
			log.Warn("Transcription failed", "err", err)
			continue
		}
		if utterance == "" {
			continue
		}

		log.Info("User said", "text", utterance)
		s.consume(utterance)
	}
}

// consume runs one utterance through the exit-phrase check and, if it
// survives, the dispatcher. Exit phrases win over command matching: an
// utterance containing one never reaches the matcher. A successful
// dispatch refreshes the inactivity timer; failures leave it alone.
func (s *Session) consume(utterance string) {
	if text.ContainsKeyword(utterance, s.cfg.ExitPhrases...) {
		s.speaker.Speak(s.cfg.SleepReply)
		s.setActivity(Idle)
		return
	}

	s.setActivity(Processing)
	if s.dispatcher.Process(utterance) {
		s.lastInteraction = time.Now()
	}
	s.setActivity(Listening)
}
