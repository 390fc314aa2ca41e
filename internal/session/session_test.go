package session

import (
	"context"
	"testing"
	"time"

	"matrix/internal/command"
	"matrix/internal/wakeword"
	"matrix/pkg/util"
)

type fakeSpeaker struct {
	said []string
}

func (s *fakeSpeaker) Speak(text string) { s.said = append(s.said, text) }

func (s *fakeSpeaker) count(text string) int {
	n := 0
	for _, t := range s.said {
		if t == text {
			n++
		}
	}
	return n
}

// scriptedTranscriber replays a fixed list of utterances and cancels the
// session context once the script runs out, so Run terminates.
type scriptedTranscriber struct {
	script []string
	i      int
	delay  time.Duration
	cancel context.CancelFunc
}

func (s *scriptedTranscriber) Listen(_, _ time.Duration) (string, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.i >= len(s.script) {
		s.cancel()
		return "", nil
	}
	t := s.script[s.i]
	s.i++
	return t, nil
}

type harness struct {
	session  *Session
	speaker  *fakeSpeaker
	calls    *int
	ctx      context.Context
	disp     *command.Dispatcher
	tr       *scriptedTranscriber
	activity []Activity
}

func newHarness(t *testing.T, cfg Config, script ...string) *harness {
	t.Helper()

	speaker := &fakeSpeaker{}
	calls := new(int)

	reg := command.NewRegistry()
	reg.Register(&command.Definition{
		Patterns:    []string{"open chrome"},
		Handler:     command.Func(func() error { *calls++; return nil }),
		Description: "chrome",
		Category:    command.CategoryApps,
	})
	disp := command.NewDispatcher(command.NewMatcher(reg, command.DefaultThreshold), speaker)

	wcfg := wakeword.DefaultConfig()
	wcfg.Debounce = 0
	det := wakeword.NewDetector(wcfg)

	ctx, cancel := context.WithCancel(context.Background())
	tr := &scriptedTranscriber{script: script, cancel: cancel}

	h := &harness{speaker: speaker, calls: calls, ctx: ctx, disp: disp, tr: tr}
	h.session = New(cfg, det, disp, tr, speaker)
	h.session.SetNotify(func(a Activity) { h.activity = append(h.activity, a) })
	return h
}

func TestRunWakeThenCommand(t *testing.T) {
	h := newHarness(t, DefaultConfig(), "hey matrix", "open chrome")

	if err := h.session.Run(h.ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if *h.calls != 1 {
		t.Errorf("handler called %d times, want 1", *h.calls)
	}
	if got := h.speaker.said[0]; got != DefaultConfig().Greeting {
		t.Errorf("first spoken = %q, want the greeting", got)
	}
	if h.speaker.count(DefaultConfig().Acks[0]) != 1 {
		t.Errorf("wake acknowledgement not spoken: %v", h.speaker.said)
	}
	if h.session.Activity() != Idle {
		t.Errorf("final activity = %v, want idle", h.session.Activity())
	}
	if h.session.Active() {
		t.Error("session still active after shutdown")
	}
}

func TestRunInlineCommandWithWake(t *testing.T) {
	// Command spoken in the same breath as the wake phrase.
	h := newHarness(t, DefaultConfig(), "hey matrix open chrome")

	if err := h.session.Run(h.ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if *h.calls != 1 {
		t.Errorf("handler called %d times, want 1", *h.calls)
	}
}

func TestExitPhraseBypassesDispatch(t *testing.T) {
	h := newHarness(t, DefaultConfig(), "hey matrix", "open chrome goodbye")

	if err := h.session.Run(h.ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	// The exit phrase wins even though the utterance also contains a
	// registered pattern; the matcher must never see it.
	if *h.calls != 0 {
		t.Errorf("handler called %d times, want 0", *h.calls)
	}
	if h.speaker.count(DefaultConfig().SleepReply) != 1 {
		t.Errorf("sleep reply not spoken exactly once: %v", h.speaker.said)
	}
	if stats := h.disp.Stats(); stats.TotalProcessed != 0 {
		t.Errorf("dispatcher processed %d utterances, want 0", stats.TotalProcessed)
	}
}

func TestExitPhraseInWakeUtterance(t *testing.T) {
	h := newHarness(t, DefaultConfig(), "hey matrix goodbye")

	if err := h.session.Run(h.ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if *h.calls != 0 {
		t.Errorf("handler called %d times, want 0", *h.calls)
	}
	if h.speaker.count(DefaultConfig().SleepReply) != 1 {
		t.Errorf("sleep reply not spoken exactly once: %v", h.speaker.said)
	}
}

func TestInactivityTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 30 * time.Millisecond

	// The empty utterances keep the loop spinning without refreshing the
	// interaction timer.
	script := []string{"hey matrix"}
	for i := 0; i < 200; i++ {
		script = append(script, "")
	}
	h := newHarness(t, cfg, script...)
	h.tr.delay = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- h.session.Run(h.ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not terminate")
	}

	if got := h.speaker.count(cfg.TimeoutReply); got != 1 {
		t.Errorf("timeout reply spoken %d times, want exactly 1", got)
	}
}

func TestStateSequence(t *testing.T) {
	h := newHarness(t, DefaultConfig(), "hey matrix", "open chrome", "goodbye")

	if err := h.session.Run(h.ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}

	want := []Activity{AwaitingWake, Listening, Processing, Listening, Idle, AwaitingWake, Idle}
	if !util.EqualSlices(h.activity, want, func(x, y Activity) bool { return x == y }, false) {
		t.Fatalf("activity transitions = %v, want %v", h.activity, want)
	}
}

func TestActivityString(t *testing.T) {
	names := map[Activity]string{
		Idle:         "idle",
		AwaitingWake: "awaiting-wake",
		Listening:    "listening",
		Processing:   "processing",
		Speaking:     "speaking",
		Error:        "error",
	}
	for a, want := range names {
		if got := a.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", a, got, want)
		}
	}
}
