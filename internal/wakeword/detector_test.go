package wakeword

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Debounce = 0 // individual tests opt back in
	return cfg
}

func TestDetectExact(t *testing.T) {
	d := NewDetector(testConfig())

	tests := []string{
		"hey matrix",
		"Hey Matrix open chrome",
		"well ok hey matrix what time is it",
		"matrix shutdown", // alternate phrase
	}

	for _, utterance := range tests {
		ok, conf := d.Detect(utterance)
		if !ok {
			t.Errorf("Detect(%q) = false", utterance)
		}
		if conf != 1.0 {
			t.Errorf("Detect(%q) confidence = %v, want 1.0", utterance, conf)
		}
	}
}

func TestDetectFuzzy(t *testing.T) {
	cfg := testConfig()
	cfg.Alternates = nil
	d := NewDetector(cfg)

	ok, conf := d.Detect("hey matrics")
	if !ok {
		t.Fatalf("Detect fuzzy = false (confidence %v)", conf)
	}
	if conf >= 1.0 || conf < cfg.Sensitivity {
		t.Errorf("confidence = %v, want in [%v, 1.0)", conf, cfg.Sensitivity)
	}
}

func TestDetectFuzzyWindow(t *testing.T) {
	cfg := testConfig()
	cfg.Alternates = nil
	d := NewDetector(cfg)

	// The mangled phrase is buried mid-utterance; only the word-window
	// comparison can find it.
	ok, _ := d.Detect("so anyway hey matrics please open chrome for me")
	if !ok {
		t.Error("windowed fuzzy detection failed")
	}
}

func TestDetectRejects(t *testing.T) {
	cfg := testConfig()
	cfg.Alternates = nil
	d := NewDetector(cfg)

	for _, utterance := range []string{"", "   ", "open the window please", "completely unrelated"} {
		if ok, _ := d.Detect(utterance); ok {
			t.Errorf("Detect(%q) = true, want false", utterance)
		}
	}
}

func TestDetectFuzzyDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Alternates = nil
	cfg.Fuzzy = false
	d := NewDetector(cfg)

	if ok, _ := d.Detect("hey matrics"); ok {
		t.Error("fuzzy match accepted with fuzzy matching disabled")
	}
	if ok, _ := d.Detect("hey matrix now"); !ok {
		t.Error("exact match rejected with fuzzy matching disabled")
	}
}

func TestDebounce(t *testing.T) {
	cfg := testConfig()
	cfg.Debounce = 100 * time.Millisecond
	d := NewDetector(cfg)

	if ok, _ := d.Detect("hey matrix"); !ok {
		t.Fatal("first detection suppressed")
	}
	if ok, _ := d.Detect("hey matrix"); ok {
		t.Fatal("second detection inside the debounce window not suppressed")
	}
	if d.Stats().Detections != 1 {
		t.Errorf("detections = %d, want 1", d.Stats().Detections)
	}

	time.Sleep(120 * time.Millisecond)
	if ok, _ := d.Detect("hey matrix"); !ok {
		t.Error("detection after the debounce window suppressed")
	}
}

func TestRemainder(t *testing.T) {
	d := NewDetector(testConfig())

	tests := []struct {
		utterance, want string
	}{
		{"hey matrix open chrome", "open chrome"},
		{"Hey Matrix Open Chrome", "Open Chrome"},
		{"ok hey matrix   search for news  ", "search for news"},
		// Bare wake phrase: falls back to the trimmed utterance.
		{"  hey matrix ", "hey matrix"},
		// No phrase at all: same fallback.
		{"open chrome", "open chrome"},
	}

	for _, tc := range tests {
		if got := d.Remainder(tc.utterance); got != tc.want {
			t.Errorf("Remainder(%q) = %q, want %q", tc.utterance, got, tc.want)
		}
	}
}

func TestStatsAverage(t *testing.T) {
	cfg := testConfig()
	cfg.Alternates = nil
	d := NewDetector(cfg)

	d.Detect("hey matrix one")
	d.Detect("hey matrics")

	stats := d.Stats()
	if stats.Detections != 2 {
		t.Fatalf("detections = %d, want 2", stats.Detections)
	}
	if stats.AvgConfidence >= 1.0 || stats.AvgConfidence < cfg.Sensitivity {
		t.Errorf("average confidence = %v, want between sensitivity and 1.0", stats.AvgConfidence)
	}
}

type scriptedTranscriber struct {
	texts []string
	errs  []error
	i     int
}

func (s *scriptedTranscriber) Listen(_, _ time.Duration) (string, error) {
	if s.i >= len(s.texts) {
		return "", nil
	}
	t, e := s.texts[s.i], s.errs[s.i]
	s.i++
	return t, e
}

func TestWaitForWake(t *testing.T) {
	d := NewDetector(testConfig())
	tr := &scriptedTranscriber{
		texts: []string{"", "some background chatter", "hey matrix open chrome"},
		errs:  []error{nil, nil, nil},
	}

	remainder, ok := d.WaitForWake(context.Background(), tr)
	if !ok {
		t.Fatal("WaitForWake = false")
	}
	if remainder != "open chrome" {
		t.Errorf("remainder = %q, want open chrome", remainder)
	}
}

func TestWaitForWakeAbortsAfterRetries(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 2
	d := NewDetector(cfg)

	boom := errors.New("device lost")
	tr := &scriptedTranscriber{
		texts: []string{"", ""},
		errs:  []error{boom, boom},
	}

	if _, ok := d.WaitForWake(context.Background(), tr); ok {
		t.Error("WaitForWake succeeded despite persistent transcriber errors")
	}
	if tr.i != 2 {
		t.Errorf("transcriber called %d times, want 2", tr.i)
	}
}

func TestWaitForWakeCancelled(t *testing.T) {
	d := NewDetector(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := d.WaitForWake(ctx, &scriptedTranscriber{}); ok {
		t.Error("WaitForWake ignored a cancelled context")
	}
}
