package fuzzy

import "testing"

func TestRatioBounds(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"open chrome", "open chrome", 1.0},
		{"", "", 1.0},
		{"open chrome", "", 0.0},
		{"", "open chrome", 0.0},
	}

	for _, tc := range tests {
		got := Ratio(tc.a, tc.b)
		if got != tc.want {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"open chrome", "opn chrme"},
		{"battery status", "batery status"},
		{"hey matrix", "hey matriks"},
	}

	for _, p := range pairs {
		ab := Ratio(p[0], p[1])
		ba := Ratio(p[1], p[0])
		if ab != ba {
			t.Errorf("Ratio(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
		if ab <= 0.0 || ab >= 1.0 {
			t.Errorf("Ratio(%q, %q) = %v, want strictly inside (0, 1)", p[0], p[1], ab)
		}
	}
}

func TestRatioToleratesTypos(t *testing.T) {
	// "opn chrme" is "open chrome" with two dropped letters.
	if got := Ratio("opn chrme", "open chrome"); got < 0.6 {
		t.Errorf("Ratio = %v, want >= 0.6", got)
	}
	if got := Ratio("completely unrelated words", "open chrome"); got >= 0.6 {
		t.Errorf("Ratio = %v, want < 0.6", got)
	}
}

func TestWindowRatio(t *testing.T) {
	tests := []struct {
		text, phrase string
		atLeast      float64
	}{
		// Exact phrase buried in noise: one window matches perfectly.
		{"ok so hey matrix please listen", "hey matrix", 1.0},
		// Slightly mangled wake phrase.
		{"well hay matrix open something", "hey matrix", 0.8},
	}

	for _, tc := range tests {
		got := WindowRatio(tc.text, tc.phrase)
		if got < tc.atLeast {
			t.Errorf("WindowRatio(%q, %q) = %v, want >= %v", tc.text, tc.phrase, got, tc.atLeast)
		}
	}
}

func TestWindowRatioShortText(t *testing.T) {
	// Fewer words than the phrase falls back to a plain ratio.
	if got := WindowRatio("matrix", "hey matrix"); got <= 0.0 {
		t.Errorf("WindowRatio = %v, want > 0", got)
	}
	if got := WindowRatio("anything", ""); got != 0.0 {
		t.Errorf("WindowRatio with empty phrase = %v, want 0", got)
	}
}
