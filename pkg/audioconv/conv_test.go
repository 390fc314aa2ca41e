package audioconv

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDownmix(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := downmix(stereo, 2)

	want := []float32{0.5, 0.5, 0}
	if len(mono) != len(want) {
		t.Fatalf("len = %d, want %d", len(mono), len(want))
	}
	for i := range want {
		if math.Abs(float64(mono[i]-want[i])) > 1e-6 {
			t.Errorf("mono[%d] = %v, want %v", i, mono[i], want[i])
		}
	}
}

func TestDownmixMonoPassthrough(t *testing.T) {
	in := []float32{0.1, 0.2}
	if out := downmix(in, 1); &out[0] != &in[0] {
		t.Error("mono input was copied")
	}
}

func TestResampleHalvesAndDoubles(t *testing.T) {
	in := make([]float32, 48000)
	out := resample(in, 48000, 16000)
	if len(out) != 16000 {
		t.Errorf("48k->16k len = %d, want 16000", len(out))
	}

	out = resample(in[:8000], 8000, 16000)
	if len(out) != 16000 {
		t.Errorf("8k->16k len = %d, want 16000", len(out))
	}
}

func TestResampleInterpolates(t *testing.T) {
	// Upsampling a ramp must stay a ramp.
	in := []float32{0, 1, 2, 3}
	out := resample(in, 8000, 16000)

	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Fatalf("output not monotonic at %d: %v", i, out)
		}
	}
}

func TestInt16Scaling(t *testing.T) {
	out := int16sToFloat32([]int16{-32768, 0, 16384})
	want := []float32{-1, 0, 0.5}
	for i := range want {
		if math.Abs(float64(out[i]-want[i])) > 1e-6 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestDecode16kUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noises.xyz")
	if err := os.WriteFile(path, []byte("not audio at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Decode16k(path, 0); err == nil {
		t.Error("junk file decoded without error")
	}
}
