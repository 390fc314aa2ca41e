package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 16000
	frameSize  = 320 // 20ms at 16kHz

	silenceThreshRMS = 0.015
	trailingSilence  = 600 * time.Millisecond
)

// Recorder captures mono 16kHz float32 PCM from the default input
// device. Init must be called once before recording and Close once at
// shutdown.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordPhrase waits up to wait for speech to start, then records until
// the speaker trails off or limit of speech has been captured. A wait
// with no speech returns empty samples and no error; the caller treats
// that as silence.
func (r *Recorder) RecordPhrase(wait, limit time.Duration) ([]float32, error) {
	if wait <= 0 {
		wait = 5 * time.Second
	}
	if limit <= 0 {
		limit = 10 * time.Second
	}

	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	const frameDur = time.Second * frameSize / sampleRate

	var (
		speaking      bool
		silenceFrames int
	)

	waitFrames := int(wait / frameDur)
	maxFrames := int(limit / frameDur)
	silenceLimit := int(trailingSilence / frameDur)

	for i := 0; !speaking || i < maxFrames; i++ {
		if !speaking && i >= waitFrames {
			return nil, nil // nobody spoke
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		rms := frameRMS(buf)

		if rms > silenceThreshRMS {
			if !speaking {
				speaking = true
				i = 0
			}
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}

		if speaking {
			silenceFrames++
			if silenceFrames >= silenceLimit {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}

// RecordUntil records until stop fires or maxDur elapses. Used for
// free-form capture where the caller controls the end of the take.
func (r *Recorder) RecordUntil(stop <-chan struct{}, maxDur time.Duration) ([]float32, error) {
	if maxDur <= 0 {
		maxDur = 15 * time.Second
	}

	const untilFrameSize = 1024
	buf := make([]float32, untilFrameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	deadline := time.Now().Add(maxDur)
	out := make([]float32, 0, int(float64(sampleRate)*maxDur.Seconds()))

	for {
		if time.Now().After(deadline) {
			break
		}

		select {
		case <-stop:
			return out, nil
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		out = append(out, buf...)
	}

	if len(out) == 0 {
		return nil, errors.New("no audio recorded")
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
