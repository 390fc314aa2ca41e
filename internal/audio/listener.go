package audio

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"matrix/internal/text"
	"matrix/pkg/stt"
)

// Listener turns microphone audio into normalized utterances. It is the
// recognizer side of the assistant: record a phrase, run it through
// whisper, hand back lowercase text.
type Listener struct {
	rec      *Recorder
	stt      *stt.Transcriber
	language string
}

func NewListener(rec *Recorder, tr *stt.Transcriber, language string) *Listener {
	if language == "" {
		language = "en"
	}
	return &Listener{rec: rec, stt: tr, language: language}
}

// Listen records one phrase and transcribes it. Silence yields an empty
// utterance and no error.
func (l *Listener) Listen(timeout, phraseLimit time.Duration) (string, error) {
	samples, err := l.rec.RecordPhrase(timeout, phraseLimit)
	if err != nil {
		return "", fmt.Errorf("record: %w", err)
	}
	if len(samples) == 0 {
		return "", nil
	}

	res, err := l.stt.TranscribePCM(context.Background(), samples, stt.Options{
		Language: l.language,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	utterance := text.Normalize(res.Text)
	log.Debug("Heard", "text", utterance)
	return utterance, nil
}
