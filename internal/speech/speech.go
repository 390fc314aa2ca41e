// Package speech defines the narrow interfaces for the transcription and
// synthesis collaborators, plus the asynchronous speak queue that keeps
// playback off the session loop.
package speech

import (
	log "log/slog"
	"time"
)

// Transcriber produces lowercase free text from one audio utterance.
// An empty string means silence, timeout or unintelligible speech; an
// error means the capture backend itself failed.
type Transcriber interface {
	Listen(timeout, phraseLimit time.Duration) (string, error)
}

// Synthesizer plays one text string back to the user, blocking until
// playback finishes.
type Synthesizer interface {
	Speak(text string) error
}

// Queue decouples speech playback from the session loop: Speak enqueues
// and returns immediately, a single worker goroutine dequeues and blocks
// on the synthesizer. The queue channel is the only thread-crossing
// structure in the process.
type Queue struct {
	synth Synthesizer
	texts chan string
	done  chan struct{}
}

func NewQueue(synth Synthesizer, buffer int) *Queue {
	if buffer <= 0 {
		buffer = 16
	}
	q := &Queue{
		synth: synth,
		texts: make(chan string, buffer),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for text := range q.texts {
		if err := q.synth.Speak(text); err != nil {
			log.Error("Speech playback failed", "err", err)
		}
	}
}

// Speak enqueues text for playback. Never blocks the caller for playback,
// only for queue backpressure.
func (q *Queue) Speak(text string) {
	if text == "" {
		return
	}
	q.texts <- text
}

// Close drains pending speech and stops the worker.
func (q *Queue) Close() {
	close(q.texts)
	<-q.done
}
