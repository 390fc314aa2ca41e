package speech

import "time"

// Injector lets control clients push synthetic utterances in front of
// the microphone. Listen drains injected text first and only then falls
// through to the real transcriber, so a "trigger" over the socket is
// indistinguishable from a spoken wake word. With a nil inner
// transcriber the injector alone drives the session, which keeps the
// daemon usable on machines without a microphone.
type Injector struct {
	inner    Transcriber
	injected chan string
}

func NewInjector(inner Transcriber) *Injector {
	return &Injector{
		inner:    inner,
		injected: make(chan string, 8),
	}
}

// Inject queues text as if it had been heard. Returns false when the
// queue is full.
func (in *Injector) Inject(text string) bool {
	select {
	case in.injected <- text:
		return true
	default:
		return false
	}
}

func (in *Injector) Listen(timeout, phraseLimit time.Duration) (string, error) {
	select {
	case text := <-in.injected:
		return text, nil
	default:
	}

	if in.inner == nil {
		select {
		case text := <-in.injected:
			return text, nil
		case <-time.After(timeout):
			return "", nil
		}
	}

	return in.inner.Listen(timeout, phraseLimit)
}
