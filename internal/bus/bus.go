// Package bus publishes assistant telemetry over a websocket so other
// desktop tools can watch what the assistant is doing.
package bus

import (
	"encoding/json"
	log "log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"matrix/internal/command"
)

const source = "matrix"

// Event kinds published on the bus.
const (
	KindState     = "state"     // session activity change
	KindUtterance = "utterance" // command the assistant heard
	KindStats     = "stats"     // dispatch counters snapshot
)

type Event struct {
	From  string         `json:"from"`
	Kind  string         `json:"kind"`
	State string         `json:"state,omitempty"`
	Text  string         `json:"text,omitempty"`
	Stats *command.Stats `json:"stats,omitempty"`
	Time  time.Time      `json:"time"`
}

// Publisher writes events to a websocket endpoint. A nil Publisher is
// valid and drops everything, so telemetry stays optional.
type Publisher struct {
	url  string
	mu   sync.Mutex // websocket conns do not allow concurrent writers
	conn *websocket.Conn
}

func Connect(wsURL string) (*Publisher, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to telemetry bus", "url", wsURL)
	return &Publisher{url: u.String(), conn: conn}, nil
}

// Publish sends one event. Failures are logged and swallowed; telemetry
// must never break the session.
func (p *Publisher) Publish(evt Event) {
	if p == nil {
		return
	}

	evt.From = source
	if evt.Time.IsZero() {
		evt.Time = time.Now()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Warn("Bus marshal failed", "err", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn("Bus write failed, redialing", "err", err)
		if !p.redial() {
			return
		}
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn("Bus write failed after redial, dropping event", "err", err)
		}
	}
}

// redial makes one reconnection attempt. Events published while the
// endpoint stays down are dropped, never queued.
func (p *Publisher) redial() bool {
	p.conn.Close()
	conn, _, err := websocket.DefaultDialer.Dial(p.url, nil)
	if err != nil {
		return false
	}
	p.conn = conn
	log.Info("Reconnected to telemetry bus", "url", p.url)
	return true
}

func (p *Publisher) State(state string) {
	p.Publish(Event{Kind: KindState, State: state})
}

func (p *Publisher) Utterance(text string) {
	p.Publish(Event{Kind: KindUtterance, Text: text})
}

func (p *Publisher) StatsSnapshot(stats command.Stats) {
	p.Publish(Event{Kind: KindStats, Stats: &stats})
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.Close()
}
