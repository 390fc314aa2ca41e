package bus

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"matrix/internal/command"
)

func newTestBus(t *testing.T) (*Publisher, <-chan Event) {
	t.Helper()

	events := make(chan Event, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var evt Event
			if err := json.Unmarshal(data, &evt); err != nil {
				continue
			}
			events <- evt
		}
	}))
	t.Cleanup(srv.Close)

	pub, err := Connect("ws" + strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(pub.Close)

	return pub, events
}

func recv(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case evt := <-events:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestPublishEvents(t *testing.T) {
	pub, events := newTestBus(t)

	pub.State("listening")
	evt := recv(t, events)
	if evt.Kind != KindState || evt.State != "listening" || evt.From != "matrix" {
		t.Errorf("state event = %+v", evt)
	}
	if evt.Time.IsZero() {
		t.Error("event time not stamped")
	}

	pub.Utterance("open chrome")
	evt = recv(t, events)
	if evt.Kind != KindUtterance || evt.Text != "open chrome" {
		t.Errorf("utterance event = %+v", evt)
	}

	pub.StatsSnapshot(command.Stats{TotalProcessed: 5, Successful: 4, Failed: 1})
	evt = recv(t, events)
	if evt.Kind != KindStats || evt.Stats == nil || evt.Stats.TotalProcessed != 5 {
		t.Errorf("stats event = %+v", evt)
	}
}

func TestNilPublisherDrops(t *testing.T) {
	var pub *Publisher
	pub.State("idle") // must not panic
	pub.Close()
}
