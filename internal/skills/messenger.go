package skills

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"sync"
	"time"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"

	"matrix/internal/text"
)

const connectTimeout = 60 * time.Second

// Messenger sends WhatsApp messages through a paired device. The client
// connects lazily on the first send so the daemon boots without a
// WhatsApp session; pairing prints a QR code to the log.
type Messenger struct {
	storePath string
	contacts  map[string]string // spoken name -> phone number
	speaker   Speaker

	mu     sync.Mutex
	client *whatsmeow.Client
}

func NewMessenger(storePath string, contacts map[string]string, speaker Speaker) *Messenger {
	return &Messenger{storePath: storePath, contacts: contacts, speaker: speaker}
}

// Send parses "send message to <contact> <text>" and delivers it. An
// unknown contact or empty message is spoken back; transport failures
// are errors.
func (m *Messenger) Send(cmdText string) error {
	if len(m.contacts) == 0 {
		m.speaker.Speak("No contacts are configured.")
		return nil
	}

	name, number, body := m.parse(cmdText)
	if number == "" {
		m.speaker.Speak("I don't know that contact.")
		return nil
	}
	if body == "" {
		m.speaker.Speak("What should the message say?")
		return nil
	}

	client, err := m.connect()
	if err != nil {
		m.speaker.Speak("Messaging is not available right now.")
		return fmt.Errorf("whatsapp connect: %w", err)
	}

	jid := types.NewJID(number, types.DefaultUserServer)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = client.SendMessage(ctx, jid, &waProto.Message{
		Conversation: proto.String(body),
	})
	if err != nil {
		m.speaker.Speak("Sending the message failed.")
		return fmt.Errorf("send to %s: %w", name, err)
	}

	log.Info("Message sent", "contact", name)
	m.speaker.Speak("Message sent to " + name + ".")
	return nil
}

// parse finds the earliest configured contact named in the command and
// takes everything after the name as the message body. Longer names win
// on position ties so "anna maria" beats "anna".
func (m *Messenger) parse(cmdText string) (name, number, body string) {
	norm := text.Normalize(cmdText)

	bestIdx, bestLen := -1, 0
	for contact, num := range m.contacts {
		cname := text.Normalize(contact)
		idx := strings.Index(norm, cname)
		if idx < 0 {
			continue
		}
		if bestIdx == -1 || idx < bestIdx || (idx == bestIdx && len(cname) > bestLen) {
			bestIdx, bestLen = idx, len(cname)
			name, number = contact, num
		}
	}
	if bestIdx == -1 {
		return "", "", ""
	}

	rest := strings.TrimSpace(norm[bestIdx+bestLen:])
	rest = strings.TrimPrefix(rest, "that ")
	rest = strings.TrimPrefix(rest, "saying ")
	return name, number, strings.TrimSpace(rest)
}

func (m *Messenger) connect() (*whatsmeow.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil && m.client.IsConnected() {
		return m.client, nil
	}

	container, err := sqlstore.New(context.Background(), "sqlite", "file:"+m.storePath+"?_pragma=foreign_keys(1)", waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	device, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}

	client := whatsmeow.NewClient(device, waLog.Noop)

	connected := make(chan struct{}, 1)
	client.AddEventHandler(func(evt any) {
		if _, ok := evt.(*events.Connected); ok {
			connected <- struct{}{}
		}
	})

	if client.Store.ID == nil {
		// Not paired yet: surface the QR codes and wait for the user.
		qrChan, _ := client.GetQRChannel(context.Background())
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					log.Info("Scan this QR code with WhatsApp", "code", evt.Code)
				}
			}
		}()
	} else {
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
	}

	select {
	case <-connected:
	case <-time.After(connectTimeout):
		client.Disconnect()
		return nil, fmt.Errorf("connection timeout")
	}

	m.client = client
	return client, nil
}

// Close disconnects the WhatsApp client if one was ever established.
func (m *Messenger) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		m.client.Disconnect()
		m.client = nil
	}
}
