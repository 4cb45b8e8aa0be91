package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"cafe-bot/internal/booking"
)

// DecisionHandler receives operator decision events parsed off the wire.
type DecisionHandler func(ctx context.Context, ev booking.DecisionEvent)

type Config struct {
	// DataDir holds the whatsmeow session database.
	DataDir string
	// OperatorJID is the chat the bot posts alerts to and accepts
	// decisions from. Either a full JID or a bare phone number.
	OperatorJID string
}

// Service is the operator chat channel: it posts pending alerts, edits them
// after decisions, sends acks, and turns inbound operator messages into
// decision events.
type Service struct {
	client   *whatsmeow.Client
	operator types.JID
	log      zerolog.Logger

	mu      sync.RWMutex
	handler DecisionHandler
}

// NewService creates the WhatsApp service backed by a sqlite session store.
func NewService(cfg *Config, log zerolog.Logger) (*Service, error) {
	ctx := context.Background()

	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	operator, err := parseJID(cfg.OperatorJID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator jid %q: %w", cfg.OperatorJID, err)
	}

	service := &Service{
		client:   whatsmeow.NewClient(deviceStore, nil),
		operator: operator,
		log:      log.With().Str("component", "whatsapp").Logger(),
	}
	service.client.AddEventHandler(service.eventHandler)

	return service, nil
}

func parseJID(raw string) (types.JID, error) {
	if raw == "" {
		return types.JID{}, fmt.Errorf("empty jid")
	}
	if strings.ContainsRune(raw, '@') {
		return types.ParseJID(raw)
	}
	return types.NewJID(raw, types.DefaultUserServer), nil
}

// Connect connects to WhatsApp, running the QR pairing flow on first use.
func (s *Service) Connect() error {
	if s.client.Store.ID == nil {
		qrChan, _ := s.client.GetQRChannel(context.Background())
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		for evt := range qrChan {
			if evt.Event == "code" {
				q, err := qrcode.New(evt.Code, qrcode.Medium)
				if err != nil {
					fmt.Printf("QR Code: %s\n", evt.Code)
				} else {
					fmt.Println("\n" + q.ToSmallString(false))
				}
				fmt.Println("📱 Scan the QR code with WhatsApp (Settings > Linked Devices) to pair the bot.")
			} else {
				s.log.Info().Str("event", evt.Event).Msg("login event")
			}
		}
		return nil
	}

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// Disconnect disconnects from WhatsApp.
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// SetDecisionHandler sets the callback for inbound operator decisions.
func (s *Service) SetDecisionHandler(handler DecisionHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// PostAlert sends a pending alert to the operator chat. The action tokens
// are appended as reply commands; sending one back triggers the decision.
// Returns the message id so the alert can be edited later.
func (s *Service) PostAlert(ctx context.Context, text string, actions []booking.AlertAction) (string, error) {
	var b strings.Builder
	b.WriteString(text)
	if len(actions) > 0 {
		b.WriteString("\n\nResponda com:")
		for _, a := range actions {
			fmt.Fprintf(&b, "\n%s → %s", a.Label, a.Token)
		}
	}

	full := b.String()
	resp, err := s.client.SendMessage(ctx, s.operator, &waE2E.Message{Conversation: &full})
	if err != nil {
		return "", fmt.Errorf("failed to post operator alert: %w", err)
	}

	s.log.Debug().Str("msg_id", string(resp.ID)).Msg("operator alert posted")
	return string(resp.ID), nil
}

// EditMessage rewrites a previously posted alert in place.
func (s *Service) EditMessage(ctx context.Context, msgID, text string) error {
	edit := s.client.BuildEdit(s.operator, types.MessageID(msgID), &waE2E.Message{Conversation: &text})
	if _, err := s.client.SendMessage(ctx, s.operator, edit); err != nil {
		return fmt.Errorf("failed to edit operator message %s: %w", msgID, err)
	}
	return nil
}

// Acknowledge sends a short status line to the operator chat in response to
// a decision event.
func (s *Service) Acknowledge(ctx context.Context, eventID, text string) error {
	if _, err := s.client.SendMessage(ctx, s.operator, &waE2E.Message{Conversation: &text}); err != nil {
		return fmt.Errorf("failed to acknowledge event %s: %w", eventID, err)
	}
	return nil
}

func (s *Service) eventHandler(evt interface{}) {
	switch evt := evt.(type) {
	case *events.Message:
		s.handleMessage(evt)
	case *events.Connected:
		s.log.Info().Msg("connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Warn().Msg("logged out from WhatsApp, re-pairing required")
	}
}

// handleMessage forwards operator messages as decision events. Messages
// from anyone but the operator chat are ignored; customers talk to a human,
// not to this bot.
func (s *Service) handleMessage(msg *events.Message) {
	if msg.Info.IsFromMe {
		return
	}
	if msg.Info.Sender.User != s.operator.User {
		return
	}

	text := msg.Message.GetConversation()
	if text == "" {
		text = msg.Message.GetExtendedTextMessage().GetText()
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	s.mu.RLock()
	handler := s.handler
	s.mu.RUnlock()
	if handler == nil {
		return
	}

	ev := booking.DecisionEvent{
		EventID: string(msg.Info.ID),
		Token:   text,
	}

	// Slow store or mail I/O must not stall the WhatsApp event loop.
	go handler(context.Background(), ev)
}
