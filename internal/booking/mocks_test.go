package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cafe-bot/internal/models"
)

// MockStore is an in-memory Store with the same atomicity contract as the
// sqlite implementation: Resolve flips a pending row exactly once.
type MockStore struct {
	mu   sync.Mutex
	reqs map[string]*models.Request

	InsertFunc      func(ctx context.Context, req *models.Request) error
	CountActiveFunc func(ctx context.Context, slot models.SlotKey) (int, error)

	GetCalls     int
	ResolveCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{reqs: make(map[string]*models.Request)}
}

func key(kind models.Kind, id string) string {
	return string(kind) + "/" + id
}

func (m *MockStore) Insert(ctx context.Context, req *models.Request) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.reqs[key(req.Kind, req.ID)] = &cp
	return nil
}

func (m *MockStore) Get(ctx context.Context, kind models.Kind, id string) (*models.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++

	req, ok := m.reqs[key(kind, id)]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (m *MockStore) CountActive(ctx context.Context, slot models.SlotKey) (int, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx, slot)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, req := range m.reqs {
		if req.Kind == models.KindReservation && req.Slot() == slot && req.Status != models.StatusDeclined {
			count++
		}
	}
	return count, nil
}

func (m *MockStore) Resolve(ctx context.Context, kind models.Kind, id string, status models.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveCalls++

	req, ok := m.reqs[key(kind, id)]
	if !ok || req.Status != models.StatusPending {
		return false, nil
	}
	now := time.Now()
	req.Status = status
	req.ResolvedAt = &now
	return true, nil
}

func (m *MockStore) SetOperatorMessageID(ctx context.Context, kind models.Kind, id, msgID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.reqs[key(kind, id)]
	if !ok {
		return fmt.Errorf("no %s found with id %s", kind, id)
	}
	req.OperatorMsgID = msgID
	return nil
}

// Seed drops a request straight into the store.
func (m *MockStore) Seed(req *models.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.reqs[key(req.Kind, req.ID)] = &cp
}

// Stored returns the live stored copy, or nil.
func (m *MockStore) Stored(kind models.Kind, id string) *models.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.reqs[key(kind, id)]
	if !ok {
		return nil
	}
	cp := *req
	return &cp
}

func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reqs)
}

type postedAlert struct {
	Text    string
	Actions []AlertAction
}

type editedMessage struct {
	MsgID string
	Text  string
}

// MockOperator records every chat interaction.
type MockOperator struct {
	mu     sync.Mutex
	nextID int

	Alerts []postedAlert
	Edits  []editedMessage
	Acks   []string

	PostAlertFunc   func(ctx context.Context, text string, actions []AlertAction) (string, error)
	EditMessageFunc func(ctx context.Context, msgID, text string) error
}

func NewMockOperator() *MockOperator {
	return &MockOperator{}
}

func (m *MockOperator) PostAlert(ctx context.Context, text string, actions []AlertAction) (string, error) {
	if m.PostAlertFunc != nil {
		return m.PostAlertFunc(ctx, text, actions)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.Alerts = append(m.Alerts, postedAlert{Text: text, Actions: actions})
	return fmt.Sprintf("msg-%d", m.nextID), nil
}

func (m *MockOperator) EditMessage(ctx context.Context, msgID, text string) error {
	if m.EditMessageFunc != nil {
		return m.EditMessageFunc(ctx, msgID, text)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Edits = append(m.Edits, editedMessage{MsgID: msgID, Text: text})
	return nil
}

func (m *MockOperator) Acknowledge(ctx context.Context, eventID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Acks = append(m.Acks, text)
	return nil
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockEmail records outcome emails.
type MockEmail struct {
	mu    sync.Mutex
	Sends []sentEmail

	SendFunc func(ctx context.Context, to, subject, body string) error
}

func NewMockEmail() *MockEmail {
	return &MockEmail{}
}

func (m *MockEmail) Send(ctx context.Context, to, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends = append(m.Sends, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}
