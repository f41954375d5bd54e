package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"transit/internal/domain"
	"transit/internal/repository"
	"transit/internal/service"
)

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mu       sync.RWMutex
	messages map[string]*domain.Message
}

// NewMockMessageRepository creates a new mock message repository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{messages: make(map[string]*domain.Message)}
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = msg
	return nil
}

func (m *MockMessageRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Message
	for _, msg := range m.messages {
		if msg.RecipientID == userID || msg.Type == domain.MessageTypeBroadcast {
			copy := *msg
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	msg.Read = true
	return nil
}

// ──────────────────────────────────────────────
// SENDING
// ──────────────────────────────────────────────

func TestSendMessage_DirectAndBroadcast(t *testing.T) {
	t.Parallel()

	messageRepo := NewMockMessageRepository()
	svc := service.NewMessageService(messageRepo)
	office := domain.Actor{UserID: "office-1", Role: domain.RoleOffice}

	direct, err := svc.SendMessage(context.Background(), service.SendMessageRequest{
		Actor:       office,
		RecipientID: "drv-1",
		Body:        "favor pasar por la oficina",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if direct.Type != domain.MessageTypeDirect {
		t.Errorf("expected type %s, got %s", domain.MessageTypeDirect, direct.Type)
	}
	if direct.SenderID != "office-1" {
		t.Errorf("expected sender office-1, got %s", direct.SenderID)
	}

	broadcast, err := svc.SendMessage(context.Background(), service.SendMessageRequest{
		Actor: office,
		Body:  "tarifas actualizadas desde el lunes",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if broadcast.Type != domain.MessageTypeBroadcast {
		t.Errorf("expected type %s, got %s", domain.MessageTypeBroadcast, broadcast.Type)
	}
}

func TestSendMessage_OfficeOnly(t *testing.T) {
	t.Parallel()

	svc := service.NewMessageService(NewMockMessageRepository())

	_, err := svc.SendMessage(context.Background(), service.SendMessageRequest{
		Actor: domain.Actor{UserID: "drv-1", Role: domain.RoleDriver},
		Body:  "hola",
	})
	if !errors.Is(err, service.ErrNotAllowed) {
		t.Errorf("expected ErrNotAllowed, got %v", err)
	}
}

func TestSendMessage_EmptyBody(t *testing.T) {
	t.Parallel()

	svc := service.NewMessageService(NewMockMessageRepository())

	_, err := svc.SendMessage(context.Background(), service.SendMessageRequest{
		Actor:       domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		RecipientID: "drv-1",
	})
	if err == nil {
		t.Error("expected an error for an empty body")
	}
}

// ──────────────────────────────────────────────
// INBOX
// ──────────────────────────────────────────────

func TestListMessages_IncludesBroadcasts(t *testing.T) {
	t.Parallel()

	messageRepo := NewMockMessageRepository()
	svc := service.NewMessageService(messageRepo)
	office := domain.Actor{UserID: "office-1", Role: domain.RoleOffice}

	for _, m := range []service.SendMessageRequest{
		{Actor: office, RecipientID: "drv-1", Body: "directo"},
		{Actor: office, RecipientID: "drv-2", Body: "para otro"},
		{Actor: office, Body: "aviso general"},
	} {
		if _, err := svc.SendMessage(context.Background(), m); err != nil {
			t.Fatalf("SendMessage failed: %v", err)
		}
	}

	inbox, err := svc.ListMessages(context.Background(), domain.Actor{UserID: "drv-1", Role: domain.RoleDriver}, "")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(inbox) != 2 {
		t.Errorf("expected 2 messages (direct plus broadcast), got %d", len(inbox))
	}
}

func TestListMessages_OthersInboxOfficeOnly(t *testing.T) {
	t.Parallel()

	svc := service.NewMessageService(NewMockMessageRepository())

	_, err := svc.ListMessages(context.Background(), domain.Actor{UserID: "drv-1", Role: domain.RoleDriver}, "drv-2")
	if !errors.Is(err, service.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}

	if _, err := svc.ListMessages(context.Background(), domain.Actor{UserID: "office-1", Role: domain.RoleOffice}, "drv-2"); err != nil {
		t.Fatalf("office reading another inbox failed: %v", err)
	}
}

func TestMarkMessageRead(t *testing.T) {
	t.Parallel()

	messageRepo := NewMockMessageRepository()
	svc := service.NewMessageService(messageRepo)

	msg, err := svc.SendMessage(context.Background(), service.SendMessageRequest{
		Actor:       domain.Actor{UserID: "office-1", Role: domain.RoleOffice},
		RecipientID: "drv-1",
		Body:        "recordatorio",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if err := svc.MarkMessageRead(context.Background(), msg.ID); err != nil {
		t.Fatalf("MarkMessageRead failed: %v", err)
	}

	inbox, err := svc.ListMessages(context.Background(), domain.Actor{UserID: "drv-1", Role: domain.RoleDriver}, "")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(inbox) != 1 || !inbox[0].Read {
		t.Error("expected the message to be flagged as read")
	}
}

func TestMarkMessageRead_EmptyIDRejected(t *testing.T) {
	t.Parallel()

	svc := service.NewMessageService(NewMockMessageRepository())

	if err := svc.MarkMessageRead(context.Background(), ""); !errors.Is(err, service.ErrInvalidMessageID) {
		t.Errorf("expected ErrInvalidMessageID, got %v", err)
	}
}
