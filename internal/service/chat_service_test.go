package service

import (
	"errors"
	"testing"
	"time"

	"Neighborhood_Hub/internal/apperr"
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/policy"

	"gorm.io/gorm"
)

type fakeChatStore struct {
	nextSessionID uint64
	nextMessageID uint64
	sessions      map[uint64]*model.ChatSession
	messages      []model.ChatMessage
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{sessions: map[uint64]*model.ChatSession{}}
}

func (f *fakeChatStore) CreateSession(s *model.ChatSession) error {
	f.nextSessionID++
	s.ID = f.nextSessionID
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeChatStore) FindSession(id uint64) (*model.ChatSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeChatStore) TouchSession(id uint64) error {
	s, ok := f.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.LastActivityAt = time.Now()
	return nil
}

func (f *fakeChatStore) AppendMessage(m *model.ChatMessage) error {
	f.nextMessageID++
	m.ID = f.nextMessageID
	m.CreatedAt = time.Now()
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeChatStore) ListMessages(sessionID uint64, limit int) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func newChatFixture(t *testing.T) (*ChatService, *fakeChatStore, *model.Community) {
	t.Helper()
	communities := newFakeCommunityStore()
	c := seedCommunity(t, communities)
	chats := newFakeChatStore()
	return NewChatService(chats, communities, nil), chats, c
}

func TestChatService_CreateSession(t *testing.T) {
	svc, _, c := newChatFixture(t)

	t.Run("missing community", func(t *testing.T) {
		if _, err := svc.CreateSession(resident(2, c.ID), 999); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("non-member denied", func(t *testing.T) {
		actor := policy.Actor{ID: 3, Role: model.RoleUser}
		if _, err := svc.CreateSession(actor, c.ID); !errors.Is(err, apperr.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("member opens a session", func(t *testing.T) {
		s, err := svc.CreateSession(resident(2, c.ID), c.ID)
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		if s.ID == 0 || s.Status != "active" || s.UserID != 2 {
			t.Fatalf("session = %+v", s)
		}
	})
}

func TestChatService_Conversation(t *testing.T) {
	svc, chats, c := newChatFixture(t)
	member := resident(2, c.ID)

	session, err := svc.CreateSession(member, c.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, err := svc.SendMessage(member, session.ID, ""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("empty content: err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.SendMessage(member, 999, "hello"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown session: err = %v, want ErrNotFound", err)
	}
	outsider := policy.Actor{ID: 9, Role: model.RoleUser}
	if _, err := svc.SendMessage(outsider, session.ID, "hello"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("outsider: err = %v, want ErrForbidden", err)
	}

	before := chats.sessions[session.ID].LastActivityAt
	msg, err := svc.SendMessage(member, session.ID, "is the pool open?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Role != model.ChatUser {
		t.Fatalf("role = %s, want user", msg.Role)
	}
	if !chats.sessions[session.ID].LastActivityAt.After(before) && !chats.sessions[session.ID].LastActivityAt.Equal(before) {
		t.Fatal("session activity not bumped")
	}

	reply, err := svc.HandleAssistantReply(session.ID, "Yes, until 9pm.")
	if err != nil {
		t.Fatalf("assistant reply: %v", err)
	}
	if reply.Role != model.ChatAssistant {
		t.Fatalf("role = %s, want assistant", reply.Role)
	}
	if _, err := svc.HandleAssistantReply(999, "hi"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("reply to unknown session: err = %v, want ErrNotFound", err)
	}

	history, err := svc.ListMessages(member, session.ID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if history[0].Role != model.ChatUser || history[1].Role != model.ChatAssistant {
		t.Fatalf("history order wrong: %+v", history)
	}

	if _, err := svc.ListMessages(outsider, session.ID, 0); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("outsider list: err = %v, want ErrForbidden", err)
	}
}
