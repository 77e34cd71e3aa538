package service

import (
	"context"
	"log"
	"time"

	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/pkg"
	"Neighborhood_Hub/internal/policy"
)

type ChatService struct {
	chats       ChatStore
	communities CommunityStore
	webhook     *pkg.WebhookClient
}

func NewChatService(chats ChatStore, communities CommunityStore, webhook *pkg.WebhookClient) *ChatService {
	return &ChatService{chats: chats, communities: communities, webhook: webhook}
}

func (s *ChatService) CreateSession(actor policy.Actor, communityID uint64) (*model.ChatSession, error) {
	if _, err := s.communities.FindByID(communityID); err != nil {
		return nil, storeErr(err)
	}
	res := &policy.Resource{CommunityID: communityID}
	if err := policyErr(policy.CanPerform(actor, policy.ActionChatSend, res)); err != nil {
		return nil, err
	}
	session := &model.ChatSession{
		CommunityID:    communityID,
		UserID:         actor.ID,
		Status:         "active",
		LastActivityAt: time.Now(),
	}
	if err := s.chats.CreateSession(session); err != nil {
		return nil, storeErr(err)
	}
	return session, nil
}

// SendMessage persists the user's message, bumps session activity, then
// forwards to the assistant webhook. The forward is best-effort: a webhook
// failure is logged, never returned, and the reply arrives later through
// HandleAssistantReply.
func (s *ChatService) SendMessage(actor policy.Actor, sessionID uint64, content string) (*model.ChatMessage, error) {
	if content == "" {
		return nil, invalid("content required")
	}
	session, err := s.chats.FindSession(sessionID)
	if err != nil {
		return nil, storeErr(err)
	}
	res := &policy.Resource{CommunityID: session.CommunityID}
	if err := policyErr(policy.CanPerform(actor, policy.ActionChatSend, res)); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		SessionID: sessionID,
		Role:      model.ChatUser,
		Content:   content,
	}
	if err := s.chats.AppendMessage(msg); err != nil {
		return nil, storeErr(err)
	}
	if err := s.chats.TouchSession(sessionID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.webhook.Send(ctx, pkg.WebhookPayload{
		SessionID:   sessionID,
		Content:     content,
		CommunityID: session.CommunityID,
		UserID:      actor.ID,
	}); err != nil {
		log.Printf("chat webhook forward failed: %v", err)
	}

	return msg, nil
}

// HandleAssistantReply persists the workflow engine's callback as an
// assistant message.
func (s *ChatService) HandleAssistantReply(sessionID uint64, reply string) (*model.ChatMessage, error) {
	if reply == "" {
		return nil, invalid("reply required")
	}
	if _, err := s.chats.FindSession(sessionID); err != nil {
		return nil, storeErr(err)
	}
	msg := &model.ChatMessage{
		SessionID: sessionID,
		Role:      model.ChatAssistant,
		Content:   reply,
	}
	if err := s.chats.AppendMessage(msg); err != nil {
		return nil, storeErr(err)
	}
	if err := s.chats.TouchSession(sessionID); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *ChatService) ListMessages(actor policy.Actor, sessionID uint64, limit int) ([]model.ChatMessage, error) {
	session, err := s.chats.FindSession(sessionID)
	if err != nil {
		return nil, storeErr(err)
	}
	res := &policy.Resource{CommunityID: session.CommunityID}
	if err := policyErr(policy.CanPerform(actor, policy.ActionChatSend, res)); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.chats.ListMessages(sessionID, limit)
}
