package mysql

import (
	"time"

	"Neighborhood_Hub/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func (r *ChatRepository) CreateSession(s *model.ChatSession) error {
	return r.DB.Create(s).Error
}

func (r *ChatRepository) FindSession(id uint64) (*model.ChatSession, error) {
	var s model.ChatSession
	err := r.DB.First(&s, id).Error
	return &s, err
}

// TouchSession bumps last_activity_at; called on every message send.
func (r *ChatRepository) TouchSession(id uint64) error {
	return r.DB.Model(&model.ChatSession{}).
		Where("id = ?", id).
		Update("last_activity_at", time.Now()).Error
}

func (r *ChatRepository) AppendMessage(m *model.ChatMessage) error {
	return r.DB.Create(m).Error
}

func (r *ChatRepository) ListMessages(sessionID uint64, limit int) ([]model.ChatMessage, error) {
	var list []model.ChatMessage
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
