package model

import "time"

type ChatSession struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	CommunityID    uint64    `gorm:"not null;index" json:"community_id"`
	UserID         uint64    `gorm:"index" json:"user_id"`
	Status         string    `gorm:"size:16;not null;default:'active'" json:"status"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ChatRole string

const (
	ChatUser      ChatRole = "user"
	ChatAssistant ChatRole = "assistant"
	ChatSystem    ChatRole = "system"
)

// ChatMessage rows are append-only, ordered by creation time.
type ChatMessage struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	SessionID uint64    `gorm:"not null;index:idx_session_time,priority:1" json:"session_id"`
	Role      ChatRole  `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_session_time,priority:2" json:"created_at"`
}
