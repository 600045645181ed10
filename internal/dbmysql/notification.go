package dbmysql

import (
	"alumnihub/internal/common"
	"time"
)

// Notification is one persisted in-app notification row. Channel delivery
// (email, push) is handled by queued jobs referencing this row.
type Notification struct {
	ID                string                      `gorm:"primaryKey;size:36" json:"id"`
	UserID            uint64                      `gorm:"not null;index" json:"user_id"`
	SenderID          *uint64                     `gorm:"column:sender_id" json:"sender_id,omitempty"`
	Type              string                      `gorm:"not null;size:50;index" json:"type"`
	Title             string                      `gorm:"not null;size:255" json:"title"`
	Message           string                      `gorm:"not null;type:text" json:"message"`
	Channel           string                      `gorm:"not null;size:20;default:'in_app'" json:"channel"`
	Priority          string                      `gorm:"not null;size:10;default:'normal'" json:"priority"`
	IsRead            bool                        `gorm:"default:false;index" json:"is_read"`
	ReadAt            *time.Time                  `json:"read_at,omitempty"`
	ActionURL         string                      `gorm:"size:512" json:"action_url,omitempty"`
	ActionLabel       string                      `gorm:"size:100" json:"action_label,omitempty"`
	RelatedEntityID   *uint64                     `json:"related_entity_id,omitempty"`
	RelatedEntityType string                      `gorm:"size:50" json:"related_entity_type,omitempty"`
	Metadata          common.NotificationMetadata `gorm:"type:json;serializer:json" json:"metadata,omitempty"`
	ExpiresAt         *time.Time                  `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt         time.Time                   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"autoUpdateTime" json:"-"`
}
