package dbmysql

import (
	"time"
)

const (
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
)

// Message is one direct message. Deletion is soft: content stays in the row
// but is excluded from every read path.
type Message struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   uint64     `gorm:"column:sender_id;not null;index" json:"sender_id"`
	ReceiverID uint64     `gorm:"column:receiver_id;not null;index" json:"receiver_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Status     string     `gorm:"type:enum('sent','delivered','read');default:'sent'" json:"status"`
	ReadAt     *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	IsDeleted  bool       `gorm:"column:is_deleted;default:false" json:"-"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

// statusRank orders message statuses so a status can only move forward.
var statusRank = map[string]int{
	MessageStatusSent:      0,
	MessageStatusDelivered: 1,
	MessageStatusRead:      2,
}

// CanAdvanceStatus reports whether moving from one message status to another
// is a forward transition. read never rolls back to sent.
func CanAdvanceStatus(from, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
