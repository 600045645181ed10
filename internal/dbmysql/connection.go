package dbmysql

import (
	"time"
)

// Connection is a directed request between two users. At most one row exists
// per unordered user pair; the duplicate check covers both orderings.
type Connection struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RequesterID uint64     `gorm:"column:requester_id;not null;index:idx_requester_receiver,unique" json:"requester_id"`
	ReceiverID  uint64     `gorm:"column:receiver_id;not null;index:idx_requester_receiver,unique" json:"receiver_id"`
	Status      string     `gorm:"column:status;type:enum('pending','accepted','rejected','blocked');default:'pending'" json:"status"`
	Message     string     `gorm:"size:500" json:"message,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Requester *User `gorm:"-" json:"requester,omitempty"`
	Receiver  *User `gorm:"-" json:"receiver,omitempty"`
}
