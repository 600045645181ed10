package dbmysql

import (
	"time"
)

// User is the external identity the core references. Registration, profiles
// and password handling live in the account service.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"type:enum('admin','student','alumni');default:'student'" json:"role"`
	Status    string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
