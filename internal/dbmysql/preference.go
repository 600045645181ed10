package dbmysql

import (
	"alumnihub/internal/common"
	"time"
)

// TypePreferenceMap stores the per-type opt-in flags as a JSON column.
type TypePreferenceMap map[common.NotificationType]bool

// DefaultTypePreferences builds the default-all-enabled map from the
// canonical type list, so a new notification kind is opted in everywhere
// the moment it is declared.
func DefaultTypePreferences() TypePreferenceMap {
	prefs := make(TypePreferenceMap)
	for _, t := range common.AllNotificationTypes() {
		prefs[t] = true
	}
	return prefs
}

// NotificationPreference holds one user's delivery settings. Created lazily
// with all types enabled on first access.
type NotificationPreference struct {
	ID                uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint64            `gorm:"uniqueIndex;not null" json:"user_id"`
	EmailEnabled      bool              `gorm:"default:true" json:"email_enabled"`
	PushEnabled       bool              `gorm:"default:true" json:"push_enabled"`
	InAppEnabled      bool              `gorm:"default:true" json:"in_app_enabled"`
	TypePreferences   TypePreferenceMap `gorm:"type:json;serializer:json" json:"type_preferences"`
	QuietHoursEnabled bool              `gorm:"default:false" json:"quiet_hours_enabled"`
	QuietHoursStart   string            `gorm:"size:5;default:'22:00'" json:"quiet_hours_start"`
	QuietHoursEnd     string            `gorm:"size:5;default:'08:00'" json:"quiet_hours_end"`
	DigestEnabled     bool              `gorm:"default:false" json:"digest_enabled"`
	DigestFrequency   string            `gorm:"size:20;default:'weekly'" json:"digest_frequency"`
	PushToken         string            `gorm:"size:255" json:"-"`
	PushPlatform      string            `gorm:"size:10" json:"push_platform,omitempty"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TypeEnabled reports whether the given kind is opted in. Types absent from
// the map default to enabled, matching the lazy-created default map.
func (p *NotificationPreference) TypeEnabled(t common.NotificationType) bool {
	if p.TypePreferences == nil {
		return true
	}
	enabled, ok := p.TypePreferences[t]
	if !ok {
		return true
	}
	return enabled
}
