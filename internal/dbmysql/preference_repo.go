package dbmysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type PreferenceRepository interface {
	GetOrCreate(ctx context.Context, userID uint64) (*NotificationPreference, error)
	Update(ctx context.Context, pref *NotificationPreference) error
	SetPushToken(ctx context.Context, userID uint64, token, platform string) error
	ClearPushToken(ctx context.Context, token string) error
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// GetOrCreate loads the user's preference row, creating the
// default-all-enabled row on first access.
func (r *preferenceRepository) GetOrCreate(ctx context.Context, userID uint64) (*NotificationPreference, error) {
	var pref NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if err == nil {
		return &pref, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	pref = NotificationPreference{
		UserID:          userID,
		EmailEnabled:    true,
		PushEnabled:     true,
		InAppEnabled:    true,
		TypePreferences: DefaultTypePreferences(),
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "08:00",
		DigestFrequency: "weekly",
	}
	if err := r.db.WithContext(ctx).Create(&pref).Error; err != nil {
		return nil, fmt.Errorf("failed to create default preferences: %w", err)
	}
	return &pref, nil
}

func (r *preferenceRepository) Update(ctx context.Context, pref *NotificationPreference) error {
	if err := r.db.WithContext(ctx).Save(pref).Error; err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return nil
}

func (r *preferenceRepository) SetPushToken(ctx context.Context, userID uint64, token, platform string) error {
	pref, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	pref.PushToken = token
	pref.PushPlatform = platform
	return r.Update(ctx, pref)
}

// ClearPushToken removes a token reported invalid by the push provider,
// whichever user it belongs to.
func (r *preferenceRepository) ClearPushToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&NotificationPreference{}).
		Where("push_token = ?", token).
		Updates(map[string]interface{}{
			"push_token":    "",
			"push_platform": "",
		}).Error
}
