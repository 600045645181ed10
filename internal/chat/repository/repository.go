package repository

import (
	"context"
	"errors"
	"time"

	"alumnihub/internal/dbmysql"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Save(ctx context.Context, msg *dbmysql.Message) error
	ByID(ctx context.Context, id uint64) (*dbmysql.Message, error)
	Between(ctx context.Context, userA, userB uint64, limit, offset int) ([]*dbmysql.Message, int64, error)
	LatestPerPartner(ctx context.Context, userID uint64, limit, offset int) ([]*dbmysql.Message, int64, error)
	UpdateStatus(ctx context.Context, id uint64, status string, readAt *time.Time) error
	SoftDelete(ctx context.Context, id uint64) error
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Save(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepo) ByID(ctx context.Context, id uint64) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// Between returns the pair's messages newest-first plus the total count for
// page metadata. Soft-deleted messages are excluded here, not masked.
func (r *messageRepo) Between(ctx context.Context, userA, userB uint64, limit, offset int) ([]*dbmysql.Message, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND is_deleted = ?",
			userA, userB, userB, userA, false)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*dbmysql.Message
	err := base.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// LatestPerPartner reconstructs the conversation list from the flat message
// table: for each counterpart of userID, the single most recent message.
// MAX(id) stands in for most-recent since ids are monotonic.
func (r *messageRepo) LatestPerPartner(ctx context.Context, userID uint64, limit, offset int) ([]*dbmysql.Message, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(DISTINCT IF(sender_id = ?, receiver_id, sender_id))
		     FROM messages
		     WHERE (sender_id = ? OR receiver_id = ?) AND is_deleted = false`,
			userID, userID, userID).
		Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var messages []*dbmysql.Message
	err = r.db.WithContext(ctx).
		Raw(`SELECT m.* FROM messages m
		     JOIN (
		         SELECT MAX(id) AS id
		         FROM messages
		         WHERE (sender_id = ? OR receiver_id = ?) AND is_deleted = false
		         GROUP BY IF(sender_id = ?, receiver_id, sender_id)
		     ) latest ON latest.id = m.id
		     ORDER BY m.created_at DESC
		     LIMIT ? OFFSET ?`,
			userID, userID, userID, limit, offset).
		Scan(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *messageRepo) UpdateStatus(ctx context.Context, id uint64, status string, readAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if readAt != nil {
		updates["read_at"] = readAt
	}
	return r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *messageRepo) SoftDelete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
