package connection

import (
	"context"
	"errors"

	"alumnihub/internal/dbmysql"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, conn *dbmysql.Connection) error
	ByID(ctx context.Context, id uint64) (*dbmysql.Connection, error)
	BetweenUsers(ctx context.Context, userA, userB uint64) (*dbmysql.Connection, error)
	Update(ctx context.Context, conn *dbmysql.Connection) error
	ListAccepted(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error)
	ListPendingIncoming(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, conn *dbmysql.Connection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

func (r *repository) ByID(ctx context.Context, id uint64) (*dbmysql.Connection, error) {
	var conn dbmysql.Connection
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

// BetweenUsers looks the pair up in both orderings; at most one row exists
// per unordered pair. Returns nil when no row exists.
func (r *repository) BetweenUsers(ctx context.Context, userA, userB uint64) (*dbmysql.Connection, error) {
	var conn dbmysql.Connection
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *repository) Update(ctx context.Context, conn *dbmysql.Connection) error {
	return r.db.WithContext(ctx).Save(conn).Error
}

func (r *repository) ListAccepted(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error) {
	var conns []*dbmysql.Connection
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? OR receiver_id = ?) AND status = ?",
			userID, userID, string(StatusAccepted)).
		Order("responded_at DESC").
		Find(&conns).Error
	return conns, err
}

func (r *repository) ListPendingIncoming(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error) {
	var conns []*dbmysql.Connection
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, string(StatusPending)).
		Order("created_at DESC").
		Find(&conns).Error
	return conns, err
}
