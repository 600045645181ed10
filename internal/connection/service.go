package connection

import (
	"context"
	"fmt"
	"log"
	"time"

	"alumnihub/internal/common"
	"alumnihub/internal/dbmysql"
)

// Notifier receives hand-offs after successful state changes. Notification
// delivery is best-effort and must never fail the connection operation.
type Notifier interface {
	ConnectionRequested(ctx context.Context, requesterID, receiverID, connectionID uint64) error
	ConnectionAccepted(ctx context.Context, accepterID, requesterID, connectionID uint64) error
}

// StatusView is GetStatus's answer from the caller's perspective.
type StatusView struct {
	Status        Status  `json:"status"`
	ConnectionID  *uint64 `json:"connection_id,omitempty"`
	InitiatedByMe bool    `json:"initiated_by_me"`
}

// Service defines the interface exposed to the handler layer
type Service interface {
	SendRequest(ctx context.Context, requesterID, receiverID uint64, message string) (*dbmysql.Connection, error)
	Respond(ctx context.Context, connectionID, responderID uint64, accepted bool) (*dbmysql.Connection, error)
	GetStatus(ctx context.Context, userID, otherID uint64) (*StatusView, error)
	Block(ctx context.Context, blockerID, blockedID uint64) (*dbmysql.Connection, error)
	IsBlocked(ctx context.Context, userA, userB uint64) (bool, error)
	ListConnections(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error)
	ListPending(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

// Constructor used in DI/wire
func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) SendRequest(ctx context.Context, requesterID, receiverID uint64, message string) (*dbmysql.Connection, error) {
	if requesterID == receiverID {
		return nil, common.ErrInvalidOperation("cannot send a connection request to yourself")
	}

	existing, err := s.repo.BetweenUsers(ctx, requesterID, receiverID)
	if err != nil {
		return nil, common.ErrInternal("failed to check existing connection", err)
	}
	if existing != nil {
		return nil, common.ErrConflict(fmt.Sprintf("connection already exists with status %s", existing.Status))
	}

	conn := &dbmysql.Connection{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      string(StatusPending),
		Message:     message,
	}
	if err := s.repo.Create(ctx, conn); err != nil {
		return nil, common.ErrInternal("failed to create connection", err)
	}

	if err := s.notifier.ConnectionRequested(ctx, requesterID, receiverID, conn.ID); err != nil {
		log.Printf("connection request notification failed: %v", err)
	}

	return conn, nil
}

func (s *service) Respond(ctx context.Context, connectionID, responderID uint64, accepted bool) (*dbmysql.Connection, error) {
	conn, err := s.repo.ByID(ctx, connectionID)
	if err != nil {
		return nil, common.ErrInternal("failed to load connection", err)
	}
	// unauthorized responders see not-found, not forbidden
	if conn == nil || conn.ReceiverID != responderID {
		return nil, common.ErrNotFound("connection request not found")
	}

	target := StatusRejected
	if accepted {
		target = StatusAccepted
	}
	if !CanTransition(Status(conn.Status), target) {
		return nil, common.ErrConflict(fmt.Sprintf("cannot move connection from %s to %s", conn.Status, target))
	}

	now := time.Now()
	conn.Status = string(target)
	conn.RespondedAt = &now
	if err := s.repo.Update(ctx, conn); err != nil {
		return nil, common.ErrInternal("failed to update connection", err)
	}

	if accepted {
		if err := s.notifier.ConnectionAccepted(ctx, responderID, conn.RequesterID, conn.ID); err != nil {
			log.Printf("connection accepted notification failed: %v", err)
		}
	}

	return conn, nil
}

func (s *service) GetStatus(ctx context.Context, userID, otherID uint64) (*StatusView, error) {
	conn, err := s.repo.BetweenUsers(ctx, userID, otherID)
	if err != nil {
		return nil, common.ErrInternal("failed to load connection", err)
	}
	if conn == nil {
		return &StatusView{Status: StatusNone}, nil
	}
	return &StatusView{
		Status:        Status(conn.Status),
		ConnectionID:  &conn.ID,
		InitiatedByMe: conn.RequesterID == userID,
	}, nil
}

func (s *service) Block(ctx context.Context, blockerID, blockedID uint64) (*dbmysql.Connection, error) {
	if blockerID == blockedID {
		return nil, common.ErrInvalidOperation("cannot block yourself")
	}

	conn, err := s.repo.BetweenUsers(ctx, blockerID, blockedID)
	if err != nil {
		return nil, common.ErrInternal("failed to load connection", err)
	}

	if conn == nil {
		conn = &dbmysql.Connection{
			RequesterID: blockerID,
			ReceiverID:  blockedID,
			Status:      string(StatusBlocked),
		}
		if err := s.repo.Create(ctx, conn); err != nil {
			return nil, common.ErrInternal("failed to create block", err)
		}
		return conn, nil
	}

	// re-blocking is idempotent
	if Status(conn.Status) == StatusBlocked {
		return conn, nil
	}

	conn.Status = string(StatusBlocked)
	if err := s.repo.Update(ctx, conn); err != nil {
		return nil, common.ErrInternal("failed to block connection", err)
	}
	return conn, nil
}

func (s *service) IsBlocked(ctx context.Context, userA, userB uint64) (bool, error) {
	conn, err := s.repo.BetweenUsers(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	return conn != nil && Status(conn.Status) == StatusBlocked, nil
}

func (s *service) ListConnections(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error) {
	return s.repo.ListAccepted(ctx, userID)
}

func (s *service) ListPending(ctx context.Context, userID uint64) ([]*dbmysql.Connection, error) {
	return s.repo.ListPendingIncoming(ctx, userID)
}
