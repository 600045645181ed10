package service

import (
	"context"
	"log"
	"time"

	"alumnihub/internal/chat/repository"
	"alumnihub/internal/common"
	"alumnihub/internal/dbmysql"
)

const maxContentLength = 5000

// Notifier receives the new-message hand-off so the recipient gets an
// email/push later even when offline. Best-effort only.
type Notifier interface {
	NewMessage(ctx context.Context, senderID, receiverID, messageID uint64, preview string) error
}

// BlockChecker answers whether a user pair is blocked. Messaging does not
// require an accepted connection, but a block refuses it.
type BlockChecker interface {
	IsBlocked(ctx context.Context, userA, userB uint64) (bool, error)
}

// ConversationSummary is one row of the derived conversation list.
type ConversationSummary struct {
	PartnerID   uint64           `json:"partner_id"`
	LastMessage *dbmysql.Message `json:"last_message"`
	Unread      bool             `json:"unread"`
}

// ChatService defines the interface exposed to the gateway and HTTP layers
type ChatService interface {
	Send(ctx context.Context, senderID, receiverID uint64, content string) (*dbmysql.Message, error)
	GetConversation(ctx context.Context, userID, partnerID uint64, page, limit int) ([]*dbmysql.Message, common.Pagination, error)
	ListConversations(ctx context.Context, userID uint64, page, limit int) ([]*ConversationSummary, common.Pagination, error)
	MarkRead(ctx context.Context, messageID, readerID uint64) (*dbmysql.Message, bool, error)
	MarkDelivered(ctx context.Context, messageID uint64) error
	Delete(ctx context.Context, messageID, requesterID uint64) error
}

type chatService struct {
	repo     repository.MessageRepository
	users    dbmysql.UserRepository
	blocks   BlockChecker
	notifier Notifier
}

// Constructor used in DI/wire
func NewChatService(
	repo repository.MessageRepository,
	users dbmysql.UserRepository,
	blocks BlockChecker,
	notifier Notifier,
) ChatService {
	return &chatService{repo: repo, users: users, blocks: blocks, notifier: notifier}
}

func (s *chatService) Send(ctx context.Context, senderID, receiverID uint64, content string) (*dbmysql.Message, error) {
	if senderID == receiverID {
		return nil, common.ErrInvalidOperation("cannot message yourself")
	}
	if content == "" {
		return nil, common.ErrInvalidOperation("message content cannot be empty")
	}
	if len(content) > maxContentLength {
		return nil, common.ErrInvalidOperation("message content too long")
	}

	for _, id := range []uint64{senderID, receiverID} {
		exists, err := s.users.Exists(ctx, id)
		if err != nil {
			return nil, common.ErrInternal("failed to resolve user", err)
		}
		if !exists {
			return nil, common.ErrNotFound("user not found")
		}
	}

	blocked, err := s.blocks.IsBlocked(ctx, senderID, receiverID)
	if err != nil {
		return nil, common.ErrInternal("failed to check block status", err)
	}
	if blocked {
		return nil, common.ErrInvalidOperation("messaging is blocked between these users")
	}

	msg := &dbmysql.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Status:     dbmysql.MessageStatusSent,
	}
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, common.ErrInternal("failed to save message", err)
	}

	preview := content
	if len(preview) > 100 {
		preview = preview[:100]
	}
	if err := s.notifier.NewMessage(ctx, senderID, receiverID, msg.ID, preview); err != nil {
		log.Printf("new message notification failed: %v", err)
	}

	return msg, nil
}

// GetConversation pages newest-first internally, then reverses each page so
// clients render chronologically.
func (s *chatService) GetConversation(ctx context.Context, userID, partnerID uint64, page, limit int) ([]*dbmysql.Message, common.Pagination, error) {
	page, limit = normalizePage(page, limit)

	messages, total, err := s.repo.Between(ctx, userID, partnerID, limit, (page-1)*limit)
	if err != nil {
		return nil, common.Pagination{}, common.ErrInternal("failed to load conversation", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, common.NewPagination(page, limit, total), nil
}

func (s *chatService) ListConversations(ctx context.Context, userID uint64, page, limit int) ([]*ConversationSummary, common.Pagination, error) {
	page, limit = normalizePage(page, limit)

	latest, total, err := s.repo.LatestPerPartner(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, common.Pagination{}, common.ErrInternal("failed to load conversations", err)
	}

	summaries := make([]*ConversationSummary, 0, len(latest))
	for _, msg := range latest {
		partnerID := msg.SenderID
		if partnerID == userID {
			partnerID = msg.ReceiverID
		}
		summaries = append(summaries, &ConversationSummary{
			PartnerID:   partnerID,
			LastMessage: msg,
			Unread:      msg.ReceiverID == userID && msg.Status != dbmysql.MessageStatusRead,
		})
	}

	return summaries, common.NewPagination(page, limit, total), nil
}

// MarkRead advances the message to read. The returned flag reports whether
// a transition happened; re-reading an already read message is an
// idempotent no-op and callers skip the read receipt for it.
func (s *chatService) MarkRead(ctx context.Context, messageID, readerID uint64) (*dbmysql.Message, bool, error) {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return nil, false, common.ErrInternal("failed to load message", err)
	}
	if msg == nil || msg.ReceiverID != readerID {
		return nil, false, common.ErrNotFound("message not found")
	}

	if !dbmysql.CanAdvanceStatus(msg.Status, dbmysql.MessageStatusRead) {
		return msg, false, nil
	}

	now := time.Now()
	if err := s.repo.UpdateStatus(ctx, msg.ID, dbmysql.MessageStatusRead, &now); err != nil {
		return nil, false, common.ErrInternal("failed to mark message read", err)
	}
	msg.Status = dbmysql.MessageStatusRead
	msg.ReadAt = &now
	return msg, true, nil
}

// MarkDelivered stamps delivery after a successful realtime push. Forward
// transitions only; a read message stays read.
func (s *chatService) MarkDelivered(ctx context.Context, messageID uint64) error {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil || msg == nil {
		return err
	}
	if !dbmysql.CanAdvanceStatus(msg.Status, dbmysql.MessageStatusDelivered) {
		return nil
	}
	return s.repo.UpdateStatus(ctx, msg.ID, dbmysql.MessageStatusDelivered, nil)
}

func (s *chatService) Delete(ctx context.Context, messageID, requesterID uint64) error {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return common.ErrInternal("failed to load message", err)
	}
	if msg == nil {
		return common.ErrNotFound("message not found")
	}
	if msg.SenderID != requesterID {
		return common.ErrInvalidOperation("only the sender can delete a message")
	}
	if err := s.repo.SoftDelete(ctx, msg.ID); err != nil {
		return common.ErrInternal("failed to delete message", err)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
