package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"alumnihub/internal/common"
	"alumnihub/internal/gateway"
)

type sendMessageRequest struct {
	ReceiverID uint64 `json:"receiver_id"`
	Content    string `json:"content"`
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, common.ErrInvalidOperation("invalid request body"))
		return
	}

	msg, err := s.chat.Send(r.Context(), UserID(r), req.ReceiverID, req.Content)
	if err != nil {
		fail(w, err)
		return
	}

	s.hub.DeliverMessage(r.Context(), msg)
	created(w, msg)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	partnerID, err := pathUint(r, "userId")
	if err != nil {
		fail(w, common.ErrInvalidOperation("invalid user id"))
		return
	}

	messages, pagination, err := s.chat.GetConversation(
		r.Context(), UserID(r), partnerID,
		queryInt(r, "page", 1), queryInt(r, "limit", 20),
	)
	if err != nil {
		fail(w, err)
		return
	}
	paged(w, messages, pagination)
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	summaries, pagination, err := s.chat.ListConversations(
		r.Context(), UserID(r),
		queryInt(r, "page", 1), queryInt(r, "limit", 20),
	)
	if err != nil {
		fail(w, err)
		return
	}
	paged(w, summaries, pagination)
}

func (s *Server) markMessageRead(w http.ResponseWriter, r *http.Request) {
	messageID, err := pathUint(r, "id")
	if err != nil {
		fail(w, common.ErrInvalidOperation("invalid message id"))
		return
	}

	msg, advanced, err := s.chat.MarkRead(r.Context(), messageID, UserID(r))
	if err != nil {
		fail(w, err)
		return
	}

	// the sender's live sessions get the read receipt no matter which
	// transport the reader used; re-reads push nothing
	if advanced {
		readAt := ""
		if msg.ReadAt != nil {
			readAt = msg.ReadAt.Format(time.RFC3339)
		}
		s.hub.PushToUser(msg.SenderID, gateway.EventMessageRead, map[string]interface{}{
			"message_id": msg.ID,
			"reader_id":  UserID(r),
			"read_at":    readAt,
		})
	}

	ok(w, msg)
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := pathUint(r, "id")
	if err != nil {
		fail(w, common.ErrInvalidOperation("invalid message id"))
		return
	}

	if err := s.chat.Delete(r.Context(), messageID, UserID(r)); err != nil {
		fail(w, err)
		return
	}
	ok(w, map[string]string{"status": "deleted"})
}
