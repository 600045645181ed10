package gateway

import (
	"encoding/json"
)

// Inbound events (client -> server).
const (
	EventMessageSend       = "message:send"
	EventMessageTyping     = "message:typing"
	EventMessageRead       = "message:read"
	EventNotificationJoin  = "notifications:join"
	EventNotificationLeave = "notifications:leave"
)

// Server-emitted events.
const (
	EventMessageNew   = "message:new"
	EventUserOnline   = "user:online"
	EventUserOffline  = "user:offline"
	EventNotification = "notification"
	EventUnreadCount  = "unreadCount"
	EventAck          = "ack"
)

// Envelope is the frame every websocket message travels in. ID is an
// optional client correlation id echoed back on the ack.
type Envelope struct {
	Event string          `json:"event"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Ack answers one inbound event. A failed handler fills Error and nothing
// else; the socket stays open either way.
type Ack struct {
	Event string      `json:"event"`
	ID    string      `json:"id,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type sendMessagePayload struct {
	ReceiverID uint64 `json:"receiver_id"`
	Content    string `json:"content"`
}

type typingPayload struct {
	ReceiverID uint64 `json:"receiver_id"`
	IsTyping   bool   `json:"is_typing"`
}

type markReadPayload struct {
	MessageID uint64 `json:"message_id"`
}

type feedPayload struct {
	UserID uint64 `json:"user_id"`
}

type typingNotice struct {
	SenderID uint64 `json:"sender_id"`
	IsTyping bool   `json:"is_typing"`
}

type readReceipt struct {
	MessageID uint64 `json:"message_id"`
	ReaderID  uint64 `json:"reader_id"`
	ReadAt    string `json:"read_at"`
}

type presenceNotice struct {
	UserID uint64 `json:"user_id"`
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
