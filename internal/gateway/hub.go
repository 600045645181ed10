package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	chatservice "alumnihub/internal/chat/service"
	"alumnihub/internal/common"
	"alumnihub/internal/dbmysql"
	"alumnihub/internal/presence"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// NotificationReader is the slice of the notification service the gateway
// needs: the unread badge count emitted on feed join.
type NotificationReader interface {
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}

// Hub is the realtime delivery gateway: it authenticates websocket
// handshakes, tracks presence, routes inbound events to the chat service
// and pushes results to the relevant users' sessions. It implements
// common.RealtimePusher for the notification pipeline.
type Hub struct {
	chat    chatservice.ChatService
	notifs  NotificationReader
	tracker *presence.Tracker
	relay   *Relay

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub builds the gateway. relay may be nil for single-instance
// deployments; with it, pushes fan out across every serving process.
func NewHub(chat chatservice.ChatService, notifs NotificationReader, tracker *presence.Tracker, relay *Relay) *Hub {
	h := &Hub{
		chat:    chat,
		notifs:  notifs,
		tracker: tracker,
		relay:   relay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*Client),
	}
	tracker.Subscribe(h.presenceChanged)
	return h
}

// Run starts the relay subscription when one is configured. Blocks until
// ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.relay == nil {
		<-ctx.Done()
		return
	}
	h.relay.Run(ctx, h.deliverLocal, h.broadcastLocal)
}

// HandleWS authenticates and upgrades one websocket connection. A missing
// or invalid credential is rejected before any presence registration.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}
	claims, err := common.ValidToken(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := newClient(uuid.NewString(), claims.UserID, conn, h)
	h.register(client)

	go client.writePump()
	go client.readPump()
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.Fields(auth)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.tracker.Register(c.id, c.userID)
	log.Printf("session %s connected for user %d", c.id, c.userID)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	h.mu.Unlock()

	h.tracker.Unregister(c.id)
	c.close()
	log.Printf("session %s disconnected for user %d", c.id, c.userID)
}

// dispatch routes one inbound envelope. Any failure, panic included, turns
// into an error ack; a bad event never terminates the socket.
func (h *Hub) dispatch(c *Client, env *Envelope) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("handler panic on %s: %v", env.Event, r)
			c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: "internal error"})
		}
	}()

	switch env.Event {
	case EventMessageSend:
		h.handleSendMessage(c, env)
	case EventMessageTyping:
		h.handleTyping(c, env)
	case EventMessageRead:
		h.handleMarkRead(c, env)
	case EventNotificationJoin:
		h.handleFeedJoin(c, env)
	case EventNotificationLeave:
		c.setNotifFeed(false)
		c.sendAck(Ack{Event: EventAck, ID: env.ID})
	default:
		c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: "unknown event: " + env.Event})
	}
}

func (h *Hub) handleSendMessage(c *Client, env *Envelope) {
	var p sendMessagePayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: "malformed payload"})
		return
	}

	ctx := context.Background()
	msg, err := h.chat.Send(ctx, c.userID, p.ReceiverID, p.Content)
	if err != nil {
		c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: err.Error()})
		return
	}

	// persistence happened before the ack and before any push
	c.sendAck(Ack{Event: EventAck, ID: env.ID, Data: msg})

	h.DeliverMessage(ctx, msg)
}

// DeliverMessage pushes a freshly persisted message to the receiver's live
// sessions and stamps it delivered when at least one is connected. Used by
// both the websocket and HTTP send paths.
func (h *Hub) DeliverMessage(ctx context.Context, msg *dbmysql.Message) {
	h.PushToUser(msg.ReceiverID, EventMessageNew, msg)
	if h.tracker.IsOnline(msg.ReceiverID) {
		if err := h.chat.MarkDelivered(ctx, msg.ID); err != nil {
			log.Printf("failed to stamp message %d delivered: %v", msg.ID, err)
		}
	}
}

func (h *Hub) handleTyping(c *Client, env *Envelope) {
	var p typingPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: "malformed payload"})
		return
	}
	// ephemeral: nothing persisted, no ack needed
	h.PushToUser(p.ReceiverID, EventMessageTyping, typingNotice{
		SenderID: c.userID,
		IsTyping: p.IsTyping,
	})
}

func (h *Hub) handleMarkRead(c *Client, env *Envelope) {
	var p markReadPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: "malformed payload"})
		return
	}

	msg, advanced, err := h.chat.MarkRead(context.Background(), p.MessageID, c.userID)
	if err != nil {
		c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: err.Error()})
		return
	}

	c.sendAck(Ack{Event: EventAck, ID: env.ID, Data: msg})

	// re-reads change nothing, so the sender gets no duplicate receipt
	if !advanced {
		return
	}

	readAt := ""
	if msg.ReadAt != nil {
		readAt = msg.ReadAt.Format(time.RFC3339)
	}
	h.PushToUser(msg.SenderID, EventMessageRead, readReceipt{
		MessageID: msg.ID,
		ReaderID:  c.userID,
		ReadAt:    readAt,
	})
}

func (h *Hub) handleFeedJoin(c *Client, env *Envelope) {
	var p feedPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: "malformed payload"})
		return
	}
	if p.UserID != c.userID {
		c.sendAck(Ack{Event: EventAck, ID: env.ID, Error: "cannot join another user's feed"})
		return
	}

	c.setNotifFeed(true)
	c.sendAck(Ack{Event: EventAck, ID: env.ID})

	if count, err := h.notifs.UnreadCount(context.Background(), c.userID); err == nil {
		h.PushToUser(c.userID, EventUnreadCount, map[string]int64{"count": count})
	}
}

// PushToUser sends an event to every live session of one user. With a
// relay it goes over the bus so other instances' sessions get it too; the
// publishing instance receives its own copy back through the subscription.
func (h *Hub) PushToUser(userID uint64, event string, data interface{}) {
	frame, err := json.Marshal(Envelope{Event: event, Data: mustMarshal(data)})
	if err != nil {
		log.Printf("failed to marshal %s frame: %v", event, err)
		return
	}
	if h.relay != nil {
		if err := h.relay.PublishToUser(context.Background(), userID, frame); err != nil {
			log.Printf("relay publish failed, delivering locally: %v", err)
			h.deliverLocal(userID, event, frame)
		}
		return
	}
	h.deliverLocal(userID, event, frame)
}

func (h *Hub) deliverLocal(userID uint64, event string, frame []byte) {
	feedOnly := event == EventNotification || event == EventUnreadCount

	for _, sessionID := range h.tracker.SessionsFor(userID) {
		h.mu.RLock()
		client, ok := h.clients[sessionID]
		h.mu.RUnlock()
		if !ok {
			continue
		}
		if feedOnly && !client.joinedNotifFeed() {
			continue
		}
		client.enqueue(frame)
	}
}

// presenceChanged broadcasts the single online/offline transition produced
// by the tracker to everyone connected.
func (h *Hub) presenceChanged(userID uint64, online bool) {
	event := EventUserOffline
	if online {
		event = EventUserOnline
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: mustMarshal(presenceNotice{UserID: userID})})
	if err != nil {
		return
	}
	if h.relay != nil {
		if err := h.relay.PublishBroadcast(context.Background(), frame); err == nil {
			return
		}
	}
	h.broadcastLocal(frame)
}

func (h *Hub) broadcastLocal(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.enqueue(frame)
	}
}
