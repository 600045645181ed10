package httpapi

import (
	"net/http"
	"strconv"

	chatservice "alumnihub/internal/chat/service"
	"alumnihub/internal/connection"
	"alumnihub/internal/gateway"
	"alumnihub/internal/notif"

	"github.com/gorilla/mux"
)

// Server owns the HTTP surface of the messaging and notification core.
type Server struct {
	chat        chatservice.ChatService
	connections connection.Service
	notifs      *notif.Service
	hub         *gateway.Hub
}

func NewServer(
	chat chatservice.ChatService,
	connections connection.Service,
	notifs *notif.Service,
	hub *gateway.Hub,
) *Server {
	return &Server{
		chat:        chat,
		connections: connections,
		notifs:      notifs,
		hub:         hub,
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.health).Methods("GET")
	router.HandleFunc("/ws", s.hub.HandleWS)

	api := router.PathPrefix("/").Subrouter()
	api.Use(Auth)

	api.HandleFunc("/messages", s.sendMessage).Methods("POST")
	api.HandleFunc("/messages", s.listConversations).Methods("GET")
	api.HandleFunc("/messages/conversation/{userId}", s.getConversation).Methods("GET")
	api.HandleFunc("/messages/{id}/read", s.markMessageRead).Methods("PUT")
	api.HandleFunc("/messages/{id}", s.deleteMessage).Methods("DELETE")

	api.HandleFunc("/connections", s.sendConnectionRequest).Methods("POST")
	api.HandleFunc("/connections", s.listConnections).Methods("GET")
	api.HandleFunc("/connections/pending", s.listPendingConnections).Methods("GET")
	api.HandleFunc("/connections/status/{userId}", s.connectionStatus).Methods("GET")
	api.HandleFunc("/connections/block/{userId}", s.blockUser).Methods("POST")
	api.HandleFunc("/connections/{id}", s.respondToConnection).Methods("PUT")

	api.HandleFunc("/notifications", s.listNotifications).Methods("GET")
	api.HandleFunc("/notifications/unread-count", s.unreadCount).Methods("GET")
	api.HandleFunc("/notifications/read-all", s.markAllNotificationsRead).Methods("POST")
	api.HandleFunc("/notifications/preferences", s.getPreferences).Methods("GET")
	api.HandleFunc("/notifications/preferences", s.updatePreferences).Methods("POST")
	api.HandleFunc("/notifications/push-token", s.registerPushToken).Methods("POST")
	api.HandleFunc("/notifications/{id}/read", s.markNotificationRead).Methods("POST")
	api.HandleFunc("/notifications/{id}", s.deleteNotification).Methods("DELETE")

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]string{"status": "ok"})
}

func pathUint(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)[name], 10, 64)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
