package httpapi

import (
	"encoding/json"
	"net/http"

	"alumnihub/internal/common"
)

type connectionRequest struct {
	ReceiverID uint64 `json:"receiver_id"`
	Message    string `json:"message,omitempty"`
}

type connectionResponse struct {
	Accepted bool `json:"accepted"`
}

func (s *Server) sendConnectionRequest(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, common.ErrInvalidOperation("invalid request body"))
		return
	}

	conn, err := s.connections.SendRequest(r.Context(), UserID(r), req.ReceiverID, req.Message)
	if err != nil {
		fail(w, err)
		return
	}
	created(w, conn)
}

func (s *Server) respondToConnection(w http.ResponseWriter, r *http.Request) {
	connectionID, err := pathUint(r, "id")
	if err != nil {
		fail(w, common.ErrInvalidOperation("invalid connection id"))
		return
	}

	var req connectionResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, common.ErrInvalidOperation("invalid request body"))
		return
	}

	conn, err := s.connections.Respond(r.Context(), connectionID, UserID(r), req.Accepted)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, conn)
}

func (s *Server) listConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := s.connections.ListConnections(r.Context(), UserID(r))
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, conns)
}

func (s *Server) listPendingConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := s.connections.ListPending(r.Context(), UserID(r))
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, conns)
}

func (s *Server) connectionStatus(w http.ResponseWriter, r *http.Request) {
	otherID, err := pathUint(r, "userId")
	if err != nil {
		fail(w, common.ErrInvalidOperation("invalid user id"))
		return
	}

	view, err := s.connections.GetStatus(r.Context(), UserID(r), otherID)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, view)
}

func (s *Server) blockUser(w http.ResponseWriter, r *http.Request) {
	blockedID, err := pathUint(r, "userId")
	if err != nil {
		fail(w, common.ErrInvalidOperation("invalid user id"))
		return
	}

	conn, err := s.connections.Block(r.Context(), UserID(r), blockedID)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, conn)
}
