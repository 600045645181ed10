package httpapi

import (
	"encoding/json"
	"net/http"

	"alumnihub/internal/common"
	"alumnihub/internal/dbmysql"

	"github.com/gorilla/mux"
)

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, pagination, err := s.notifs.List(
		r.Context(), UserID(r),
		queryInt(r, "page", 1), queryInt(r, "limit", 20),
	)
	if err != nil {
		fail(w, err)
		return
	}
	paged(w, notifications, pagination)
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.notifs.UnreadCount(r.Context(), UserID(r))
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, map[string]int64{"count": count})
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.notifs.MarkRead(r.Context(), id, UserID(r)); err != nil {
		fail(w, err)
		return
	}
	ok(w, map[string]string{"status": "read"})
}

func (s *Server) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifs.MarkAllRead(r.Context(), UserID(r)); err != nil {
		fail(w, err)
		return
	}
	ok(w, map[string]string{"status": "read"})
}

func (s *Server) deleteNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.notifs.Delete(r.Context(), id, UserID(r)); err != nil {
		fail(w, err)
		return
	}
	ok(w, map[string]string{"status": "deleted"})
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	pref, err := s.notifs.GetPreferences(r.Context(), UserID(r))
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, pref)
}

type preferencesRequest struct {
	EmailEnabled      *bool                     `json:"email_enabled,omitempty"`
	PushEnabled       *bool                     `json:"push_enabled,omitempty"`
	InAppEnabled      *bool                     `json:"in_app_enabled,omitempty"`
	TypePreferences   dbmysql.TypePreferenceMap `json:"type_preferences,omitempty"`
	QuietHoursEnabled *bool                     `json:"quiet_hours_enabled,omitempty"`
	QuietHoursStart   *string                   `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd     *string                   `json:"quiet_hours_end,omitempty"`
	DigestEnabled     *bool                     `json:"digest_enabled,omitempty"`
	DigestFrequency   *string                   `json:"digest_frequency,omitempty"`
}

// updatePreferences applies a partial update: absent fields keep their
// stored values.
func (s *Server) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, common.ErrInvalidOperation("invalid request body"))
		return
	}

	pref, err := s.notifs.GetPreferences(r.Context(), UserID(r))
	if err != nil {
		fail(w, err)
		return
	}

	if req.EmailEnabled != nil {
		pref.EmailEnabled = *req.EmailEnabled
	}
	if req.PushEnabled != nil {
		pref.PushEnabled = *req.PushEnabled
	}
	if req.InAppEnabled != nil {
		pref.InAppEnabled = *req.InAppEnabled
	}
	if req.TypePreferences != nil {
		pref.TypePreferences = req.TypePreferences
	}
	if req.QuietHoursEnabled != nil {
		pref.QuietHoursEnabled = *req.QuietHoursEnabled
	}
	if req.QuietHoursStart != nil {
		pref.QuietHoursStart = *req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		pref.QuietHoursEnd = *req.QuietHoursEnd
	}
	if req.DigestEnabled != nil {
		pref.DigestEnabled = *req.DigestEnabled
	}
	if req.DigestFrequency != nil {
		pref.DigestFrequency = *req.DigestFrequency
	}

	if err := s.notifs.UpdatePreferences(r.Context(), pref); err != nil {
		fail(w, err)
		return
	}
	ok(w, pref)
}

type pushTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func (s *Server) registerPushToken(w http.ResponseWriter, r *http.Request) {
	var req pushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, common.ErrInvalidOperation("invalid request body"))
		return
	}

	if err := s.notifs.RegisterPushToken(r.Context(), UserID(r), req.Token, req.Platform); err != nil {
		fail(w, err)
		return
	}
	ok(w, map[string]string{"status": "registered"})
}
