package httpapi

import (
	"context"
	"net/http"
	"strings"

	"alumnihub/internal/common"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Auth validates the Bearer token and injects the caller's user id into the
// request context. Token issuance belongs to the account service.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			fail(w, common.ErrUnauthorized("authorization required"))
			return
		}

		parts := strings.Fields(auth)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			fail(w, common.ErrUnauthorized("invalid auth header"))
			return
		}

		claims, err := common.ValidToken(parts[1])
		if err != nil {
			fail(w, common.ErrUnauthorized("invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated caller's id from the request context.
func UserID(r *http.Request) uint64 {
	id, _ := r.Context().Value(userIDKey).(uint64)
	return id
}
