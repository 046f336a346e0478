// Package middleware provides the identity and role gates used by the API
// routes.
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/tghbhs/science-carnival/backend/internal/auth"
	"github.com/tghbhs/science-carnival/backend/internal/httpx"
	"github.com/tghbhs/science-carnival/backend/internal/models"
	"github.com/tghbhs/science-carnival/backend/internal/store"
)

// UserLoader resolves account ids to accounts.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// WithUser resolves the session cookie, if one is present, and attaches the
// account to the request context. Anonymous requests pass through untouched.
// A failing session store is reported as a server error rather than
// downgrading the caller to anonymous, so outages stay visible.
func WithUser(sessions auth.Sessions, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				log.Printf("session lookup: %v", err)
				httpx.Error(w, http.StatusInternalServerError, "session store unavailable")
				return
			}
			if userID == 0 {
				// Expired or invalidated session; proceed anonymously.
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if errors.Is(err, store.ErrNotFound) {
				// Session outlived its account.
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.Printf("load session user: %v", err)
				httpx.Error(w, http.StatusInternalServerError, "internal error")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Must run after WithUser.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFrom(r.Context()) == nil {
			httpx.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose principal is not an admin with 403.
// Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFrom(r.Context())
		if user == nil {
			httpx.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if user.Role != models.RoleAdmin {
			httpx.Error(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
