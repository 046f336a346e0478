package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/tghbhs/science-carnival/backend/internal/httpx"
	"github.com/tghbhs/science-carnival/backend/internal/models"
	"github.com/tghbhs/science-carnival/backend/internal/store"
	"github.com/tghbhs/science-carnival/backend/internal/validate"
)

// UserStore is the slice of the persistence layer the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, n *models.NewUser) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler holds the authentication HTTP handlers.
type Handler struct {
	users        UserStore
	sessions     Sessions
	secureCookie bool
}

func NewHandler(users UserStore, sessions Sessions, secureCookie bool) *Handler {
	return &Handler{users: users, sessions: sessions, secureCookie: secureCookie}
}

// Register creates an account and logs it in. Public signups always get the
// user role; admin accounts are created through the admin user management
// endpoints.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("hash password: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	user, err := h.users.CreateUser(r.Context(), &models.NewUser{
		Username:    req.Username,
		Password:    hashed,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        models.RoleUser,
	})
	if errors.Is(err, store.ErrDuplicateUsername) {
		httpx.Error(w, http.StatusConflict, "username already exists")
		return
	}
	if err != nil {
		log.Printf("create user: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

// Login authenticates and establishes a session. An unknown username and a
// wrong password produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		log.Printf("lookup user: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !VerifyPassword(req.Password, user.Password) {
		httpx.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

// Logout invalidates the session server-side and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Printf("delete session: %v", err)
			httpx.Error(w, http.StatusInternalServerError, "could not log out")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		MaxAge:   -1,
	})
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated caller's own account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	sid, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		log.Printf("create session: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "session creation failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL() / time.Second),
	})
	httpx.JSON(w, status, user)
}
