// Package users implements the profile endpoints and the admin user
// management endpoints.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tghbhs/science-carnival/backend/internal/audit"
	"github.com/tghbhs/science-carnival/backend/internal/auth"
	"github.com/tghbhs/science-carnival/backend/internal/httpx"
	"github.com/tghbhs/science-carnival/backend/internal/models"
	"github.com/tghbhs/science-carnival/backend/internal/store"
	"github.com/tghbhs/science-carnival/backend/internal/validate"
)

// Store is the persistence surface used by the user handlers.
type Store interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, n *models.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetRegistrationsByUser(ctx context.Context, userID int64) ([]models.Registration, error)
}

type Handler struct {
	store Store
	audit audit.Recorder
}

func NewHandler(store Store, rec audit.Recorder) *Handler {
	return &Handler{store: store, audit: rec}
}

// Profile returns the caller's own account together with their
// registrations.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	regs, err := h.store.GetRegistrationsByUser(r.Context(), user.ID)
	if err != nil {
		log.Printf("get profile registrations: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching profile")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":          user,
		"registrations": regs,
	})
}

// UpdateProfile updates the caller's own account. Username and role are not
// updatable through the profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	upd := models.UserUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			log.Printf("hash password: %v", err)
			httpx.Error(w, http.StatusInternalServerError, "error updating profile")
			return
		}
		upd.Password = &hashed
	}

	updated, err := h.store.UpdateUser(r.Context(), user.ID, upd)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("update profile %d: %v", user.ID, err)
		httpx.Error(w, http.StatusInternalServerError, "error updating profile")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// List returns all accounts. Admin-only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.GetUsers(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching users")
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

// Create inserts an account, optionally with the admin role. Admin-only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("hash password: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error creating user")
		return
	}

	user, err := h.store.CreateUser(r.Context(), &models.NewUser{
		Username:    req.Username,
		Password:    hashed,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if errors.Is(err, store.ErrDuplicateUsername) {
		httpx.Error(w, http.StatusConflict, "username already exists")
		return
	}
	if err != nil {
		log.Printf("create user: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error creating user")
		return
	}

	audit.Log(r.Context(), h.audit, auth.UserFrom(r.Context()).ID, "user.create", "user", user.ID)
	httpx.JSON(w, http.StatusCreated, user)
}

// Update applies a partial update to any account. Admin-only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	upd := models.UserUpdate{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			log.Printf("hash password: %v", err)
			httpx.Error(w, http.StatusInternalServerError, "error updating user")
			return
		}
		upd.Password = &hashed
	}

	updated, err := h.store.UpdateUser(r.Context(), id, upd)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if errors.Is(err, store.ErrDuplicateUsername) {
		httpx.Error(w, http.StatusConflict, "username already exists")
		return
	}
	if err != nil {
		log.Printf("update user %d: %v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "error updating user")
		return
	}

	audit.Log(r.Context(), h.audit, auth.UserFrom(r.Context()).ID, "user.update", "user", id)
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete removes an account. Admin-only; deleting your own account is
// rejected.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	actor := auth.UserFrom(r.Context())
	if id == actor.ID {
		httpx.Error(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	err = h.store.DeleteUser(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("delete user %d: %v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "error deleting user")
		return
	}

	audit.Log(r.Context(), h.audit, actor.ID, "user.delete", "user", id)
	w.WriteHeader(http.StatusNoContent)
}
