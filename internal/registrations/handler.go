// Package registrations implements the carnival registration endpoints.
package registrations

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

// Store is the persistence surface used by the registration handlers.
type Store interface {
	CreateRegistration(ctx context.Context, n *models.NewRegistration) (*models.Registration, error)
	GetRegistration(ctx context.Context, id int64) (*models.Registration, error)
	GetRegistrationsByUser(ctx context.Context, userID int64) ([]models.Registration, error)
	GetAllRegistrations(ctx context.Context) ([]models.Registration, error)
	UpdateRegistration(ctx context.Context, id int64, upd models.RegistrationUpdate) (*models.Registration, error)
	DeleteRegistration(ctx context.Context, id int64) error
}

type Handler struct {
	store Store
	audit audit.Recorder
}

func NewHandler(store Store, rec audit.Recorder) *Handler {
	return &Handler{store: store, audit: rec}
}

// RegisterCarnival handles the public signup form. Signups through this
// endpoint are stored as confirmed; the schema's pending default only
// applies to rows inserted without an explicit status. When the caller is
// logged in, the registration is attached to their account.
func (h *Handler) RegisterCarnival(w http.ResponseWriter, r *http.Request) {
	var form models.RegistrationForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(form); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	n := &models.NewRegistration{
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		Email:           form.Email,
		PhoneNumber:     form.PhoneNumber,
		ParticipantType: form.ParticipantType,
		Grade:           form.Grade,
		Activities:      form.Activities,
		SpecialRequests: form.SpecialRequests,
		Status:          models.StatusConfirmed,
	}
	if user := auth.UserFrom(r.Context()); user != nil {
		n.UserID = &user.ID
	}

	reg, err := h.store.CreateRegistration(r.Context(), n)
	if err != nil {
		log.Printf("create registration: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error creating registration")
		return
	}
	httpx.JSON(w, http.StatusCreated, reg)
}

// List returns all registrations for admins, and only the caller's own for
// regular users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var (
		regs []models.Registration
		err  error
	)
	if user.Role == models.RoleAdmin {
		regs, err = h.store.GetAllRegistrations(r.Context())
	} else {
		regs, err = h.store.GetRegistrationsByUser(r.Context(), user.ID)
	}
	if err != nil {
		log.Printf("list registrations: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching registrations")
		return
	}
	httpx.JSON(w, http.StatusOK, regs)
}

// Get returns one registration; non-admins may only read their own.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, reg)
}

// Update applies a partial update; non-admins may only update their own
// registrations.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}

	var upd models.RegistrationUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(upd); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	updated, err := h.store.UpdateRegistration(r.Context(), reg.ID, upd)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "registration not found")
		return
	}
	if err != nil {
		log.Printf("update registration %d: %v", reg.ID, err)
		httpx.Error(w, http.StatusInternalServerError, "error updating registration")
		return
	}

	if user := auth.UserFrom(r.Context()); user.Role == models.RoleAdmin {
		audit.Log(r.Context(), h.audit, user.ID, "registration.update", "registration", reg.ID)
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete removes a registration. Admin-only; the route is gated accordingly.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.store.DeleteRegistration(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "registration not found")
		return
	}
	if err != nil {
		log.Printf("delete registration %d: %v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "error deleting registration")
		return
	}

	audit.Log(r.Context(), h.audit, auth.UserFrom(r.Context()).ID, "registration.delete", "registration", id)
	w.WriteHeader(http.StatusNoContent)
}

// fetchOwned loads the registration from the id route parameter and enforces
// the owner-or-admin rule, writing the error response itself when the check
// fails. Missing rows 404 before the ownership check runs.
func (h *Handler) fetchOwned(w http.ResponseWriter, r *http.Request) (*models.Registration, bool) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	reg, err := h.store.GetRegistration(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "registration not found")
		return nil, false
	}
	if err != nil {
		log.Printf("get registration %d: %v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching registration")
		return nil, false
	}

	user := auth.UserFrom(r.Context())
	if user.Role != models.RoleAdmin && (reg.UserID == nil || *reg.UserID != user.ID) {
		httpx.Error(w, http.StatusForbidden, "access denied")
		return nil, false
	}
	return reg, true
}
