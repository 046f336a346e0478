package audit

import (
	"log"
	"net/http"

	"github.com/tghbhs/science-carnival/backend/internal/httpx"
)

const defaultListLimit = 100

// Handler serves the admin audit log.
type Handler struct {
	rec Recorder
}

func NewHandler(rec Recorder) *Handler {
	return &Handler{rec: rec}
}

// List returns the most recent admin actions, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.rec.Recent(r.Context(), defaultListLimit)
	if err != nil {
		log.Printf("list audit entries: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching audit log")
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}
