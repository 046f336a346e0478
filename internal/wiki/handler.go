// Package wiki implements the wiki content endpoints and media uploads.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tghbhs/science-carnival/backend/internal/audit"
	"github.com/tghbhs/science-carnival/backend/internal/auth"
	"github.com/tghbhs/science-carnival/backend/internal/httpx"
	"github.com/tghbhs/science-carnival/backend/internal/models"
	"github.com/tghbhs/science-carnival/backend/internal/store"
	"github.com/tghbhs/science-carnival/backend/internal/validate"
)

// maxUploadBytes caps wiki image uploads.
const maxUploadBytes = 8 << 20

// Store is the persistence surface used by the wiki handlers.
type Store interface {
	GetWikiContent(ctx context.Context, id int64) (*models.WikiContent, error)
	GetWikiContentByCategory(ctx context.Context, category string) ([]models.WikiContent, error)
	GetAllWikiContent(ctx context.Context) ([]models.WikiContent, error)
	GetAllWikiCategories(ctx context.Context) ([]string, error)
	CreateWikiContent(ctx context.Context, n *models.NewWikiContent) (*models.WikiContent, error)
	UpdateWikiContent(ctx context.Context, id int64, upd models.WikiContentUpdate) (*models.WikiContent, error)
	DeleteWikiContent(ctx context.Context, id int64) error
}

// Media stores uploaded wiki assets.
type Media interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

type Handler struct {
	store Store
	media Media
	audit audit.Recorder
}

func NewHandler(store Store, media Media, rec audit.Recorder) *Handler {
	return &Handler{store: store, media: media, audit: rec}
}

// List returns all wiki articles.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	content, err := h.store.GetAllWikiContent(r.Context())
	if err != nil {
		log.Printf("list wiki content: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching wiki content")
		return
	}
	httpx.JSON(w, http.StatusOK, content)
}

// Get returns one article by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	content, err := h.store.GetWikiContent(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		log.Printf("get wiki content %d: %v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching wiki content")
		return
	}
	httpx.JSON(w, http.StatusOK, content)
}

// Categories returns the distinct category names currently in use. Deleting
// the last article of a category removes it from this list.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.GetAllWikiCategories(r.Context())
	if err != nil {
		log.Printf("list wiki categories: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching wiki categories")
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

// ByCategory returns all articles in one category.
func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	content, err := h.store.GetWikiContentByCategory(r.Context(), category)
	if err != nil {
		log.Printf("list wiki content by category %q: %v", category, err)
		httpx.Error(w, http.StatusInternalServerError, "error fetching wiki content")
		return
	}
	httpx.JSON(w, http.StatusOK, content)
}

// Create inserts an article credited to the acting admin. Admin-only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var n models.NewWikiContent
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validate.Struct(n); errs != nil {
		httpx.ValidationErrors(w, errs)
		return
	}

	actor := auth.UserFrom(r.Context())
	n.CreatedBy = &actor.ID

	content, err := h.store.CreateWikiContent(r.Context(), &n)
	if err != nil {
		log.Printf("create wiki content: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error creating wiki content")
		return
	}

	audit.Log(r.Context(), h.audit, actor.ID, "wiki.create", "wiki_content", content.ID)
	httpx.JSON(w, http.StatusCreated, content)
}

// Update applies a partial update and refreshes the last-updated timestamp
// even when no field changes. Admin-only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var upd models.WikiContentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	content, err := h.store.UpdateWikiContent(r.Context(), id, upd)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		log.Printf("update wiki content %d: %v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "error updating wiki content")
		return
	}

	audit.Log(r.Context(), h.audit, auth.UserFrom(r.Context()).ID, "wiki.update", "wiki_content", id)
	httpx.JSON(w, http.StatusOK, content)
}

// Delete removes an article. Admin-only.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.store.DeleteWikiContent(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		log.Printf("delete wiki content %d: %v", id, err)
		httpx.Error(w, http.StatusInternalServerError, "error deleting wiki content")
		return
	}

	audit.Log(r.Context(), h.audit, auth.UserFrom(r.Context()).ID, "wiki.delete", "wiki_content", id)
	w.WriteHeader(http.StatusNoContent)
}

// Upload stores an image for use in wiki articles and returns its public
// asset URL. Admin-only.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "could not read upload")
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		httpx.Error(w, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	key := "wiki/" + uuid.New().String() + strings.ToLower(path.Ext(header.Filename))
	if err := h.media.Upload(r.Context(), key, data, contentType); err != nil {
		log.Printf("upload wiki asset: %v", err)
		httpx.Error(w, http.StatusInternalServerError, "error storing upload")
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": "/api/wiki/assets/" + key,
	})
}

// Asset streams a previously uploaded wiki asset.
func (h *Handler) Asset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		httpx.Error(w, http.StatusNotFound, "asset not found")
		return
	}

	data, contentType, err := h.media.Download(r.Context(), key)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "asset not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
