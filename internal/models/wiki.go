package models

import "time"

// WikiContent represents a row in the wiki_content table. Category is free
// text; the category list is derived from the distinct values present.
type WikiContent struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	CreatedBy   *int64    `json:"createdBy"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewWikiContent is both the admin request body and the store insert input.
// CreatedBy is filled in by the handler from the authenticated admin.
type NewWikiContent struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Category  string `json:"category" validate:"required"`
	CreatedBy *int64 `json:"-"`
}

// WikiContentUpdate is a partial article update; nil fields are left
// unchanged. LastUpdated is refreshed on every update regardless.
type WikiContentUpdate struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}
