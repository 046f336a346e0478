package auth

import (
	"context"

	"github.com/tghbhs/science-carnival/backend/internal/models"
)

type userKey struct{}

// WithUser returns ctx carrying the authenticated account.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the authenticated account, or nil for anonymous callers.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}
