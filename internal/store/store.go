package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tghbhs/science-carnival/backend/internal/models"
)

// Sentinel errors shared by all Store implementations.
var (
	ErrNotFound          = errors.New("store: not found")
	ErrDuplicateUsername = errors.New("store: username already exists")
)

// Store is the persistence boundary for all carnival entities. Postgres
// implements it for production and Memory for tests. Missing rows are
// reported as ErrNotFound, never as a nil record with a nil error.
type Store interface {
	// Users
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, n *models.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// Registrations
	GetRegistration(ctx context.Context, id int64) (*models.Registration, error)
	GetRegistrationByCode(ctx context.Context, code string) (*models.Registration, error)
	GetRegistrationsByUser(ctx context.Context, userID int64) ([]models.Registration, error)
	GetAllRegistrations(ctx context.Context) ([]models.Registration, error)
	CreateRegistration(ctx context.Context, n *models.NewRegistration) (*models.Registration, error)
	UpdateRegistration(ctx context.Context, id int64, upd models.RegistrationUpdate) (*models.Registration, error)
	DeleteRegistration(ctx context.Context, id int64) error

	// Wiki content
	GetWikiContent(ctx context.Context, id int64) (*models.WikiContent, error)
	GetWikiContentByCategory(ctx context.Context, category string) ([]models.WikiContent, error)
	GetAllWikiContent(ctx context.Context) ([]models.WikiContent, error)
	GetAllWikiCategories(ctx context.Context) ([]string, error)
	CreateWikiContent(ctx context.Context, n *models.NewWikiContent) (*models.WikiContent, error)
	UpdateWikiContent(ctx context.Context, id int64, upd models.WikiContentUpdate) (*models.WikiContent, error)
	DeleteWikiContent(ctx context.Context, id int64) error

	// Settings
	GetSetting(ctx context.Context, name string) (*models.Setting, error)
	GetSettingsByGroup(ctx context.Context, group string) ([]models.Setting, error)
	GetAllSettings(ctx context.Context) ([]models.Setting, error)
	CreateSetting(ctx context.Context, s *models.Setting) (*models.Setting, error)
	UpdateSetting(ctx context.Context, name, value string) (*models.Setting, error)
}

// NewRegistrationCode builds a human-facing registration identifier of the
// form SC<year>-<5 digits>, with the suffix uniform in [10000, 99999]. The
// suffix is random and not checked against existing rows, so two
// registrations in the same year can in principle draw the same code.
func NewRegistrationCode(now time.Time) string {
	return fmt.Sprintf("SC%d-%d", now.Year(), 10000+rand.IntN(90000))
}
