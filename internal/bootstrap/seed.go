// Package bootstrap seeds the default data the site needs on first start.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tghbhs/science-carnival/backend/internal/auth"
	"github.com/tghbhs/science-carnival/backend/internal/models"
	"github.com/tghbhs/science-carnival/backend/internal/store"
)

// Store is the subset of the persistence layer seeding needs.
type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, n *models.NewUser) (*models.User, error)
	GetSetting(ctx context.Context, name string) (*models.Setting, error)
	CreateSetting(ctx context.Context, s *models.Setting) (*models.Setting, error)
	GetAllWikiContent(ctx context.Context) ([]models.WikiContent, error)
	CreateWikiContent(ctx context.Context, n *models.NewWikiContent) (*models.WikiContent, error)
}

var defaultSettings = []models.Setting{
	{Name: "siteTitle", Value: "TGHBHS Science Carnival", Group: models.SettingGroupGeneral},
	{Name: "siteDescription", Value: "A celebration of science and discovery at Town Green High School", Group: models.SettingGroupGeneral},
	{Name: "contactEmail", Value: "science@tghbhs.edu", Group: models.SettingGroupGeneral},
	{Name: "registrationStatus", Value: "open", Group: models.SettingGroupGeneral},
	{Name: "eventDate", Value: "May 15th, 2023", Group: models.SettingGroupGeneral},
	{Name: "eventTime", Value: "9:00 AM - 4:00 PM", Group: models.SettingGroupGeneral},
	{Name: "eventLocation", Value: "TGHBHS Main Campus", Group: models.SettingGroupGeneral},
	{Name: "emailFrom", Value: "noreply@tghbhs.edu", Group: models.SettingGroupEmail},
	{Name: "emailName", Value: "TGHBHS Science Carnival", Group: models.SettingGroupEmail},
	{Name: "sendConfirmation", Value: "true", Group: models.SettingGroupEmail},
	{Name: "sendReminder", Value: "true", Group: models.SettingGroupEmail},
	{Name: "primaryColor", Value: "#3B82F6", Group: models.SettingGroupAppearance},
	{Name: "secondaryColor", Value: "#10B981", Group: models.SettingGroupAppearance},
}

// Seed inserts the default admin account, settings, and starter wiki
// articles when they are missing. Every step is guarded by an existence
// check, so running it on each start is safe.
func Seed(ctx context.Context, s Store, adminUsername, adminPassword string) error {
	admin, err := seedAdmin(ctx, s, adminUsername, adminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedSettings(ctx, s); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if err := seedWiki(ctx, s, admin.ID); err != nil {
		return fmt.Errorf("seed wiki: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, s Store, username, password string) (*models.User, error) {
	admin, err := s.GetUserByUsername(ctx, username)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin, err = s.CreateUser(ctx, &models.NewUser{
		Username:  username,
		Password:  hashed,
		FirstName: "Admin",
		LastName:  "User",
		Email:     "admin@tghbhs.edu",
		Role:      models.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("seeded admin account %q", username)
	return admin, nil
}

func seedSettings(ctx context.Context, s Store) error {
	for _, def := range defaultSettings {
		_, err := s.GetSetting(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if _, err := s.CreateSetting(ctx, &def); err != nil {
			return err
		}
	}
	return nil
}

func seedWiki(ctx context.Context, s Store, adminID int64) error {
	existing, err := s.GetAllWikiContent(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, article := range starterArticles {
		article.CreatedBy = &adminID
		if _, err := s.CreateWikiContent(ctx, &article); err != nil {
			return err
		}
	}
	log.Printf("seeded %d starter wiki articles", len(starterArticles))
	return nil
}
