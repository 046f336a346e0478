package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tghbhs/science-carnival/backend/internal/models"
)

// db is the subset of pgxpool.Pool the store uses. pgxmock's pool satisfies
// it, which is how the query layer is tested without a live database.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres implements Store against PostgreSQL.
type Postgres struct {
	pool db
}

func NewPostgres(pool db) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the tables if they don't exist. The unique constraint on
// users.username closes the duplicate-signup race at the database.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id           BIGSERIAL PRIMARY KEY,
			username     TEXT NOT NULL UNIQUE,
			password     TEXT NOT NULL,
			first_name   TEXT,
			last_name    TEXT,
			email        TEXT,
			phone_number TEXT,
			role         TEXT NOT NULL DEFAULT 'user',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS registrations (
			id               BIGSERIAL PRIMARY KEY,
			user_id          BIGINT REFERENCES users(id),
			first_name       TEXT NOT NULL,
			last_name        TEXT NOT NULL,
			email            TEXT NOT NULL,
			phone_number     TEXT,
			participant_type TEXT NOT NULL,
			grade            TEXT,
			activities       TEXT[],
			special_requests TEXT,
			status           TEXT NOT NULL DEFAULT 'pending',
			registration_id  TEXT NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS wiki_content (
			id           BIGSERIAL PRIMARY KEY,
			title        TEXT NOT NULL,
			content      TEXT NOT NULL,
			category     TEXT NOT NULL,
			created_by   BIGINT REFERENCES users(id),
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS settings (
			id      BIGSERIAL PRIMARY KEY,
			name    TEXT NOT NULL UNIQUE,
			value   TEXT NOT NULL,
			"group" TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ── Users ────────────────────────────────────────────────

const userCols = `id, username, password, first_name, last_name, email, phone_number, role, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var first, last, email, phone *string
	err := row.Scan(&u.ID, &u.Username, &u.Password, &first, &last, &email, &phone, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.FirstName = orEmpty(first)
	u.LastName = orEmpty(last)
	u.Email = orEmpty(email)
	u.PhoneNumber = orEmpty(phone)
	return &u, nil
}

func (s *Postgres) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (s *Postgres) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username = $1`, username))
}

func (s *Postgres) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Postgres) CreateUser(ctx context.Context, n *models.NewUser) (*models.User, error) {
	role := n.Role
	if role == "" {
		role = models.RoleUser
	}
	u := models.User{
		Username:    n.Username,
		Password:    n.Password,
		FirstName:   n.FirstName,
		LastName:    n.LastName,
		Email:       n.Email,
		PhoneNumber: n.PhoneNumber,
		Role:        role,
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password, first_name, last_name, email, phone_number, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		n.Username, n.Password, n.FirstName, n.LastName, n.Email, n.PhoneNumber, role,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *Postgres) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.Password != nil {
		add("password", *upd.Password)
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.PhoneNumber != nil {
		add("phone_number", *upd.PhoneNumber)
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if len(sets) == 0 {
		return s.GetUser(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userCols,
		strings.Join(sets, ", "), len(args))
	u, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	return u, err
}

func (s *Postgres) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Registrations ────────────────────────────────────────

const regCols = `id, user_id, first_name, last_name, email, phone_number, participant_type,
	grade, activities, special_requests, status, registration_id, created_at`

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var reg models.Registration
	var phone, grade, special *string
	err := row.Scan(&reg.ID, &reg.UserID, &reg.FirstName, &reg.LastName, &reg.Email, &phone,
		&reg.ParticipantType, &grade, &reg.Activities, &special, &reg.Status,
		&reg.RegistrationID, &reg.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	reg.PhoneNumber = orEmpty(phone)
	reg.Grade = orEmpty(grade)
	reg.SpecialRequests = orEmpty(special)
	if reg.Activities == nil {
		reg.Activities = []string{}
	}
	return &reg, nil
}

func (s *Postgres) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	return scanRegistration(s.pool.QueryRow(ctx,
		`SELECT `+regCols+` FROM registrations WHERE id = $1`, id))
}

func (s *Postgres) GetRegistrationByCode(ctx context.Context, code string) (*models.Registration, error) {
	return scanRegistration(s.pool.QueryRow(ctx,
		`SELECT `+regCols+` FROM registrations WHERE registration_id = $1`, code))
}

func (s *Postgres) queryRegistrations(ctx context.Context, query string, args ...any) ([]models.Registration, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	regs := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (s *Postgres) GetRegistrationsByUser(ctx context.Context, userID int64) ([]models.Registration, error) {
	return s.queryRegistrations(ctx,
		`SELECT `+regCols+` FROM registrations WHERE user_id = $1 ORDER BY id`, userID)
}

func (s *Postgres) GetAllRegistrations(ctx context.Context) ([]models.Registration, error) {
	return s.queryRegistrations(ctx, `SELECT `+regCols+` FROM registrations ORDER BY id`)
}

func (s *Postgres) CreateRegistration(ctx context.Context, n *models.NewRegistration) (*models.Registration, error) {
	status := n.Status
	if status == "" {
		status = models.StatusPending
	}
	activities := n.Activities
	if activities == nil {
		activities = []string{}
	}
	reg := models.Registration{
		UserID:          n.UserID,
		FirstName:       n.FirstName,
		LastName:        n.LastName,
		Email:           n.Email,
		PhoneNumber:     n.PhoneNumber,
		ParticipantType: n.ParticipantType,
		Grade:           n.Grade,
		Activities:      activities,
		SpecialRequests: n.SpecialRequests,
		Status:          status,
		RegistrationID:  NewRegistrationCode(time.Now()),
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO registrations (user_id, first_name, last_name, email, phone_number,
			participant_type, grade, activities, special_requests, status, registration_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		n.UserID, n.FirstName, n.LastName, n.Email, n.PhoneNumber,
		n.ParticipantType, n.Grade, activities, n.SpecialRequests, status, reg.RegistrationID,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return &reg, nil
}

func (s *Postgres) UpdateRegistration(ctx context.Context, id int64, upd models.RegistrationUpdate) (*models.Registration, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.PhoneNumber != nil {
		add("phone_number", *upd.PhoneNumber)
	}
	if upd.ParticipantType != nil {
		add("participant_type", *upd.ParticipantType)
	}
	if upd.Grade != nil {
		add("grade", *upd.Grade)
	}
	if upd.Activities != nil {
		add("activities", *upd.Activities)
	}
	if upd.SpecialRequests != nil {
		add("special_requests", *upd.SpecialRequests)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if len(sets) == 0 {
		return s.GetRegistration(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE registrations SET %s WHERE id = $%d RETURNING `+regCols,
		strings.Join(sets, ", "), len(args))
	return scanRegistration(s.pool.QueryRow(ctx, query, args...))
}

func (s *Postgres) DeleteRegistration(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Wiki content ─────────────────────────────────────────

const wikiCols = `id, title, content, category, created_by, last_updated`

func scanWiki(row pgx.Row) (*models.WikiContent, error) {
	var c models.WikiContent
	err := row.Scan(&c.ID, &c.Title, &c.Content, &c.Category, &c.CreatedBy, &c.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan wiki content: %w", err)
	}
	return &c, nil
}

func (s *Postgres) GetWikiContent(ctx context.Context, id int64) (*models.WikiContent, error) {
	return scanWiki(s.pool.QueryRow(ctx, `SELECT `+wikiCols+` FROM wiki_content WHERE id = $1`, id))
}

func (s *Postgres) queryWiki(ctx context.Context, query string, args ...any) ([]models.WikiContent, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wiki content: %w", err)
	}
	defer rows.Close()

	all := []models.WikiContent{}
	for rows.Next() {
		c, err := scanWiki(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *c)
	}
	return all, rows.Err()
}

func (s *Postgres) GetWikiContentByCategory(ctx context.Context, category string) ([]models.WikiContent, error) {
	return s.queryWiki(ctx, `SELECT `+wikiCols+` FROM wiki_content WHERE category = $1 ORDER BY id`, category)
}

func (s *Postgres) GetAllWikiContent(ctx context.Context) ([]models.WikiContent, error) {
	return s.queryWiki(ctx, `SELECT `+wikiCols+` FROM wiki_content ORDER BY id`)
}

func (s *Postgres) GetAllWikiCategories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT category FROM wiki_content ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list wiki categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan wiki category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Postgres) CreateWikiContent(ctx context.Context, n *models.NewWikiContent) (*models.WikiContent, error) {
	c := models.WikiContent{
		Title:     n.Title,
		Content:   n.Content,
		Category:  n.Category,
		CreatedBy: n.CreatedBy,
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO wiki_content (title, content, category, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, last_updated`,
		n.Title, n.Content, n.Category, n.CreatedBy,
	).Scan(&c.ID, &c.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("create wiki content: %w", err)
	}
	return &c, nil
}

func (s *Postgres) UpdateWikiContent(ctx context.Context, id int64, upd models.WikiContentUpdate) (*models.WikiContent, error) {
	// last_updated is refreshed even when no content field changes.
	sets := []string{"last_updated = NOW()"}
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE wiki_content SET %s WHERE id = $%d RETURNING `+wikiCols,
		strings.Join(sets, ", "), len(args))
	return scanWiki(s.pool.QueryRow(ctx, query, args...))
}

func (s *Postgres) DeleteWikiContent(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM wiki_content WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete wiki content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Settings ─────────────────────────────────────────────

const settingCols = `id, name, value, "group"`

func scanSetting(row pgx.Row) (*models.Setting, error) {
	var st models.Setting
	err := row.Scan(&st.ID, &st.Name, &st.Value, &st.Group)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan setting: %w", err)
	}
	return &st, nil
}

func (s *Postgres) GetSetting(ctx context.Context, name string) (*models.Setting, error) {
	return scanSetting(s.pool.QueryRow(ctx, `SELECT `+settingCols+` FROM settings WHERE name = $1`, name))
}

func (s *Postgres) querySettings(ctx context.Context, query string, args ...any) ([]models.Setting, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := []models.Setting{}
	for rows.Next() {
		st, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, *st)
	}
	return settings, rows.Err()
}

func (s *Postgres) GetSettingsByGroup(ctx context.Context, group string) ([]models.Setting, error) {
	return s.querySettings(ctx, `SELECT `+settingCols+` FROM settings WHERE "group" = $1 ORDER BY id`, group)
}

func (s *Postgres) GetAllSettings(ctx context.Context) ([]models.Setting, error) {
	return s.querySettings(ctx, `SELECT `+settingCols+` FROM settings ORDER BY id`)
}

func (s *Postgres) CreateSetting(ctx context.Context, st *models.Setting) (*models.Setting, error) {
	created := *st
	err := s.pool.QueryRow(ctx, `
		INSERT INTO settings (name, value, "group") VALUES ($1, $2, $3) RETURNING id`,
		st.Name, st.Value, st.Group,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("create setting: %w", err)
	}
	return &created, nil
}

func (s *Postgres) UpdateSetting(ctx context.Context, name, value string) (*models.Setting, error) {
	return scanSetting(s.pool.QueryRow(ctx,
		`UPDATE settings SET value = $1 WHERE name = $2 RETURNING `+settingCols, value, name))
}
