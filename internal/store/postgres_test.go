package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tghbhs/science-carnival/backend/internal/models"
	"github.com/tghbhs/science-carnival/backend/internal/store"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *store.Postgres) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, store.NewPostgres(mock)
}

func userRow() *pgxmock.Rows {
	first, last, email, phone := "Alice", "Liddell", "alice@example.com", "555-0100"
	return pgxmock.NewRows([]string{
		"id", "username", "password", "first_name", "last_name",
		"email", "phone_number", "role", "created_at",
	}).AddRow(int64(1), "alice", "hash.salt", &first, &last, &email, &phone, "user", time.Now())
}

func TestPostgresGetUserByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
			WithArgs("alice").
			WillReturnRows(userRow())

		u, err := s.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, "Alice", u.FirstName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
			WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		_, err := s.GetUserByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns generated id and timestamp", func(t *testing.T) {
		mock, s := newMockStore(t)
		created := time.Now()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "hash.salt", "Alice", "Liddell", "alice@example.com", "", "user").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

		u, err := s.CreateUser(ctx, &models.NewUser{
			Username: "alice", Password: "hash.salt",
			FirstName: "Alice", LastName: "Liddell", Email: "alice@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), u.ID)
		assert.Equal(t, models.RoleUser, u.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate username", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "hash.salt", "", "", "", "", "user").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err := s.CreateUser(ctx, &models.NewUser{Username: "alice", Password: "hash.salt"})
		assert.ErrorIs(t, err, store.ErrDuplicateUsername)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("empty update falls back to a plain read", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(userRow())

		u, err := s.UpdateUser(ctx, 1, models.UserUpdate{})
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("only set fields appear in the statement", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectQuery(`UPDATE users SET email = \$1 WHERE id = \$2 RETURNING`).
			WithArgs("new@example.com", int64(1)).
			WillReturnRows(userRow())

		email := "new@example.com"
		_, err := s.UpdateUser(ctx, 1, models.UserUpdate{Email: &email})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("zero rows affected maps to not found", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, s.DeleteUser(ctx, 42), store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes the row", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, s.DeleteUser(ctx, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresWikiCategories(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectQuery(`SELECT DISTINCT category FROM wiki_content ORDER BY category`).
		WillReturnRows(pgxmock.NewRows([]string{"category"}).
			AddRow("Biology").AddRow("Chemistry").AddRow("Physics"))

	categories, err := s.GetAllWikiCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Biology", "Chemistry", "Physics"}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the updated row", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectQuery(`UPDATE settings SET value = \$1 WHERE name = \$2 RETURNING`).
			WithArgs("New Title", "siteTitle").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "value", "group"}).
				AddRow(int64(1), "siteTitle", "New Title", "general"))

		st, err := s.UpdateSetting(ctx, "siteTitle", "New Title")
		require.NoError(t, err)
		assert.Equal(t, "New Title", st.Value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent name maps to not found", func(t *testing.T) {
		mock, s := newMockStore(t)
		mock.ExpectQuery(`UPDATE settings SET value = \$1 WHERE name = \$2 RETURNING`).
			WithArgs("v", "missing").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "value", "group"}))

		_, err := s.UpdateSetting(ctx, "missing", "v")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
