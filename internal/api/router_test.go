package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tghbhs/science-carnival/backend/internal/api"
	"github.com/tghbhs/science-carnival/backend/internal/audit"
	"github.com/tghbhs/science-carnival/backend/internal/auth"
	"github.com/tghbhs/science-carnival/backend/internal/bootstrap"
	"github.com/tghbhs/science-carnival/backend/internal/models"
	"github.com/tghbhs/science-carnival/backend/internal/store"
)

// memoryMedia is an in-process wiki.Media for tests.
type memoryMedia struct {
	mu      sync.Mutex
	objects map[string]mediaObject
}

type mediaObject struct {
	data        []byte
	contentType string
}

func newMemoryMedia() *memoryMedia {
	return &memoryMedia{objects: map[string]mediaObject{}}
}

func (m *memoryMedia) Upload(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = mediaObject{data: data, contentType: contentType}
	return nil
}

func (m *memoryMedia) Download(_ context.Context, key string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("no such object %q", key)
	}
	return obj.data, obj.contentType, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := store.NewMemory()
	require.NoError(t, bootstrap.Seed(context.Background(), st, "admin", "adminpass"))

	router := api.NewRouter(api.Deps{
		Store:    st,
		Sessions: auth.NewMemorySessions(time.Hour),
		Media:    newMemoryMedia(),
		Audit:    audit.NewMemory(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns an http client with its own cookie jar, so each caller
// in a test holds an independent session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), "body: %s", data)
	return v
}

func register(t *testing.T, c *http.Client, base, username, password string) models.User {
	t.Helper()
	resp, body := doJSON(t, c, http.MethodPost, base+"/api/register", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
	return decode[models.User](t, body)
}

func login(t *testing.T, c *http.Client, base, username, password string) {
	t.Helper()
	resp, body := doJSON(t, c, http.MethodPost, base+"/api/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRegisterAndSession(t *testing.T) {
	srv := newTestServer(t)

	t.Run("signup logs the account in", func(t *testing.T) {
		c := newClient(t)
		u := register(t, c, srv.URL, "alice", "secret1")
		assert.Equal(t, models.RoleUser, u.Role)

		resp, body := doJSON(t, c, http.MethodGet, srv.URL+"/api/user", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		me := decode[models.User](t, body)
		assert.Equal(t, "alice", me.Username)
	})

	t.Run("password hash never leaves the API", func(t *testing.T) {
		c := newClient(t)
		_, body := doJSON(t, c, http.MethodPost, srv.URL+"/api/register", map[string]string{
			"username": "bob", "password": "secret1",
		})
		assert.NotContains(t, string(body), "password")
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		c := newClient(t)
		register(t, c, srv.URL, "carol", "secret1")

		resp, body := doJSON(t, newClient(t), http.MethodPost, srv.URL+"/api/register", map[string]string{
			"username": "carol", "password": "secret2",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.JSONEq(t, `{"error":"username already exists"}`, string(body))
	})

	t.Run("short password rejected with field errors", func(t *testing.T) {
		resp, body := doJSON(t, newClient(t), http.MethodPost, srv.URL+"/api/register", map[string]string{
			"username": "dave", "password": "ab",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), "password must be at least 6 characters")
	})

	t.Run("anonymous caller has no session", func(t *testing.T) {
		resp, _ := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/user", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	register(t, newClient(t), srv.URL, "alice", "secret1")

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		resp1, body1 := doJSON(t, newClient(t), http.MethodPost, srv.URL+"/api/login", map[string]string{
			"username": "nobody", "password": "whatever",
		})
		resp2, body2 := doJSON(t, newClient(t), http.MethodPost, srv.URL+"/api/login", map[string]string{
			"username": "alice", "password": "wrongpass",
		})
		assert.Equal(t, http.StatusUnauthorized, resp1.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
		assert.Equal(t, string(body1), string(body2))
	})

	t.Run("correct credentials establish a session", func(t *testing.T) {
		c := newClient(t)
		login(t, c, srv.URL, "alice", "secret1")

		resp, _ := doJSON(t, c, http.MethodGet, srv.URL+"/api/user", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("logout invalidates the session server-side", func(t *testing.T) {
		c := newClient(t)
		login(t, c, srv.URL, "alice", "secret1")

		resp, _ := doJSON(t, c, http.MethodPost, srv.URL+"/api/logout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, c, http.MethodGet, srv.URL+"/api/user", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCarnivalRegistration(t *testing.T) {
	srv := newTestServer(t)

	form := func() map[string]any {
		return map[string]any{
			"firstName":       "Pat",
			"lastName":        "Jones",
			"email":           "pat@example.com",
			"participantType": "student",
			"grade":           "10",
			"activities":      []string{"robotics", "chemistry-show"},
			"acceptTerms":     true,
		}
	}

	t.Run("anonymous signup is confirmed and unowned", func(t *testing.T) {
		resp, body := doJSON(t, newClient(t), http.MethodPost, srv.URL+"/api/register-carnival", form())
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

		reg := decode[models.Registration](t, body)
		assert.Regexp(t, `^SC\d{4}-\d{5}$`, reg.RegistrationID)
		assert.Equal(t, models.StatusConfirmed, reg.Status)
		assert.Nil(t, reg.UserID)
	})

	t.Run("logged-in signup is attached to the account", func(t *testing.T) {
		c := newClient(t)
		u := register(t, c, srv.URL, "alice", "secret1")

		resp, body := doJSON(t, c, http.MethodPost, srv.URL+"/api/register-carnival", form())
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		reg := decode[models.Registration](t, body)
		require.NotNil(t, reg.UserID)
		assert.Equal(t, u.ID, *reg.UserID)
	})

	t.Run("unaccepted terms rejected", func(t *testing.T) {
		f := form()
		f["acceptTerms"] = false
		resp, body := doJSON(t, newClient(t), http.MethodPost, srv.URL+"/api/register-carnival", f)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), "acceptTerms must be accepted")
	})
}

func TestRegistrationAccess(t *testing.T) {
	srv := newTestServer(t)

	submit := func(t *testing.T, c *http.Client, first string) models.Registration {
		t.Helper()
		resp, body := doJSON(t, c, http.MethodPost, srv.URL+"/api/register-carnival", map[string]any{
			"firstName": first, "lastName": "Jones", "email": "p@example.com",
			"participantType": "student", "acceptTerms": true,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
		return decode[models.Registration](t, body)
	}

	alice := newClient(t)
	register(t, alice, srv.URL, "alice", "secret1")
	aliceReg := submit(t, alice, "Alice")

	bob := newClient(t)
	register(t, bob, srv.URL, "bob", "secret1")
	submit(t, bob, "Bob")

	admin := newClient(t)
	login(t, admin, srv.URL, "admin", "adminpass")

	t.Run("users list only their own", func(t *testing.T) {
		_, body := doJSON(t, alice, http.MethodGet, srv.URL+"/api/registrations", nil)
		regs := decode[[]models.Registration](t, body)
		require.Len(t, regs, 1)
		assert.Equal(t, "Alice", regs[0].FirstName)
	})

	t.Run("admins list everything", func(t *testing.T) {
		_, body := doJSON(t, admin, http.MethodGet, srv.URL+"/api/registrations", nil)
		regs := decode[[]models.Registration](t, body)
		assert.Len(t, regs, 2)
	})

	t.Run("reading someone else's registration is denied", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/registrations/%d", srv.URL, aliceReg.ID)
		resp, body := doJSON(t, bob, http.MethodGet, url, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.JSONEq(t, `{"error":"access denied"}`, string(body))
	})

	t.Run("missing registration 404s before the ownership check", func(t *testing.T) {
		resp, _ := doJSON(t, bob, http.MethodGet, srv.URL+"/api/registrations/9999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("owner can update their registration", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/registrations/%d", srv.URL, aliceReg.ID)
		resp, body := doJSON(t, alice, http.MethodPut, url, map[string]any{"grade": "11"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		updated := decode[models.Registration](t, body)
		assert.Equal(t, "11", updated.Grade)
		assert.Equal(t, aliceReg.RegistrationID, updated.RegistrationID)
	})

	t.Run("invalid status value rejected", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/registrations/%d", srv.URL, aliceReg.ID)
		resp, _ := doJSON(t, alice, http.MethodPut, url, map[string]any{"status": "maybe"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete is admin-only", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/registrations/%d", srv.URL, aliceReg.ID)
		resp, _ := doJSON(t, alice, http.MethodDelete, url, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, admin, http.MethodDelete, url, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, admin, http.MethodDelete, url, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("anonymous access requires a session", func(t *testing.T) {
		resp, _ := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/registrations", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUserManagement(t *testing.T) {
	srv := newTestServer(t)

	admin := newClient(t)
	login(t, admin, srv.URL, "admin", "adminpass")

	user := newClient(t)
	register(t, user, srv.URL, "plain", "secret1")

	t.Run("non-admins are forbidden", func(t *testing.T) {
		resp, body := doJSON(t, user, http.MethodGet, srv.URL+"/api/users", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.JSONEq(t, `{"error":"admin access required"}`, string(body))
	})

	t.Run("admin can create an admin account", func(t *testing.T) {
		resp, body := doJSON(t, admin, http.MethodPost, srv.URL+"/api/users", map[string]string{
			"username": "second-admin", "password": "secret1", "role": "admin",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)
		u := decode[models.User](t, body)
		assert.Equal(t, models.RoleAdmin, u.Role)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		resp, _ := doJSON(t, admin, http.MethodPost, srv.URL+"/api/users", map[string]string{
			"username": "plain", "password": "secret1",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("admin can change a role", func(t *testing.T) {
		_, body := doJSON(t, admin, http.MethodGet, srv.URL+"/api/users", nil)
		all := decode[[]models.User](t, body)

		var plainID int64
		for _, u := range all {
			if u.Username == "plain" {
				plainID = u.ID
			}
		}
		require.NotZero(t, plainID)

		url := fmt.Sprintf("%s/api/users/%d", srv.URL, plainID)
		resp, body := doJSON(t, admin, http.MethodPut, url, map[string]string{"role": "admin"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, models.RoleAdmin, decode[models.User](t, body).Role)

		resp, body = doJSON(t, admin, http.MethodPut, url, map[string]string{"role": "user"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, models.RoleUser, decode[models.User](t, body).Role)
	})

	t.Run("admins cannot delete themselves", func(t *testing.T) {
		_, body := doJSON(t, admin, http.MethodGet, srv.URL+"/api/user", nil)
		me := decode[models.User](t, body)

		resp, body := doJSON(t, admin, http.MethodDelete,
			fmt.Sprintf("%s/api/users/%d", srv.URL, me.ID), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"cannot delete your own account"}`, string(body))
	})

	t.Run("deleting a missing user 404s", func(t *testing.T) {
		resp, _ := doJSON(t, admin, http.MethodDelete, srv.URL+"/api/users/9999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestProfile(t *testing.T) {
	srv := newTestServer(t)

	c := newClient(t)
	register(t, c, srv.URL, "alice", "secret1")

	resp, _ := doJSON(t, c, http.MethodPost, srv.URL+"/api/register-carnival", map[string]any{
		"firstName": "Alice", "lastName": "Liddell", "email": "a@example.com",
		"participantType": "student", "acceptTerms": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("profile bundles account and registrations", func(t *testing.T) {
		resp, body := doJSON(t, c, http.MethodGet, srv.URL+"/api/profile", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			User          models.User           `json:"user"`
			Registrations []models.Registration `json:"registrations"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, "alice", out.User.Username)
		assert.Len(t, out.Registrations, 1)
	})

	t.Run("profile update changes contact fields", func(t *testing.T) {
		resp, body := doJSON(t, c, http.MethodPut, srv.URL+"/api/profile", map[string]string{
			"firstName": "Alicia", "email": "alicia@example.com",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
		u := decode[models.User](t, body)
		assert.Equal(t, "Alicia", u.FirstName)
		assert.Equal(t, "alicia@example.com", u.Email)
	})

	t.Run("password change takes effect on next login", func(t *testing.T) {
		resp, _ := doJSON(t, c, http.MethodPut, srv.URL+"/api/profile", map[string]string{
			"password": "newsecret",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		fresh := newClient(t)
		resp, _ = doJSON(t, fresh, http.MethodPost, srv.URL+"/api/login", map[string]string{
			"username": "alice", "password": "secret1",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		login(t, fresh, srv.URL, "alice", "newsecret")
	})
}

func TestWiki(t *testing.T) {
	srv := newTestServer(t)

	admin := newClient(t)
	login(t, admin, srv.URL, "admin", "adminpass")

	t.Run("seeded articles are publicly readable", func(t *testing.T) {
		_, body := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/wiki", nil)
		articles := decode[[]models.WikiContent](t, body)
		assert.Len(t, articles, 3)

		_, body = doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/wiki/categories", nil)
		categories := decode[[]string](t, body)
		assert.Equal(t, []string{"Biology", "Chemistry", "Physics"}, categories)
	})

	t.Run("category filter", func(t *testing.T) {
		_, body := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/wiki/category/Physics", nil)
		articles := decode[[]models.WikiContent](t, body)
		require.Len(t, articles, 1)
		assert.Equal(t, "Physics", articles[0].Category)
	})

	t.Run("writes require admin", func(t *testing.T) {
		user := newClient(t)
		register(t, user, srv.URL, "plain", "secret1")

		resp, _ := doJSON(t, user, http.MethodPost, srv.URL+"/api/wiki", map[string]string{
			"title": "X", "content": "Y", "category": "Z",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, newClient(t), http.MethodPost, srv.URL+"/api/wiki", map[string]string{
			"title": "X", "content": "Y", "category": "Z",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("create update delete lifecycle", func(t *testing.T) {
		resp, body := doJSON(t, admin, http.MethodPost, srv.URL+"/api/wiki", map[string]string{
			"title": "Robotics", "content": "<p>Robots</p>", "category": "Engineering",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decode[models.WikiContent](t, body)
		require.NotNil(t, created.CreatedBy)

		_, body = doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/wiki/categories", nil)
		assert.Contains(t, decode[[]string](t, body), "Engineering")

		url := fmt.Sprintf("%s/api/wiki/%d", srv.URL, created.ID)
		resp, body = doJSON(t, admin, http.MethodPut, url, map[string]string{"title": "Robotics Lab"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Robotics Lab", decode[models.WikiContent](t, body).Title)

		resp, _ = doJSON(t, admin, http.MethodDelete, url, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		// category disappears with its last article
		_, body = doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/wiki/categories", nil)
		assert.NotContains(t, decode[[]string](t, body), "Engineering")
	})

	t.Run("missing article 404s", func(t *testing.T) {
		resp, _ := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/wiki/9999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

// pngHeader is enough bytes for content-type sniffing to see a PNG.
var pngHeader = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func uploadFile(t *testing.T, c *http.Client, url, filename string, data []byte) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestWikiAssets(t *testing.T) {
	srv := newTestServer(t)

	admin := newClient(t)
	login(t, admin, srv.URL, "admin", "adminpass")

	t.Run("image upload and public download roundtrip", func(t *testing.T) {
		resp, body := uploadFile(t, admin, srv.URL+"/api/wiki/upload", "diagram.png", pngHeader)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

		out := decode[map[string]string](t, body)
		assert.Regexp(t, `^wiki/.+\.png$`, out["key"])
		require.Equal(t, "/api/wiki/assets/"+out["key"], out["url"])

		resp2, data := doJSON(t, newClient(t), http.MethodGet, srv.URL+out["url"], nil)
		require.Equal(t, http.StatusOK, resp2.StatusCode)
		assert.Equal(t, "image/png", resp2.Header.Get("Content-Type"))
		assert.Equal(t, pngHeader, data)
	})

	t.Run("non-image upload rejected", func(t *testing.T) {
		resp, body := uploadFile(t, admin, srv.URL+"/api/wiki/upload", "notes.txt", []byte("plain text"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), "only image uploads are allowed")
	})

	t.Run("unknown asset 404s", func(t *testing.T) {
		resp, _ := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/wiki/assets/wiki/missing.png", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("upload requires admin", func(t *testing.T) {
		resp, _ := uploadFile(t, newClient(t), srv.URL+"/api/wiki/upload", "x.png", pngHeader)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestSettings(t *testing.T) {
	srv := newTestServer(t)

	admin := newClient(t)
	login(t, admin, srv.URL, "admin", "adminpass")

	t.Run("public read is grouped", func(t *testing.T) {
		_, body := doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/settings", nil)
		grouped := decode[map[string]map[string]string](t, body)
		assert.Equal(t, "TGHBHS Science Carnival", grouped["general"]["siteTitle"])
		assert.Equal(t, "#3B82F6", grouped["appearance"]["primaryColor"])
	})

	t.Run("write requires admin", func(t *testing.T) {
		user := newClient(t)
		register(t, user, srv.URL, "plain", "secret1")

		resp, _ := doJSON(t, user, http.MethodPost, srv.URL+"/api/settings", map[string]any{
			"group": "general", "settings": map[string]string{"siteTitle": "Hacked"},
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("update changes known names and skips unknown ones", func(t *testing.T) {
		resp, body := doJSON(t, admin, http.MethodPost, srv.URL+"/api/settings", map[string]any{
			"group": "general",
			"settings": map[string]string{
				"siteTitle": "Science Carnival 2026",
				"notAThing": "ignored",
			},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)
		updated := decode[[]models.Setting](t, body)
		require.Len(t, updated, 1)
		assert.Equal(t, "Science Carnival 2026", updated[0].Value)

		_, body = doJSON(t, newClient(t), http.MethodGet, srv.URL+"/api/settings", nil)
		grouped := decode[map[string]map[string]string](t, body)
		assert.Equal(t, "Science Carnival 2026", grouped["general"]["siteTitle"])
		_, exists := grouped["general"]["notAThing"]
		assert.False(t, exists)
	})
}

func TestAuditLog(t *testing.T) {
	srv := newTestServer(t)

	admin := newClient(t)
	login(t, admin, srv.URL, "admin", "adminpass")

	resp, body := doJSON(t, admin, http.MethodPost, srv.URL+"/api/wiki", map[string]string{
		"title": "Audited", "content": "<p>x</p>", "category": "Misc",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	t.Run("admin actions are recorded", func(t *testing.T) {
		_, body := doJSON(t, admin, http.MethodGet, srv.URL+"/api/audit", nil)
		entries := decode[[]models.AuditEntry](t, body)
		require.NotEmpty(t, entries)
		assert.Equal(t, "wiki.create", entries[0].Action)
	})

	t.Run("audit log is admin-only", func(t *testing.T) {
		user := newClient(t)
		register(t, user, srv.URL, "plain", "secret1")

		resp, _ := doJSON(t, user, http.MethodGet, srv.URL+"/api/audit", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
