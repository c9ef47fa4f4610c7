package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"profilebook/internal/config"
	"profilebook/internal/database"
	"profilebook/internal/middleware"
	"profilebook/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a Fiber app backed by an in-memory SQLite database
// with all routes registered.
func newTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret: "test_secret",
		UploadDir: t.TempDir(),
		Env:       "test",
	}
	middleware.InitMiddleware(cfg)

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv, db
}

// doJSON performs a JSON request against the app, with an optional bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals a response body into a map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// decodeList unmarshals a response body into a slice of maps.
func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerAndLogin creates an account directly through the service layer and
// returns a bearer token for it.
func registerAndLogin(t *testing.T, app *fiber.App, username string, role models.Role) string {
	t.Helper()

	// role is honored by the register endpoint
	body := map[string]string{"username": username, "password": "password123"}
	if role != "" {
		body["role"] = string(role)
	}
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, ok := decodeBody(t, resp)["token"].(string)
	require.True(t, ok)
	return token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func userIDByName(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("username = ?", username).First(&user).Error)
	return user.ID
}

func TestHumanizeParam(t *testing.T) {
	require.Equal(t, "ID", humanizeParam("id"))
	require.Equal(t, "user ID", humanizeParam("userId"))
	require.Equal(t, "receiver ID", humanizeParam("receiverId"))
	require.Equal(t, "slug", humanizeParam("slug"))
}
