package server

import (
	"net/http"
	"testing"

	"profilebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app, _, db := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User registered successfully", decodeBody(t, resp)["message"])

	// Role defaulted and profile auto-created
	var user models.User
	require.NoError(t, db.Where("username = ?", "bob").First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)
	var count int64
	db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegister_DuplicateUsernameIs400(t *testing.T) {
	app, _, _ := newTestServer(t)

	body := map[string]string{"username": "bob", "password": "password123"}
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_MissingFields(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"password": "password123",
		"role":     "Admin",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "Admin", body["role"])
}

func TestLogin_BadCredentials(t *testing.T) {
	app, _, _ := newTestServer(t)
	registerAndLogin(t, app, "alice", "")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/profiles/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/profiles/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := registerAndLogin(t, app, "alice", "")
	resp = doJSON(t, app, http.MethodGet, "/api/profiles/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
