package server

import (
	"net/http"
	"testing"

	"profilebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCRUD(t *testing.T) {
	app, _, _ := newTestServer(t)
	token := registerAndLogin(t, app, "alice", "")

	// Auto-created profile is blank
	resp := doJSON(t, app, http.MethodGet, "/api/profiles/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody(t, resp)["full_name"])

	// Fill it in
	resp = doJSON(t, app, http.MethodPut, "/api/profiles/me", token, map[string]string{
		"full_name": "Alice Example",
		"email":     "alice@example.com",
		"phone":     "555-0100",
		"bio":       "hello",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/profiles/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Alice Example", body["full_name"])
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestSearchProfiles(t *testing.T) {
	app, _, db := newTestServer(t)
	token := registerAndLogin(t, app, "alice", "")
	registerAndLogin(t, app, "bob", "")

	resp := doJSON(t, app, http.MethodPut, "/api/profiles/me", token, map[string]string{
		"full_name": "Alice Wonderland",
		"email":     "alice@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A user with no profile row still appears in results
	require.NoError(t, db.Create(&models.User{
		Username:     "malice",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}).Error)

	// Empty query short-circuits
	resp = doJSON(t, app, http.MethodGet, "/api/profiles/search?query=", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeList(t, resp))

	// Case-insensitive match across username and profile fields,
	// ordered by username
	resp = doJSON(t, app, http.MethodGet, "/api/profiles/search?query=ALI", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decodeList(t, resp)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0]["username"])
	assert.Equal(t, "User", rows[0]["role"])
	assert.NotZero(t, rows[0]["profile_id"])
	assert.Equal(t, "malice", rows[1]["username"])
	assert.Empty(t, rows[1]["full_name"])
	assert.Equal(t, float64(0), rows[1]["profile_id"])

	// Email-only match
	resp = doJSON(t, app, http.MethodGet, "/api/profiles/search?query=example.com", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 1)
}

func TestSearchProfiles_CapsResults(t *testing.T) {
	app, _, db := newTestServer(t)

	for i := 0; i < 60; i++ {
		require.NoError(t, db.Create(&models.User{
			Username:     "bulkuser" + string(rune('a'+i/26)) + string(rune('a'+i%26)),
			PasswordHash: "x",
			Role:         models.RoleUser,
		}).Error)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/profiles/search?query=bulkuser", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 50)
}

func TestListProfiles_AdminOnly(t *testing.T) {
	app, _, _ := newTestServer(t)
	userToken := registerAndLogin(t, app, "alice", "")
	adminToken := registerAndLogin(t, app, "admin", models.RoleAdmin)

	resp := doJSON(t, app, http.MethodGet, "/api/profiles", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/profiles", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 2)
}

func TestDeleteProfile_AdminOnly(t *testing.T) {
	app, _, db := newTestServer(t)
	registerAndLogin(t, app, "alice", "")
	adminToken := registerAndLogin(t, app, "admin", models.RoleAdmin)

	aliceID := userIDByName(t, db, "alice")
	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", aliceID).First(&profile).Error)

	resp := doJSON(t, app, http.MethodDelete, "/api/profiles/"+itoa(profile.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Profile gone, user account untouched
	var count int64
	db.Model(&models.Profile{}).Where("user_id = ?", aliceID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.User{}).Where("id = ?", aliceID).Count(&count)
	assert.Equal(t, int64(1), count)

	resp = doJSON(t, app, http.MethodDelete, "/api/profiles/"+itoa(profile.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
