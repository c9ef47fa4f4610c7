package server

import (
	"net/http"
	"testing"

	"profilebook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFlow(t *testing.T) {
	app, _, db := newTestServer(t)
	aliceToken := registerAndLogin(t, app, "alice", "")
	registerAndLogin(t, app, "bob", "")
	adminToken := registerAndLogin(t, app, "admin", models.RoleAdmin)
	bobID := userIDByName(t, db, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/reports/"+itoa(bobID), aliceToken,
		map[string]string{"reason": "spamming the feed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Admin review list resolves both usernames
	resp = doJSON(t, app, http.MethodGet, "/api/reports", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decodeList(t, resp)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0]["reporting_user"])
	assert.Equal(t, "bob", rows[0]["reported_user"])
	assert.Equal(t, "spamming the feed", rows[0]["reason"])

	// Non-admins cannot read reports
	resp = doJSON(t, app, http.MethodGet, "/api/reports", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReportUser_SelfIsRejected(t *testing.T) {
	app, _, db := newTestServer(t)
	aliceToken := registerAndLogin(t, app, "alice", "")
	aliceID := userIDByName(t, db, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/reports/"+itoa(aliceID), aliceToken,
		map[string]string{"reason": "self loathing"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportUser_UnknownTarget(t *testing.T) {
	app, _, _ := newTestServer(t)
	aliceToken := registerAndLogin(t, app, "alice", "")

	resp := doJSON(t, app, http.MethodPost, "/api/reports/9999", aliceToken,
		map[string]string{"reason": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportUser_EmptyReason(t *testing.T) {
	app, _, db := newTestServer(t)
	aliceToken := registerAndLogin(t, app, "alice", "")
	registerAndLogin(t, app, "bob", "")
	bobID := userIDByName(t, db, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/reports/"+itoa(bobID), aliceToken,
		map[string]string{"reason": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
