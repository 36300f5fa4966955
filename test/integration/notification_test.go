package integration

import (
	"net/http"
	"testing"

	"studlance_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationList struct {
	Notifications []struct {
		ID        string `json:"id"`
		Type      string `json:"type"`
		IsRead    bool   `json:"is_read"`
		Delivered bool   `json:"delivered"`
	} `json:"notifications"`
	UnreadCount int64 `json:"unread_count"`
}

func TestProposalNotificationFanout(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	projectID := ts.CreateProject(client, "Notify me")

	resp := ts.Request(http.MethodPost, "/api/v1/proposals", map[string]interface{}{
		"project_id":    projectID,
		"cover_letter":  "Please consider my application for this.",
		"bid_amount":    250.0,
		"delivery_days": 4,
	}, freelancer.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list notificationList
	resp = ts.Request(http.MethodGet, "/api/v1/notifications", nil, client.AccessToken, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, "proposal", list.Notifications[0].Type)
	assert.False(t, list.Notifications[0].IsRead)
	assert.True(t, list.Notifications[0].Delivered)
	assert.Equal(t, int64(1), list.UnreadCount)
}

func TestNotificationStreamsArePerRole(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	projectID := ts.CreateProject(client, "Role streams")

	var proposal struct {
		ID string `json:"id"`
	}
	resp := ts.Request(http.MethodPost, "/api/v1/proposals", map[string]interface{}{
		"project_id":    projectID,
		"cover_letter":  "Looking forward to working together.",
		"bid_amount":    300.0,
		"delivery_days": 5,
	}, freelancer.AccessToken, &proposal)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.Request(http.MethodPost, "/api/v1/proposals/"+proposal.ID+"/accept", nil, client.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the freelancer got the hire notification, not the client's proposal one
	var list notificationList
	resp = ts.Request(http.MethodGet, "/api/v1/notifications", nil, freelancer.AccessToken, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, "project_hired", list.Notifications[0].Type)
}

func TestNotificationReadAndClear(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	projectID := ts.CreateProject(client, "Read and clear")

	resp := ts.Request(http.MethodPost, "/api/v1/proposals", map[string]interface{}{
		"project_id":    projectID,
		"cover_letter":  "Another application to generate a notification.",
		"bid_amount":    100.0,
		"delivery_days": 2,
	}, freelancer.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list notificationList
	resp = ts.Request(http.MethodGet, "/api/v1/notifications", nil, client.AccessToken, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Notifications, 1)

	// single mark-read
	resp = ts.Request(http.MethodPost, "/api/v1/notifications/"+list.Notifications[0].ID+"/read", nil, client.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count struct {
		UnreadCount int64 `json:"unread_count"`
	}
	resp = ts.Request(http.MethodGet, "/api/v1/notifications/unread-count", nil, client.AccessToken, &count)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), count.UnreadCount)

	// clear removes everything
	var cleared struct {
		ClearedCount int64 `json:"cleared_count"`
	}
	resp = ts.Request(http.MethodDelete, "/api/v1/notifications", nil, client.AccessToken, &cleared)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), cleared.ClearedCount)

	resp = ts.Request(http.MethodGet, "/api/v1/notifications", nil, client.AccessToken, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, list.Notifications)
}
