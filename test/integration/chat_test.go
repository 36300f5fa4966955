package integration

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	chatmodels "studlance_backend/internal/models/chat"
	"studlance_backend/test/helpers"
	"studlance_backend/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conversationView struct {
	ID                  string   `json:"id"`
	OtherUserID         string   `json:"other_user_id"`
	OtherUserName       string   `json:"other_user_name"`
	UnreadCount         int      `json:"unread_count"`
	LastMessageText     string   `json:"last_message_text"`
	AssociatedProjects  []string `json:"associated_projects"`
	CurrentProjectTitle *string  `json:"current_project_title"`
}

func openConversation(t *testing.T, ts *helpers.TestServer, auth helpers.AuthResult, otherID string) conversationView {
	t.Helper()
	var view conversationView
	resp := ts.Request(http.MethodPost, "/api/v1/conversations", map[string]string{
		"other_user_id": otherID,
	}, auth.AccessToken, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return view
}

func TestConversationDeduplication(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	first := openConversation(t, ts, client, freelancer.UserID)
	require.NotEmpty(t, first.ID)

	// same pair from either side resolves to the same conversation
	second := openConversation(t, ts, client, freelancer.UserID)
	assert.Equal(t, first.ID, second.ID)

	third := openConversation(t, ts, freelancer, client.UserID)
	assert.Equal(t, first.ID, third.ID)

	// the view is from the caller's perspective
	assert.Equal(t, freelancer.UserID, first.OtherUserID)
	assert.Equal(t, client.UserID, third.OtherUserID)
}

func TestConversationRejectsSelf(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()

	resp := ts.Request(http.MethodPost, "/api/v1/conversations", map[string]string{
		"other_user_id": client.UserID,
	}, client.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConversationProjectContext(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	projectID := ts.CreateProject(client, "Context project")

	var view conversationView
	resp := ts.Request(http.MethodPost, "/api/v1/conversations", map[string]string{
		"other_user_id": freelancer.UserID,
		"project_id":    projectID,
	}, client.AccessToken, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, view.CurrentProjectTitle)
	assert.Equal(t, "Context project", *view.CurrentProjectTitle)
	assert.Equal(t, []string{projectID}, view.AssociatedProjects)

	// opening again with a second project appends, not replaces
	secondID := ts.CreateProject(client, "Second context")
	resp = ts.Request(http.MethodPost, "/api/v1/conversations", map[string]string{
		"other_user_id": freelancer.UserID,
		"project_id":    secondID,
	}, client.AccessToken, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.ElementsMatch(t, []string{projectID, secondID}, view.AssociatedProjects)
	assert.Equal(t, "Second context", *view.CurrentProjectTitle)
}

func TestMessagingAndUnreadCounters(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	conv := openConversation(t, ts, client, freelancer.UserID)

	// client sends two messages
	for _, text := range []string{"Hello!", "Are you available this week?"} {
		var msg struct {
			ID         string `json:"id"`
			ReceiverID string `json:"receiver_id"`
			IsRead     bool   `json:"is_read"`
		}
		resp := ts.Request(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/messages", map[string]string{
			"content": text,
		}, client.AccessToken, &msg)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, freelancer.UserID, msg.ReceiverID)
		assert.False(t, msg.IsRead)
	}

	// freelancer sees unread_count = 2, sender sees 0
	fView := openConversation(t, ts, freelancer, client.UserID)
	assert.Equal(t, 2, fView.UnreadCount)
	assert.Equal(t, "Are you available this week?", fView.LastMessageText)

	cView := openConversation(t, ts, client, freelancer.UserID)
	assert.Equal(t, 0, cView.UnreadCount)

	// total unread across conversations
	var total struct {
		UnreadCount int64 `json:"unread_count"`
	}
	resp := ts.Request(http.MethodGet, "/api/v1/conversations/unread-count", nil, freelancer.AccessToken, &total)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), total.UnreadCount)

	// mark read zeroes the counter and flags the messages
	var marked struct {
		MarkedCount int64 `json:"marked_count"`
	}
	resp = ts.Request(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/read", nil, freelancer.AccessToken, &marked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), marked.MarkedCount)

	fView = openConversation(t, ts, freelancer, client.UserID)
	assert.Equal(t, 0, fView.UnreadCount)

	var messages struct {
		Messages []struct {
			IsRead bool `json:"is_read"`
		} `json:"messages"`
	}
	resp = ts.Request(http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages", nil, freelancer.AccessToken, &messages)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, messages.Messages, 2)
	for _, m := range messages.Messages {
		assert.True(t, m.IsRead)
	}

	// marking again is idempotent
	resp = ts.Request(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/read", nil, freelancer.AccessToken, &marked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), marked.MarkedCount)
}

func TestMessagingAccessControl(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()
	outsider := ts.RegisterClient()

	conv := openConversation(t, ts, client, freelancer.UserID)

	// a non-member cannot read or write
	resp := ts.Request(http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages", nil, outsider.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.Request(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/messages", map[string]string{
		"content": "Let me in",
	}, outsider.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// sending into a conversation that does not exist is 404, never a create
	resp = ts.Request(http.MethodPost, "/api/v1/conversations/00000000-0000-0000-0000-000000000000/messages", map[string]string{
		"content": "Anyone there?",
	}, client.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAttachmentUploadGuards(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()
	outsider := ts.RegisterClient()

	conv := openConversation(t, ts, client, freelancer.UserID)

	// a non-member is rejected before anything reaches storage
	resp := ts.Upload("/api/v1/conversations/"+conv.ID+"/attachments", outsider.AccessToken, "file", "plant.txt", []byte("plant"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// so is an upload into a conversation that does not exist
	resp = ts.Upload("/api/v1/conversations/00000000-0000-0000-0000-000000000000/voice", outsider.AccessToken, "file", "note.webm", []byte("webm"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// neither attempt planted an object
	for _, prefix := range []string{"message_attachments", "voice_messages"} {
		matches, err := filepath.Glob(filepath.Join(ts.UploadDir, prefix, "*", "*"))
		require.NoError(t, err)
		assert.Empty(t, matches, prefix)
	}

	// a member still can attach
	resp = ts.Upload("/api/v1/conversations/"+conv.ID+"/attachments", client.AccessToken, "file", "brief.txt", []byte("brief"), nil)
	var msg struct {
		Type          string  `json:"type"`
		AttachmentURL *string `json:"attachment_url"`
	}
	ts.DecodeBody(resp, &msg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "file", msg.Type)
	require.NotNil(t, msg.AttachmentURL)
}

func TestSnapshotCarriesLatestMessages(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	conv := openConversation(t, ts, client, freelancer.UserID)

	const total = 60
	for i := 0; i < total; i++ {
		resp := ts.Request(http.MethodPost, "/api/v1/conversations/"+conv.ID+"/messages", map[string]string{
			"content": fmt.Sprintf("message %03d", i),
		}, client.AccessToken, nil)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	state, err := ts.Container.Chat.Snapshot(context.Background(), ts.DB, freelancer.UserID, ws.ConversationChannel(conv.ID))
	require.NoError(t, err)

	payload, ok := state.(map[string]interface{})
	require.True(t, ok)
	messages, ok := payload["messages"].([]chatmodels.Message)
	require.True(t, ok)
	require.Len(t, messages, 50)

	// the snapshot is the newest tail of the thread, ascending
	assert.Equal(t, fmt.Sprintf("message %03d", total-50), messages[0].Content)
	assert.Equal(t, fmt.Sprintf("message %03d", total-1), messages[len(messages)-1].Content)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}
