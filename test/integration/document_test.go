package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"studlance_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hireFreelancer runs the bid/accept flow and returns the project id.
func hireFreelancer(t *testing.T, ts *helpers.TestServer, client, freelancer helpers.AuthResult) string {
	t.Helper()

	projectID := ts.CreateProject(client, "Document project")

	var proposal struct {
		ID string `json:"id"`
	}
	resp := ts.Request(http.MethodPost, "/api/v1/proposals", map[string]interface{}{
		"project_id":    projectID,
		"cover_letter":  "Application for the document project.",
		"bid_amount":    150.0,
		"delivery_days": 3,
	}, freelancer.AccessToken, &proposal)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.Request(http.MethodPost, "/api/v1/proposals/"+proposal.ID+"/accept", nil, client.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return projectID
}

func TestDocumentUploadAndDownload(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()
	projectID := hireFreelancer(t, ts, client, freelancer)

	content := []byte("brief contents for the freelancer")
	resp := ts.Upload("/api/v1/projects/"+projectID+"/documents", client.AccessToken, "file", "brief.txt", content, nil)

	var doc struct {
		ID       string `json:"id"`
		FileName string `json:"file_name"`
		FileSize int64  `json:"file_size"`
		URL      string `json:"url"`
		Kind     string `json:"kind"`
	}
	ts.DecodeBody(resp, &doc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "brief.txt", doc.FileName)
	assert.Equal(t, int64(len(content)), doc.FileSize)
	assert.Equal(t, "project", doc.Kind)
	require.NotEmpty(t, doc.URL)

	// the stored object is served back byte for byte
	fileResp, err := http.Get(ts.Server.URL + doc.URL)
	require.NoError(t, err)
	defer fileResp.Body.Close()
	require.Equal(t, http.StatusOK, fileResp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(fileResp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, buf.Bytes())

	// the upload notified the freelancer
	var list notificationList
	r := ts.Request(http.MethodGet, "/api/v1/notifications", nil, freelancer.AccessToken, &list)
	require.Equal(t, http.StatusOK, r.StatusCode)

	found := false
	for _, n := range list.Notifications {
		if n.Type == "document_upload" {
			found = true
		}
	}
	assert.True(t, found, "expected a document_upload notification")
}

func TestDocumentUploadValidation(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()
	projectID := hireFreelancer(t, ts, client, freelancer)

	// disallowed extension
	resp := ts.Upload("/api/v1/projects/"+projectID+"/documents", client.AccessToken, "file", "script.exe", []byte("MZ"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	// over the size cap
	oversized := make([]byte, 10*1024*1024+1)
	resp = ts.Upload("/api/v1/projects/"+projectID+"/documents", client.AccessToken, "file", "huge.zip", oversized, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	// nothing was stored for either attempt
	var docs struct {
		Documents []json.RawMessage `json:"documents"`
	}
	r := ts.Request(http.MethodGet, "/api/v1/projects/"+projectID+"/documents", nil, client.AccessToken, &docs)
	require.Equal(t, http.StatusOK, r.StatusCode)
	assert.Empty(t, docs.Documents)
}

func TestHandoverDocumentRules(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()
	projectID := hireFreelancer(t, ts, client, freelancer)

	// only the hired freelancer can upload handover documents
	resp := ts.Upload("/api/v1/projects/"+projectID+"/documents", client.AccessToken, "file", "result.zip", []byte("zip"), map[string]string{"kind": "handover"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.Upload("/api/v1/projects/"+projectID+"/documents", freelancer.AccessToken, "file", "result.zip", []byte("zip"), map[string]string{"kind": "handover"})
	var doc struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	}
	ts.DecodeBody(resp, &doc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "handover", doc.Kind)

	// handover upload notifies the client
	var list notificationList
	r := ts.Request(http.MethodGet, "/api/v1/notifications", nil, client.AccessToken, &list)
	require.Equal(t, http.StatusOK, r.StatusCode)

	found := false
	for _, n := range list.Notifications {
		if n.Type == "project_handover" {
			found = true
		}
	}
	assert.True(t, found, "expected a project_handover notification")
}

func TestDocumentDelete(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()
	projectID := hireFreelancer(t, ts, client, freelancer)

	resp := ts.Upload("/api/v1/projects/"+projectID+"/documents", client.AccessToken, "file", "todelete.txt", []byte("bye"), nil)
	var doc struct {
		ID string `json:"id"`
	}
	ts.DecodeBody(resp, &doc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// only the uploader may delete
	r := ts.Request(http.MethodDelete, "/api/v1/documents/"+doc.ID, nil, freelancer.AccessToken, nil)
	r.Body.Close()
	assert.Equal(t, http.StatusForbidden, r.StatusCode)

	r = ts.Request(http.MethodDelete, "/api/v1/documents/"+doc.ID, nil, client.AccessToken, nil)
	r.Body.Close()
	require.Equal(t, http.StatusNoContent, r.StatusCode)

	var docs struct {
		Documents []json.RawMessage `json:"documents"`
	}
	r = ts.Request(http.MethodGet, "/api/v1/projects/"+projectID+"/documents", nil, client.AccessToken, &docs)
	require.Equal(t, http.StatusOK, r.StatusCode)
	assert.Empty(t, docs.Documents)
}
