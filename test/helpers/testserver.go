package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"studlance_backend/internal/app"
	"studlance_backend/internal/config"
	"studlance_backend/internal/database"
	"studlance_backend/internal/email"
	"studlance_backend/internal/logger"
	"studlance_backend/internal/services"
	"studlance_backend/internal/storage"
	"studlance_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer runs the full HTTP stack against a real Postgres database.
// Tests are skipped when TEST_DATABASE_URL is not set.
type TestServer struct {
	T         *testing.T
	DB        *gorm.DB
	Server    *httptest.Server
	Container *services.ServiceContainer
	UploadDir string
	cancel    context.CancelFunc
}

func SetupTestServer(t *testing.T) *TestServer {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.DSN = dsn
	cfg.JWT.Secret = "integration-test-secret"
	cfg.JWT.TTL = 60
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "/api/v1/files"
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedExtensions = []string{".pdf", ".png", ".txt", ".zip", ".webm"}
	config.AppConfig = cfg

	logger.Init("test")

	db, err := database.Connect(dsn, "test")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store, err := storage.NewStorage(storage.Config{
		Type:     "local",
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	wsManager := ws.NewManager(nil)
	container := services.NewServiceContainer(store, email.NoopProvider{}, wsManager)
	wsManager.SetSnapshotFunc(func(ctx context.Context, userID, channel string) (interface{}, error) {
		return container.Chat.Snapshot(ctx, db, userID, channel)
	})
	go wsManager.Run(ctx)

	router := app.SetupRouter(db, container, store, wsManager)
	server := httptest.NewServer(router)

	ts := &TestServer{
		T:         t,
		DB:        db,
		Server:    server,
		Container: container,
		UploadDir: cfg.Storage.BasePath,
		cancel:    cancel,
	}

	ts.ClearTables()
	t.Cleanup(func() {
		ts.ClearTables()
		server.Close()
		cancel()
		config.AppConfig = nil
	})

	return ts
}

// ClearTables wipes every table between tests. Order respects FKs.
func (ts *TestServer) ClearTables() {
	tables := []string{
		"chat.messages",
		"chat.conversation_participants",
		"chat.conversations",
		"notifications",
		"documents",
		"reviews",
		"proposals",
		"projects",
		"client_profiles",
		"freelancer_profiles",
		"refresh_tokens",
		"users",
	}
	for _, table := range tables {
		err := ts.DB.Exec("DELETE FROM " + table).Error
		require.NoError(ts.T, err)
	}
}

// Request performs an HTTP call against the test server and decodes the
// JSON response into out (when non-nil).
func (ts *TestServer) Request(method, path string, body interface{}, token string, out interface{}) *http.Response {
	ts.T.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.T, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(ts.T, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.T, err)

	if out != nil {
		defer resp.Body.Close()
		require.NoError(ts.T, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp
}

// Upload performs a multipart file upload.
func (ts *TestServer) Upload(path, token, fieldName, fileName string, content []byte, extraFields map[string]string) *http.Response {
	ts.T.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(ts.T, err)
	_, err = part.Write(content)
	require.NoError(ts.T, err)

	for key, value := range extraFields {
		require.NoError(ts.T, writer.WriteField(key, value))
	}
	require.NoError(ts.T, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	require.NoError(ts.T, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.T, err)
	return resp
}

// DecodeBody decodes and closes a response body.
func (ts *TestServer) DecodeBody(resp *http.Response, out interface{}) {
	ts.T.Helper()
	defer resp.Body.Close()
	require.NoError(ts.T, json.NewDecoder(resp.Body).Decode(out))
}

// --- account fixtures ---

// AuthResult is what registration/login fixtures hand back to tests.
type AuthResult struct {
	UserID      string
	AccessToken string
}

type authEnvelope struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID string `json:"id"`
	} `json:"user"`
}

var userSeq int

// RegisterUser registers an account through the real endpoint.
func (ts *TestServer) RegisterUser(role string) AuthResult {
	ts.T.Helper()

	userSeq++
	payload := map[string]string{
		"email":    fmt.Sprintf("%s%d@test.local", role, userSeq),
		"password": "password123",
		"name":     fmt.Sprintf("Test %s %d", role, userSeq),
		"role":     role,
	}

	var env authEnvelope
	resp := ts.Request(http.MethodPost, "/api/v1/auth/register", payload, "", &env)
	require.Equal(ts.T, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(ts.T, env.AccessToken)

	return AuthResult{UserID: env.User.ID, AccessToken: env.AccessToken}
}

// RegisterClient registers a client and completes its profile.
func (ts *TestServer) RegisterClient() AuthResult {
	ts.T.Helper()
	auth := ts.RegisterUser("client")

	resp := ts.Request(http.MethodPost, "/api/v1/profiles/client", map[string]string{
		"contact_name": "Test Client",
		"company_name": "Acme GmbH",
		"about":        "We build things and need help doing it.",
	}, auth.AccessToken, nil)
	resp.Body.Close()
	require.Equal(ts.T, http.StatusCreated, resp.StatusCode)

	return auth
}

// RegisterFreelancer registers a freelancer and completes its profile.
func (ts *TestServer) RegisterFreelancer() AuthResult {
	ts.T.Helper()
	auth := ts.RegisterUser("freelancer")

	resp := ts.Request(http.MethodPost, "/api/v1/profiles/freelancer", map[string]interface{}{
		"display_name": "Test Freelancer",
		"university":   "TU Berlin",
		"skills":       []string{"golang", "postgres"},
		"bio":          "Student developer looking for side projects.",
		"hourly_rate":  35.0,
	}, auth.AccessToken, nil)
	resp.Body.Close()
	require.Equal(ts.T, http.StatusCreated, resp.StatusCode)

	return auth
}

// CreateProject posts a project as the given client.
func (ts *TestServer) CreateProject(client AuthResult, title string) string {
	ts.T.Helper()

	var project struct {
		ID string `json:"id"`
	}
	resp := ts.Request(http.MethodPost, "/api/v1/projects", map[string]interface{}{
		"title":       title,
		"description": "A project description that is long enough to pass validation.",
		"category":    "development",
		"budget":      500.0,
	}, client.AccessToken, &project)
	require.Equal(ts.T, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(ts.T, project.ID)

	return project.ID
}
