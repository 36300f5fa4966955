package integration

import (
	"net/http"
	"testing"

	"studlance_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ts := helpers.SetupTestServer(t)

	var registered struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	resp := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "new@test.local",
		"password": "password123",
		"name":     "New User",
		"role":     "client",
	}, "", &registered)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Equal(t, "client", registered.User.Role)

	// duplicate email is a conflict
	resp = ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "new@test.local",
		"password": "password123",
		"name":     "Impostor",
		"role":     "client",
	}, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// correct login
	var loggedIn struct {
		AccessToken string `json:"access_token"`
	}
	resp = ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "new@test.local",
		"password": "password123",
	}, "", &loggedIn)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, loggedIn.AccessToken)

	// wrong password
	resp = ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "new@test.local",
		"password": "wrong-password",
	}, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	ts := helpers.SetupTestServer(t)

	resp := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "sneaky@test.local",
		"password": "password123",
		"name":     "Sneaky",
		"role":     "admin",
	}, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	ts := helpers.SetupTestServer(t)

	resp := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "weak@test.local",
		"password": "short",
		"name":     "Weak",
		"role":     "freelancer",
	}, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshRotatesToken(t *testing.T) {
	ts := helpers.SetupTestServer(t)

	var registered struct {
		RefreshToken string `json:"refresh_token"`
	}
	resp := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "rotate@test.local",
		"password": "password123",
		"name":     "Rotate",
		"role":     "client",
	}, "", &registered)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var refreshed struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	resp = ts.Request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": registered.RefreshToken,
	}, "", &refreshed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// the old token is burned
	resp = ts.Request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": registered.RefreshToken,
	}, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMeReportsOnboardingFlags(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	auth := ts.RegisterUser("freelancer")

	var me struct {
		RegistrationCompleted bool `json:"registration_completed"`
		ProfileCompleted      bool `json:"profile_completed"`
	}
	resp := ts.Request(http.MethodGet, "/api/v1/users/me", nil, auth.AccessToken, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, me.RegistrationCompleted)
	assert.False(t, me.ProfileCompleted)

	// completing the profile flips both flags
	resp = ts.Request(http.MethodPost, "/api/v1/profiles/freelancer", map[string]interface{}{
		"display_name": "Flagged",
		"skills":       []string{"golang"},
		"bio":          "A bio long enough to count as filled in.",
	}, auth.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.Request(http.MethodGet, "/api/v1/users/me", nil, auth.AccessToken, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, me.RegistrationCompleted)
	assert.True(t, me.ProfileCompleted)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := helpers.SetupTestServer(t)

	resp := ts.Request(http.MethodGet, "/api/v1/users/me", nil, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.Request(http.MethodGet, "/api/v1/users/me", nil, "garbage-token", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
