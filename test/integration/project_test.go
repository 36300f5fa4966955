package integration

import (
	"net/http"
	"testing"

	"studlance_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLifecycle(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	projectID := ts.CreateProject(client, "Build a landing page")

	// freelancer bids
	var proposal struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	resp := ts.Request(http.MethodPost, "/api/v1/proposals", map[string]interface{}{
		"project_id":    projectID,
		"cover_letter":  "I can build this in a week, here is how.",
		"bid_amount":    450.0,
		"delivery_days": 7,
	}, freelancer.AccessToken, &proposal)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", proposal.Status)

	// a second bid on the same project is a conflict
	resp = ts.Request(http.MethodPost, "/api/v1/proposals", map[string]interface{}{
		"project_id":    projectID,
		"cover_letter":  "Trying again with a lower offer.",
		"bid_amount":    300.0,
		"delivery_days": 5,
	}, freelancer.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// client accepts
	var accepted struct {
		Status string `json:"status"`
	}
	resp = ts.Request(http.MethodPost, "/api/v1/proposals/"+proposal.ID+"/accept", nil, client.AccessToken, &accepted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", accepted.Status)

	// project moved to in_progress with the freelancer assigned
	var project struct {
		Status       string  `json:"status"`
		FreelancerID *string `json:"freelancer_id"`
	}
	resp = ts.Request(http.MethodGet, "/api/v1/projects/"+projectID, nil, client.AccessToken, &project)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_progress", project.Status)
	require.NotNil(t, project.FreelancerID)
	assert.Equal(t, freelancer.UserID, *project.FreelancerID)

	// freelancer delivers
	resp = ts.Request(http.MethodPost, "/api/v1/projects/"+projectID+"/deliver", nil, freelancer.AccessToken, &project)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "delivered", project.Status)

	// client completes with a review
	resp = ts.Request(http.MethodPost, "/api/v1/projects/"+projectID+"/complete", map[string]interface{}{
		"rating":  5,
		"comment": "Great work, fast delivery.",
	}, client.AccessToken, &project)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", project.Status)

	// review shows up on the freelancer
	var reviews struct {
		Reviews []struct {
			Rating int `json:"rating"`
		} `json:"reviews"`
		AverageRating float64 `json:"average_rating"`
	}
	resp = ts.Request(http.MethodGet, "/api/v1/reviews/freelancer/"+freelancer.UserID, nil, client.AccessToken, &reviews)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, reviews.Reviews, 1)
	assert.Equal(t, 5, reviews.Reviews[0].Rating)
	assert.InDelta(t, 5.0, reviews.AverageRating, 0.001)
}

func TestAcceptRejectsSiblingProposals(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	winner := ts.RegisterFreelancer()
	loser := ts.RegisterFreelancer()

	projectID := ts.CreateProject(client, "Logo design")

	submit := func(auth helpers.AuthResult) string {
		var proposal struct {
			ID string `json:"id"`
		}
		resp := ts.Request(http.MethodPost, "/api/v1/proposals", map[string]interface{}{
			"project_id":    projectID,
			"cover_letter":  "Portfolio attached, happy to iterate.",
			"bid_amount":    200.0,
			"delivery_days": 3,
		}, auth.AccessToken, &proposal)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return proposal.ID
	}

	winnerID := submit(winner)
	loserID := submit(loser)

	resp := ts.Request(http.MethodPost, "/api/v1/proposals/"+winnerID+"/accept", nil, client.AccessToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the sibling got rejected automatically
	var mine struct {
		Proposals []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"proposals"`
	}
	resp = ts.Request(http.MethodGet, "/api/v1/proposals/mine", nil, loser.AccessToken, &mine)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, mine.Proposals, 1)
	assert.Equal(t, loserID, mine.Proposals[0].ID)
	assert.Equal(t, "rejected", mine.Proposals[0].Status)

	// accepting anything on a no-longer-open project fails
	resp = ts.Request(http.MethodPost, "/api/v1/proposals/"+loserID+"/accept", nil, client.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjectStatusGuards(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()
	freelancer := ts.RegisterFreelancer()

	projectID := ts.CreateProject(client, "Guarded project")

	// delivering an open project fails: no hire happened
	resp := ts.Request(http.MethodPost, "/api/v1/projects/"+projectID+"/deliver", nil, freelancer.AccessToken, nil)
	resp.Body.Close()
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusForbidden}, resp.StatusCode)

	// completing an open project fails
	resp = ts.Request(http.MethodPost, "/api/v1/projects/"+projectID+"/complete", map[string]interface{}{
		"rating": 4,
	}, client.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// a client cannot submit proposals at all
	resp = ts.Request(http.MethodPost, "/api/v1/proposals", map[string]interface{}{
		"project_id":    projectID,
		"cover_letter":  "I want to bid on my own behalf somehow.",
		"bid_amount":    100.0,
		"delivery_days": 1,
	}, client.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// only the owner can edit
	other := ts.RegisterClient()
	resp = ts.Request(http.MethodPut, "/api/v1/projects/"+projectID, map[string]interface{}{
		"title": "Hijacked title",
	}, other.AccessToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestProjectListFilters(t *testing.T) {
	ts := helpers.SetupTestServer(t)
	client := ts.RegisterClient()

	ts.CreateProject(client, "Searchable golang backend")
	ts.CreateProject(client, "Another project entirely")

	var list struct {
		Projects []struct {
			Title string `json:"title"`
		} `json:"projects"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	resp := ts.Request(http.MethodGet, "/api/v1/projects?search=golang", nil, client.AccessToken, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int64(1), list.Pagination.Total)
	assert.Contains(t, list.Projects[0].Title, "golang")
}
