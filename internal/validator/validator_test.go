package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,user_role"`
}

type reviewPayload struct {
	Rating int `json:"rating" validate:"required,rating"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&registerPayload{Email: "not-an-email", Role: "client"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.NotContains(t, vErr.Errors, "Email")
}

func TestUserRoleRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&registerPayload{Email: "a@b.co", Role: "client"}))
	assert.NoError(t, v.Validate(&registerPayload{Email: "a@b.co", Role: "freelancer"}))

	// admin accounts are seeded, never registered
	err := v.Validate(&registerPayload{Email: "a@b.co", Role: "admin"})
	require.Error(t, err)

	err = v.Validate(&registerPayload{Email: "a@b.co", Role: "manager"})
	require.Error(t, err)
}

func TestRatingRule(t *testing.T) {
	v := New()

	for rating := 1; rating <= 5; rating++ {
		assert.NoError(t, v.Validate(&reviewPayload{Rating: rating}), "rating %d", rating)
	}

	assert.Error(t, v.Validate(&reviewPayload{Rating: 6}))
	assert.Error(t, v.Validate(&reviewPayload{Rating: -1}))
}
