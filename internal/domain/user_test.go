package domain

import (
	"testing"
	"time"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Jane ", " Jane@Example.COM ", "secret", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Jane", u.Name)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.True(t, u.PasswordMatches("secret"))
	assert.False(t, u.PasswordMatches("Secret"))
	assert.Equal(t, u.ID, u.Public().ID)
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("", "a@b.c", "x", time.Now())
	require.ErrorIs(t, err, e.ErrNameRequired)

	_, err = NewUser("A", "not-an-email", "x", time.Now())
	require.ErrorIs(t, err, e.ErrInvalidEmail)

	_, err = NewUser("A", "a@b.c", "", time.Now())
	require.ErrorIs(t, err, e.ErrPasswordRequired)
}

func TestUser_Apply(t *testing.T) {
	u, err := NewUser("Jane", "jane@example.com", "secret", time.Now())
	require.NoError(t, err)

	name := "Jane Doe"
	require.NoError(t, u.Apply(ProfileUpdate{Name: &name}))
	assert.Equal(t, "Jane Doe", u.Name)
	assert.Equal(t, "jane@example.com", u.Email)

	bad := "nope"
	other := "Other"
	require.ErrorIs(t, u.Apply(ProfileUpdate{Name: &other, Email: &bad}), e.ErrInvalidEmail)
	assert.Equal(t, "Jane Doe", u.Name)
}
