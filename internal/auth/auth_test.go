package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminContext(t *testing.T) {
	_, ok := Admin(context.Background())
	assert.False(t, ok)

	name, ok := Admin(WithAdmin(context.Background(), "root"))
	assert.True(t, ok)
	assert.Equal(t, "root", name)

	_, ok = Admin(WithAdmin(context.Background(), ""))
	assert.False(t, ok)
}

func TestCredentialsVerify(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	c := Credentials{Username: "admin", PasswordHash: hash}

	assert.True(t, c.Verify("admin", "correct horse"))
	assert.False(t, c.Verify("admin", "wrong"))
	assert.False(t, c.Verify("Admin", "correct horse"))
	assert.False(t, Credentials{}.Verify("", ""))
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)
}
