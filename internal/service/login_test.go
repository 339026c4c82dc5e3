package service

import (
	"bitwise74/auth-api/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHappyPath(t *testing.T) {
	db := newTestDB(t)
	tokens := newTestTokens(t, db)
	login := NewLoginService(db, tokens)
	createTestUser(t, db, "a@x.com", "pw123456", true)

	resp, err := login.Login("a@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "a@x.com", resp.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	login := NewLoginService(db, newTestTokens(t, db))
	createTestUser(t, db, "a@x.com", "pw123456", true)

	_, err := login.Login("a@x.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	login := NewLoginService(db, newTestTokens(t, db))

	_, err := login.Login("nobody@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnverifiedUser(t *testing.T) {
	db := newTestDB(t)
	login := NewLoginService(db, newTestTokens(t, db))
	createTestUser(t, db, "a@x.com", "pw123456", false)

	_, err := login.Login("a@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLoginFederatedOnlyAccount(t *testing.T) {
	db := newTestDB(t)
	login := NewLoginService(db, newTestTokens(t, db))

	// No password hash at all, as if created before placeholder
	// hashes existed
	createTestUser(t, db, "fed@x.com", "", true)

	_, err := login.Login("fed@x.com", "pw123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRotatesRefreshToken(t *testing.T) {
	db := newTestDB(t)
	tokens := newTestTokens(t, db)
	login := NewLoginService(db, tokens)
	user := createTestUser(t, db, "a@x.com", "pw123456", true)

	first, err := login.Login("a@x.com", "pw123456")
	require.NoError(t, err)

	second, err := login.Login("a@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, second.RefreshToken, stored.RefreshToken)

	_, err = tokens.Refresh(first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
