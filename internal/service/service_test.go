package service

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/pkg/security"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A second pooled connection would get its own empty memory db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.User{}, model.VerificationCode{}))

	return db
}

func newTestTokens(t *testing.T, db *gorm.DB) *TokenService {
	t.Helper()

	viper.Set("jwt.secret", testAccessSecret)
	viper.Set("jwt.refresh_secret", testRefreshSecret)

	tokens, err := NewTokenService(db)
	require.NoError(t, err)

	return tokens
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string, verified bool) *model.User {
	t.Helper()

	hash := ""
	if password != "" {
		var err error
		hash, err = security.HashPassword(password)
		require.NoError(t, err)
	}

	user := &model.User{
		ID:           "user-" + email,
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Verified:     verified,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

type stubMailer struct {
	sentTo    []string
	sentCodes []string
	err       error
}

func (m *stubMailer) SendOTP(sendTo, code string) error {
	m.sentTo = append(m.sentTo, sendTo)
	m.sentCodes = append(m.sentCodes, code)
	return m.err
}
