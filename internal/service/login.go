package service

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/pkg/security"
	"errors"

	"gorm.io/gorm"
)

type LoginService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewLoginService(d *gorm.DB, t *TokenService) *LoginService {
	return &LoginService{db: d, tokens: t}
}

// Login checks email+password and hands out a token pair. A missing
// user, a social-only account and a wrong password all fail with the
// same error so the response can't be used to probe which emails are
// registered. Unverified users get a distinct error since telling them
// to verify first is not a security leak
func (s *LoginService) Login(email, password string) (*AuthResponse, error) {
	var user model.User

	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, ErrNotVerified
	}

	return s.tokens.Issue(&user)
}
