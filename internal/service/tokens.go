// Package service contains the auth domain logic sitting between the
// HTTP handlers and the database
package service

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/pkg/util"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const (
	AccessTokenTTL  = time.Minute * 15
	RefreshTokenTTL = time.Hour * 24 * 7
)

// AuthResponse is the token pair handed back by every flow that ends in
// a login. It is never persisted, only the refresh token lands on the
// user row as a side effect of issuing
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	Name         string `json:"name"`
}

type TokenService struct {
	db            *gorm.DB
	accessSecret  []byte
	refreshSecret []byte
}

func NewTokenService(d *gorm.DB) (*TokenService, error) {
	access := viper.GetString("jwt.secret")
	refresh := viper.GetString("jwt.refresh_secret")

	if access == "" || refresh == "" {
		return nil, errors.New("jwt secrets are not configured")
	}

	return &TokenService{
		db:            d,
		accessSecret:  []byte(access),
		refreshSecret: []byte(refresh),
	}, nil
}

// Issue creates a fresh access/refresh token pair for u and stores the
// refresh token on the user row, overwriting whatever was there. The
// previous refresh token stops working the moment this returns
func (t *TokenService) Issue(u *model.User) (*AuthResponse, error) {
	now := time.Now()

	// The jti makes two tokens issued within the same second distinct,
	// without it a back-to-back login wouldn't actually rotate anything
	accessJTI, err := util.GenerateToken(8)
	if err != nil {
		return nil, err
	}

	refreshJTI, err := util.GenerateToken(8)
	if err != nil {
		return nil, err
	}

	accessToken, err := signToken(&jwt.MapClaims{
		"user_id":     u.ID,
		"email":       u.Email,
		"is_verified": u.Verified,
		"jti":         accessJTI,
		"iat":         now.Unix(),
		"exp":         now.Add(AccessTokenTTL).Unix(),
	}, t.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := signToken(&jwt.MapClaims{
		"user_id":     u.ID,
		"email":       u.Email,
		"is_verified": u.Verified,
		"jti":         refreshJTI,
		"iat":         now.Unix(),
		"exp":         now.Add(RefreshTokenTTL).Unix(),
	}, t.refreshSecret)
	if err != nil {
		return nil, err
	}

	err = t.db.Model(&model.User{}).
		Where("id = ?", u.ID).
		Update("refresh_token", refreshToken).
		Error
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Email:        u.Email,
		Name:         u.Name,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// presented token must be the exact one stored on the user row, so a
// token that was rotated away by a newer login fails here the same way
// an expired or tampered one does
func (t *TokenService) Refresh(raw string) (*AuthResponse, error) {
	claims, err := parseToken(raw, t.refreshSecret)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidRefreshToken
	}

	var user model.User

	err = t.db.
		Where("id = ? AND refresh_token = ?", userID, raw).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}

		return nil, err
	}

	return t.Issue(&user)
}

// Revoke clears the stored refresh token for userID. Revoking an
// already revoked token is fine
func (t *TokenService) Revoke(userID string) error {
	return t.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", "").
		Error
}

// ParseAccess validates an access token and returns its claims
func (t *TokenService) ParseAccess(raw string) (jwt.MapClaims, error) {
	return parseToken(raw, t.accessSecret)
}

func signToken(c *jwt.MapClaims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

func parseToken(raw string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	return claims, nil
}
