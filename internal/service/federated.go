package service

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/pkg/security"
	"bitwise74/auth-api/pkg/util"
	"context"
	"errors"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type FederatedService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewFederatedService(d *gorm.DB, t *TokenService) *FederatedService {
	return &FederatedService{db: d, tokens: t}
}

// Authenticate exchanges a provider token for a local session. An
// unknown identity gets a fresh pre-verified account with a random
// placeholder password that the password login can never match. A known
// account that registered by password first gets the provider ID bound
// onto it without touching anything else
func (s *FederatedService) Authenticate(ctx context.Context, v ProviderVerifier, p Provider, token string) (*AuthResponse, error) {
	id, err := v.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	column := "google_id"
	if p == ProviderFacebook {
		column = "facebook_id"
	}

	var user model.User

	err = s.db.
		Where("email = ? OR "+column+" = ?", id.Email, id.SubjectID).
		First(&user).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		user, err = s.createFromProvider(id, p)
		if err != nil {
			return nil, err
		}

		return s.tokens.Issue(&user)
	}

	bound := user.GoogleID
	if p == ProviderFacebook {
		bound = user.FacebookID
	}

	if bound == nil {
		if err := s.db.Model(&user).Update(column, id.SubjectID).Error; err != nil {
			return nil, err
		}
	}

	return s.tokens.Issue(&user)
}

func (s *FederatedService) createFromProvider(id *ProviderIdentity, p Provider) (model.User, error) {
	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return model.User{}, err
	}

	// The placeholder is never shown to anyone, it only exists so the
	// row has a hash that can't be matched
	placeholder, err := util.GenerateToken(32)
	if err != nil {
		return model.User{}, err
	}

	hash, err := security.HashPassword(placeholder)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           userID,
		Email:        id.Email,
		Name:         id.Name,
		PasswordHash: hash,
		// The provider already verified this email
		Verified: true,
	}

	if p == ProviderFacebook {
		user.FacebookID = &id.SubjectID
	} else {
		user.GoogleID = &id.SubjectID
	}

	if err := s.db.Create(&user).Error; err != nil {
		return model.User{}, err
	}

	return user, nil
}
