package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// ProviderIdentity is what a social login provider vouches for after it
// accepted a token
type ProviderIdentity struct {
	SubjectID string
	Email     string
	Name      string
}

// ProviderVerifier exchanges an opaque provider token for a verified
// identity or fails
type ProviderVerifier interface {
	Verify(ctx context.Context, token string) (*ProviderIdentity, error)
}

// Bounded so a slow provider can't hang a login request indefinitely
var providerClient = &http.Client{Timeout: time.Second * 10}

type GoogleVerifier struct {
	ClientID string
	Client   *http.Client
}

func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{
		ClientID: viper.GetString("oauth.google.client_id"),
		Client:   providerClient,
	}
}

// Verify checks a Google ID token against the tokeninfo endpoint. The
// token must have been issued for our client ID and carry an email
func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*ProviderIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://oauth2.googleapis.com/tokeninfo?id_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, ErrInvalidProviderToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidProviderToken
	}

	var payload struct {
		Aud   string `json:"aud"`
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, ErrInvalidProviderToken
	}

	if payload.Aud != g.ClientID || payload.Sub == "" || payload.Email == "" {
		return nil, ErrInvalidProviderToken
	}

	return &ProviderIdentity{
		SubjectID: payload.Sub,
		Email:     payload.Email,
		Name:      payload.Name,
	}, nil
}

const facebookGraphURL = "https://graph.facebook.com"

type FacebookVerifier struct {
	AppID     string
	AppSecret string
	Client    *http.Client

	graphURL string
}

func NewFacebookVerifier() *FacebookVerifier {
	return &FacebookVerifier{
		AppID:     viper.GetString("oauth.facebook.app_id"),
		AppSecret: viper.GetString("oauth.facebook.app_secret"),
		Client:    providerClient,
		graphURL:  facebookGraphURL,
	}
}

// Verify asks the Graph API who the access token belongs to. The token
// is first checked against debug_token with our app credentials so a
// token issued to some other Facebook app can't be replayed here.
// Accounts without an email address are rejected since the email is our
// primary identity
func (f *FacebookVerifier) Verify(ctx context.Context, token string) (*ProviderIdentity, error) {
	appToken := f.AppID + "|" + f.AppSecret

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.graphURL+"/debug_token?input_token="+url.QueryEscape(token)+
			"&access_token="+url.QueryEscape(appToken), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, ErrInvalidProviderToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidProviderToken
	}

	var dbg struct {
		Data struct {
			AppID   string `json:"app_id"`
			IsValid bool   `json:"is_valid"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&dbg); err != nil {
		return nil, ErrInvalidProviderToken
	}

	if !dbg.Data.IsValid || dbg.Data.AppID != f.AppID {
		return nil, ErrInvalidProviderToken
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet,
		f.graphURL+"/me?fields=id,name,email&access_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, err
	}

	resp, err = f.Client.Do(req)
	if err != nil {
		return nil, ErrInvalidProviderToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidProviderToken
	}

	var payload struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, ErrInvalidProviderToken
	}

	if payload.ID == "" || payload.Email == "" {
		return nil, ErrInvalidProviderToken
	}

	return &ProviderIdentity{
		SubjectID: payload.ID,
		Email:     payload.Email,
		Name:      payload.Name,
	}, nil
}
