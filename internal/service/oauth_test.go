package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGraph serves the two Graph API endpoints the Facebook verifier
// talks to. Every token is reported as belonging to appID
func fakeGraph(t *testing.T, appID string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/debug_token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("input_token") == "" || r.URL.Query().Get("access_token") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		fmt.Fprintf(w, `{"data":{"app_id":%q,"is_valid":true,"user_id":"fb-1"}}`, appID)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"fb-1","name":"Fb User","email":"fb@x.com"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFacebookVerifierAcceptsOwnAppToken(t *testing.T) {
	srv := fakeGraph(t, "app-1")

	v := &FacebookVerifier{
		AppID:     "app-1",
		AppSecret: "secret",
		Client:    srv.Client(),
		graphURL:  srv.URL,
	}

	id, err := v.Verify(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", id.SubjectID)
	assert.Equal(t, "fb@x.com", id.Email)
	assert.Equal(t, "Fb User", id.Name)
}

func TestFacebookVerifierRejectsForeignAppToken(t *testing.T) {
	// debug_token says the token was issued for a different app
	srv := fakeGraph(t, "someone-elses-app")

	v := &FacebookVerifier{
		AppID:     "app-1",
		AppSecret: "secret",
		Client:    srv.Client(),
		graphURL:  srv.URL,
	}

	_, err := v.Verify(context.Background(), "user-token")
	assert.ErrorIs(t, err, ErrInvalidProviderToken)
}

func TestFacebookVerifierRejectsInvalidToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug_token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"app_id":"app-1","is_valid":false}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	v := &FacebookVerifier{
		AppID:     "app-1",
		AppSecret: "secret",
		Client:    srv.Client(),
		graphURL:  srv.URL,
	}

	_, err := v.Verify(context.Background(), "revoked-token")
	assert.ErrorIs(t, err, ErrInvalidProviderToken)
}

func TestFacebookVerifierRejectsProfileWithoutEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug_token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"app_id":"app-1","is_valid":true}}`)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"fb-1","name":"No Mail"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	v := &FacebookVerifier{
		AppID:     "app-1",
		AppSecret: "secret",
		Client:    srv.Client(),
		graphURL:  srv.URL,
	}

	_, err := v.Verify(context.Background(), "user-token")
	assert.ErrorIs(t, err, ErrInvalidProviderToken)
}
