package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/localnerve/campus-market/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator(t *testing.T) {
	ctx := context.Background()
	auth := services.NewJWTAuthenticator("test-secret")

	token, err := auth.IssueToken(seller, time.Hour)
	require.NoError(t, err)

	email, err := auth.Authenticate(ctx, services.Credentials{Bearer: token})
	require.NoError(t, err)
	assert.Equal(t, seller, email)

	_, err = auth.Authenticate(ctx, services.Credentials{})
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = auth.Authenticate(ctx, services.Credentials{Bearer: "garbage"})
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	expired, err := auth.IssueToken(seller, -time.Minute)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, services.Credentials{Bearer: expired})
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	forged, err := services.NewJWTAuthenticator("other-secret").IssueToken(seller, time.Hour)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, services.Credentials{Bearer: forged})
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestJWTAuthenticatorRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, services.Claims{Email: seller})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = services.NewJWTAuthenticator("test-secret").Authenticate(context.Background(), services.Credentials{Bearer: signed})
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestChainAuthenticator(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		AuthzURL:      "http://127.0.0.1:1",
		AuthzClientID: "client",
	}
	chain := services.NewAuthenticator(cfg, "http://localhost:5001")
	require.Len(t, chain, 2)

	token, err := services.NewJWTAuthenticator("test-secret").IssueToken(seller, time.Hour)
	require.NoError(t, err)

	email, err := chain.Authenticate(ctx, services.Credentials{Bearer: token})
	require.NoError(t, err)
	assert.Equal(t, seller, email)

	_, err = chain.Authenticate(ctx, services.Credentials{})
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	// The authorizer is unreachable, so a session cannot be validated.
	_, err = chain.Authenticate(ctx, services.Credentials{Session: "abc"})
	assert.Error(t, err)

	assert.Empty(t, services.NewAuthenticator(&config.Config{}, ""))
}

func TestAuthorizerAuthenticatorRetriesAfterFailedInit(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{AuthzURL: "http://127.0.0.1:1", AuthzClientID: "client"}
	authn := services.NewAuthorizerAuthenticator(cfg, "http://localhost:5001")

	_, err := authn.Authenticate(ctx, services.Credentials{Session: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorizer ping failed")
	assert.NotErrorIs(t, err, types.ErrUnauthorized)

	// The authorizer comes up and rejects the session.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"unauthorized"}],"data":null}`))
	}))
	t.Cleanup(srv.Close)
	cfg.AuthzURL = srv.URL

	_, err = authn.Authenticate(ctx, services.Credentials{Session: "abc"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "authorizer ping failed")
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}
