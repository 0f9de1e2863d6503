package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/authorizerdev/authorizer-go"
	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/types"
	"github.com/localnerve/campus-market/internal/utils"
	"go.uber.org/zap"
)

// Credentials are the identity proofs a request carries
type Credentials struct {
	// Bearer is the token of an "Authorization: Bearer" header
	Bearer string
	// Session is the authorizer cookie_session value
	Session string
}

// Authenticator resolves credentials to the caller's email. It returns an
// error wrapping types.ErrUnauthorized when the credentials are absent or invalid.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (string, error)
}

// Claims are the JWT claims of a bearer token
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTAuthenticator validates HS256 bearer tokens
type JWTAuthenticator struct {
	secret []byte
}

// NewJWTAuthenticator creates an authenticator for tokens signed with secret
func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret)}
}

// IssueToken signs a token for email that expires after ttl
func (a *JWTAuthenticator) IssueToken(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Authenticate implements Authenticator
func (a *JWTAuthenticator) Authenticate(_ context.Context, creds Credentials) (string, error) {
	if creds.Bearer == "" {
		return "", fmt.Errorf("%w: bearer token not found", types.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(creds.Bearer, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return "", fmt.Errorf("%w: token has no email claim", types.ErrUnauthorized)
	}
	return claims.Email, nil
}

// AuthorizerAuthenticator validates authorizer session cookies. The client is
// created on first use, after the authorizer answers a ping. A failed attempt
// is not kept, so a later request tries again.
type AuthorizerAuthenticator struct {
	cfg         *config.Config
	redirectURL string
	roles       []string

	mu     sync.Mutex
	client *authorizer.AuthorizerClient
}

// NewAuthorizerAuthenticator creates a session authenticator for users with the "user" role
func NewAuthorizerAuthenticator(cfg *config.Config, redirectURL string) *AuthorizerAuthenticator {
	return &AuthorizerAuthenticator{cfg: cfg, redirectURL: redirectURL, roles: []string{"user"}}
}

func (a *AuthorizerAuthenticator) authorizerClient(ctx context.Context) (*authorizer.AuthorizerClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}

	// Ping the Authorizer service first
	if err := utils.PingAuthorizer(ctx, a.cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	zap.L().Info("Initializing Authorizer",
		zap.String("authorizer_url", a.cfg.AuthzURL),
		zap.String("client_id", a.cfg.AuthzClientID),
		zap.String("redirect_url", a.redirectURL))

	client, err := authorizer.NewAuthorizerClient(a.cfg.AuthzClientID, a.cfg.AuthzURL, a.redirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	a.client = client
	return client, nil
}

// Authenticate implements Authenticator
func (a *AuthorizerAuthenticator) Authenticate(ctx context.Context, creds Credentials) (string, error) {
	if creds.Session == "" {
		return "", fmt.Errorf("%w: authorizer cookie \"cookie_session\" not found", types.ErrUnauthorized)
	}
	client, err := a.authorizerClient(ctx)
	if err != nil {
		return "", err
	}

	// Convert roles to []*string
	rolesPtrs := make([]*string, len(a.roles))
	for i := range a.roles {
		rolesPtrs[i] = &a.roles[i]
	}

	res, err := client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: creds.Session,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return "", fmt.Errorf("%w: session validation failed: %v", types.ErrUnauthorized, err)
	}
	if res == nil || !res.IsValid || res.User == nil || res.User.Email == "" {
		return "", fmt.Errorf("%w: session is not valid", types.ErrUnauthorized)
	}
	return res.User.Email, nil
}

// ChainAuthenticator tries each authenticator in order and returns the first principal
type ChainAuthenticator []Authenticator

// Authenticate implements Authenticator. When every authenticator rejects the
// credentials, the error of the last one that was given its credential is returned.
func (chain ChainAuthenticator) Authenticate(ctx context.Context, creds Credentials) (string, error) {
	err := fmt.Errorf("%w: no credentials", types.ErrUnauthorized)
	for _, a := range chain {
		email, authErr := a.Authenticate(ctx, creds)
		if authErr == nil {
			return email, nil
		}
		if hasCredentialFor(a, creds) {
			err = authErr
		}
	}
	return "", err
}

// hasCredentialFor reports whether creds carry the proof a reads
func hasCredentialFor(a Authenticator, creds Credentials) bool {
	switch a.(type) {
	case *JWTAuthenticator:
		return creds.Bearer != ""
	case *AuthorizerAuthenticator:
		return creds.Session != ""
	default:
		return true
	}
}

// NewAuthenticator builds the authenticators enabled by cfg: bearer tokens
// when JWT_SECRET is set and authorizer sessions when AUTHZ_URL is set.
func NewAuthenticator(cfg *config.Config, redirectURL string) ChainAuthenticator {
	var chain ChainAuthenticator
	if cfg.JWTSecret != "" {
		chain = append(chain, NewJWTAuthenticator(cfg.JWTSecret))
	}
	if cfg.AuthzURL != "" {
		chain = append(chain, NewAuthorizerAuthenticator(cfg, redirectURL))
	}
	return chain
}
