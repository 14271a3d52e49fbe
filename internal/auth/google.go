package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// GoogleClaims are the ID token claims the sign-in flow relies on.
type GoogleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// GoogleVerifier checks Google ID tokens against the published JWKS.
type GoogleVerifier struct {
	keyfunc  jwt.Keyfunc
	clientID string
	logger   *slog.Logger
}

// NewGoogleVerifier creates a verifier backed by a JWKS client. Keys are cached and refreshed
// in the background for the lifetime of ctx.
func NewGoogleVerifier(ctx context.Context, jwksURL, clientID string, logger *slog.Logger) (*GoogleVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}
	if clientID == "" {
		return nil, errors.New("google client id cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("google verifier initialized", "jwks_url", jwksURL)
	return newGoogleVerifier(jwks.Keyfunc, clientID, logger), nil
}

func newGoogleVerifier(kf jwt.Keyfunc, clientID string, logger *slog.Logger) *GoogleVerifier {
	return &GoogleVerifier{keyfunc: kf, clientID: clientID, logger: logger}
}

// Verify parses and validates an ID token. Only RS256 and ES256 signatures are accepted,
// the audience must be the configured client id and the email must be verified.
func (v *GoogleVerifier) Verify(_ context.Context, raw string) (*GoogleClaims, error) {
	claims := &GoogleClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Warn("id token rejected", "error", err.Error())
		return nil, ErrInvalidToken
	}

	if !googleIssuers[claims.Issuer] {
		v.logger.Warn("id token has unexpected issuer", "issuer", claims.Issuer)
		return nil, ErrInvalidToken
	}
	if claims.Email == "" || !claims.EmailVerified {
		v.logger.Warn("id token email missing or unverified", "sub", claims.Subject)
		return nil, ErrInvalidToken
	}
	return claims, nil
}
