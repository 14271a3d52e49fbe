package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"docmarket/internal/auth"
	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// IDTokenVerifier checks a federated sign-in token.
type IDTokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.GoogleClaims, error)
}

// SessionIssuer mints and reads session tokens.
type SessionIssuer interface {
	Issue(id model.Identity) (string, time.Time, error)
	Parse(raw string) (model.Identity, error)
}

// Session is returned on successful sign-in.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      model.Identity `json:"user"`
}

// AuthService exchanges a verified federated identity for a server session.
type AuthService interface {
	SignIn(ctx context.Context, idToken string) (*Session, error)
	// Authenticate reads a session token back into an identity.
	Authenticate(token string) (model.Identity, error)
	// SeedAdmins grants the admin role to each email. It is safe to run on every start.
	SeedAdmins(ctx context.Context, emails []string) error
}

type authService struct {
	verifier IDTokenVerifier
	sessions SessionIssuer
	roles    repository.RoleRepository
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(verifier IDTokenVerifier, sessions SessionIssuer, roles repository.RoleRepository, logger *slog.Logger) AuthService {
	return &authService{verifier: verifier, sessions: sessions, roles: roles, logger: logger}
}

func (s *authService) SignIn(ctx context.Context, idToken string) (*Session, error) {
	if idToken == "" {
		return nil, validationErr(errors.New("id_token: cannot be blank"))
	}
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	email := model.NormalizeEmail(claims.Email)
	role, err := s.roles.RoleOf(ctx, email)
	if err != nil {
		return nil, storageErr(err)
	}
	id := model.Identity{Email: email, Name: claims.Name, Role: role}

	token, exp, err := s.sessions.Issue(id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session issued", "user", email, "role", role)
	return &Session{Token: token, ExpiresAt: exp, User: id}, nil
}

func (s *authService) Authenticate(token string) (model.Identity, error) {
	id, err := s.sessions.Parse(token)
	if err != nil {
		return model.Identity{}, ErrUnauthorized
	}
	return id, nil
}

func (s *authService) SeedAdmins(ctx context.Context, emails []string) error {
	for _, e := range emails {
		email := model.NormalizeEmail(e)
		if email == "" {
			continue
		}
		if err := s.roles.Assign(ctx, email, model.RoleAdmin); err != nil {
			return storageErr(err)
		}
		s.logger.Info("admin role assigned", "user", email)
	}
	return nil
}
