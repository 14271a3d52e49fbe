package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"docmarket/internal/model"
)

// SessionClaims is the payload of a server-issued session token.
type SessionClaims struct {
	Email string     `json:"email"`
	Name  string     `json:"name,omitempty"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionIssuer signs and parses HS256 session tokens.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewSessionIssuer creates an issuer. The secret must be at least 32 bytes.
func NewSessionIssuer(secret string, ttl time.Duration, issuer string) (*SessionIssuer, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}, nil
}

// Issue signs a session for the identity and returns the token with its expiry.
func (s *SessionIssuer) Issue(id model.Identity) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := SessionClaims{
		Email: id.Email,
		Name:  id.Name,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Parse validates a session token and returns the identity it carries.
func (s *SessionIssuer) Parse(raw string) (model.Identity, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return model.Identity{}, ErrInvalidToken
	}
	if claims.Email == "" {
		return model.Identity{}, ErrInvalidToken
	}

	role := claims.Role
	if role != model.RoleAdmin {
		role = model.RoleUser
	}
	return model.Identity{Email: claims.Email, Name: claims.Name, Role: role}, nil
}
