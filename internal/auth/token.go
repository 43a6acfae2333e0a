// Package auth issues and checks credentials: session tokens for the two
// principal types, password hashes and one-time reset codes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stickynote/internal/apperr"
)

// Role names a principal type. Each role signs with its own secret.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// HeaderName is the request header that carries a session token.
const HeaderName = "token"

var (
	ErrMissingToken = apperr.Auth("missing token")
	ErrInvalidToken = apperr.Auth("invalid token")
)

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string `json:"id"`
}

// TokenConfig holds the signing material. A zero TTL issues tokens without
// an expiry claim; such tokens stay valid until the secret changes.
type TokenConfig struct {
	UserSecret  []byte
	AdminSecret []byte
	TTL         time.Duration
}

// TokenService issues and verifies stateless session tokens.
type TokenService struct {
	secrets map[Role][]byte
	ttl     time.Duration
	now     func() time.Time
}

// NewTokenService validates cfg and returns a TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.UserSecret) == 0 || len(cfg.AdminSecret) == 0 {
		return nil, errors.New("auth: both token secrets are required")
	}
	if string(cfg.UserSecret) == string(cfg.AdminSecret) {
		return nil, errors.New("auth: user and admin token secrets must differ")
	}
	return &TokenService{
		secrets: map[Role][]byte{
			RoleUser:  cfg.UserSecret,
			RoleAdmin: cfg.AdminSecret,
		},
		ttl: cfg.TTL,
		now: time.Now,
	}, nil
}

// Issue signs a token for principalID under role's secret.
func (s *TokenService) Issue(principalID string, role Role) (string, error) {
	secret, ok := s.secrets[role]
	if !ok {
		return "", errors.New("auth: unknown role " + string(role))
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		PrincipalID: principalID,
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks the token against role's secret and returns its claims.
// It does not check that the principal still exists.
func (s *TokenService) Verify(token string, role Role) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	secret, ok := s.secrets[role]
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.PrincipalID == "" {
		return nil, apperr.Wrap(apperr.KindAuth, ErrInvalidToken.Message, err)
	}
	return claims, nil
}
