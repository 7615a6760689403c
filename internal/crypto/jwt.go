package crypto

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum HS512 key size in bytes (512 bits).
const MinSecretLength = 64

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrMalformedToken   = errors.New("malformed token")
	ErrUnsupportedToken = errors.New("unsupported token signing algorithm")
	ErrEmptyToken       = errors.New("token is empty")
	ErrWeakSecret       = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	ErrEmptySubject     = errors.New("token subject is empty")
)

// TokenConfig is the immutable signing configuration of a TokenService.
type TokenConfig struct {
	Secret   string
	TTL      time.Duration
	Issuer   string
	Audience string
}

// Claims represents the JWT claims of an identity token. The subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

// Username returns the authenticated principal.
func (c *Claims) Username() string {
	return c.Subject
}

// TokenService issues and verifies HS512-signed identity tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	cfg TokenConfig
	key []byte
	now func() time.Time
}

// NewTokenService creates a TokenService from cfg.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenService{
		cfg: cfg,
		key: []byte(cfg.Secret),
		now: time.Now,
	}, nil
}

// Issue creates a signed token for username valid for the configured TTL.
func (s *TokenService) Issue(username string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", ErrEmptySubject
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate parses tokenString and returns its claims, or a typed error describing why it was rejected.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrEmptyToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, ErrUnsupportedToken
		}
		return s.key, nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedToken):
			return nil, ErrUnsupportedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify reports the token's subject. Every kind of failure is logged and collapses to ok == false.
func (s *TokenService) Verify(tokenString string) (string, bool) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		switch {
		case errors.Is(err, ErrExpiredToken), errors.Is(err, ErrEmptyToken):
			slog.Debug("token rejected", "reason", err)
		default:
			slog.Warn("token rejected", "reason", err)
		}
		return "", false
	}
	return claims.Username(), true
}
