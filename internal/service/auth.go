package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/solotrip/solotrip-go/internal/crypto"
	"github.com/solotrip/solotrip-go/internal/model"
	"github.com/solotrip/solotrip-go/internal/repository"
)

// TokenType is the scheme clients must use in the Authorization header.
const TokenType = "Bearer"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameTaken      = errors.New("username already taken")
)

// TokenIssuer signs access tokens for an authenticated username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// dummyHash is checked when the username is unknown, so that failure costs the same argon2id run as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, err := crypto.HashPassword("solotrip-unknown-user")
	if err != nil {
		return ""
	}
	return hash
})

// AuthService handles authentication business logic.
type AuthService struct {
	repo   UserRepository
	tokens TokenIssuer
	now    func() time.Time
	verify func(password, encodedHash string) (bool, error)
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
		verify: crypto.VerifyPassword,
	}
}

// Register creates a user with an argon2id password hash. Used for provisioning, not exposed over HTTP.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (model.UserResponse, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return model.UserResponse{}, ErrUsernameRequired
	case email == "":
		return model.UserResponse{}, ErrEmailRequired
	case password == "":
		return model.UserResponse{}, ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.UserResponse{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.UserResponse{}, ErrUsernameTaken
		}
		return model.UserResponse{}, err
	}

	return toUserResponse(user), nil
}

// Login verifies credentials and returns a signed bearer token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = s.verify(req.Password, dummyHash())
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("verifying password for %q: %w", user.Username, err)
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issuing token: %w", err)
	}

	return model.AuthResponse{
		Token:    token,
		Type:     TokenType,
		Username: user.Username,
	}, nil
}

// Me returns the public profile of an authenticated username.
func (s *AuthService) Me(ctx context.Context, username string) (model.UserResponse, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *model.User) model.UserResponse {
	return model.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
