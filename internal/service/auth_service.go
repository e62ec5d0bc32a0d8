package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wallet-service/internal/auth"
	"github.com/spec-kit/wallet-service/internal/config"
	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/events"
	"github.com/spec-kit/wallet-service/internal/repository"
)

// Session errors surfaced to handlers as 400s.
var (
	ErrUserExists         = errors.New("username or email identifies an already existing user")
	ErrUnknownUser        = errors.New("you need to register")
	ErrWrongCredential    = errors.New("wrong credential")
	ErrUnknownRefreshUser = errors.New("the refresh token in the request's cookies does not represent a user in the database")
)

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	policy     *auth.Policy
	cfg        config.AuthConfig
	bcryptCost int
	dispatcher events.Dispatcher
}

// NewAuthService builds the service. The dispatcher may be nil.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	tokens := auth.NewTokenManager(cfg.SigningSecret)
	return &AuthService{
		users:      users,
		tokens:     tokens,
		policy:     auth.NewPolicy(tokens, cfg.AccessTokenTTL()),
		cfg:        cfg,
		bcryptCost: cfg.BcryptCost,
		dispatcher: dispatcher,
	}
}

// Policy exposes the authorization policy for handlers.
func (s *AuthService) Policy() *auth.Policy {
	return s.policy
}

// Register creates a new regular account.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	return s.register(ctx, username, email, password, domain.RoleRegular)
}

// RegisterAdmin creates a new account carrying the Admin role.
func (s *AuthService) RegisterAdmin(ctx context.Context, username, email, password string) error {
	return s.register(ctx, username, email, password, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, username, email, password string, role domain.Role) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}); err != nil {
		return err
	}

	publish(ctx, s.dispatcher, events.EventUserRegistered, username, events.UserRegisteredPayload{
		Email: email,
		Role:  string(role),
	})
	return nil
}

// TokenPair is the fresh session credential pair minted at login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Login verifies credentials and mints a fresh token pair from identical
// claims. The refresh token is persisted against the account so a later
// logout has a revocation target; a concurrent login simply overwrites it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrUnknownUser
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, ErrWrongCredential
	}

	accessToken, err := s.tokens.Issue(user.Username, user.Email, user.Role, s.cfg.AccessTokenTTL())
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.tokens.Issue(user.Username, user.Email, user.Role, s.cfg.RefreshTokenTTL())
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.Email, &refreshToken); err != nil {
		return nil, nil, err
	}

	return user, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout revokes the session identified by the presented refresh token.
// An unknown token means there is no session to end.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUnknownRefreshUser
		}
		return err
	}
	return s.users.SetRefreshToken(ctx, user.Email, nil)
}

// CallerEmail extracts the session email from a refresh token. Group
// creation uses it to fold the caller into the member list.
func (s *AuthService) CallerEmail(refreshToken string) (string, error) {
	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return "", err
	}
	if !claims.Complete() {
		return "", auth.ErrTokenInvalid
	}
	return claims.Email, nil
}
