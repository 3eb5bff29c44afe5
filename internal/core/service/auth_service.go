package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/policy"
	"github.com/sitepulse/progress-tracker/internal/core/ports"
	"github.com/sitepulse/progress-tracker/internal/metrics"
)

// AuthService implements identity and access: the user collection, the
// single current-user session and the session token.
type AuthService struct {
	repo      ports.UserRepository
	encoder   ports.PasswordEncoder
	notifier  *Notifier
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current *domain.User
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	repo ports.UserRepository,
	encoder ports.PasswordEncoder,
	notifier *Notifier,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		encoder:   encoder,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*ports.Session, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil || !s.encoder.Matches(user.Secret, password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.logger.Info().Str("username", username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	expires := s.now().Add(s.tokenTTL)
	token, err := s.generateToken(user, expires)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("user logged in")
	s.notifier.Publish(domain.Change{Kind: domain.ChangeSession, Username: user.Username})

	return &ports.Session{Token: token, User: *user, ExpiresAt: expires}, nil
}

// Login is the boolean form of Authenticate.
func (s *AuthService) Login(ctx context.Context, username, password string) bool {
	_, err := s.Authenticate(ctx, username, password)
	return err == nil
}

func (s *AuthService) Logout(_ context.Context) {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info().Str("username", prev.Username).Msg("user logged out")
		s.notifier.Publish(domain.Change{Kind: domain.ChangeSession, Username: prev.Username})
	}
}

func (s *AuthService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *AuthService) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// CreateUser adds a user whose display name is the username. A taken username
// aborts the call: the conflict is logged and domain.ErrUserExists returned.
func (s *AuthService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, fmt.Errorf("create user: %w", domain.ErrInvalidRole)
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, s.conflict(input.Username)
	}

	secret, err := s.encoder.Encode(input.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:    input.Username,
		Secret:      secret,
		DisplayName: input.Username,
		Role:        input.Role,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil, s.conflict(input.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersCreatedTotal.WithLabelValues("created").Inc()
	s.logger.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user created")
	s.notifier.Publish(domain.Change{Kind: domain.ChangeUserCreated, Username: created.Username})
	return created, nil
}

// CreateUserAs is CreateUser gated on the actor being allowed to manage users.
func (s *AuthService) CreateUserAs(ctx context.Context, actor *domain.User, input ports.CreateUserInput) (*domain.User, error) {
	if actor == nil || !policy.CanManageUsers(actor.Role) {
		metrics.UsersCreatedTotal.WithLabelValues("forbidden").Inc()
		return nil, fmt.Errorf("create user: %w", domain.ErrForbidden)
	}
	return s.CreateUser(ctx, input)
}

// Users returns the current user collection.
func (s *AuthService) Users(ctx context.Context) []domain.User {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil
	}
	return users
}

// ParseToken validates a session token issued by Authenticate.
func (s *AuthService) ParseToken(token string) (*ports.SessionClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username == "" || !domain.Role(role).Valid() {
		return nil, domain.ErrInvalidToken
	}
	return &ports.SessionClaims{Username: username, Role: domain.Role(role)}, nil
}

func (s *AuthService) generateToken(user *domain.User, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      s.now().Unix(),
		"exp":      expires.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) conflict(username string) error {
	metrics.UsersCreatedTotal.WithLabelValues("conflict").Inc()
	s.logger.Warn().Str("username", username).Msg("username already exists")
	return fmt.Errorf("create user %q: %w", username, domain.ErrUserExists)
}
