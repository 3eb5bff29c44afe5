package ports

import (
	"context"
	"time"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
)

// CreateUserInput carries the fields an administrator supplies for a new user.
type CreateUserInput struct {
	Username string      `validate:"required,min=3"`
	Password string      `validate:"required,min=6"`
	Role     domain.Role `validate:"required,oneof=SuperAdmin OfficeAdmin FieldAdmin"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	User      domain.User
	ExpiresAt time.Time
}

// SessionClaims is what a session token asserts about its holder.
type SessionClaims struct {
	Username string
	Role     domain.Role
}

type AuthService interface {
	// Authenticate checks the credentials and, on success, sets the current
	// user. The error never reveals which of username or password was wrong.
	Authenticate(ctx context.Context, username, password string) (*Session, error)
	Login(ctx context.Context, username, password string) bool
	Logout(ctx context.Context)
	IsAuthenticated() bool
	CurrentUser() *domain.User
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	CreateUserAs(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error)
	Users(ctx context.Context) []domain.User
	ParseToken(token string) (*SessionClaims, error)
}
