package ports

import (
	"context"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
)

// UserRepository holds the known users.
type UserRepository interface {
	// Create stores a new user and returns domain.ErrUserExists when the
	// username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns users in creation order.
	List(ctx context.Context) ([]domain.User, error)
}
