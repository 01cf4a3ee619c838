package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// UserRepository is the user half of the credential store. Finders return
// domain.ErrUserNotFound when no row matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create assigns the user ID. Duplicate email or username yields an error
	// wrapping domain.ErrConflict.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
