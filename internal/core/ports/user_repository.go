package ports

import (
	"context"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
)

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername returns every user registered under username, in store
	// order. Usernames are not unique.
	FindByUsername(ctx context.Context, username string) ([]*domain.User, error)
}
