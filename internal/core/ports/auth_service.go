package ports

import (
	"context"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenIssuer signs bearer tokens for an authenticated username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// TokenVerifier decodes and checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
