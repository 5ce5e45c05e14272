package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenIssuer
	validate *requiredFields
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		validate: newRequiredFields(),
		log:      log,
	}
}

// Register stores a new user. Duplicate usernames are accepted.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	user := &domain.User{Username: username, Password: password}
	if err := s.validate.check("user", user); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login returns a signed token for the first stored user whose username and
// password both match.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	candidates, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	for _, u := range candidates {
		if !passwordMatches(u.Password, password) {
			continue
		}
		token, err := s.tokens.Issue(u.Username)
		if err != nil {
			return "", fmt.Errorf("login: %w", err)
		}
		return token, nil
	}

	return "", domain.ErrInvalidCredentials
}

// passwordMatches is the single credential comparison point. Passwords are
// stored as submitted, so this is an exact match.
func passwordMatches(stored, given string) bool {
	return stored == given
}
