package ports

import (
	"context"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
)

// DiaryRepository defines persistence operations for diary entries.
//
// Lookups by id return domain.ErrInvalidID when the id is not a valid store
// identifier and domain.ErrEntryNotFound when no document matches.
type DiaryRepository interface {
	Create(ctx context.Context, entry *domain.DiaryEntry) (*domain.DiaryEntry, error)
	FindByID(ctx context.Context, id string) (*domain.DiaryEntry, error)
	FindAll(ctx context.Context) ([]*domain.DiaryEntry, error)
	// UpdateByID applies patch and returns the document as it is after the update.
	UpdateByID(ctx context.Context, id string, patch domain.DiaryEntryPatch) (*domain.DiaryEntry, error)
	// DeleteByID removes the document and returns it.
	DeleteByID(ctx context.Context, id string) (*domain.DiaryEntry, error)
}
