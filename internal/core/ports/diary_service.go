package ports

import (
	"context"
	"time"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
)

// CreateEntryInput carries the data needed to create a diary entry.
type CreateEntryInput struct {
	Title       string
	Description string
	Date        *time.Time // nil = creation time
	Location    string
	Photos      []string
	// IdempotencyKey is optional; a repeated key returns the entry created first.
	IdempotencyKey string
}

// CreateEntryResult is returned by CreateEntry.
type CreateEntryResult struct {
	Entry *domain.DiaryEntry
	// AlreadyExisted is true when the idempotency key matched an earlier create.
	AlreadyExisted bool
}

// DiaryService defines use-case operations for diary entries.
type DiaryService interface {
	CreateEntry(ctx context.Context, input CreateEntryInput) (*CreateEntryResult, error)
	GetEntry(ctx context.Context, id string) (*domain.DiaryEntry, error)
	ListEntries(ctx context.Context) ([]*domain.DiaryEntry, error)
	UpdateEntry(ctx context.Context, id string, patch domain.DiaryEntryPatch) (*domain.DiaryEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// IdempotencyStore remembers which entry an idempotency key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (entryID string, found bool, err error)
	// Remember stores the mapping unless key already has one.
	Remember(ctx context.Context, key, entryID string) error
	// Replace overwrites the mapping for key.
	Replace(ctx context.Context, key, entryID string) error
}
