package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/ports"
)

type DiaryService struct {
	repo     ports.DiaryRepository
	idem     ports.IdempotencyStore
	validate *requiredFields
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDiaryService builds the diary use cases. idem may be nil, in which case
// idempotency keys are ignored.
func NewDiaryService(repo ports.DiaryRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *DiaryService {
	return &DiaryService{
		repo:     repo,
		idem:     idem,
		validate: newRequiredFields(),
		logger:   logger,
		now:      time.Now,
	}
}

// CreateEntry validates and stores a new entry. If an idempotency key is given
// and already maps to a live entry, that entry is returned without a new write.
func (s *DiaryService) CreateEntry(ctx context.Context, input ports.CreateEntryInput) (*ports.CreateEntryResult, error) {
	existing, stale := s.replay(ctx, input.IdempotencyKey)
	if existing != nil {
		return &ports.CreateEntryResult{Entry: existing, AlreadyExisted: true}, nil
	}

	entry := &domain.DiaryEntry{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Photos:      copyPhotos(input.Photos),
	}
	if input.Date != nil {
		entry.Date = storedTime(*input.Date)
	} else {
		entry.Date = storedTime(s.now())
	}

	if err := s.validate.check("diary entry", entry); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create diary entry")
		return nil, err
	}

	s.rememberKey(ctx, input.IdempotencyKey, created.ID, stale)

	s.logger.Info().Str("entry_id", created.ID).Msg("diary entry created")
	return &ports.CreateEntryResult{Entry: created}, nil
}

// replay returns the entry previously created under key, or nil when there is
// none. stale is true when key points at an entry that has since been deleted.
// Store failures are logged and treated as a miss.
func (s *DiaryService) replay(ctx context.Context, key string) (entry *domain.DiaryEntry, stale bool) {
	if key == "" || s.idem == nil {
		return nil, false
	}

	id, found, err := s.idem.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil, false
	}
	if !found {
		return nil, false
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil, true
		}
		s.logger.Warn().Err(err).Str("entry_id", id).Msg("idempotent replay lookup failed")
		return nil, false
	}

	s.logger.Info().Str("idempotency_key", key).Str("entry_id", existing.ID).Msg("idempotent replay")
	return existing, false
}

// rememberKey maps key to id. A stale mapping is overwritten so later retries
// replay the new entry.
func (s *DiaryService) rememberKey(ctx context.Context, key, id string, stale bool) {
	if key == "" || s.idem == nil {
		return
	}

	var err error
	if stale {
		err = s.idem.Replace(ctx, key, id)
	} else {
		err = s.idem.Remember(ctx, key, id)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
	}
}

func (s *DiaryService) GetEntry(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DiaryService) ListEntries(ctx context.Context) ([]*domain.DiaryEntry, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.DiaryEntry{}
	}
	return entries, nil
}

// UpdateEntry merges patch into the stored entry. Required-field rules are not
// re-checked on update.
func (s *DiaryService) UpdateEntry(ctx context.Context, id string, patch domain.DiaryEntryPatch) (*domain.DiaryEntry, error) {
	if patch.Photos != nil {
		photos := copyPhotos(*patch.Photos)
		patch.Photos = &photos
	}
	if patch.Date != nil {
		d := storedTime(*patch.Date)
		patch.Date = &d
	}

	if patch.IsEmpty() {
		return s.repo.FindByID(ctx, id)
	}

	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("entry_id", updated.ID).Msg("diary entry updated")
	return updated, nil
}

func (s *DiaryService) DeleteEntry(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info().Str("entry_id", deleted.ID).Msg("diary entry deleted")
	return nil
}

// storedTime drops precision the store cannot keep, so what is returned on
// write matches what a later read sees.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func copyPhotos(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
