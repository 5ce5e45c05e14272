package handler

import (
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createEntryRequest, idempotencyKey string) ports.CreateEntryInput {
	return ports.CreateEntryInput{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date.toTime(),
		Location:       req.Location,
		Photos:         req.Photos,
		IdempotencyKey: idempotencyKey,
	}
}

func toPatch(req updateEntryRequest) domain.DiaryEntryPatch {
	return domain.DiaryEntryPatch{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date.toTime(),
		Location:    req.Location,
		Photos:      req.Photos,
	}
}

// --- Domain → HTTP response ---

func toEntryResponse(e *domain.DiaryEntry) entryResponse {
	photos := e.Photos
	if photos == nil {
		photos = []string{}
	}
	return entryResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Location:    e.Location,
		Photos:      photos,
	}
}

func toEntryListResponse(entries []*domain.DiaryEntry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}
	return out
}
