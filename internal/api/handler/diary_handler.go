package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/api/metrics"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a create without duplicating the entry.
const HeaderIdempotencyKey = "Idempotency-Key"

// DiaryHandler handles HTTP requests for diary entries.
type DiaryHandler struct {
	service ports.DiaryService
}

func NewDiaryHandler(service ports.DiaryService) *DiaryHandler {
	return &DiaryHandler{service: service}
}

// Create handles POST /api/diary.
//
// @Summary      Create a diary entry
// @Tags         diary
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string              false  "Replays the first create made with this key"
// @Param        body             body      createEntryRequest  true   "Diary entry"
// @Success      201              {object}  entryResponse
// @Failure      400              {object}  messageResponse
// @Failure      500              {object}  messageResponse
// @Router       /api/diary [post]
func (h *DiaryHandler) Create(c echo.Context) error {
	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	key := c.Request().Header.Get(HeaderIdempotencyKey)
	result, err := h.service.CreateEntry(c.Request().Context(), toCreateInput(req, key))
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.IdempotentReplaysTotal.Inc()
	} else {
		metrics.EntriesCreatedTotal.Inc()
	}
	return c.JSON(http.StatusCreated, toEntryResponse(result.Entry))
}

// List handles GET /api/diary.
//
// @Summary      List all diary entries
// @Tags         diary
// @Produce      json
// @Success      200  {array}   entryResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/diary [get]
func (h *DiaryHandler) List(c echo.Context) error {
	entries, err := h.service.ListEntries(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryListResponse(entries))
}

// Get handles GET /api/diary/:id.
//
// @Summary      Get a diary entry
// @Tags         diary
// @Produce      json
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  entryResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/diary/{id} [get]
func (h *DiaryHandler) Get(c echo.Context) error {
	entry, err := h.service.GetEntry(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// Update handles PUT /api/diary/:id. Only the fields present in the body change.
//
// @Summary      Update a diary entry
// @Tags         diary
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Entry id"
// @Param        body  body      updateEntryRequest  true  "Fields to overwrite"
// @Success      200   {object}  entryResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/diary/{id} [put]
func (h *DiaryHandler) Update(c echo.Context) error {
	var req updateEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	entry, err := h.service.UpdateEntry(c.Request().Context(), c.Param("id"), toPatch(req))
	if err != nil {
		return err
	}

	metrics.EntriesUpdatedTotal.Inc()
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// Delete handles DELETE /api/diary/:id.
//
// @Summary      Delete a diary entry
// @Tags         diary
// @Produce      json
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/diary/{id} [delete]
func (h *DiaryHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteEntry(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.EntriesDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Diary entry deleted successfully"})
}
