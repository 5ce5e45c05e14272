package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/api/handler"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/service"
)

const testSecret = "router-test-secret"

// --- in-memory stores ---

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users []*domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	cp := *u
	cp.ID = fmt.Sprintf("%024x", m.seq)
	m.users = append(m.users, &cp)
	out := cp
	return &out, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memDiary struct {
	mu      sync.Mutex
	seq     int
	order   []string
	entries map[string]*domain.DiaryEntry
}

func newMemDiary() *memDiary {
	return &memDiary{entries: make(map[string]*domain.DiaryEntry)}
}

func (m *memDiary) get(id string) (*domain.DiaryEntry, error) {
	if len(id) != 24 {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return e, nil
}

func clone(e *domain.DiaryEntry) *domain.DiaryEntry {
	cp := *e
	cp.Photos = append([]string{}, e.Photos...)
	return &cp
}

func (m *memDiary) Create(_ context.Context, e *domain.DiaryEntry) (*domain.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	cp := clone(e)
	cp.ID = fmt.Sprintf("%024x", m.seq)
	m.entries[cp.ID] = cp
	m.order = append(m.order, cp.ID)
	return clone(cp), nil
}

func (m *memDiary) FindByID(_ context.Context, id string) (*domain.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return clone(e), nil
}

func (m *memDiary) FindAll(_ context.Context) ([]*domain.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.DiaryEntry
	for _, id := range m.order {
		if e, ok := m.entries[id]; ok {
			out = append(out, clone(e))
		}
	}
	return out, nil
}

func (m *memDiary) UpdateByID(_ context.Context, id string, p domain.DiaryEntryPatch) (*domain.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Photos != nil {
		e.Photos = append([]string{}, (*p.Photos)...)
	}
	return clone(e), nil
}

func (m *memDiary) DeleteByID(_ context.Context, id string) (*domain.DiaryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.get(id)
	if err != nil {
		return nil, err
	}
	delete(m.entries, id)
	return e, nil
}

type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func (m *memIdempotency) Lookup(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keys[key]
	return id, ok, nil
}

func (m *memIdempotency) Remember(_ context.Context, key, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; !ok {
		m.keys[key] = id
	}
	return nil
}

func (m *memIdempotency) Replace(_ context.Context, key, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = id
	return nil
}

// --- harness ---

type testServer struct {
	e      *echo.Echo
	diary  *memDiary
	tokens *service.TokenService
}

func newTestServer(t *testing.T, requireAuth bool) *testServer {
	t.Helper()

	log := zerolog.Nop()
	tokens := service.NewTokenService(testSecret)
	diary := newMemDiary()
	idem := &memIdempotency{keys: make(map[string]string)}
	reg := prometheus.NewRegistry()

	e := NewRouter(Deps{
		AuthService:   service.NewAuthService(&memUsers{}, tokens, log),
		DiaryService:  service.NewDiaryService(diary, idem, log),
		TokenVerifier: tokens,
		Logger:        log,
		RequireAuth:   requireAuth,
		HealthChecks: []handler.HealthCheck{
			{Name: "mongodb", Check: func(ctx context.Context) error { return nil }},
		},
		Registerer: reg,
		Gatherer:   reg,
	})

	return &testServer{e: e, diary: diary, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

type entryBody struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Photos      []string `json:"photos"`
}

type messageBody struct {
	Message string `json:"message"`
}

const kyoto = `{"title":"Kyoto","description":"Temples","location":"Japan","date":"2024-04-02T00:00:00Z","photos":["a.jpg","b.jpg"]}`

func (s *testServer) createEntry(t *testing.T, body string) entryBody {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/diary", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[entryBody](t, rec)
}

// --- auth ---

func TestRouter_RegisterAndLogin(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/register", `{"username":"alice","password":"p1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[map[string]any](t, rec)
	assert.Equal(t, "alice", user["username"])
	assert.NotEmpty(t, user["_id"])
	assert.NotContains(t, user, "password")

	rec = s.do(t, http.MethodPost, "/api/login", `{"username":"alice","password":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decode[map[string]string](t, rec)["token"]
	require.NotEmpty(t, tok)

	claims, err := s.tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestRouter_RegisterMissingPassword(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/register", `{"username":"bob"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg := decode[messageBody](t, rec).Message
	assert.Contains(t, msg, "password is required")
}

func TestRouter_LoginWrongPassword(t *testing.T) {
	s := newTestServer(t, false)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/register", `{"username":"alice","password":"p1"}`).Code)

	rec := s.do(t, http.MethodPost, "/api/login", `{"username":"alice","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode[messageBody](t, rec).Message)
}

func TestRouter_LoginUnknownUser(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/login", `{"username":"ghost","password":"x"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- diary ---

func TestRouter_CreateEntryMissingLocation(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/diary", `{"title":"Kyoto","description":"Temples"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[messageBody](t, rec).Message, "location is required")
}

func TestRouter_CreateThenGet(t *testing.T) {
	s := newTestServer(t, false)
	created := s.createEntry(t, kyoto)

	rec := s.do(t, http.MethodGet, "/api/diary/"+created.ID, "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[entryBody](t, rec)
	assert.Equal(t, created, got)
	assert.Equal(t, "Kyoto", got.Title)
	assert.Equal(t, "Temples", got.Description)
	assert.Equal(t, "Japan", got.Location)
	assert.Equal(t, "2024-04-02T00:00:00Z", got.Date)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Photos)
}

func TestRouter_CreateDefaultsDateAndPhotos(t *testing.T) {
	s := newTestServer(t, false)

	created := s.createEntry(t, `{"title":"Lima","description":"Ceviche","location":"Peru"}`)

	assert.NotEmpty(t, created.Date)
	assert.NotNil(t, created.Photos)
	assert.Empty(t, created.Photos)
}

func TestRouter_UpdateTitleOnly(t *testing.T) {
	s := newTestServer(t, false)
	created := s.createEntry(t, kyoto)

	rec := s.do(t, http.MethodPut, "/api/diary/"+created.ID, `{"title":"Kyoto again"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[entryBody](t, rec)
	assert.Equal(t, "Kyoto again", updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Location, updated.Location)
	assert.Equal(t, created.Date, updated.Date)
	assert.Equal(t, created.Photos, updated.Photos)
}

func TestRouter_UpdateUnknownEntry(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPut, "/api/diary/"+fmt.Sprintf("%024x", 999), `{"title":"x"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Diary entry not found", decode[messageBody](t, rec).Message)
}

func TestRouter_DeleteThenGet(t *testing.T) {
	s := newTestServer(t, false)
	created := s.createEntry(t, kyoto)

	rec := s.do(t, http.MethodDelete, "/api/diary/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Diary entry deleted successfully", decode[messageBody](t, rec).Message)

	rec = s.do(t, http.MethodGet, "/api/diary/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/diary/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_GetUnknownAndMalformedID(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/diary/"+fmt.Sprintf("%024x", 42), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Diary entry not found", decode[messageBody](t, rec).Message)

	rec = s.do(t, http.MethodGet, "/api/diary/not-an-id", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode[messageBody](t, rec).Message)
}

func TestRouter_ListReturnsEveryEntry(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/diary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	const n = 3
	for i := 0; i < n; i++ {
		s.createEntry(t, kyoto)
	}

	rec = s.do(t, http.MethodGet, "/api/diary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entryBody](t, rec), n)
}

func TestRouter_IdempotentCreate(t *testing.T) {
	s := newTestServer(t, false)

	first := s.do(t, http.MethodPost, "/api/diary", kyoto, handler.HeaderIdempotencyKey, "trip-1")
	second := s.do(t, http.MethodPost, "/api/diary", kyoto, handler.HeaderIdempotencyKey, "trip-1")

	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, decode[entryBody](t, first).ID, decode[entryBody](t, second).ID)

	list := decode[[]entryBody](t, s.do(t, http.MethodGet, "/api/diary", ""))
	assert.Len(t, list, 1)
}

func TestRouter_IdempotentCreateAfterDelete(t *testing.T) {
	s := newTestServer(t, false)

	first := decode[entryBody](t, s.do(t, http.MethodPost, "/api/diary", kyoto, handler.HeaderIdempotencyKey, "k1"))
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/diary/"+first.ID, "").Code)

	second := s.do(t, http.MethodPost, "/api/diary", kyoto, handler.HeaderIdempotencyKey, "k1")
	third := s.do(t, http.MethodPost, "/api/diary", kyoto, handler.HeaderIdempotencyKey, "k1")

	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, http.StatusCreated, third.Code)
	secondID := decode[entryBody](t, second).ID
	assert.NotEqual(t, first.ID, secondID)
	assert.Equal(t, secondID, decode[entryBody](t, third).ID)

	list := decode[[]entryBody](t, s.do(t, http.MethodGet, "/api/diary", ""))
	assert.Len(t, list, 1)
}

func TestRouter_CreateAcceptsDateShapes(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "day only", date: `"2024-05-01"`, want: "2024-05-01T00:00:00Z"},
		{name: "epoch millis", date: `1714521600000`, want: "2024-05-01T00:00:00Z"},
		{name: "sub-millisecond precision dropped", date: `"2024-05-01T10:00:00.123456789Z"`, want: "2024-05-01T10:00:00.123Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, false)

			created := s.createEntry(t, `{"title":"Oslo","description":"Fjords","location":"Norway","date":`+tt.date+`}`)
			assert.Equal(t, tt.want, created.Date)

			got := decode[entryBody](t, s.do(t, http.MethodGet, "/api/diary/"+created.ID, ""))
			assert.Equal(t, created.Date, got.Date)
		})
	}
}

func TestRouter_CreateRejectsUnknownDate(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/api/diary", `{"title":"Oslo","description":"Fjords","location":"Norway","date":"soon"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid payload", decode[messageBody](t, rec).Message)
}

func TestRouter_UpdateAcceptsDayOnlyDate(t *testing.T) {
	s := newTestServer(t, false)
	created := s.createEntry(t, kyoto)

	rec := s.do(t, http.MethodPut, "/api/diary/"+created.ID, `{"date":"2025-01-15"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[entryBody](t, rec)
	assert.Equal(t, "2025-01-15T00:00:00Z", updated.Date)
	assert.Equal(t, created.Title, updated.Title)
}

// --- auth middleware ---

func TestRouter_RequireAuth(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/diary", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/diary", "", echo.HeaderAuthorization, "Bearer garbage")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Body.String())

	tok, err := s.tokens.Issue("alice")
	require.NoError(t, err)
	rec = s.do(t, http.MethodGet, "/api/diary", "", echo.HeaderAuthorization, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Auth routes stay public.
	rec = s.do(t, http.MethodPost, "/api/register", `{"username":"alice","password":"p1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_DiaryIsPublicByDefault(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/diary", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- ops ---

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, false)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "").Code)

	rec := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "diary_http_requests_total")
}

func TestRouter_RequestIDHeader(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/health", "")

	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decode[messageBody](t, rec).Message)
}
