package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/handler"
	"github.com/flyride/journal/internal/kv"
	"github.com/flyride/journal/internal/media"
	"github.com/flyride/journal/internal/repo"
	"github.com/flyride/journal/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id string) (domain.Trip, error)
	list    func(ctx context.Context) ([]domain.Trip, error)
	update  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete  func(ctx context.Context, id string) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testStack is a fully wired in-memory journal: real services over a memory
// KV store and a LocalStore rooted in a temp dir.
type testStack struct {
	handler http.Handler
	trips   *service.TripService
	media   *media.LocalStore
	srcDir  string
}

func newTestStack(t *testing.T) testStack {
	t.Helper()
	store := kv.NewMemoryStore()
	log := quietLogger()

	trips := service.NewTripService(repo.NewKVTripRepo(store))
	local := media.NewLocalStore(t.TempDir())
	journal := service.NewJournalService(repo.NewPhotoRepo(store), repo.NewAlbumRepo(store), local, trips, time.UTC, log)

	srv := handler.NewServer(journal, trips, local, log)
	return testStack{handler: srv.Routes(), trips: trips, media: local, srcDir: t.TempDir()}
}

// newTripHandler wires a Server around svc. Photo routes are backed by an
// empty in-memory journal.
func newTripHandler(t *testing.T, svc handler.TripServicer) http.Handler {
	t.Helper()
	store := kv.NewMemoryStore()
	local := media.NewLocalStore(t.TempDir())
	journal := service.NewJournalService(repo.NewPhotoRepo(store), repo.NewAlbumRepo(store), local, nil, time.UTC, quietLogger())
	return handler.NewServer(journal, svc, local, quietLogger()).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type listBody[T any] struct {
	Data []T `json:"data"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
