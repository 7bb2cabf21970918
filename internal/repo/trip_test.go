package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/repo"
	"github.com/flyride/journal/testutil"
)

// newPgTripRepo returns a TripRepo backed by a transaction that is rolled
// back when the test finishes. Skipped without TEST_DATABASE_URL.
func newPgTripRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	return repo.NewPgTripRepo(testutil.NewTx(t))
}

// tripFixture returns a flight with sensible defaults. Callers override
// individual fields as needed.
func tripFixture() domain.Trip {
	ret := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		Type:          domain.TripTypeFlight,
		Origin:        "JFK",
		Destination:   "LAX",
		Airline:       "Delta",
		FlightNumber:  "DL 401",
		DepartureDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:    &ret,
		Notes:         "window seat",
	}
}

func TestPgTripRepo_Create(t *testing.T) {
	r := newPgTripRepo(t)
	ctx := context.Background()

	input := tripFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID, "ID should be DB-generated")
	assert.Equal(t, domain.TripTypeFlight, got.Type)
	assert.Equal(t, "Delta", got.Airline)
	assert.True(t, got.DepartureDate.Equal(input.DepartureDate))
	require.NotNil(t, got.ReturnDate)
	assert.True(t, got.ReturnDate.Equal(*input.ReturnDate))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPgTripRepo_Create_Bus(t *testing.T) {
	r := newPgTripRepo(t)

	input := tripFixture()
	input.Type = domain.TripTypeBus
	input.Airline, input.FlightNumber = "", ""
	input.BusCompany = "FlixBus"
	input.ReturnDate = nil

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "FlixBus", got.BusCompany)
	assert.Nil(t, got.ReturnDate)
}

func TestPgTripRepo_GetByID_NotFound(t *testing.T) {
	r := newPgTripRepo(t)

	_, err := r.GetByID(context.Background(), "does-not-exist")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPgTripRepo_List(t *testing.T) {
	r := newPgTripRepo(t)
	ctx := context.Background()

	first := tripFixture()
	first.Origin = "First"
	second := tripFixture()
	second.Origin = "Second"
	second.DepartureDate = first.DepartureDate.AddDate(0, 1, 0)

	_, err := r.Create(ctx, first)
	require.NoError(t, err)
	_, err = r.Create(ctx, second)
	require.NoError(t, err)

	trips, err := r.List(ctx)

	require.NoError(t, err)
	var origins []string
	for _, tr := range trips {
		origins = append(origins, tr.Origin)
	}
	assert.Contains(t, origins, "First")
	assert.Contains(t, origins, "Second")
}

func TestPgTripRepo_Update(t *testing.T) {
	r := newPgTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	created.Destination = "SEA"
	created.ReturnDate = nil

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "SEA", updated.Destination)
	assert.Nil(t, updated.ReturnDate)
}

func TestPgTripRepo_Update_NotFound(t *testing.T) {
	r := newPgTripRepo(t)

	ghost := tripFixture()
	ghost.ID = "ghost"

	_, err := r.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPgTripRepo_Delete(t *testing.T) {
	r := newPgTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = r.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
