package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/repo"
	"github.com/flyride/journal/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones a test needs.
type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id string) (domain.Trip, error)
	list    func(ctx context.Context) ([]domain.Trip, error)
	update  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete  func(ctx context.Context, id string) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

func validFlight() domain.Trip {
	ret := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		Type:          domain.TripTypeFlight,
		Origin:        "JFK",
		Destination:   "LAX",
		Airline:       "Delta",
		DepartureDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:    &ret,
	}
}

func validBus() domain.Trip {
	return domain.Trip{
		Type:          domain.TripTypeBus,
		Origin:        "Berlin",
		Destination:   "Prague",
		BusCompany:    "FlixBus",
		DepartureDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
}

// echoTripRepo returns whatever it receives, for tests that only exercise
// validation.
func echoTripRepo() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
}

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	for _, trip := range []domain.Trip{validFlight(), validBus()} {
		got, err := svc.Create(context.Background(), trip)
		require.NoError(t, err)
		assert.Equal(t, trip.Origin, got.Origin)
	}
}

func TestTripService_Create_Normalizes(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validFlight()
	trip.Type = " Flight "
	trip.Origin = "  JFK "

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Equal(t, domain.TripTypeFlight, got.Type)
	assert.Equal(t, "JFK", got.Origin)
}

func TestTripService_Create_Invalid(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())
	before := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)

	cases := map[string]func(*domain.Trip){
		"unknown type":        func(tr *domain.Trip) { tr.Type = "train" },
		"missing origin":      func(tr *domain.Trip) { tr.Origin = "   " },
		"missing destination": func(tr *domain.Trip) { tr.Destination = "" },
		"flight w/o airline":  func(tr *domain.Trip) { tr.Airline = "" },
		"bus w/o company":     func(tr *domain.Trip) { tr.Type = domain.TripTypeBus },
		"no departure":        func(tr *domain.Trip) { tr.DepartureDate = time.Time{} },
		"return before dep":   func(tr *domain.Trip) { tr.ReturnDate = &before },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			trip := validFlight()
			mutate(&trip)

			_, err := svc.Create(context.Background(), trip)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestTripService_Create_SameDayReturn(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validFlight()
	same := trip.DepartureDate
	trip.ReturnDate = &same

	_, err := svc.Create(context.Background(), trip)

	assert.NoError(t, err)
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	svc := service.NewTripService(&mockTripRepo{
		create: func(context.Context, domain.Trip) (domain.Trip, error) { return domain.Trip{}, repoErr },
	})

	_, err := svc.Create(context.Background(), validFlight())

	assert.ErrorIs(t, err, repoErr)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(context.Context, string) (domain.Trip, error) { return domain.Trip{}, domain.ErrNotFound },
	})

	_, err := svc.GetByID(context.Background(), "trip_404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_GetUserTrips_Empty(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		list: func(context.Context) ([]domain.Trip, error) { return nil, nil },
	})

	got, err := svc.GetUserTrips(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTripService_Update_Invalid(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	trip := validBus()
	trip.BusCompany = ""

	_, err := svc.Update(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Delete(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		delete: func(_ context.Context, id string) error {
			if id == "trip_1" {
				return nil
			}
			return domain.ErrNotFound
		},
	})

	assert.NoError(t, svc.Delete(context.Background(), "trip_1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "trip_2"), domain.ErrNotFound)
}
