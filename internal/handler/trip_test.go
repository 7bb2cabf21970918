package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyride/journal/internal/domain"
)

type tripBody struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Airline       string `json:"airline"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
	DisplayName   string `json:"displayName"`
}

func tripFixture() domain.Trip {
	dep := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:            "trip-1",
		Type:          domain.TripTypeFlight,
		Origin:        "JFK",
		Destination:   "LAX",
		Airline:       "Delta",
		FlightNumber:  "DL 42",
		DepartureDate: dep,
		ReturnDate:    &ret,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

func flightRequest() map[string]any {
	return map[string]any{
		"type":          "flight",
		"origin":        "JFK",
		"destination":   "LAX",
		"airline":       "Delta",
		"departureDate": "2025-06-01",
		"returnDate":    "2025-06-15",
	}
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	var got domain.Trip
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			got = trip
			return tripFixture(), nil
		},
	}

	rec := do(t, newTripHandler(t, svc), http.MethodPost, "/trips", flightRequest())

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[tripBody](t, rec)
	assert.Equal(t, "trip-1", resp.ID)
	assert.Equal(t, "2025-06-01", resp.DepartureDate)
	assert.Equal(t, "2025-06-15", resp.ReturnDate)
	assert.Equal(t, "JFK → LAX", resp.DisplayName)

	assert.Equal(t, domain.TripTypeFlight, got.Type)
	assert.Equal(t, 2025, got.DepartureDate.Year())
	require.NotNil(t, got.ReturnDate)
	assert.Equal(t, 15, got.ReturnDate.Day())
}

func TestCreateTrip_422_UnknownType(t *testing.T) {
	svc := &mockTripServicer{}
	body := flightRequest()
	body["type"] = "train"

	rec := do(t, newTripHandler(t, svc), http.MethodPost, "/trips", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[errorBody](t, rec)
	assert.Equal(t, "type must be one of: flight bus", resp.Error.Message)
}

func TestCreateTrip_422_MissingBody(t *testing.T) {
	rec := do(t, newTripHandler(t, &mockTripServicer{}), http.MethodPost, "/trips", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateTrip_422_ServiceValidation(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: airline is required for flights", domain.ErrValidation)
		},
	}

	rec := do(t, newTripHandler(t, svc), http.MethodPost, "/trips", flightRequest())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[errorBody](t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "airline is required for flights", resp.Error.Message)
}

func TestCreateTrip_500_HidesInternalError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, errors.New("connection refused")
		},
	}

	rec := do(t, newTripHandler(t, svc), http.MethodPost, "/trips", flightRequest())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	svc := &mockTripServicer{
		list: func(_ context.Context) ([]domain.Trip, error) {
			return []domain.Trip{tripFixture(), tripFixture()}, nil
		},
	}

	rec := do(t, newTripHandler(t, svc), http.MethodGet, "/trips", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[listBody[tripBody]](t, rec)
	assert.Len(t, resp.Data, 2)
}

func TestListTrips_200_Empty(t *testing.T) {
	svc := &mockTripServicer{
		list: func(_ context.Context) ([]domain.Trip, error) { return []domain.Trip{}, nil },
	}

	rec := do(t, newTripHandler(t, svc), http.MethodGet, "/trips", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	// Must be a JSON array, not null.
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

// ---- GET /trips/{tripID} ---------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(_ context.Context, id string) (domain.Trip, error) {
			assert.Equal(t, "trip-1", id)
			return tripFixture(), nil
		},
	}

	rec := do(t, newTripHandler(t, svc), http.MethodGet, "/trips/trip-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Delta", decode[tripBody](t, rec).Airline)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(_ context.Context, _ string) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
		},
	}

	rec := do(t, newTripHandler(t, svc), http.MethodGet, "/trips/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[errorBody](t, rec)
	assert.Equal(t, "trip not found", resp.Error.Message)
}

// ---- PUT /trips/{tripID} ---------------------------------------------------

func TestUpdateTrip_200_UsesPathID(t *testing.T) {
	svc := &mockTripServicer{
		update: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			assert.Equal(t, "trip-1", trip.ID)
			return trip, nil
		},
	}

	rec := do(t, newTripHandler(t, svc), http.MethodPut, "/trips/trip-1", flightRequest())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trip-1", decode[tripBody](t, rec).ID)
}

func TestUpdateTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		update: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}

	rec := do(t, newTripHandler(t, svc), http.MethodPut, "/trips/missing", flightRequest())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /trips/{tripID} ------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ string) error { return nil },
	}

	rec := do(t, newTripHandler(t, svc), http.MethodDelete, "/trips/trip-1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ string) error { return domain.ErrNotFound },
	}

	rec := do(t, newTripHandler(t, svc), http.MethodDelete, "/trips/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
