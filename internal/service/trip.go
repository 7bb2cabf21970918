package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/repo"
)

// TripService implements business logic for Trip operations.
// It is also the journal's trip provider: photos are grouped and labelled
// with the trips it returns.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips, latest departure first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// GetUserTrips is the trip-provider view of List used by the photo journal.
func (s *TripService) GetUserTrips(ctx context.Context) ([]domain.Trip, error) {
	return s.List(ctx)
}

// Update validates and updates an existing trip.
// Photos keep the trip name they were assigned with.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	result, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID. Photos referencing it are not touched.
func (s *TripService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.Origin = strings.TrimSpace(t.Origin)
	t.Destination = strings.TrimSpace(t.Destination)
	t.Airline = strings.TrimSpace(t.Airline)
	t.BusCompany = strings.TrimSpace(t.BusCompany)
	t.Type = domain.TripType(strings.ToLower(strings.TrimSpace(string(t.Type))))
	return t
}

// validateTrip enforces the rules shared by Create and Update.
//   - Type is flight or bus, with the matching carrier set.
//   - Origin and destination are required.
//   - ReturnDate, if set, is not before DepartureDate.
func validateTrip(t domain.Trip) error {
	switch t.Type {
	case domain.TripTypeFlight:
		if t.Airline == "" {
			return fmt.Errorf("%w: airline is required for flights", domain.ErrValidation)
		}
	case domain.TripTypeBus:
		if t.BusCompany == "" {
			return fmt.Errorf("%w: bus company is required for bus trips", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: type must be flight or bus", domain.ErrValidation)
	}
	if t.Origin == "" {
		return fmt.Errorf("%w: origin is required", domain.ErrValidation)
	}
	if t.Destination == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if t.DepartureDate.IsZero() {
		return fmt.Errorf("%w: departure date is required", domain.ErrValidation)
	}
	if t.ReturnDate != nil && t.ReturnDate.Before(t.DepartureDate) {
		return fmt.Errorf("%w: return date must not be before departure date", domain.ErrValidation)
	}
	return nil
}
