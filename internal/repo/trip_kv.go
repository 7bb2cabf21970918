package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/kv"
)

// kvTripRepo keeps trips as one JSON array under KeyTrips, the on-device
// counterpart of pgTripRepo. mu is held across every load-and-save so
// concurrent writers cannot drop each other's changes.
type kvTripRepo struct {
	trips collection[domain.Trip]
	now   func() time.Time

	mu sync.Mutex
}

// NewKVTripRepo constructs a TripRepo over a blob store.
func NewKVTripRepo(store kv.Store) TripRepo {
	return &kvTripRepo{
		trips: collection[domain.Trip]{store: store, key: KeyTrips},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *kvTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := r.trips.load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	now := r.now()
	trip.ID = uuid.NewString()
	trip.CreatedAt = now
	trip.UpdatedAt = now
	trips = append(trips, trip)

	if err := r.trips.save(ctx, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return trip, nil
}

func (r *kvTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	trips, err := r.trips.load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	for _, t := range trips {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
}

// List orders trips the same way the Postgres variant does.
func (r *kvTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := r.trips.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	sort.SliceStable(trips, func(i, j int) bool {
		if !trips[i].DepartureDate.Equal(trips[j].DepartureDate) {
			return trips[i].DepartureDate.After(trips[j].DepartureDate)
		}
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	return trips, nil
}

func (r *kvTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := r.trips.load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}

	for i, t := range trips {
		if t.ID != trip.ID {
			continue
		}
		trip.CreatedAt = t.CreatedAt
		trip.UpdatedAt = r.now()
		trips[i] = trip
		if err := r.trips.save(ctx, trips); err != nil {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
		}
		return trip, nil
	}
	return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
}

func (r *kvTripRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trips, err := r.trips.load(ctx)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}

	kept := trips[:0]
	for _, t := range trips {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(trips) {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}

	if err := r.trips.save(ctx, kept); err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}
