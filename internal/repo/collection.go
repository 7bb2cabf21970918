// Package repo contains the persistence logic for the photo journal.
// Each resource has its own file with an interface and its implementations.
// No business logic lives here — only storage access and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/kv"
)

// Keys of the collections stored in the blob store.
const (
	KeyPhotos = "photos"
	KeyAlbums = "albums"
	KeyTrips  = "trips"
)

// collection is a JSON array of T stored under a single blob-store key.
// Every write replaces the whole array.
type collection[T any] struct {
	store kv.Store
	key   string
}

// load decodes the stored array. A key that was never written yields an
// empty, non-nil slice; undecodable data is returned as an error.
func (c collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []T{}, nil
		}
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %q: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %q: %w", c.key, err)
	}
	return c.store.Put(ctx, c.key, raw)
}
