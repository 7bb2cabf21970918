package repo

import (
	"context"
	"fmt"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/kv"
)

// PhotoRepo persists the ordered photo collection as a whole.
// Order is significant: index 0 is the most recently saved photo.
type PhotoRepo interface {
	// Load returns the full collection in stored order.
	// A collection that was never saved yields an empty slice.
	Load(ctx context.Context) ([]domain.Photo, error)

	// Save replaces the full collection.
	Save(ctx context.Context, photos []domain.Photo) error
}

type kvPhotoRepo struct {
	photos collection[domain.Photo]
}

// NewPhotoRepo constructs a PhotoRepo storing the collection under KeyPhotos.
func NewPhotoRepo(store kv.Store) PhotoRepo {
	return &kvPhotoRepo{photos: collection[domain.Photo]{store: store, key: KeyPhotos}}
}

func (r *kvPhotoRepo) Load(ctx context.Context) ([]domain.Photo, error) {
	photos, err := r.photos.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.Load: %w", err)
	}
	for i := range photos {
		if photos[i].Tags == nil {
			photos[i].Tags = []string{}
		}
	}
	return photos, nil
}

func (r *kvPhotoRepo) Save(ctx context.Context, photos []domain.Photo) error {
	if err := r.photos.save(ctx, photos); err != nil {
		return fmt.Errorf("repo.PhotoRepo.Save: %w", err)
	}
	return nil
}
