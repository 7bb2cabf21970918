package repo

import (
	"context"
	"fmt"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/kv"
)

// AlbumRepo persists the ordered album collection as a whole.
type AlbumRepo interface {
	Load(ctx context.Context) ([]domain.Album, error)
	Save(ctx context.Context, albums []domain.Album) error
}

type kvAlbumRepo struct {
	albums collection[domain.Album]
}

// NewAlbumRepo constructs an AlbumRepo storing the collection under KeyAlbums.
func NewAlbumRepo(store kv.Store) AlbumRepo {
	return &kvAlbumRepo{albums: collection[domain.Album]{store: store, key: KeyAlbums}}
}

func (r *kvAlbumRepo) Load(ctx context.Context) ([]domain.Album, error) {
	albums, err := r.albums.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.AlbumRepo.Load: %w", err)
	}
	for i := range albums {
		if albums[i].PhotoIDs == nil {
			albums[i].PhotoIDs = []string{}
		}
	}
	return albums, nil
}

func (r *kvAlbumRepo) Save(ctx context.Context, albums []domain.Album) error {
	if err := r.albums.save(ctx, albums); err != nil {
		return fmt.Errorf("repo.AlbumRepo.Save: %w", err)
	}
	return nil
}
