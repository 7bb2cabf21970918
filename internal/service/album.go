package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flyride/journal/internal/domain"
)

// GetAlbums returns every album, newest first. Unreadable data yields an
// empty slice.
func (s *JournalService) GetAlbums(ctx context.Context) []domain.Album {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAlbums(ctx)
}

// CreateAlbum prepends a new, empty album.
// Returns domain.ErrValidation if name is blank.
func (s *JournalService) CreateAlbum(ctx context.Context, name, tripID string) (domain.Album, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Album{}, fmt.Errorf("service.JournalService.CreateAlbum: %w: name is required", domain.ErrValidation)
	}

	album := domain.Album{
		ID:        uuid.NewString(),
		Name:      name,
		PhotoIDs:  []string{},
		TripID:    tripID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	albums := append([]domain.Album{album}, s.loadAlbums(ctx)...)
	if err := s.albums.Save(ctx, albums); err != nil {
		return domain.Album{}, fmt.Errorf("service.JournalService.CreateAlbum: %w", err)
	}
	return album, nil
}

// AddPhotoToAlbum appends photoID to the album. The first photo added becomes
// the cover. Unknown albums, unknown photos and existing members are no-ops.
func (s *JournalService) AddPhotoToAlbum(ctx context.Context, albumID, photoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !containsPhoto(s.loadPhotos(ctx), photoID) {
		s.log.DebugContext(ctx, "photo not found", "op", "AddPhotoToAlbum", "photo_id", photoID)
		return nil
	}

	albums := s.loadAlbums(ctx)
	for i := range albums {
		a := &albums[i]
		if a.ID != albumID {
			continue
		}
		if a.Contains(photoID) {
			return nil
		}
		a.PhotoIDs = append(a.PhotoIDs, photoID)
		if a.CoverPhotoID == "" {
			a.CoverPhotoID = photoID
		}
		if err := s.albums.Save(ctx, albums); err != nil {
			return fmt.Errorf("service.JournalService.AddPhotoToAlbum: %w", err)
		}
		return nil
	}
	return nil
}

// RenameAlbum changes an album's display name. An unknown ID is a no-op.
func (s *JournalService) RenameAlbum(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("service.JournalService.RenameAlbum: %w: name is required", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	albums := s.loadAlbums(ctx)
	for i := range albums {
		if albums[i].ID != id {
			continue
		}
		albums[i].Name = name
		if err := s.albums.Save(ctx, albums); err != nil {
			return fmt.Errorf("service.JournalService.RenameAlbum: %w", err)
		}
		return nil
	}
	return nil
}

// DeleteAlbum removes an album. Its photos are not affected.
func (s *JournalService) DeleteAlbum(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums := s.loadAlbums(ctx)
	kept := make([]domain.Album, 0, len(albums))
	for _, a := range albums {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(albums) {
		return nil
	}
	if err := s.albums.Save(ctx, kept); err != nil {
		return fmt.Errorf("service.JournalService.DeleteAlbum: %w", err)
	}
	return nil
}

// detachFromAlbums removes photoID from every album and clears covers that
// referenced it. Albums are only rewritten if something changed.
// Callers hold mu.
func (s *JournalService) detachFromAlbums(ctx context.Context, photoID string) error {
	albums := s.loadAlbums(ctx)
	changed := false
	for i := range albums {
		a := &albums[i]
		if a.Contains(photoID) {
			kept := make([]string, 0, len(a.PhotoIDs))
			for _, id := range a.PhotoIDs {
				if id != photoID {
					kept = append(kept, id)
				}
			}
			a.PhotoIDs = kept
			changed = true
		}
		if a.CoverPhotoID == photoID {
			a.CoverPhotoID = ""
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.albums.Save(ctx, albums)
}

func (s *JournalService) loadAlbums(ctx context.Context) []domain.Album {
	albums, err := s.albums.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "album collection unreadable, treating as empty", "error", err)
		return []domain.Album{}
	}
	return albums
}

func containsPhoto(photos []domain.Photo, id string) bool {
	for _, p := range photos {
		if p.ID == id {
			return true
		}
	}
	return false
}
