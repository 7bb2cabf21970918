// Package service contains the business logic for the FlyRide photo journal.
// Services validate inputs, enforce invariants, and orchestrate repo calls.
// No storage details live here — services depend on repo interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flyride/journal/internal/domain"
	"github.com/flyride/journal/internal/repo"
)

// MediaStore owns the image bytes referenced by photo URIs.
type MediaStore interface {
	// Import copies the bytes at srcURI into managed storage and returns the
	// URI of the copy.
	Import(ctx context.Context, srcURI, id string) (string, error)

	// Remove deletes the managed bytes behind uri.
	Remove(uri string) error
}

// TripSource resolves the trips photos are associated with.
type TripSource interface {
	GetByID(ctx context.Context, id string) (domain.Trip, error)
	GetUserTrips(ctx context.Context) ([]domain.Trip, error)
}

// JournalService manages photo entries and albums.
//
// Both collections are rewritten in full on every change, so every mutating
// operation holds mu for its whole read-modify-write cycle, including the
// album cascade of DeletePhoto.
type JournalService struct {
	photos repo.PhotoRepo
	albums repo.AlbumRepo
	media  MediaStore
	trips  TripSource
	loc    *time.Location
	log    *slog.Logger

	mu sync.Mutex
}

// NewJournalService constructs a JournalService. loc is the time zone whose
// calendar days PhotosByDate groups by; nil means UTC.
func NewJournalService(photos repo.PhotoRepo, albums repo.AlbumRepo, media MediaStore, trips TripSource, loc *time.Location, log *slog.Logger) *JournalService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &JournalService{photos: photos, albums: albums, media: media, trips: trips, loc: loc, log: log}
}

// GetPhotos returns every photo, newest first.
// Missing or unreadable data yields an empty slice; the fault is only logged.
func (s *JournalService) GetPhotos(ctx context.Context) []domain.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPhotos(ctx)
}

// GetPhoto returns a single photo.
// Returns domain.ErrNotFound if no photo with that ID exists.
func (s *JournalService) GetPhoto(ctx context.Context, id string) (domain.Photo, error) {
	for _, p := range s.GetPhotos(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Photo{}, fmt.Errorf("service.JournalService.GetPhoto: %w", domain.ErrNotFound)
}

// PhotoIDs returns the set of stored photo IDs. Unlike GetPhotos it reports
// read failures, so callers that delete unreferenced files never mistake a
// corrupt collection for an empty one.
func (s *JournalService) PhotoIDs(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos, err := s.photos.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.JournalService.PhotoIDs: %w", err)
	}
	ids := make(map[string]struct{}, len(photos))
	for _, p := range photos {
		ids[p.ID] = struct{}{}
	}
	return ids, nil
}

// SavePhoto copies the draft's image into managed storage, assigns a fresh
// ID and prepends the new photo to the collection.
// Import failures are returned and nothing is recorded.
func (s *JournalService) SavePhoto(ctx context.Context, draft domain.PhotoDraft) (domain.Photo, error) {
	if strings.TrimSpace(draft.URI) == "" {
		return domain.Photo{}, fmt.Errorf("service.JournalService.SavePhoto: %w: uri is required", domain.ErrValidation)
	}

	id := uuid.NewString()
	uri, err := s.media.Import(ctx, draft.URI, id)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("service.JournalService.SavePhoto: %w", err)
	}

	if draft.TripID != "" && draft.TripName == "" {
		if trip, err := s.trips.GetByID(ctx, draft.TripID); err == nil {
			draft.TripName = trip.DisplayName()
		}
	}

	photo := domain.Photo{
		ID:         id,
		URI:        uri,
		Caption:    draft.Caption,
		Location:   draft.Location,
		TripID:     draft.TripID,
		TripName:   draft.TripName,
		Date:       draft.Date,
		Tags:       uniqueTags(draft.Tags),
		IsFavorite: draft.IsFavorite,
	}
	if photo.Date.IsZero() {
		photo.Date = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	photos := s.loadPhotos(ctx)
	photos = append([]domain.Photo{photo}, photos...)
	if err := s.photos.Save(ctx, photos); err != nil {
		s.removeMedia(uri)
		return domain.Photo{}, fmt.Errorf("service.JournalService.SavePhoto: %w", err)
	}
	return photo, nil
}

// SavePhotos saves drafts one at a time, in order, and stops at the first
// failure. The photos saved before the failure are returned with the error.
func (s *JournalService) SavePhotos(ctx context.Context, drafts []domain.PhotoDraft) ([]domain.Photo, error) {
	saved := make([]domain.Photo, 0, len(drafts))
	for _, d := range drafts {
		p, err := s.SavePhoto(ctx, d)
		if err != nil {
			return saved, err
		}
		saved = append(saved, p)
	}
	return saved, nil
}

// UpdatePhoto merges patch into the photo with the given ID.
// An unknown ID is a silent no-op.
func (s *JournalService) UpdatePhoto(ctx context.Context, id string, patch domain.PhotoPatch) error {
	return s.mutatePhoto(ctx, "UpdatePhoto", id, func(p *domain.Photo) error {
		applyPatch(p, patch)
		return nil
	})
}

// ToggleFavorite flips the favorite flag. An unknown ID is a silent no-op.
func (s *JournalService) ToggleFavorite(ctx context.Context, id string) error {
	return s.mutatePhoto(ctx, "ToggleFavorite", id, func(p *domain.Photo) error {
		p.IsFavorite = !p.IsFavorite
		return nil
	})
}

// ToggleTag adds tag to the photo, or removes it if already present.
// An unknown ID is a silent no-op.
func (s *JournalService) ToggleTag(ctx context.Context, id, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("service.JournalService.ToggleTag: %w: tag is required", domain.ErrValidation)
	}
	return s.mutatePhoto(ctx, "ToggleTag", id, func(p *domain.Photo) error {
		if p.HasTag(tag) {
			kept := make([]string, 0, len(p.Tags))
			for _, t := range p.Tags {
				if t != tag {
					kept = append(kept, t)
				}
			}
			p.Tags = kept
			return nil
		}
		p.Tags = append(p.Tags, tag)
		return nil
	})
}

// AssignTrip links each photo in ids to the trip, snapshotting the trip's
// display name. An empty tripID clears the association.
// Returns domain.ErrNotFound if tripID does not resolve.
func (s *JournalService) AssignTrip(ctx context.Context, ids []string, tripID string) error {
	var tripName string
	if tripID != "" {
		trip, err := s.trips.GetByID(ctx, tripID)
		if err != nil {
			return fmt.Errorf("service.JournalService.AssignTrip: %w", err)
		}
		tripName = trip.DisplayName()
	}

	patch := domain.PhotoPatch{TripID: &tripID, TripName: &tripName}
	for _, id := range ids {
		if err := s.UpdatePhoto(ctx, id, patch); err != nil {
			return fmt.Errorf("service.JournalService.AssignTrip: %w", err)
		}
	}
	return nil
}

// DeletePhoto removes the photo's bytes (best effort), drops the record and
// removes the ID from every album, clearing covers that pointed at it.
func (s *JournalService) DeletePhoto(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos := s.loadPhotos(ctx)
	kept := make([]domain.Photo, 0, len(photos))
	found := false
	for _, p := range photos {
		if p.ID == id {
			found = true
			s.removeMedia(p.URI)
			continue
		}
		kept = append(kept, p)
	}

	if found {
		if err := s.photos.Save(ctx, kept); err != nil {
			return fmt.Errorf("service.JournalService.DeletePhoto: %w", err)
		}
	}

	if err := s.detachFromAlbums(ctx, id); err != nil {
		return fmt.Errorf("service.JournalService.DeletePhoto: %w", err)
	}
	return nil
}

// DeletePhotos deletes each photo in turn and stops at the first failure.
func (s *JournalService) DeletePhotos(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := s.DeletePhoto(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// FavoritePhotos returns the favorite photos, newest first.
func (s *JournalService) FavoritePhotos(ctx context.Context) []domain.Photo {
	return FilterFavorites(s.GetPhotos(ctx))
}

// PhotosByDate groups all photos by calendar day in the service's time zone.
func (s *JournalService) PhotosByDate(ctx context.Context) []domain.DateGroup {
	return GroupPhotosByDate(s.GetPhotos(ctx), s.loc)
}

// PhotosByTrip groups all photos by the user's trips.
func (s *JournalService) PhotosByTrip(ctx context.Context) ([]domain.TripGroup, error) {
	trips, err := s.trips.GetUserTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.JournalService.PhotosByTrip: %w", err)
	}
	return GroupPhotosByTrip(s.GetPhotos(ctx), trips), nil
}

// mutatePhoto runs fn against the photo with the given ID and persists the
// collection. Unknown IDs are a no-op and nothing is written.
func (s *JournalService) mutatePhoto(ctx context.Context, op, id string, fn func(*domain.Photo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos := s.loadPhotos(ctx)
	for i := range photos {
		if photos[i].ID != id {
			continue
		}
		if err := fn(&photos[i]); err != nil {
			return fmt.Errorf("service.JournalService.%s: %w", op, err)
		}
		if err := s.photos.Save(ctx, photos); err != nil {
			return fmt.Errorf("service.JournalService.%s: %w", op, err)
		}
		return nil
	}
	s.log.DebugContext(ctx, "photo not found", "op", op, "photo_id", id)
	return nil
}

// loadPhotos applies the empty-on-error read policy. Callers hold mu.
func (s *JournalService) loadPhotos(ctx context.Context) []domain.Photo {
	photos, err := s.photos.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "photo collection unreadable, treating as empty", "error", err)
		return []domain.Photo{}
	}
	return photos
}

// removeMedia deletes managed bytes, swallowing failures. A file that is
// already gone is not worth a log line.
func (s *JournalService) removeMedia(uri string) {
	if err := s.media.Remove(uri); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("failed to remove photo file", "uri", uri, "error", err)
	}
}

func applyPatch(p *domain.Photo, patch domain.PhotoPatch) {
	if patch.Caption != nil {
		p.Caption = *patch.Caption
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.TripID != nil {
		p.TripID = *patch.TripID
	}
	if patch.TripName != nil {
		p.TripName = *patch.TripName
	}
	if patch.Tags != nil {
		p.Tags = uniqueTags(patch.Tags)
	}
}

// uniqueTags trims tags, drops empties and duplicates, and keeps first-seen
// order. The result is never nil.
func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
