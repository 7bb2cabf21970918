// Package handler implements the HTTP surface of the photo journal.
// All handlers are methods on Server. Methods are split into resource files
// (photo.go, album.go, trip.go) but share the same Server struct.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/flyride/journal/internal/domain"
)

// JournalServicer defines the photo and album operations the handlers use.
// Defined here, in the consumer package, so tests can substitute it.
type JournalServicer interface {
	GetPhotos(ctx context.Context) []domain.Photo
	GetPhoto(ctx context.Context, id string) (domain.Photo, error)
	FavoritePhotos(ctx context.Context) []domain.Photo
	SavePhoto(ctx context.Context, draft domain.PhotoDraft) (domain.Photo, error)
	UpdatePhoto(ctx context.Context, id string, patch domain.PhotoPatch) error
	DeletePhoto(ctx context.Context, id string) error
	DeletePhotos(ctx context.Context, ids []string) error
	ToggleFavorite(ctx context.Context, id string) error
	ToggleTag(ctx context.Context, id, tag string) error
	AssignTrip(ctx context.Context, ids []string, tripID string) error
	PhotosByDate(ctx context.Context) []domain.DateGroup
	PhotosByTrip(ctx context.Context) ([]domain.TripGroup, error)

	GetAlbums(ctx context.Context) []domain.Album
	CreateAlbum(ctx context.Context, name, tripID string) (domain.Album, error)
	RenameAlbum(ctx context.Context, id, name string) error
	AddPhotoToAlbum(ctx context.Context, albumID, photoID string) error
	DeleteAlbum(ctx context.Context, id string) error
}

// TripServicer defines the trip operations the handlers use.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id string) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id string) error
}

// ImageServer reads managed photo bytes.
type ImageServer interface {
	Open(uri string) (*os.File, error)
	Thumbnail(uri string, size uint) ([]byte, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	journal JournalServicer
	trips   TripServicer
	images  ImageServer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(journal JournalServicer, trips TripServicer, images ImageServer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{journal: journal, trips: trips, images: images, log: log}
}

// Routes returns the API router. Cross-cutting middleware (request IDs,
// logging, CORS, recovery) is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/photos", func(r chi.Router) {
		r.Get("/", s.ListPhotos)
		r.Post("/", s.CreatePhoto)
		r.Post("/upload", s.UploadPhoto)
		r.Get("/by-date", s.ListPhotosByDate)
		r.Get("/by-trip", s.ListPhotosByTrip)
		r.Post("/batch/delete", s.DeletePhotos)
		r.Post("/batch/assign-trip", s.AssignTrip)

		r.Route("/{photoID}", func(r chi.Router) {
			r.Get("/", s.GetPhoto)
			r.Patch("/", s.UpdatePhoto)
			r.Delete("/", s.DeletePhoto)
			r.Post("/favorite", s.ToggleFavorite)
			r.Post("/tags", s.ToggleTag)
			r.Get("/image", s.GetPhotoImage)
			r.Get("/thumbnail", s.GetPhotoThumbnail)
		})
	})

	r.Route("/albums", func(r chi.Router) {
		r.Get("/", s.ListAlbums)
		r.Post("/", s.CreateAlbum)
		r.Patch("/{albumID}", s.RenameAlbum)
		r.Delete("/{albumID}", s.DeleteAlbum)
		r.Post("/{albumID}/photos", s.AddPhotoToAlbum)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Get("/{tripID}", s.GetTrip)
		r.Put("/{tripID}", s.UpdateTrip)
		r.Delete("/{tripID}", s.DeleteTrip)
	})

	return r
}
