package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flyride/journal/internal/domain"
)

type createAlbumRequest struct {
	Name   string `json:"name" validate:"required"`
	TripID string `json:"tripId"`
}

type renameAlbumRequest struct {
	Name string `json:"name" validate:"required"`
}

type addPhotoRequest struct {
	PhotoID string `json:"photoId" validate:"required"`
}

// ListAlbums handles GET /albums.
func (s *Server) ListAlbums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse[[]domain.Album]{Data: s.journal.GetAlbums(r.Context())})
}

// CreateAlbum handles POST /albums.
func (s *Server) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	album, err := s.journal.CreateAlbum(r.Context(), req.Name, req.TripID)
	if err != nil {
		s.writeServiceError(w, r, err, "album not found")
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

// RenameAlbum handles PATCH /albums/{albumID}.
func (s *Server) RenameAlbum(w http.ResponseWriter, r *http.Request) {
	var req renameAlbumRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := s.journal.RenameAlbum(r.Context(), chi.URLParam(r, "albumID"), req.Name); err != nil {
		s.writeServiceError(w, r, err, "album not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPhotoToAlbum handles POST /albums/{albumID}/photos. Adding a photo that
// is already in the album, or naming an unknown album or photo, changes nothing.
func (s *Server) AddPhotoToAlbum(w http.ResponseWriter, r *http.Request) {
	var req addPhotoRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := s.journal.AddPhotoToAlbum(r.Context(), chi.URLParam(r, "albumID"), req.PhotoID); err != nil {
		s.writeServiceError(w, r, err, "album not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAlbum handles DELETE /albums/{albumID}. Member photos are kept.
func (s *Server) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.DeleteAlbum(r.Context(), chi.URLParam(r, "albumID")); err != nil {
		s.writeServiceError(w, r, err, "album not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
