package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flyride/journal/internal/domain"
)

// uploadMemory is how much of a multipart upload is buffered in memory
// before spilling to disk.
const uploadMemory = 8 << 20

type createPhotoRequest struct {
	URI        string     `json:"uri" validate:"required"`
	Caption    string     `json:"caption"`
	Location   string     `json:"location"`
	TripID     string     `json:"tripId"`
	TripName   string     `json:"tripName"`
	Date       *time.Time `json:"date"`
	Tags       []string   `json:"tags"`
	IsFavorite bool       `json:"isFavorite"`
}

type updatePhotoRequest struct {
	Caption  *string  `json:"caption"`
	Location *string  `json:"location"`
	Tags     []string `json:"tags"`
}

type toggleTagRequest struct {
	Tag string `json:"tag" validate:"required"`
}

type batchRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type assignTripRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	TripID string   `json:"tripId"`
}

type tripGroupResponse struct {
	Trip   *tripResponse  `json:"trip"`
	Photos []domain.Photo `json:"photos"`
}

// ListPhotos handles GET /photos. ?favorites=true limits the result to
// favorite photos.
func (s *Server) ListPhotos(w http.ResponseWriter, r *http.Request) {
	var photos []domain.Photo
	if fav, _ := strconv.ParseBool(r.URL.Query().Get("favorites")); fav {
		photos = s.journal.FavoritePhotos(r.Context())
	} else {
		photos = s.journal.GetPhotos(r.Context())
	}
	writeJSON(w, http.StatusOK, dataResponse[[]domain.Photo]{Data: photos})
}

// GetPhoto handles GET /photos/{photoID}.
func (s *Server) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := s.journal.GetPhoto(r.Context(), chi.URLParam(r, "photoID"))
	if err != nil {
		s.writeServiceError(w, r, err, "photo not found")
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// CreatePhoto handles POST /photos. The uri names a file on this device
// whose bytes are copied into the journal.
func (s *Server) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	var req createPhotoRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	draft := domain.PhotoDraft{
		URI:        req.URI,
		Caption:    req.Caption,
		Location:   req.Location,
		TripID:     req.TripID,
		TripName:   req.TripName,
		Tags:       req.Tags,
		IsFavorite: req.IsFavorite,
	}
	if req.Date != nil {
		draft.Date = req.Date.UTC()
	}

	photo, err := s.journal.SavePhoto(r.Context(), draft)
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "source file not found")
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// UploadPhoto handles POST /photos/upload: a multipart form with the image in
// "file" and optional caption, location, tripId, tags (comma-separated) and
// date (RFC 3339) fields.
func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		writeRequestError(w, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeRequestError(w, errors.New("file is required"))
		return
	}
	defer file.Close()

	draft := domain.PhotoDraft{
		Caption:  r.FormValue("caption"),
		Location: r.FormValue("location"),
		TripID:   r.FormValue("tripId"),
		Tags:     splitTags(r.FormValue("tags")),
	}
	if v := r.FormValue("date"); v != "" {
		d, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeRequestError(w, errors.New("date must be an RFC 3339 timestamp"))
			return
		}
		draft.Date = d.UTC()
	}

	tmp, err := os.CreateTemp("", "flyride-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.writeServiceError(w, r, fmt.Errorf("handler.UploadPhoto: buffer upload: %w", err), "")
		return
	}

	draft.URI = tmp.Name()
	photo, err := s.journal.SavePhoto(r.Context(), draft)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// UpdatePhoto handles PATCH /photos/{photoID}. Unknown IDs are accepted
// without effect.
func (s *Server) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	var req updatePhotoRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	patch := domain.PhotoPatch{Caption: req.Caption, Location: req.Location, Tags: req.Tags}
	if err := s.journal.UpdatePhoto(r.Context(), chi.URLParam(r, "photoID"), patch); err != nil {
		s.writeServiceError(w, r, err, "photo not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePhoto handles DELETE /photos/{photoID}.
func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.DeletePhoto(r.Context(), chi.URLParam(r, "photoID")); err != nil {
		s.writeServiceError(w, r, err, "photo not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite handles POST /photos/{photoID}/favorite.
func (s *Server) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.ToggleFavorite(r.Context(), chi.URLParam(r, "photoID")); err != nil {
		s.writeServiceError(w, r, err, "photo not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleTag handles POST /photos/{photoID}/tags.
func (s *Server) ToggleTag(w http.ResponseWriter, r *http.Request) {
	var req toggleTagRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := s.journal.ToggleTag(r.Context(), chi.URLParam(r, "photoID"), req.Tag); err != nil {
		s.writeServiceError(w, r, err, "photo not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePhotos handles POST /photos/batch/delete.
func (s *Server) DeletePhotos(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := s.journal.DeletePhotos(r.Context(), req.IDs); err != nil {
		s.writeServiceError(w, r, err, "photo not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignTrip handles POST /photos/batch/assign-trip. An empty tripId clears
// the association.
func (s *Server) AssignTrip(w http.ResponseWriter, r *http.Request) {
	var req assignTripRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := s.journal.AssignTrip(r.Context(), req.IDs, req.TripID); err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPhotosByDate handles GET /photos/by-date.
func (s *Server) ListPhotosByDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse[[]domain.DateGroup]{Data: s.journal.PhotosByDate(r.Context())})
}

// ListPhotosByTrip handles GET /photos/by-trip. The last group has a null
// trip when some photos are not assigned to any trip.
func (s *Server) ListPhotosByTrip(w http.ResponseWriter, r *http.Request) {
	groups, err := s.journal.PhotosByTrip(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	data := make([]tripGroupResponse, len(groups))
	for i, g := range groups {
		data[i].Photos = g.Photos
		if g.Trip != nil {
			tr := tripToResponse(*g.Trip)
			data[i].Trip = &tr
		}
	}
	writeJSON(w, http.StatusOK, dataResponse[[]tripGroupResponse]{Data: data})
}

// GetPhotoImage handles GET /photos/{photoID}/image.
func (s *Server) GetPhotoImage(w http.ResponseWriter, r *http.Request) {
	photo, err := s.journal.GetPhoto(r.Context(), chi.URLParam(r, "photoID"))
	if err != nil {
		s.writeServiceError(w, r, err, "photo not found")
		return
	}
	f, err := s.images.Open(photo.URI)
	if err != nil {
		s.writeServiceError(w, r, err, "image not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	http.ServeContent(w, r, filepath.Base(f.Name()), info.ModTime(), f)
}

// GetPhotoThumbnail handles GET /photos/{photoID}/thumbnail?size=N.
func (s *Server) GetPhotoThumbnail(w http.ResponseWriter, r *http.Request) {
	var size uint
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil || n == 0 {
			writeRequestError(w, errors.New("size must be a positive integer"))
			return
		}
		size = uint(n)
	}

	photo, err := s.journal.GetPhoto(r.Context(), chi.URLParam(r, "photoID"))
	if err != nil {
		s.writeServiceError(w, r, err, "photo not found")
		return
	}
	data, err := s.images.Thumbnail(photo.URI, size)
	if err != nil {
		s.writeServiceError(w, r, err, "image not found")
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, photo.ID+"_thumb.jpg", time.Time{}, bytes.NewReader(data))
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
