package domain

import "time"

// Album is a named, ordered collection of photo references.
// CoverPhotoID is empty until the first photo is added.
type Album struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PhotoIDs     []string  `json:"photoIds"`
	CoverPhotoID string    `json:"coverPhotoId,omitempty"`
	TripID       string    `json:"tripId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Contains reports whether photoID is a member of the album.
func (a Album) Contains(photoID string) bool {
	for _, id := range a.PhotoIDs {
		if id == photoID {
			return true
		}
	}
	return false
}
