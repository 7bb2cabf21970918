package domain

import "time"

// Photo is a single journaled photo.
// URI always points into the managed photo directory once saved.
// TripName is a snapshot taken when the photo was assigned to the trip and is
// not refreshed if the trip is renamed later.
type Photo struct {
	ID         string    `json:"id"`
	URI        string    `json:"uri"`
	Caption    string    `json:"caption"`
	Location   string    `json:"location,omitempty"`
	TripID     string    `json:"tripId,omitempty"`
	TripName   string    `json:"tripName,omitempty"`
	Date       time.Time `json:"date"`
	Tags       []string  `json:"tags"`
	IsFavorite bool      `json:"isFavorite"`
}

// PhotoDraft carries the fields of a photo that has not been saved yet.
// URI is the source location (camera roll, gallery, upload temp file) whose
// bytes are copied into managed storage on save. A zero Date means "now".
type PhotoDraft struct {
	URI        string
	Caption    string
	Location   string
	TripID     string
	TripName   string
	Date       time.Time
	Tags       []string
	IsFavorite bool
}

// PhotoPatch lists the mutable fields of a photo. Nil fields are left
// unchanged; a non-nil empty Tags slice clears all tags.
// Date and IsFavorite are deliberately absent: the first is immutable and the
// second only changes through ToggleFavorite.
type PhotoPatch struct {
	Caption  *string
	Location *string
	TripID   *string
	TripName *string
	Tags     []string
}

// HasTag reports whether tag is already attached to the photo.
func (p Photo) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
