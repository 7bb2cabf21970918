package service

import (
	"time"

	"github.com/flyride/journal/internal/domain"
)

// DayLayout renders a calendar day the way the journal headings show it,
// e.g. "Monday, January 1, 2024".
const DayLayout = "Monday, January 2, 2006"

// GroupPhotosByDate buckets photos by the calendar day of their Date in loc.
// Buckets appear in the order their day is first seen in photos, and photos
// keep their relative order within a bucket.
func GroupPhotosByDate(photos []domain.Photo, loc *time.Location) []domain.DateGroup {
	if loc == nil {
		loc = time.UTC
	}
	groups := []domain.DateGroup{}
	index := make(map[string]int)
	for _, p := range photos {
		key := p.Date.In(loc).Format(DayLayout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.DateGroup{Date: key, Photos: []domain.Photo{}})
		}
		groups[i].Photos = append(groups[i].Photos, p)
	}
	return groups
}

// GroupPhotosByTrip partitions photos into one bucket per trip that has
// photos (in trips order), followed by an empty bucket for every trip
// without photos, followed by a bucket with a nil Trip for photos that have
// no trip at all (only when there are any).
// Photos whose TripID matches none of trips appear in no bucket.
func GroupPhotosByTrip(photos []domain.Photo, trips []domain.Trip) []domain.TripGroup {
	byTrip := make(map[string][]domain.Photo)
	var unassigned []domain.Photo
	for _, p := range photos {
		if p.TripID == "" {
			unassigned = append(unassigned, p)
			continue
		}
		byTrip[p.TripID] = append(byTrip[p.TripID], p)
	}

	groups := []domain.TripGroup{}
	var empty []domain.TripGroup
	for i := range trips {
		trip := trips[i]
		if ps, ok := byTrip[trip.ID]; ok {
			groups = append(groups, domain.TripGroup{Trip: &trip, Photos: ps})
			continue
		}
		empty = append(empty, domain.TripGroup{Trip: &trip, Photos: []domain.Photo{}})
	}
	groups = append(groups, empty...)

	if len(unassigned) > 0 {
		groups = append(groups, domain.TripGroup{Photos: unassigned})
	}
	return groups
}

// FilterFavorites returns the favorite photos in their original order.
func FilterFavorites(photos []domain.Photo) []domain.Photo {
	out := []domain.Photo{}
	for _, p := range photos {
		if p.IsFavorite {
			out = append(out, p)
		}
	}
	return out
}
