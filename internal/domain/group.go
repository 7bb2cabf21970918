package domain

// DateGroup is one calendar-day bucket of photos.
// Date is the human-readable day, e.g. "Monday, January 1, 2024".
type DateGroup struct {
	Date   string  `json:"date"`
	Photos []Photo `json:"photos"`
}

// TripGroup is one trip bucket of photos.
// Trip is nil for the trailing bucket of photos without a trip.
type TripGroup struct {
	Trip   *Trip   `json:"trip"`
	Photos []Photo `json:"photos"`
}
