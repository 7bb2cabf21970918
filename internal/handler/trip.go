package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/flyride/journal/internal/domain"
)

// tripRequest is the body of POST /trips and PUT /trips/{tripID}.
// Dates travel as "2006-01-02"; carrier rules are checked by the service.
type tripRequest struct {
	Type          string              `json:"type" validate:"required,oneof=flight bus"`
	Origin        string              `json:"origin" validate:"required"`
	Destination   string              `json:"destination" validate:"required"`
	Airline       string              `json:"airline"`
	FlightNumber  string              `json:"flightNumber"`
	BusCompany    string              `json:"busCompany"`
	BusNumber     string              `json:"busNumber"`
	DepartureDate openapi_types.Date  `json:"departureDate"`
	ReturnDate    *openapi_types.Date `json:"returnDate"`
	Notes         string              `json:"notes"`
}

type tripResponse struct {
	ID            string              `json:"id"`
	Type          domain.TripType     `json:"type"`
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	Airline       string              `json:"airline,omitempty"`
	FlightNumber  string              `json:"flightNumber,omitempty"`
	BusCompany    string              `json:"busCompany,omitempty"`
	BusNumber     string              `json:"busNumber,omitempty"`
	DepartureDate openapi_types.Date  `json:"departureDate"`
	ReturnDate    *openapi_types.Date `json:"returnDate,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	DisplayName   string              `json:"displayName"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	created, err := s.trips.Create(r.Context(), req.toTrip(""))
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips, latest departure first.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, dataResponse[[]tripResponse]{Data: data})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetByID(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}. Photos keep the trip name they
// were assigned with.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := decodeBody(r, &req); err != nil {
		writeRequestError(w, err)
		return
	}
	updated, err := s.trips.Update(r.Context(), req.toTrip(chi.URLParam(r, "tripID")))
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.Delete(r.Context(), chi.URLParam(r, "tripID")); err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func (req tripRequest) toTrip(id string) domain.Trip {
	t := domain.Trip{
		ID:            id,
		Type:          domain.TripType(req.Type),
		Origin:        req.Origin,
		Destination:   req.Destination,
		Airline:       req.Airline,
		FlightNumber:  req.FlightNumber,
		BusCompany:    req.BusCompany,
		BusNumber:     req.BusNumber,
		DepartureDate: req.DepartureDate.Time,
		Notes:         req.Notes,
	}
	if req.ReturnDate != nil {
		rd := req.ReturnDate.Time
		t.ReturnDate = &rd
	}
	return t
}

func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:            t.ID,
		Type:          t.Type,
		Origin:        t.Origin,
		Destination:   t.Destination,
		Airline:       t.Airline,
		FlightNumber:  t.FlightNumber,
		BusCompany:    t.BusCompany,
		BusNumber:     t.BusNumber,
		DepartureDate: openapi_types.Date{Time: t.DepartureDate},
		Notes:         t.Notes,
		DisplayName:   t.DisplayName(),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.ReturnDate != nil {
		rd := openapi_types.Date{Time: *t.ReturnDate}
		resp.ReturnDate = &rd
	}
	return resp
}
