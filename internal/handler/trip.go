package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"triplog/internal/domain"
	"triplog/internal/service"
)

var errInvalidRequestBody = errors.New("invalid request body")

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for recording a trip.
type CreateTripRequest struct {
	Date          string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	StartLocation string `json:"start_location"`
	EndLocation   string `json:"end_location"`
	Comment       string `json:"comment"`
}

// TripResponse is the HTTP response for a single trip.
type TripResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	StartLocation string  `json:"start_location"`
	EndLocation   string  `json:"end_location"`
	DistanceKm    float64 `json:"distance_km"`
	Comment       string  `json:"comment"`
}

// TripListResponse is the HTTP response for listing trips.
type TripListResponse struct {
	Trips   []TripResponse `json:"trips"`
	TotalKm float64        `json:"total_km"`
	Count   int            `json:"count"`
}

// SummaryResponse is the HTTP response for the trip total.
type SummaryResponse struct {
	TotalKm float64 `json:"total_km"`
	Count   int     `json:"count"`
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errInvalidRequestBody)
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		Date:          req.Date,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		Comment:       req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(*trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	trips := h.tripService.ListTrips()

	response := TripListResponse{
		Trips:   make([]TripResponse, 0, len(trips)),
		TotalKm: domain.TotalDistance(trips),
		Count:   len(trips),
	}
	for _, t := range trips {
		response.Trips = append(response.Trips, toTripResponse(t))
	}

	respondJSON(c, http.StatusOK, response)
}

// DeleteTrip handles DELETE /v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	if err := h.tripService.DeleteTrip(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTotal handles GET /v1/trips/total
func (h *TripHandler) GetTotal(c *gin.Context) {
	summary := h.tripService.Summary()

	respondJSON(c, http.StatusOK, SummaryResponse{
		TotalKm: summary.TotalKm,
		Count:   summary.Count,
	})
}

// ExportCSV handles GET /v1/trips/export.csv
func (h *TripHandler) ExportCSV(c *gin.Context) {
	sendExport(c, h.tripService.ExportCSV())
}

// ExportPDF handles GET /v1/trips/export.pdf
func (h *TripHandler) ExportPDF(c *gin.Context) {
	export, err := h.tripService.ExportPDF()
	if err != nil {
		respondError(c, err)
		return
	}

	sendExport(c, export)
}

func sendExport(c *gin.Context, export service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Body)
}

func toTripResponse(t domain.Trip) TripResponse {
	return TripResponse{
		ID:            t.ID,
		Date:          t.Date,
		StartLocation: t.StartLocation,
		EndLocation:   t.EndLocation,
		DistanceKm:    t.Distance,
		Comment:       t.Comment,
	}
}
