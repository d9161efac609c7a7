package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"triplog/internal/maps"
)

var errMissingInput = errors.New("missing input")

// PlaceHandler handles location autocomplete requests.
type PlaceHandler struct {
	places maps.PlaceAutocompleter
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(places maps.PlaceAutocompleter) *PlaceHandler {
	return &PlaceHandler{places: places}
}

// SuggestionResponse is one autocomplete candidate.
type SuggestionResponse struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// AutocompleteResponse is the HTTP response for autocomplete.
type AutocompleteResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// PlaceResponse is the HTTP response for a resolved place.
type PlaceResponse struct {
	PlaceID          string `json:"place_id"`
	FormattedAddress string `json:"formatted_address"`
}

// Autocomplete handles GET /v1/places/autocomplete?input=
func (h *PlaceHandler) Autocomplete(c *gin.Context) {
	suggestions, err := h.places.Autocomplete(c.Request.Context(), c.Query("input"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := AutocompleteResponse{Suggestions: make([]SuggestionResponse, 0, len(suggestions))}
	for _, s := range suggestions {
		response.Suggestions = append(response.Suggestions, SuggestionResponse{
			PlaceID:     s.PlaceID,
			Description: s.Description,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// GetPlace handles GET /v1/places/:id
func (h *PlaceHandler) GetPlace(c *gin.Context) {
	placeID := strings.TrimSpace(c.Param("id"))
	if placeID == "" {
		respondError(c, errMissingInput)
		return
	}

	address, err := h.places.FormattedAddress(c.Request.Context(), placeID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PlaceResponse{
		PlaceID:          placeID,
		FormattedAddress: address,
	})
}
