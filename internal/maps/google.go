package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"triplog/internal/config"
	"triplog/internal/observability"
)

// GoogleClient implements DistanceResolver and PlaceAutocompleter using the
// Google Maps Distance Matrix and Places web services.
type GoogleClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	language   string
	region     string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewGoogleClient creates a Google Maps client.
func NewGoogleClient(cfg config.MapsConfig, logger *slog.Logger, metrics *observability.Metrics) *GoogleClient {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &GoogleClient{
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		region:   cfg.Region,
		logger:   logger,
		metrics:  metrics,
	}
}

// Distance returns the driving distance between origin and destination in kilometers.
// Exactly one request is made per call.
func (c *GoogleClient) Distance(ctx context.Context, origin, destination string) (float64, error) {
	params := url.Values{
		"origins":      {origin},
		"destinations": {destination},
		"mode":         {"driving"},
		"units":        {"metric"},
	}

	var resp distanceMatrixResponse
	if err := c.getJSON(ctx, "distance", "/distancematrix/json", params, &resp); err != nil {
		return 0, err
	}

	switch resp.Status {
	case "OK":
	case "INVALID_REQUEST":
		return 0, fmt.Errorf("%w: %s", ErrAmbiguousLocation, providerMessage(resp.Status, resp.ErrorMessage))
	default:
		return 0, fmt.Errorf("%w: %s", ErrServiceUnavailable, providerMessage(resp.Status, resp.ErrorMessage))
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("%w: empty distance matrix", ErrNoRoute)
	}

	el := resp.Rows[0].Elements[0]
	switch el.Status {
	case "OK":
		km := float64(el.Distance.Value) / 1000
		c.logger.Debug("distance resolved",
			"origin", origin,
			"destination", destination,
			"km", km,
		)
		return km, nil
	case "NOT_FOUND":
		return 0, fmt.Errorf("%w: origin or destination could not be geocoded", ErrAmbiguousLocation)
	case "ZERO_RESULTS", "MAX_ROUTE_LENGTH_EXCEEDED":
		return 0, fmt.Errorf("%w: %s", ErrNoRoute, el.Status)
	default:
		return 0, fmt.Errorf("%w: element status %s", ErrServiceUnavailable, el.Status)
	}
}

// Autocomplete returns geocode predictions for input.
func (c *GoogleClient) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	if strings.TrimSpace(input) == "" {
		return []Suggestion{}, nil
	}

	params := url.Values{
		"input": {input},
		"types": {"geocode"},
	}

	var resp autocompleteResponse
	if err := c.getJSON(ctx, "autocomplete", "/place/autocomplete/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []Suggestion{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrServiceUnavailable, providerMessage(resp.Status, resp.ErrorMessage))
	}

	out := make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Suggestion{PlaceID: p.PlaceID, Description: p.Description})
	}
	return out, nil
}

// FormattedAddress looks up the formatted address of a place.
func (c *GoogleClient) FormattedAddress(ctx context.Context, placeID string) (string, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"formatted_address"},
	}

	var resp detailsResponse
	if err := c.getJSON(ctx, "details", "/place/details/json", params, &resp); err != nil {
		return "", err
	}

	switch resp.Status {
	case "OK":
	case "NOT_FOUND", "INVALID_REQUEST", "ZERO_RESULTS":
		return "", fmt.Errorf("%w: place %q: %s", ErrAmbiguousLocation, placeID, resp.Status)
	default:
		return "", fmt.Errorf("%w: %s", ErrServiceUnavailable, providerMessage(resp.Status, resp.ErrorMessage))
	}

	if resp.Result.FormattedAddress == "" {
		return "", fmt.Errorf("%w: place %q has no formatted address", ErrAmbiguousLocation, placeID)
	}
	return resp.Result.FormattedAddress, nil
}

func (c *GoogleClient) getJSON(ctx context.Context, method, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	if c.region != "" {
		params.Set("region", c.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("maps request failed", "method", method, "error", err)
		return fmt.Errorf("%w: %s request: %w", ErrServiceUnavailable, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: google maps API error: status %d: %s", ErrServiceUnavailable, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrServiceUnavailable, method, err)
	}
	return nil
}

func providerMessage(status, message string) string {
	if message == "" {
		return status
	}
	return status + ": " + message
}

// Google Maps API response types.

type distanceMatrixResponse struct {
	Status       string              `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Rows         []distanceMatrixRow `json:"rows"`
}

type distanceMatrixRow struct {
	Elements []distanceMatrixElement `json:"elements"`
}

type distanceMatrixElement struct {
	Status   string    `json:"status"`
	Distance textValue `json:"distance"`
	Duration textValue `json:"duration"`
}

type textValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

type autocompleteResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Predictions  []prediction `json:"predictions"`
}

type prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Result       struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"result"`
}
