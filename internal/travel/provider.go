package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"pantrypilot/internal/models"
)

// Provider is an external routing/weather source. It may be slow or
// unavailable; the estimator handles both.
type Provider interface {
	Route(ctx context.Context, origin, dest models.Coordinates, mode models.TravelMode) (*models.RouteEstimate, error)
	Forecast(ctx context.Context, location models.Coordinates, day time.Time) (*models.Forecast, error)
}

// HTTPProvider talks to a routing/weather service over HTTP with a bounded
// timeout. Any failure surfaces as ExternalServiceError for the estimator to
// convert into a static fallback.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider for the service at baseURL. A zero
// timeout defaults to three seconds; external calls must never hang a
// request cycle.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Route fetches a route estimate from the external service.
func (p *HTTPProvider) Route(ctx context.Context, origin, dest models.Coordinates, mode models.TravelMode) (*models.RouteEstimate, error) {
	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	q.Set("destination", fmt.Sprintf("%f,%f", dest.Lat, dest.Lng))
	q.Set("mode", string(mode))

	var estimate models.RouteEstimate
	if err := p.get(ctx, "routing", "/route", q, &estimate); err != nil {
		return nil, err
	}
	estimate.Mode = mode
	return &estimate, nil
}

// Forecast fetches the day's weather for a location.
func (p *HTTPProvider) Forecast(ctx context.Context, location models.Coordinates, day time.Time) (*models.Forecast, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", location.Lat, location.Lng))
	q.Set("day", day.Format("2006-01-02"))

	var forecast models.Forecast
	if err := p.get(ctx, "weather", "/forecast", q, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

func (p *HTTPProvider) get(ctx context.Context, service, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return models.NewExternalServiceError(service, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return models.NewExternalServiceError(service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.NewExternalServiceError(service, fmt.Errorf("status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.NewExternalServiceError(service, err)
	}
	return nil
}
