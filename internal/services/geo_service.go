// internal/services/geo_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/shackcart/backoffice/internal/config"
	"github.com/shackcart/backoffice/internal/models"
)

// GeoLocator resolves a client IP to approximate coordinates.
type GeoLocator interface {
	ReverseLookup(ctx context.Context, ip string) (*models.Coordinates, error)
}

// IPWhoisClient queries the ipwho.is JSON API. Lookups are rate limited
// client-side so a burst of orders cannot exhaust the free tier.
type IPWhoisClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewIPWhoisClient(cfg *config.GeoConfig) *IPWhoisClient {
	return &IPWhoisClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

type ipWhoisResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c *IPWhoisClient) ReverseLookup(ctx context.Context, ip string) (*models.Coordinates, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &CollaboratorError{Collaborator: "geolocation", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, ip), nil)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "geolocation", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "geolocation", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &CollaboratorError{
			Collaborator: "geolocation",
			Err:          fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var body ipWhoisResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &CollaboratorError{Collaborator: "geolocation", Err: err}
	}
	if !body.Success {
		return nil, &CollaboratorError{
			Collaborator: "geolocation",
			Err:          fmt.Errorf("lookup rejected: %s", body.Message),
		}
	}

	return &models.Coordinates{
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	}, nil
}

// EnrichmentResolver fills in the location fields of a billing snapshot after
// an order commits. It runs outside any store transaction.
type EnrichmentResolver struct {
	geo GeoLocator
}

func NewEnrichmentResolver(geo GeoLocator) *EnrichmentResolver {
	return &EnrichmentResolver{geo: geo}
}

// Enrich stamps the observed client IP onto the snapshot and, when no
// coordinates were supplied by the client, performs at most one reverse
// lookup. Lookup failures are logged and swallowed; the snapshot keeps the
// IP either way. Returns true when the snapshot changed.
func (r *EnrichmentResolver) Enrich(ctx context.Context, billing *models.BillingData, clientIP string) bool {
	changed := false
	if clientIP != "" && billing.IP != clientIP {
		billing.IP = clientIP
		changed = true
	}

	if billing.Coords != nil {
		return changed
	}
	if clientIP == "" {
		return changed
	}

	coords, err := r.geo.ReverseLookup(ctx, clientIP)
	if err != nil {
		logrus.WithError(err).WithField("ip", clientIP).Warn("Geolocation lookup failed")
		return changed
	}

	billing.Coords = coords
	return true
}
