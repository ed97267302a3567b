// Package geoip resolves a best-effort geographic location for a client IP.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vheckthor/bank-api/internal/domain"
)

const defaultTimeout = 2 * time.Second

// Resolver queries an external geolocation API.
//
// Resolution is best-effort: every failure path falls back to
// domain.LocationUnknown and never returns an error.
type Resolver struct {
	url     string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

// New returns a Resolver for the given API endpoint.
//
// An empty apiKey disables lookups entirely.
func New(url, apiKey string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Resolver{
		url:     url,
		apiKey:  apiKey,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type lookupResponse struct {
	Location struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
}

// Resolve returns a human readable location for the given IP address.
func (r *Resolver) Resolve(ctx context.Context, ip string) string {
	l := zerolog.Ctx(ctx)

	if r.apiKey == "" || ip == "" {
		return domain.LocationUnknown
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	url := fmt.Sprintf("%s?apiKey=%s&ipAddress=%s", r.url, r.apiKey, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		l.Warn().Err(err).Send()
		return domain.LocationUnknown
	}

	res, err := r.client.Do(req)
	if err != nil {
		l.Warn().Err(err).Send()
		return domain.LocationUnknown
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		l.Warn().Int("status_code", res.StatusCode).Msg("geo lookup failed")
		return domain.LocationUnknown
	}

	var lookup lookupResponse
	if err := json.NewDecoder(res.Body).Decode(&lookup); err != nil {
		l.Warn().Err(err).Send()
		return domain.LocationUnknown
	}

	if lookup.Location.Country == "" {
		return domain.LocationUnknown
	}

	if lookup.Location.City == "" {
		return lookup.Location.Country
	}

	return fmt.Sprintf("%s, %s", lookup.Location.City, lookup.Location.Country)
}
