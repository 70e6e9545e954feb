package geoloc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/onecho-dev/onecho/internal/model"
)

// DefaultBaseURL is the free ip-api.com JSON endpoint.
const DefaultBaseURL = "http://ip-api.com/json"

// fallback is used when the lookup fails or the address is private.
var fallback = model.Geolocation{
	Country:     "in",
	CountryCode: model.CountryCode("in"),
	Latitude:    19.0760,
	Longitude:   72.8777,
}

// Client resolves client IPs to coarse geolocation. Lookups never
// fail: on any error the fallback location is returned, so a geo
// provider outage can't block logins.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a geolocation client against ip-api.com.
func New() *Client {
	return NewWithBaseURL(DefaultBaseURL)
}

// NewWithBaseURL creates a client against a custom endpoint.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 3 * time.Second},
	}
}

type apiResponse struct {
	Status      string  `json:"status"`
	CountryCode string  `json:"countryCode"`
	Lat         float32 `json:"lat"`
	Lon         float32 `json:"lon"`
}

// Resolve looks ip up. Private and loopback addresses skip the
// network round trip entirely.
func (c *Client) Resolve(ctx context.Context, ip string) model.Geolocation {
	if isPrivate(ip) {
		return fallback
	}

	loc, err := c.lookup(ctx, ip)
	if err != nil {
		slog.Warn("geolocation lookup failed", "ip", ip, "err", err)
		return fallback
	}
	return loc
}

func (c *Client) lookup(ctx context.Context, ip string) (model.Geolocation, error) {
	url := fmt.Sprintf("%s/%s?fields=status,countryCode,lat,lon", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Geolocation{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Geolocation{}, fmt.Errorf("querying %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Geolocation{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Geolocation{}, fmt.Errorf("decoding response: %w", err)
	}
	if body.Status != "success" {
		return model.Geolocation{}, fmt.Errorf("lookup status %q", body.Status)
	}

	country := strings.ToLower(body.CountryCode)
	return model.Geolocation{
		Country:     country,
		CountryCode: model.CountryCode(country),
		Latitude:    body.Lat,
		Longitude:   body.Lon,
	}, nil
}

// isPrivate reports whether ip is unparsable, loopback or RFC 1918.
func isPrivate(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified()
}
