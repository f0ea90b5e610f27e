// Package geo looks up the machine's approximate location once at startup.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"void-cli/internal/model"
)

const (
	DefaultEndpoint = "https://ipinfo.io/json"
	defaultTimeout  = 3 * time.Second
)

// Endpoint interprets a LOCATION_QUERY value: "1" or "true" select the default endpoint,
// an http(s) URL is used as is, anything else disables lookups.
func Endpoint(query string) (string, bool) {
	q := strings.TrimSpace(query)
	switch strings.ToLower(q) {
	case "1", "true", "yes", "on":
		return DefaultEndpoint, true
	}
	if strings.HasPrefix(q, "http://") || strings.HasPrefix(q, "https://") {
		return q, true
	}
	return "", false
}

type Client struct {
	HTTP     *http.Client
	Endpoint string
}

func NewClient(endpoint string) *Client {
	return &Client{HTTP: &http.Client{Timeout: defaultTimeout}, Endpoint: endpoint}
}

// ipinfo-style response; loc is "lat,lon".
type locationResponse struct {
	Loc string `json:"loc"`
}

// Locate fetches the endpoint and parses its "loc" field.
func (c *Client) Locate(ctx context.Context) (model.GPS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return model.GPS{}, fmt.Errorf("geo: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return model.GPS{}, fmt.Errorf("geo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.GPS{}, fmt.Errorf("geo: %s: %s", c.Endpoint, resp.Status)
	}
	var body locationResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return model.GPS{}, fmt.Errorf("geo: decode: %w", err)
	}
	return ParseLoc(body.Loc)
}

// ParseLoc parses "lat,lon".
func ParseLoc(s string) (model.GPS, error) {
	latS, lonS, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return model.GPS{}, errors.New("geo: missing loc")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil {
		return model.GPS{}, fmt.Errorf("geo: latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonS), 64)
	if err != nil {
		return model.GPS{}, fmt.Errorf("geo: longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return model.GPS{}, fmt.Errorf("geo: out of range: %s", s)
	}
	return model.GPS{Lat: lat, Lon: lon}, nil
}
