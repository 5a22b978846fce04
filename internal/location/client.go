package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/obs"
	"github.com/noah-isme/backend-pasar/internal/resilience"
)

// Coordinates is a WGS84 coordinate pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Feature is a single Mapbox geocoding feature. Only the fields the address
// validation needs are decoded.
type Feature struct {
	PlaceType  []string `json:"place_type"`
	Text       string   `json:"text"`
	Address    string   `json:"address"`
	Properties struct {
		ShortCode string `json:"short_code"`
	} `json:"properties"`
}

// API is the geocoding surface the order flow depends on.
type API interface {
	Geocode(ctx context.Context, point Coordinates) ([]Feature, error)
	// Distance returns the driving distance between two points in whole
	// kilometers.
	Distance(ctx context.Context, from, to Coordinates) (int, error)
}

// Client calls the Mapbox geocoding and directions APIs.
type Client struct {
	BaseURL     string
	AccessToken string
	HTTP        resilience.HTTPClient
}

var _ API = (*Client)(nil)

func (c *Client) Geocode(ctx context.Context, point Coordinates) ([]Feature, error) {
	path := fmt.Sprintf("/geocoding/v5/mapbox.places/%g,%g.json", point.Lng, point.Lat)
	status, raw, err := c.get(ctx, path)
	if err != nil {
		recordGeocodeCall("geocode", "error")
		return nil, err
	}
	if status < 200 || status >= 300 {
		recordGeocodeCall("geocode", "error")
		return nil, common.NewPlatformError(status, fmt.Sprintf("geocoding API request failed with status %d", status), nil)
	}
	var body struct {
		Features []Feature `json:"features"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		recordGeocodeCall("geocode", "error")
		return nil, common.NewPlatformError(0, "geocoding API returned malformed JSON", err)
	}
	recordGeocodeCall("geocode", "ok")
	return body.Features, nil
}

func (c *Client) Distance(ctx context.Context, from, to Coordinates) (int, error) {
	path := fmt.Sprintf("/directions/v5/mapbox/driving/%g,%g;%g,%g", from.Lng, from.Lat, to.Lng, to.Lat)
	status, raw, err := c.get(ctx, path)
	if err != nil {
		recordGeocodeCall("directions", "error")
		return 0, err
	}

	// Routing failures come back with a code in the body, sometimes on a
	// non-2xx status. Check the code before the status so the caller sees a
	// routing problem as invalid input rather than an upstream outage.
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Routes  []struct {
			Distance float64 `json:"distance"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		recordGeocodeCall("directions", "error")
		return 0, common.NewPlatformError(0, "directions API returned malformed JSON", err)
	}
	switch body.Code {
	case "InvalidInput", "NoRoute":
		recordGeocodeCall("directions", "error")
		message := body.Message
		if message == "" {
			message = "no route between the given coordinates"
		}
		return 0, common.NewValidationError(message, nil)
	}
	if status < 200 || status >= 300 {
		recordGeocodeCall("directions", "error")
		return 0, common.NewPlatformError(status, fmt.Sprintf("directions API request failed with status %d", status), nil)
	}
	if len(body.Routes) == 0 {
		recordGeocodeCall("directions", "error")
		return 0, common.NewValidationError("no route between the given coordinates", nil)
	}
	recordGeocodeCall("directions", "ok")
	meters := body.Routes[0].Distance
	return int(math.Round(meters / 1000)), nil
}

func recordGeocodeCall(kind, result string) {
	if obs.GeocodeCallTotal != nil {
		obs.GeocodeCallTotal.WithLabelValues(kind, result).Inc()
	}
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	target := strings.TrimRight(c.BaseURL, "/") + path
	target += "?" + url.Values{"access_token": {c.AccessToken}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return 0, nil, common.NewPlatformError(0, "geocoding API unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, common.NewPlatformError(0, "geocoding API read failed", err)
	}
	return resp.StatusCode, raw, nil
}
