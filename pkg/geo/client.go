package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultEndpoint is the Google geolocation API.
const DefaultEndpoint = "https://www.googleapis.com/geolocation/v1/geolocate"

// ClientConfig configures the HTTP resolver.
type ClientConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client resolves scans through a geolocation HTTP API that speaks the
// Google request format.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a resolver. An empty endpoint means DefaultEndpoint.
func NewClient(cfg ClientConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type wifiAccessPoint struct {
	MACAddress     string `json:"macAddress"`
	SSID           string `json:"ssid,omitempty"`
	SignalStrength int    `json:"signalStrength"`
}

type geolocateRequest struct {
	ConsiderIP       bool              `json:"considerIp"`
	WifiAccessPoints []wifiAccessPoint `json:"wifiAccessPoints"`
}

type geolocateResponse struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
	Error    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Resolve posts the scan and returns the reported position.
func (c *Client) Resolve(ctx context.Context, aps []AccessPoint) (Location, error) {
	if len(aps) < MinAccessPoints {
		return Location{}, fmt.Errorf("geolocate: %w: need %d access points, have %d",
			ErrInsufficientData, MinAccessPoints, len(aps))
	}

	reqBody := geolocateRequest{}
	for _, ap := range aps {
		reqBody.WifiAccessPoints = append(reqBody.WifiAccessPoints, wifiAccessPoint{
			MACAddress:     ap.BSSID,
			SSID:           ap.SSID,
			SignalStrength: ap.Level,
		})
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return Location{}, fmt.Errorf("geolocate: encode request: %w", err)
	}

	target := c.endpoint
	if c.apiKey != "" {
		u, err := url.Parse(c.endpoint)
		if err != nil {
			return Location{}, fmt.Errorf("geolocate: invalid endpoint %q: %w", c.endpoint, err)
		}
		q := u.Query()
		q.Set("key", c.apiKey)
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return Location{}, fmt.Errorf("geolocate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geolocate: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return Location{}, fmt.Errorf("geolocate: read body: %w", err)
	}

	var out geolocateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return Location{}, fmt.Errorf("geolocate: http status %d: decode response: %w", resp.StatusCode, err)
	}
	if out.Error != nil {
		return Location{}, fmt.Errorf("geolocate: api error %d: %s", out.Error.Code, out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geolocate: http status %d", resp.StatusCode)
	}
	return Location{Lat: out.Location.Lat, Lng: out.Location.Lng, Accuracy: out.Accuracy}, nil
}
