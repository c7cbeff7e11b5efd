// Package rates fetches USD-relative exchange rates from the external rate
// provider. The store consumes the table it returns; fetch failures leave
// the store's last-known table untouched.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

// ErrProviderFailure indicates the provider answered without a usable rate
// table.
var ErrProviderFailure = errors.New("rates: provider did not return a success result")

// Client fetches the latest USD-relative conversion rates.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a rate client for the given provider base URL and API
// key. Returns nil if the key is empty, which callers treat as rates being
// disabled.
func NewClient(baseURL, apiKey string) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

type latestResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// FetchLatest returns the current rate table relative to USD.
func (c *Client) FetchLatest(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s/latest/USD", c.baseURL, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rates: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates: fetch latest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rates: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("rates: read response: %w", err)
	}

	var parsed latestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("rates: parse response: %w", err)
	}
	if parsed.Result != "success" || len(parsed.ConversionRates) == 0 {
		return nil, ErrProviderFailure
	}

	return parsed.ConversionRates, nil
}
