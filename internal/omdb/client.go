package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// NotAvailable is OMDb's placeholder for fields it has no data for.
const NotAvailable = "N/A"

const DefaultBaseURL = "http://www.omdbapi.com/"

// Result is the subset of an OMDb title response the app consumes.
// Year and ImdbRating stay strings on the wire; OMDb sends "N/A" or
// odd literals like "2010–2014" and the caller decides what survives.
type Result struct {
	Response   string `json:"Response"`
	Error      string `json:"Error,omitempty"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	ImdbRating string `json:"imdbRating"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup searches OMDb by exact title. It returns (nil, nil) when the
// title is unknown to OMDb or when no API key is configured, so callers
// can treat both the same way.
func (c *Client) Lookup(ctx context.Context, title string) (*Result, error) {
	if c.apiKey == "" {
		log.Printf("[omdb] no API key configured, skipping lookup for %q", title)
		return nil, nil
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	params.Set("plot", "short")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if res.Response != "True" {
		log.Printf("[omdb] title not found: %q (%s)", title, res.Error)
		return nil, nil
	}

	return &res, nil
}
