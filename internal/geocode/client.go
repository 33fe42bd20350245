package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"backend-howmanybeds/internal/hospital"
)

// Candidate is one place suggestion for an address query.
type Candidate struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// Client talks to the upstream place-lookup service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns place candidates for a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	var candidates []Candidate
	err := c.getJSON(ctx, "/search?q="+url.QueryEscape(query), &candidates)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []Candidate{}
	}
	return candidates, nil
}

// Resolve turns a place id into a full location. A lookup failure yields a
// nil location, not an error; callers treat the place as unresolvable.
func (c *Client) Resolve(ctx context.Context, placeID string) *hospital.Location {
	var loc hospital.Location
	err := c.getJSON(ctx, "/details?placeId="+url.QueryEscape(placeID), &loc)
	if err != nil {
		log.Printf("geocode: resolve %s: %v", placeID, err)
		return nil
	}
	return &loc
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
