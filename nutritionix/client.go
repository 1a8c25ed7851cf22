// Package nutritionix is a client for the Nutritionix v2 track API.
package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/irsalhamdi/nutrition-cart/config"
	"github.com/irsalhamdi/nutrition-cart/core/food"
	"github.com/irsalhamdi/nutrition-cart/rate"
)

// ErrNotFound is returned when the provider has no food matching the request.
var ErrNotFound = food.ErrNotFound

// limiterKey is the single key all outbound calls share in the limiter.
const limiterKey = "nutritionix"

type Client struct {
	http *resty.Client
	lim  *rate.Limiter
}

func New(cfg config.Nutritionix, lim *rate.Limiter) *Client {
	c := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout).
		SetHeader("x-app-id", cfg.AppID).
		SetHeader("x-app-key", cfg.AppKey).
		SetHeader("Accept", "application/json")

	return &Client{http: c, lim: lim}
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if c.lim != nil {
		if err := c.lim.Wait(ctx, limiterKey); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}
	return c.http.R().SetContext(ctx), nil
}

// decode reads body keeping numbers as json.Number.
func decode(resp *resty.Response, val any) error {
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return ErrNotFound
	case resp.IsError():
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	if err := dec.Decode(val); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

type foods struct {
	Foods []map[string]any `json:"foods"`
}

func (f foods) first() (food.RawRecord, error) {
	if len(f.Foods) == 0 {
		return nil, ErrNotFound
	}
	return food.RawRecord(f.Foods[0]), nil
}

// Search runs an instant search and returns both common and branded hits.
func (c *Client) Search(ctx context.Context, query string) (food.SearchResult, error) {
	req, err := c.request(ctx)
	if err != nil {
		return food.SearchResult{}, err
	}

	resp, err := req.SetQueryParam("query", query).Get("/search/instant")
	if err != nil {
		return food.SearchResult{}, fmt.Errorf("searching %q: %w", query, err)
	}

	var out struct {
		Common  []map[string]any `json:"common"`
		Branded []map[string]any `json:"branded"`
	}
	if err := decode(resp, &out); err != nil {
		return food.SearchResult{}, fmt.Errorf("searching %q: %w", query, err)
	}

	res := food.SearchResult{
		Common:  make([]food.Hit, 0, len(out.Common)),
		Branded: make([]food.Hit, 0, len(out.Branded)),
	}
	for _, raw := range out.Common {
		res.Common = append(res.Common, food.NewHit(raw))
	}
	for _, raw := range out.Branded {
		res.Branded = append(res.Branded, food.NewHit(raw))
	}
	return res, nil
}

// Common fetches the full record of a common food by name.
func (c *Client) Common(ctx context.Context, name string) (food.RawRecord, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"query": name}).
		Post("/natural/nutrients")
	if err != nil {
		return nil, fmt.Errorf("fetching common food %q: %w", name, err)
	}

	var out foods
	if err := decode(resp, &out); err != nil {
		return nil, fmt.Errorf("fetching common food %q: %w", name, err)
	}
	return out.first()
}

// Branded fetches the full record of a branded food by its item id.
func (c *Client) Branded(ctx context.Context, id string) (food.RawRecord, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.SetQueryParam("nix_item_id", id).Get("/search/item")
	if err != nil {
		return nil, fmt.Errorf("fetching branded food[%s]: %w", id, err)
	}

	var out foods
	if err := decode(resp, &out); err != nil {
		return nil, fmt.Errorf("fetching branded food[%s]: %w", id, err)
	}
	return out.first()
}
