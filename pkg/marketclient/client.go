// Package marketclient reads the campus-market REST API and runs the
// browse pipeline over the fetched listings locally.
package marketclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/pipeline"
)

// Client talks to a campus-market server
type Client struct {
	baseURL string
	timeout time.Duration
	token   string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithToken sends a bearer token with every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status is the server's listing store state
type Status struct {
	Connected     bool `json:"connected"`
	UsingFallback bool `json:"usingFallback"`
}

func (c *Client) agent(a *fiber.Agent) *fiber.Agent {
	a.Timeout(c.timeout)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	return a
}

// do sends the request and returns the body of a 200 response
func (c *Client) do(a *fiber.Agent, path string) ([]byte, error) {
	code, body, errs := c.agent(a).Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("request %s failed: %w", path, errs[0])
	}
	if code != fiber.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &apiErr)
		return nil, fmt.Errorf("request %s failed with status %d: %s", path, code, apiErr.Message)
	}
	return body, nil
}

func (c *Client) get(path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.do(fiber.Get(target), path)
}

// Listings fetches the listings selected on the server. Empty arguments
// leave the server defaults in place.
func (c *Client) Listings(category, search, sort string, limit int) ([]Item, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if search != "" {
		query.Set("search", search)
	}
	if sort != "" {
		query.Set("sort", sort)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get("/products", query)
	if err != nil {
		return nil, err
	}
	return pipeline.Decode(body)
}

// Featured fetches the newest limit listings
func (c *Client) Featured(limit int) ([]Item, error) {
	return c.Listings("", "", "", limit)
}

// FetchCatalog fetches every listing once for local browsing
func (c *Client) FetchCatalog() (*Catalog, error) {
	items, err := c.Listings("", "", "", 0)
	if err != nil {
		return nil, err
	}
	return &Catalog{items: items, FetchedAt: time.Now()}, nil
}

// Status fetches the listing store state
func (c *Client) Status() (Status, error) {
	var status Status
	body, err := c.get("/db-status", nil)
	if err != nil {
		return status, err
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return status, fmt.Errorf("failed to decode status: %w", err)
	}
	return status, nil
}

// RecordView counts a view of listing id by viewer and returns the affected
// count. viewer is only sent when the client has no token.
func (c *Client) RecordView(id, viewer string) (int64, error) {
	path := "/products/" + url.PathEscape(id) + "/view"
	a := fiber.Post(c.baseURL + path)
	if c.token == "" && viewer != "" {
		a.JSON(fiber.Map{"userEmail": viewer})
	}

	body, err := c.do(a, path)
	if err != nil {
		return 0, err
	}
	var res struct {
		AffectedRows int64 `json:"affectedRows"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, fmt.Errorf("failed to decode view response: %w", err)
	}
	return res.AffectedRows, nil
}
