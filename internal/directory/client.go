package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stationpack/internal/services"
)

const searchEndpoint = "/json/stations/search"

// maxLogoBytes caps logo downloads; anything larger is not a station logo.
const maxLogoBytes = 16 << 20

// Station is one station object as returned by the directory service.
type Station struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	URLResolved string `json:"url_resolved"`
	Favicon     string `json:"favicon"`
	Tags        string `json:"tags"`
	Language    string `json:"language"`
	Country     string `json:"country"`
	State       string `json:"state"`
	Homepage    string `json:"homepage"`
	Bitrate     int    `json:"bitrate"`
	Codec       string `json:"codec"`
}

// StreamURL resolves the playable URL, preferring the raw url field.
func (s Station) StreamURL() string {
	if trimmed := strings.TrimSpace(s.URL); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(s.URLResolved)
}

// Mode selects the search filter applied to a query.
type Mode string

const (
	ModeAll      Mode = "all"
	ModeCountry  Mode = "country"
	ModeTag      Mode = "tag"
	ModeLanguage Mode = "language"
	ModeName     Mode = "name"
)

// Query describes one directory search, always ordered by popularity.
type Query struct {
	Mode  Mode
	Value string
	Limit int
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("hidebroken", "true")
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("order", "clickcount")
	v.Set("reverse", "true")
	switch q.Mode {
	case ModeCountry:
		v.Set("countrycode", q.Value)
	case ModeTag:
		v.Set("tag", q.Value)
	case ModeLanguage:
		v.Set("language", q.Value)
	case ModeName:
		v.Set("name", q.Value)
	}
	return v
}

// Client talks to the Radio Browser directory service through an ordered
// list of redundant mirrors.
type Client struct {
	servers    []string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a directory client. Servers are tried in order; the first
// successful response wins.
func New(servers []string, userAgent string, timeout time.Duration, opts ...Option) (*Client, error) {
	if len(servers) == 0 {
		return nil, errors.New("directory client requires at least one server")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		servers:    append([]string(nil), servers...),
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search fetches stations matching the query. Every server failing yields
// a services.ErrUpstream classified error and no stations.
func (c *Client) Search(ctx context.Context, query Query) ([]Station, error) {
	var lastErr error
	for _, server := range c.servers {
		stations, err := c.searchOne(ctx, server, query)
		if err == nil {
			return stations, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, services.Wrap(services.ErrUpstream, "fetch", "search", "all directory servers failed", lastErr)
}

func (c *Client) searchOne(ctx context.Context, server string, query Query) ([]Station, error) {
	endpoint := server + searchEndpoint + "?" + query.values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", server, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server %s returned status %d", server, resp.StatusCode)
	}

	var stations []Station
	if err := json.NewDecoder(resp.Body).Decode(&stations); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", server, err)
	}
	return stations, nil
}

// FetchLogo downloads raw logo bytes, returning the payload and the
// response content type for vector classification.
func (c *Client) FetchLogo(ctx context.Context, logoURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build logo request: %w", err)
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("logo fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read logo body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) decorate(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json, image/*;q=0.8, */*;q=0.5")
}
