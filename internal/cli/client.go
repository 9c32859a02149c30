package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/dishmatch/internal/models"
)

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a running dishmatch server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Semantic runs POST /semantic-search.
func (c *Client) Semantic(ctx context.Context, q models.SemanticQuery) ([]models.ScoredRestaurant, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	var out []models.ScoredRestaurant
	err = c.do(ctx, http.MethodPost, "/semantic-search", "application/json", bytes.NewReader(body), &out)
	return out, err
}

// Nearby runs GET /restaurants/nearby.
func (c *Client) Nearby(ctx context.Context, q models.NearbyQuery) ([]models.NearbyRestaurant, error) {
	var out []models.NearbyRestaurant
	err := c.do(ctx, http.MethodGet, "/restaurants/nearby?"+nearbyValues(q).Encode(), "", nil, &out)
	return out, err
}

// MatchCuisines runs GET /cuisines/match.
func (c *Client) MatchCuisines(ctx context.Context, term string, topK int) ([]models.CuisineMatch, error) {
	v := url.Values{"q": {term}}
	if topK > 0 {
		v.Set("top_k", strconv.Itoa(topK))
	}
	var out []models.CuisineMatch
	err := c.do(ctx, http.MethodGet, "/cuisines/match?"+v.Encode(), "", nil, &out)
	return out, err
}

// Status runs GET /status.
func (c *Client) Status(ctx context.Context) (models.Status, error) {
	var out models.Status
	err := c.do(ctx, http.MethodGet, "/status", "", nil, &out)
	return out, err
}

// ImageNearby uploads image to POST /image-search-nearby. A 404 carrying the tried
// cuisines is returned as a result with no restaurants.
func (c *Client) ImageNearby(ctx context.Context, filename string, image []byte, q models.NearbyQuery) (*models.ImageNearbyResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	for k, vs := range nearbyValues(q) {
		if err := mw.WriteField(k, vs[0]); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, "/image-search-nearby", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		result := &models.ImageNearbyResult{
			Dish:     resp.Header.Get("X-Recognized-Dish"),
			Cuisines: splitHeader(resp.Header.Get("X-Matched-Cuisines")),
		}
		if err := json.NewDecoder(resp.Body).Decode(&result.Restaurants); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return result, nil
	case http.StatusNotFound:
		var miss struct {
			Dish     string   `json:"dish"`
			Term     string   `json:"term"`
			Cuisines []string `json:"cuisines"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&miss); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return &models.ImageNearbyResult{
			Dish:        miss.Dish,
			Term:        miss.Term,
			Cuisines:    miss.Cuisines,
			Restaurants: []models.NearbyRestaurant{},
		}, nil
	default:
		return nil, apiError(resp)
	}
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	resp, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(b))
	if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func nearbyValues(q models.NearbyQuery) url.Values {
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	v.Set("lng", strconv.FormatFloat(q.Lng, 'f', -1, 64))
	v.Set("radius", strconv.FormatFloat(q.RadiusKm, 'f', -1, 64))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func splitHeader(h string) []string {
	if h == "" {
		return []string{}
	}
	parts := strings.Split(h, "; ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
