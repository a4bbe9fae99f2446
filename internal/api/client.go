// Package api talks to the marketplace backend: login, vehicle listing, and
// the multipart create/update endpoints the submission pipeline posts to.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trustedvehicles/vinspect/internal/logger"
)

var (
	// ErrUnauthorized covers rejected credentials and expired tokens.
	ErrUnauthorized = fmt.Errorf("unauthorized")
	// ErrNotFound is returned when a vehicle id does not exist.
	ErrNotFound = fmt.Errorf("vehicle not found")
)

// TokenProvider supplies the bearer token for authenticated calls.
type TokenProvider interface {
	Token() (string, error)
}

// Client is the marketplace API client.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

// NewClient builds a client for baseURL. tokens may be nil for a client
// that only logs in.
func NewClient(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Minute},
		tokens:  tokens,
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return out.Token, nil
}

// ListVehicles fetches the vehicles visible to the inspector.
func (c *Client) ListVehicles(ctx context.Context) ([]ServerRecord, error) {
	resp, err := c.authedRequest(ctx, http.MethodGet, "/api/marketplace/vehicles", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return decodeRecordList(resp.Body)
}

// GetVehicle fetches one vehicle by id.
func (c *Client) GetVehicle(ctx context.Context, id string) (ServerRecord, error) {
	resp, err := c.authedRequest(ctx, http.MethodGet, "/api/marketplace/vehicles/"+id, nil, "")
	if err != nil {
		return ServerRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ServerRecord{}, ErrNotFound
	}
	if err := checkStatus(resp); err != nil {
		return ServerRecord{}, err
	}
	return decodeRecord(resp.Body)
}

// Upload is a prepared multipart request body.
type Upload struct {
	ContentType string
	Body        io.Reader
	Size        int64
}

// CreateVehicle posts a new report. progress, if non-nil, receives upload
// percentages from 0 to 100 as the body streams out.
func (c *Client) CreateVehicle(ctx context.Context, up Upload, progress func(int)) (ServerRecord, error) {
	return c.upload(ctx, http.MethodPost, "/api/marketplace/vehicles", up, progress)
}

// UpdateVehicle patches an existing report.
func (c *Client) UpdateVehicle(ctx context.Context, id string, up Upload, progress func(int)) (ServerRecord, error) {
	return c.upload(ctx, http.MethodPatch, "/api/marketplace/vehicles/"+id, up, progress)
}

func (c *Client) upload(ctx context.Context, method, path string, up Upload, progress func(int)) (ServerRecord, error) {
	body := up.Body
	var counter *countingReader
	if progress != nil {
		counter = newCountingReader(up.Body, up.Size, progress)
		body = counter
	}
	resp, err := c.authedRequest(ctx, method, path, body, up.ContentType)
	if err != nil {
		return ServerRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ServerRecord{}, ErrNotFound
	}
	if err := checkStatus(resp); err != nil {
		return ServerRecord{}, err
	}
	if counter != nil {
		counter.finish()
	}
	return decodeRecord(resp.Body)
}

func (c *Client) authedRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if c.tokens == nil {
		return nil, fmt.Errorf("client has no token source")
	}
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	logger.Debug("%s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// MediaURL resolves a media reference from the server against the API base.
// Absolute URLs pass through untouched.
func (c *Client) MediaURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return statusError(resp)
	}
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return fmt.Errorf("server returned %s: %s", resp.Status, msg)
}
