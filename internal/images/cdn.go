package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shop-monitor/pkg/models"
)

// DefaultCDNEndpoint is the public upload endpoint of the image CDN.
const DefaultCDNEndpoint = "https://cdn.hackclub.com/api/v3/new"

// CDNClient re-hosts images on the CDN. The request is a JSON array of
// source URLs; the response maps each one, by index, to a durable URL.
type CDNClient struct {
	Endpoint string
	Token    string

	httpClient *http.Client
}

func NewCDNClient() *CDNClient {
	return &CDNClient{
		Endpoint:   DefaultCDNEndpoint,
		Token:      "beans", // the CDN accepts any bearer token
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type cdnResponse struct {
	Files []struct {
		DeployedURL string `json:"deployedUrl"`
	} `json:"files"`
}

// Upload submits the URLs in one call and returns the deployed URLs in the
// same order.
func (c *CDNClient) Upload(ctx context.Context, urls []string) ([]string, error) {
	payload, err := json.Marshal(urls)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.TransportError{Op: "cdn upload", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{Op: "cdn upload", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.TransportError{Op: "cdn upload", Status: resp.StatusCode, Body: string(body)}
	}

	var parsed cdnResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("cdn upload: parse response: %w", err)
	}
	if len(parsed.Files) != len(urls) {
		return nil, fmt.Errorf("cdn upload: submitted %d urls, response has %d files", len(urls), len(parsed.Files))
	}

	deployed := make([]string, len(parsed.Files))
	for i, file := range parsed.Files {
		deployed[i] = file.DeployedURL
	}
	return deployed, nil
}
