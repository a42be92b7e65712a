package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etched-id/etched-go/pkg/shared"
)

const RecordURL = "url"

type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client reads Solana Name Service data through the SNS SDK HTTP proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type proxyResponse struct {
	Status string          `json:"s"`
	Result json.RawMessage `json:"result"`
}

type recordResult struct {
	Deserialized string `json:"deserialized"`
}

// NewClient creates a new Client.
func NewClient(config ClientConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = shared.DefaultSNSProxyURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid SNS proxy URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid SNS proxy URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return nil, fmt.Errorf("invalid SNS proxy URL: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: httpClient,
	}, nil
}

// ReverseLookup returns the primary domain of address without the .sol
// suffix, or "" when the address has none.
func (c *Client) ReverseLookup(ctx context.Context, address string) (string, error) {
	var domain string
	found, err := c.getJSON(ctx, "/reverse-lookup/"+url.PathEscape(address), &domain)
	if err != nil || !found {
		return "", err
	}
	return strings.TrimSpace(domain), nil
}

// Resolve returns the owner of domain.
func (c *Client) Resolve(ctx context.Context, domain string) (string, error) {
	var owner string
	found, err := c.getJSON(ctx, "/resolve/"+url.PathEscape(domain), &owner)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrDomainNotFound, domain)
	}
	return strings.TrimSpace(owner), nil
}

// RecordV2 returns the deserialized content of a record on domain.
func (c *Client) RecordV2(ctx context.Context, domain string, record string) (string, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/record-v2/%s/%s", url.PathEscape(domain), url.PathEscape(record))
	found, err := c.getJSON(ctx, path, &raw)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s record on %s", ErrRecordNotFound, record, domain)
	}

	var result recordResult
	if err := json.Unmarshal(raw, &result); err == nil && result.Deserialized != "" {
		return result.Deserialized, nil
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil && plain != "" {
		return plain, nil
	}
	return "", fmt.Errorf("%w: %s record on %s", ErrRecordNotFound, record, domain)
}

func (c *Client) getJSON(ctx context.Context, path string, target any) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return false, fmt.Errorf("sns proxy request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read sns proxy response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return false, fmt.Errorf(
			"sns proxy request failed with status %d: %s",
			response.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	var envelope proxyResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false, fmt.Errorf("failed to decode sns proxy response: %w", err)
	}
	if envelope.Status != "ok" {
		return false, nil
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(envelope.Result, target); err != nil {
		return false, fmt.Errorf("failed to decode sns proxy result: %w", err)
	}
	return true, nil
}
