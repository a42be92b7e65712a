package offchain

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

const maxBodyBytes = 4 << 20

// Metadata is the off-chain JSON document referenced by an asset's json_uri.
type Metadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol,omitempty"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ExternalURL string `json:"external_url,omitempty"`
}

type Config struct {
	HTTPClient *http.Client
}

type Client struct {
	httpClient *http.Client
}

// NewClient creates a new Client.
func NewClient(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{httpClient: httpClient}
}

// FetchMetadata downloads and decodes the JSON document at uri.
func (c *Client) FetchMetadata(ctx context.Context, uri string) (Metadata, error) {
	var metadata Metadata
	if err := c.FetchJSON(ctx, uri, &metadata); err != nil {
		return Metadata{}, err
	}
	return metadata, nil
}

// FetchJSON downloads uri and decodes it into target. Brotli and gzip
// encoded bodies are decompressed.
func (c *Client) FetchJSON(ctx context.Context, uri string, target any) error {
	parsed, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return fmt.Errorf("invalid metadata URI: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid metadata URI %q: scheme must be http or https", uri)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Encoding", "br, gzip")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("metadata request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := readBody(response)
	if err != nil {
		return err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf(
			"metadata request failed with status %d: %s",
			response.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode metadata JSON: %w", err)
	}
	return nil
}

func readBody(response *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata response: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(response.Header.Get("Content-Encoding"))) {
	case "br":
		decoded, err := io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(raw)), maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress brotli metadata: %w", err)
		}
		return decoded, nil
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip metadata: %w", err)
		}
		defer reader.Close()
		decoded, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip metadata: %w", err)
		}
		return decoded, nil
	default:
		return raw, nil
	}
}
