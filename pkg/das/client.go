package das

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 1000
)

type Config struct {
	Network    string
	Endpoint   string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
}

// Client talks to a Digital Asset Standard indexer over JSON-RPC.
type Client struct {
	endpoint   string
	httpClient *http.Client
	apiKey     string
	headers    map[string]string
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	endpoint := strings.TrimSpace(config.Endpoint)
	if endpoint == "" {
		fallback, err := shared.DefaultRPCEndpoint(config.Network)
		if err != nil {
			return nil, err
		}
		endpoint = fallback
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid DAS endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid DAS endpoint: scheme must be http or https")
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return nil, fmt.Errorf("invalid DAS endpoint: host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	return &Client{
		endpoint:   parsed.String(),
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(config.APIKey),
		headers:    headers,
	}, nil
}

// Endpoint returns the JSON-RPC endpoint in use.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// GetAsset returns the indexed record for id. An indexer error envelope is
// returned as *RPCError.
func (c *Client) GetAsset(ctx context.Context, id string) (*Asset, error) {
	normalized := strings.TrimSpace(id)
	if normalized == "" {
		return nil, fmt.Errorf("asset ID is required")
	}

	var asset Asset
	if err := c.call(ctx, "getAsset", map[string]any{"id": normalized}, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAssetsByCreator returns one page of assets listing creator.
func (c *Client) GetAssetsByCreator(ctx context.Context, query AssetsByCreatorQuery) (AssetList, error) {
	var list AssetList
	creator := strings.TrimSpace(query.CreatorAddress)
	if creator == "" {
		return list, fmt.Errorf("creator address is required")
	}
	page := query.Page
	if page <= 0 {
		page = defaultPage
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	params := map[string]any{
		"creatorAddress": creator,
		"onlyVerified":   query.OnlyVerified,
		"page":           page,
		"limit":          limit,
	}
	if err := c.call(ctx, "getAssetsByCreator", params, &list); err != nil {
		return AssetList{}, err
	}
	return list, nil
}

// GetAssetProof returns the merkle proof of a compressed asset.
func (c *Client) GetAssetProof(ctx context.Context, id string) (AssetProof, error) {
	var proof AssetProof
	normalized := strings.TrimSpace(id)
	if normalized == "" {
		return proof, fmt.Errorf("asset ID is required")
	}
	if err := c.call(ctx, "getAssetProof", map[string]any{"id": normalized}, &proof); err != nil {
		return AssetProof{}, err
	}
	return proof, nil
}

func (c *Client) call(ctx context.Context, method string, params any, target any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("das request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read das response: %w", err)
	}

	var envelope rpcResponse
	decodeErr := json.Unmarshal(body, &envelope)
	if decodeErr == nil && envelope.Error != nil {
		return envelope.Error
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf(
			"das request failed with status %d: %s",
			response.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode das response: %w", decodeErr)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return &RPCError{Code: CodeNotFound, Message: "empty result"}
	}

	if err := json.Unmarshal(envelope.Result, target); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
