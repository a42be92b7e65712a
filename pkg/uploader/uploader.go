package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/ipfs/go-cid"
	"go.uber.org/zap"
)

// Uploader stores a JSON document and returns the URI it can be fetched from.
type Uploader interface {
	UploadJSON(ctx context.Context, document any) (string, error)
}

// Error is a non-successful answer from the storage API.
type Error struct {
	Status  int
	Name    string
	Message string
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("nft.storage upload failed with status %d: %s: %s", e.Status, e.Name, e.Message)
	}
	return fmt.Sprintf("nft.storage upload failed with status %d: %s", e.Status, e.Message)
}

type Config struct {
	APIKey     string
	Endpoint   string
	Gateway    string
	HTTPClient *http.Client
	// MaxAttempts bounds retries of transient failures.
	MaxAttempts int
	Interval    time.Duration
	Logger      *zap.Logger
}

// NFTStorage uploads documents to nft.storage.
type NFTStorage struct {
	apiKey      string
	endpoint    string
	gateway     string
	httpClient  *http.Client
	maxAttempts int
	interval    time.Duration
	logger      *zap.Logger
}

type uploadResponse struct {
	OK    bool `json:"ok"`
	Value struct {
		CID string `json:"cid"`
	} `json:"value"`
	Error *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewNFTStorage creates a new NFTStorage uploader.
func NewNFTStorage(config Config) (*NFTStorage, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	endpoint, err := normalizeBaseURL(config.Endpoint, shared.DefaultNFTStorageEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid nft.storage endpoint: %w", err)
	}
	gateway, err := normalizeBaseURL(config.Gateway, shared.DefaultNFTStorageGateway)
	if err != nil {
		return nil, fmt.Errorf("invalid nft.storage gateway: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	maxAttempts := config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	interval := config.Interval
	if interval <= 0 {
		interval = time.Second
	}

	return &NFTStorage{
		apiKey:      apiKey,
		endpoint:    endpoint,
		gateway:     gateway,
		httpClient:  httpClient,
		maxAttempts: maxAttempts,
		interval:    interval,
		logger:      shared.LoggerOrNop(config.Logger),
	}, nil
}

// UploadJSON stores document and returns its gateway URI.
func (s *NFTStorage) UploadJSON(ctx context.Context, document any) (string, error) {
	payload, err := json.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		contentID, err := s.upload(ctx, payload)
		if err == nil {
			return s.gateway + "/ipfs/" + contentID.String(), nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == s.maxAttempts-1 {
			break
		}
		s.logger.Warn("retrying nft.storage upload", zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.interval):
		}
	}
	return "", lastErr
}

func (s *NFTStorage) upload(ctx context.Context, payload []byte) (cid.Cid, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/upload", bytes.NewReader(payload))
	if err != nil {
		return cid.Undef, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return cid.Undef, fmt.Errorf("nft.storage request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return cid.Undef, fmt.Errorf("failed to read nft.storage response: %w", err)
	}

	var decoded uploadResponse
	decodeErr := json.Unmarshal(body, &decoded)
	if response.StatusCode < 200 || response.StatusCode >= 300 || (decodeErr == nil && !decoded.OK) {
		uploadErr := &Error{Status: response.StatusCode, Message: strings.TrimSpace(string(body))}
		if decodeErr == nil && decoded.Error != nil {
			uploadErr.Name = decoded.Error.Name
			uploadErr.Message = decoded.Error.Message
		}
		return cid.Undef, uploadErr
	}
	if decodeErr != nil {
		return cid.Undef, fmt.Errorf("failed to decode nft.storage response: %w", decodeErr)
	}

	contentID, err := cid.Decode(decoded.Value.CID)
	if err != nil {
		return cid.Undef, fmt.Errorf("nft.storage returned invalid CID %q: %w", decoded.Value.CID, err)
	}
	return contentID, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var uploadErr *Error
	if errors.As(err, &uploadErr) {
		return uploadErr.Status == http.StatusTooManyRequests || uploadErr.Status >= 500
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "connection refused")
}

func normalizeBaseURL(raw string, fallback string) (string, error) {
	value := strings.TrimRight(strings.TrimSpace(raw), "/")
	if value == "" {
		value = fallback
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("scheme must be http or https")
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", fmt.Errorf("host is required")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}
