package txflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etched-id/etched-go/pkg/mint"
	"github.com/etched-id/etched-go/pkg/verify"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	CreatePath = "/api/create"
	VerifyPath = "/api/verify"
)

// APIError is a non-2xx answer from the builder service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("builder API failed with status %d: %s", e.Status, e.Message)
}

type APIFetcherConfig struct {
	BaseURL    string
	Path       string
	Body       any
	HTTPClient *http.Client
}

// APIFetcher posts a fixed body to the builder service and decodes the
// transaction it returns.
type APIFetcher struct {
	endpoint   string
	body       []byte
	httpClient *http.Client
}

func NewAPIFetcher(config APIFetcherConfig) (*APIFetcher, error) {
	base := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("invalid builder base URL %q", config.BaseURL)
	}
	body, err := json.Marshal(config.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &APIFetcher{
		endpoint:   base + "/" + strings.TrimLeft(config.Path, "/"),
		body:       body,
		httpClient: httpClient,
	}, nil
}

func NewMintFetcher(baseURL string, request mint.Request, httpClient *http.Client) (*APIFetcher, error) {
	return NewAPIFetcher(APIFetcherConfig{BaseURL: baseURL, Path: CreatePath, Body: request, HTTPClient: httpClient})
}

func NewVerifyFetcher(baseURL string, request verify.Request, httpClient *http.Client) (*APIFetcher, error) {
	return NewAPIFetcher(APIFetcherConfig{BaseURL: baseURL, Path: VerifyPath, Body: request, HTTPClient: httpClient})
}

func (f *APIFetcher) FetchTransaction(ctx context.Context) (*Prepared, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(f.body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := f.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(responseBody))
		if json.Unmarshal(responseBody, &envelope) == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return nil, &APIError{Status: response.StatusCode, Message: message}
	}

	var payload mint.Prepared
	if err := json.Unmarshal(responseBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode builder API response: %w", err)
	}
	if payload.Transaction == "" {
		return nil, ErrNoTransaction
	}
	return DecodePrepared(payload)
}

// DecodePrepared turns the wire form of a prepared transaction back into a
// signable transaction.
func DecodePrepared(payload mint.Prepared) (*Prepared, error) {
	transaction, err := DecodeTransaction(payload.Transaction)
	if err != nil {
		return nil, err
	}
	blockhash, err := solana.HashFromBase58(payload.Blockhash)
	if err != nil {
		return nil, fmt.Errorf("invalid blockhash %q: %w", payload.Blockhash, err)
	}
	return &Prepared{
		Transaction:          transaction,
		Blockhash:            blockhash,
		LastValidBlockHeight: payload.LastValidBlockHeight,
	}, nil
}

func DecodeTransaction(encoded string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("transaction is not valid base64: %w", err)
	}
	transaction, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return transaction, nil
}
