package shared

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ParsePrivateKey accepts a solana-keygen JSON byte array or a base58 string.
func ParsePrivateKey(raw string) (solana.PrivateKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	if strings.HasPrefix(candidate, "[") {
		var values []byte
		var ints []int
		if err := json.Unmarshal([]byte(candidate), &ints); err != nil {
			return nil, fmt.Errorf("failed to parse private key byte array: %w", err)
		}
		values = make([]byte, 0, len(ints))
		for _, value := range ints {
			if value < 0 || value > 255 {
				return nil, fmt.Errorf("private key byte %d out of range", value)
			}
			values = append(values, byte(value))
		}
		if len(values) != 64 {
			return nil, fmt.Errorf("private key must be 64 bytes, got %d", len(values))
		}
		return solana.PrivateKey(values), nil
	}

	key, err := solana.PrivateKeyFromBase58(candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key as base58: %w", err)
	}
	if len(key) != 64 {
		return nil, fmt.Errorf("private key must be 64 bytes, got %d", len(key))
	}
	return key, nil
}

// ParsePublicKey parses a base58 address.
func ParsePublicKey(raw string) (solana.PublicKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return solana.PublicKey{}, fmt.Errorf("public key cannot be empty")
	}
	key, err := solana.PublicKeyFromBase58(candidate)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid public key %q: %w", candidate, err)
	}
	return key, nil
}
