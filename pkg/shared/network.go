package shared

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
)

const (
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet-beta"
)

// NormalizeNetwork maps a cluster name onto one of the supported networks.
// An empty value selects devnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	switch normalized {
	case "", NetworkDevnet:
		return NetworkDevnet, nil
	case NetworkTestnet:
		return NetworkTestnet, nil
	case NetworkMainnet, "mainnet":
		return NetworkMainnet, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// DefaultRPCEndpoint returns the public RPC endpoint for the network.
func DefaultRPCEndpoint(network string) (string, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return "", err
	}

	switch normalized {
	case NetworkMainnet:
		return rpc.MainNetBeta_RPC, nil
	case NetworkTestnet:
		return rpc.TestNet_RPC, nil
	default:
		return rpc.DevNet_RPC, nil
	}
}

// NewRPCClient creates a Solana RPC client for the endpoint, falling back to
// the network's public endpoint when endpoint is empty.
func NewRPCClient(network string, endpoint string) (*rpc.Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		fallback, err := DefaultRPCEndpoint(network)
		if err != nil {
			return nil, err
		}
		endpoint = fallback
	}
	return rpc.New(endpoint), nil
}

// ExplorerURL links an address on the Solana explorer for the network.
func ExplorerURL(network string, kind string, address string) string {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		normalized = NetworkDevnet
	}
	link := fmt.Sprintf("https://explorer.solana.com/%s/%s", kind, address)
	if normalized != NetworkMainnet {
		link += "?cluster=" + normalized
	}
	return link
}
