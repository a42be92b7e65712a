// Package shared provides common utilities used across the Etched packages.
// It includes Solana network normalization, configuration loading from the
// environment, .env or a YAML file, key parsing and logger construction.
//
// # Environment Variables
//
// SOLANA_NETWORK selects devnet, testnet or mainnet-beta. RPC_ENDPOINT may
// be scoped per network with DEVNET_RPC_ENDPOINT, TESTNET_RPC_ENDPOINT or
// MAINNET_RPC_ENDPOINT. The mint endpoint also needs NFT_STORAGE_API_KEY,
// TREE_AUTHORITY_SECRET_KEY and TREE_PUBLIC_KEY.
package shared
