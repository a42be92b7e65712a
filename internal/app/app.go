// Package app assembles the Etched components from a shared.Config. Both
// binaries build on it.
package app

import (
	"fmt"
	"net/url"

	"github.com/etched-id/etched-go/pkg/assets"
	"github.com/etched-id/etched-go/pkg/das"
	"github.com/etched-id/etched-go/pkg/mint"
	"github.com/etched-id/etched-go/pkg/offchain"
	"github.com/etched-id/etched-go/pkg/route"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/etched-id/etched-go/pkg/sns"
	"github.com/etched-id/etched-go/pkg/uploader"
	"github.com/etched-id/etched-go/pkg/verify"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Components holds one long-lived instance of every collaborator. Mint is
// nil when the configuration carries no tree authority.
type Components struct {
	Config     shared.Config
	RPC        *rpc.Client
	Indexer    *das.Client
	Assets     *assets.Fetcher
	Names      *sns.Resolver
	Routes     *route.Resolver
	Verify     *verify.Builder
	Mint       *mint.Builder
	MerkleTree solana.PublicKey
}

func Build(config shared.Config, logger *zap.Logger) (*Components, error) {
	logger = shared.LoggerOrNop(logger)

	rpcClient, err := shared.NewRPCClient(config.Network, config.RPCEndpoint)
	if err != nil {
		return nil, err
	}
	indexer, err := das.NewClient(das.Config{Network: config.Network, Endpoint: config.DASEndpoint})
	if err != nil {
		return nil, err
	}
	fetcher, err := assets.NewFetcher(assets.Config{
		Indexer:  indexer,
		Metadata: offchain.NewClient(offchain.Config{}),
		Logger:   logger.Named("assets"),
	})
	if err != nil {
		return nil, err
	}

	registry, err := sns.NewClient(sns.ClientConfig{BaseURL: config.SNSProxyURL})
	if err != nil {
		return nil, err
	}
	siteHost, err := hostOf(config.SiteURL)
	if err != nil {
		return nil, err
	}
	names, err := sns.NewResolver(sns.ResolverConfig{
		Registry: registry,
		SiteHost: siteHost,
		Logger:   logger.Named("sns"),
	})
	if err != nil {
		return nil, err
	}

	routes, err := route.NewResolver(route.Config{Assets: fetcher, Names: names, Logger: logger.Named("route")})
	if err != nil {
		return nil, err
	}
	verifier, err := verify.NewBuilder(verify.Config{
		Assets:      indexer,
		Blockhashes: rpcClient,
		Logger:      logger.Named("verify"),
	})
	if err != nil {
		return nil, err
	}

	components := &Components{
		Config:  config,
		RPC:     rpcClient,
		Indexer: indexer,
		Assets:  fetcher,
		Names:   names,
		Routes:  routes,
		Verify:  verifier,
	}
	if config.TreePublicKey != "" {
		components.MerkleTree, err = shared.ParsePublicKey(config.TreePublicKey)
		if err != nil {
			return nil, fmt.Errorf("invalid tree public key: %w", err)
		}
	}

	if err := config.RequireMinting(); err != nil {
		logger.Warn("minting disabled", zap.Error(err))
		return components, nil
	}
	components.Mint, err = buildMint(config, components, logger)
	if err != nil {
		return nil, err
	}
	return components, nil
}

// Close releases the RPC connections. It is safe to call on a nil
// Components and more than once.
func (c *Components) Close() error {
	if c == nil || c.RPC == nil {
		return nil
	}
	return c.RPC.Close()
}

func buildMint(config shared.Config, components *Components, logger *zap.Logger) (*mint.Builder, error) {
	authority, err := shared.ParsePrivateKey(config.TreeAuthorityKey)
	if err != nil {
		return nil, fmt.Errorf("invalid tree authority key: %w", err)
	}
	storage, err := uploader.NewNFTStorage(uploader.Config{
		APIKey:   config.NFTStorageAPIKey,
		Endpoint: config.NFTStorageEndpoint,
		Gateway:  config.NFTStorageGateway,
		Logger:   logger.Named("uploader"),
	})
	if err != nil {
		return nil, err
	}
	return mint.NewBuilder(mint.Config{
		Uploader:      storage,
		Blockhashes:   components.RPC,
		TreeAuthority: authority,
		MerkleTree:    components.MerkleTree,
		DefaultImage:  config.DefaultImage,
		Logger:        logger.Named("mint"),
	})
}

func hostOf(siteURL string) (string, error) {
	parsed, err := url.Parse(siteURL)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid site URL %q", siteURL)
	}
	return parsed.Host, nil
}
