package assets

import (
	"context"
	"strings"

	"github.com/etched-id/etched-go/pkg/das"
	"github.com/etched-id/etched-go/pkg/offchain"
	"github.com/etched-id/etched-go/pkg/shared"
	"go.uber.org/zap"
)

// Indexer is the subset of the DAS API the fetcher needs.
type Indexer interface {
	GetAsset(ctx context.Context, id string) (*das.Asset, error)
	GetAssetsByCreator(ctx context.Context, query das.AssetsByCreatorQuery) (das.AssetList, error)
}

// MetadataSource loads an off-chain JSON document.
type MetadataSource interface {
	FetchMetadata(ctx context.Context, uri string) (offchain.Metadata, error)
}

type Config struct {
	Indexer  Indexer
	Metadata MetadataSource
	Logger   *zap.Logger
}

// Fetcher loads assets from the indexer and completes partial metadata.
type Fetcher struct {
	indexer  Indexer
	metadata MetadataSource
	logger   *zap.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(config Config) (*Fetcher, error) {
	if config.Indexer == nil {
		return nil, errIndexerRequired
	}
	metadata := config.Metadata
	if metadata == nil {
		metadata = offchain.NewClient(offchain.Config{})
	}
	return &Fetcher{
		indexer:  config.Indexer,
		metadata: metadata,
		logger:   shared.LoggerOrNop(config.Logger),
	}, nil
}

// GetAsset returns the asset with id, or nil when the indexer answered with
// an error envelope. Transport failures are returned as errors.
func (f *Fetcher) GetAsset(ctx context.Context, id string) (*das.Asset, error) {
	asset, err := f.indexer.GetAsset(ctx, id)
	if err != nil {
		if das.IsNotFound(err) {
			f.logger.Debug("indexer has no asset", zap.String("asset", id))
			return nil, nil
		}
		if das.IsRPCError(err) {
			f.logger.Warn("indexer rejected asset lookup", zap.String("asset", id), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	if asset == nil {
		return nil, nil
	}

	if asset.NeedsMetadataCompletion() {
		f.complete(ctx, asset)
	}
	return asset, nil
}

func (f *Fetcher) complete(ctx context.Context, asset *das.Asset) {
	uri := strings.TrimSpace(asset.Content.JSONURI)
	if uri == "" {
		return
	}

	metadata, err := f.metadata.FetchMetadata(ctx, uri)
	if err != nil {
		f.logger.Warn(
			"metadata completion failed",
			zap.String("asset", asset.ID),
			zap.String("json_uri", uri),
			zap.Error(err),
		)
		return
	}

	if metadata.Name != "" {
		asset.Content.Metadata.Name = metadata.Name
	}
	if metadata.Description != "" {
		asset.Content.Metadata.Description = metadata.Description
	}
	if metadata.Image != "" {
		asset.Content.Metadata.Image = metadata.Image
		if asset.Content.Links.Image == "" {
			asset.Content.Links.Image = metadata.Image
		}
	}
}
