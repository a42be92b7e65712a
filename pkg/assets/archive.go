package assets

import (
	"context"
	"strings"

	"github.com/etched-id/etched-go/pkg/das"
	"go.uber.org/zap"
)

const archiveLimit = 1000

// Archive lists the verified works a creator still owns.
func (f *Fetcher) Archive(ctx context.Context, creator string) ([]das.Asset, error) {
	creator = strings.TrimSpace(creator)
	list, err := f.indexer.GetAssetsByCreator(ctx, das.AssetsByCreatorQuery{
		CreatorAddress: creator,
		OnlyVerified:   true,
		Page:           1,
		Limit:          archiveLimit,
	})
	if err != nil {
		if das.IsRPCError(err) {
			f.logger.Debug("indexer has no assets for creator", zap.String("creator", creator), zap.Error(err))
			return []das.Asset{}, nil
		}
		return nil, err
	}

	items := make([]das.Asset, 0, len(list.Items))
	for _, asset := range list.Items {
		asset := asset
		if asset.Burnt || asset.Owner() != creator || !IsVerified(&asset) {
			continue
		}
		items = append(items, asset)
	}
	return items, nil
}
