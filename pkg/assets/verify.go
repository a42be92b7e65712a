package assets

import "github.com/etched-id/etched-go/pkg/das"

// IsVerified reports whether every creator of the asset has signed. An asset
// with no creators is not verified.
func IsVerified(asset *das.Asset) bool {
	if asset == nil || len(asset.Creators) == 0 {
		return false
	}
	for _, creator := range asset.Creators {
		if !creator.Verified {
			return false
		}
	}
	return true
}
