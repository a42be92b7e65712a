package route

import (
	"context"
	"errors"
	"fmt"

	"github.com/etched-id/etched-go/pkg/assets"
	"github.com/etched-id/etched-go/pkg/das"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/etched-id/etched-go/pkg/sns"
	"go.uber.org/zap"
)

type AssetSource interface {
	GetAsset(ctx context.Context, id string) (*das.Asset, error)
}

type NameSource interface {
	LookupAndVerify(ctx context.Context, query sns.Query) sns.Result
}

type Config struct {
	Assets AssetSource
	Names  NameSource
	Logger *zap.Logger
}

// Resolver decides what a request path renders and where it should live.
type Resolver struct {
	assets AssetSource
	names  NameSource
	logger *zap.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(config Config) (*Resolver, error) {
	if config.Assets == nil {
		return nil, fmt.Errorf("asset source is required")
	}
	if config.Names == nil {
		return nil, fmt.Errorf("name source is required")
	}
	return &Resolver{
		assets: config.Assets,
		names:  config.Names,
		logger: shared.LoggerOrNop(config.Logger),
	}, nil
}

// Resolve classifies segments and builds the page decision. Only asset
// fetch transport failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, segments []string) (Decision, error) {
	intent, err := Classify(segments)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			r.logger.Debug("path not matched", zap.Strings("segments", segments))
			return Decision{Result: NotFound{}}, nil
		}
		return Decision{}, err
	}

	var shortname, address string
	switch typed := intent.(type) {
	case ShortnameIntent:
		binding := r.names.LookupAndVerify(ctx, sns.Query{Shortname: typed.Shortname})
		return Decision{
			Intent: intent,
			Result: Archive{Shortname: typed.Shortname, ShortnameRegistered: binding.Verified},
		}, nil
	case AddressIntent:
		address = typed.Address
	case ShortnameAddressIntent:
		shortname = typed.Shortname
		address = typed.Address
	}

	asset, err := r.assets.GetAsset(ctx, address)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to load asset %s: %w", address, err)
	}
	if asset == nil {
		return Decision{Intent: intent, Result: NotFound{}}, nil
	}

	verified := assets.IsVerified(asset)
	owner := r.names.LookupAndVerify(ctx, sns.Query{Address: asset.Owner()})

	if verified && owner.Verified {
		page := AssetPage{
			PageKind:            KindShortnameAddress,
			Asset:               asset,
			AssetVerified:       true,
			Shortname:           owner.Shortname,
			ShortnameRegistered: true,
		}
		canonical := ShortnameAddressIntent{Shortname: owner.Shortname, Address: address}
		decision := Decision{Intent: intent, Result: page}
		if intent.Path() != canonical.Path() {
			decision.Redirect = temporaryRedirect(canonical.Path())
		}
		return decision, nil
	}

	if verified {
		decision := Decision{
			Intent: intent,
			Result: AssetPage{PageKind: KindAssetAddress, Asset: asset, AssetVerified: true},
		}
		if shortname != "" {
			decision.Redirect = temporaryRedirect(address)
		}
		return decision, nil
	}

	if shortname != "" {
		return Decision{
			Intent: intent,
			Result: Archive{
				Shortname:           shortname,
				ShortnameRegistered: owner.Verified && owner.Shortname == sns.CanonicalShortname(shortname),
			},
		}, nil
	}

	return Decision{
		Intent: intent,
		Result: AssetPage{PageKind: KindAssetAddress, Asset: asset, AssetVerified: false},
	}, nil
}
