package verify

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/etched-id/etched-go/pkg/bubblegum"
	"github.com/etched-id/etched-go/pkg/das"
	"github.com/etched-id/etched-go/pkg/mint"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/etched-id/etched-go/pkg/tokenmetadata"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// AssetSource reads raw indexer records. *das.Client satisfies it.
type AssetSource interface {
	GetAsset(ctx context.Context, id string) (*das.Asset, error)
	GetAssetProof(ctx context.Context, id string) (das.AssetProof, error)
}

type Config struct {
	Assets      AssetSource
	Blockhashes mint.BlockhashSource
	Logger      *zap.Logger
}

type Request struct {
	Asset   string `json:"asset"`
	Creator string `json:"creator"`
}

// Builder prepares unsigned creator verification transactions. The signer
// pays and is the only signer: a listed creator verifies itself, and the
// update authority adds itself as a verified creator.
type Builder struct {
	assets      AssetSource
	blockhashes mint.BlockhashSource
	logger      *zap.Logger
}

func NewBuilder(config Config) (*Builder, error) {
	if config.Assets == nil {
		return nil, fmt.Errorf("asset source is required")
	}
	if config.Blockhashes == nil {
		return nil, fmt.Errorf("blockhash source is required")
	}
	return &Builder{
		assets:      config.Assets,
		blockhashes: config.Blockhashes,
		logger:      shared.LoggerOrNop(config.Logger),
	}, nil
}

// Prepare returns the verification transaction for request, ready for the
// creator's wallet.
func (b *Builder) Prepare(ctx context.Context, request Request) (mint.Prepared, error) {
	assetID, err := solana.PublicKeyFromBase58(strings.TrimSpace(request.Asset))
	if err != nil {
		return mint.Prepared{}, &ValidationError{Field: "asset", Message: MessageAsset}
	}
	creator, err := solana.PublicKeyFromBase58(strings.TrimSpace(request.Creator))
	if err != nil {
		return mint.Prepared{}, &ValidationError{Field: "creator", Message: MessageCreator}
	}

	asset, err := b.assets.GetAsset(ctx, assetID.String())
	if err != nil {
		if das.IsRPCError(err) {
			return mint.Prepared{}, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
		}
		return mint.Prepared{}, b.buildFailure(assetID, fmt.Errorf("failed to fetch asset: %w", err))
	}
	if asset == nil {
		return mint.Prepared{}, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}

	action := Plan(*asset, creator.String())
	if err := action.err(); err != nil {
		return mint.Prepared{}, err
	}

	var instruction solana.Instruction
	switch {
	case action == ActionAddCreator && len(asset.Creators) >= maxCreators:
		return mint.Prepared{}, fmt.Errorf("%w: %s", ErrCreatorsFull, assetID)
	case action == ActionAddCreator && asset.Compressed():
		instruction, err = b.compressedAddCreator(ctx, *asset, creator)
	case action == ActionAddCreator:
		if asset.Interface == das.InterfaceProgrammable {
			return mint.Prepared{}, ErrAddCreatorUnsupported
		}
		instruction, err = addCreatorInstruction(*asset, assetID, creator)
	case asset.Compressed():
		instruction, err = b.compressedInstruction(ctx, *asset, creator)
	default:
		instruction, err = tokenmetadata.NewVerifyCreatorInstruction(assetID, creator)
	}
	if err != nil {
		return mint.Prepared{}, b.buildFailure(assetID, err)
	}

	latest, err := b.blockhashes.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return mint.Prepared{}, b.buildFailure(assetID, fmt.Errorf("failed to get latest blockhash: %w", err))
	}
	if latest == nil || latest.Value == nil {
		return mint.Prepared{}, b.buildFailure(assetID, fmt.Errorf("latest blockhash response was empty"))
	}

	transaction, err := solana.NewTransaction(
		[]solana.Instruction{mint.PriorityFeeInstruction(), instruction},
		latest.Value.Blockhash,
		solana.TransactionPayer(creator),
	)
	if err != nil {
		return mint.Prepared{}, b.buildFailure(assetID, fmt.Errorf("failed to assemble verification transaction: %w", err))
	}
	// Sizes the signature slots so the transaction serializes unsigned.
	if _, err := transaction.PartialSign(func(solana.PublicKey) *solana.PrivateKey { return nil }); err != nil {
		return mint.Prepared{}, b.buildFailure(assetID, err)
	}
	raw, err := transaction.MarshalBinary()
	if err != nil {
		return mint.Prepared{}, b.buildFailure(assetID, fmt.Errorf("failed to serialize verification transaction: %w", err))
	}

	b.logger.Info(
		"prepared verification transaction",
		zap.String("asset", assetID.String()),
		zap.String("creator", creator.String()),
		zap.String("action", string(action)),
		zap.Bool("compressed", asset.Compressed()),
	)

	return mint.Prepared{
		Transaction:          base64.StdEncoding.EncodeToString(raw),
		Blockhash:            latest.Value.Blockhash.String(),
		LastValidBlockHeight: latest.Value.LastValidBlockHeight,
	}, nil
}

func (b *Builder) compressedInstruction(ctx context.Context, asset das.Asset, creator solana.PublicKey) (solana.Instruction, error) {
	leaf, err := b.compressedLeaf(ctx, asset)
	if err != nil {
		return nil, err
	}
	return bubblegum.NewVerifyCreatorInstruction(bubblegum.VerifyCreatorAccounts{
		MerkleTree:   leaf.tree,
		LeafOwner:    leaf.owner,
		LeafDelegate: leaf.delegate,
		Payer:        creator,
		Creator:      creator,
	}, leaf.proof, leaf.metadata)
}

// compressedAddCreator appends authority to the leaf's creators as a
// verified creator with no share.
func (b *Builder) compressedAddCreator(ctx context.Context, asset das.Asset, authority solana.PublicKey) (solana.Instruction, error) {
	leaf, err := b.compressedLeaf(ctx, asset)
	if err != nil {
		return nil, err
	}
	creators := append(append([]bubblegum.Creator{}, leaf.metadata.Creators...), bubblegum.Creator{
		Address:  authority,
		Verified: true,
	})

	accounts := bubblegum.UpdateMetadataAccounts{
		MerkleTree:   leaf.tree,
		LeafOwner:    leaf.owner,
		LeafDelegate: leaf.delegate,
		Payer:        authority,
		Authority:    authority,
	}
	if collection := leaf.metadata.Collection; collection != nil && collection.Verified {
		collectionMetadata, err := tokenmetadata.MetadataAddress(collection.Key)
		if err != nil {
			return nil, err
		}
		accounts.CollectionMint = collection.Key
		accounts.CollectionMetadata = collectionMetadata
	}
	return bubblegum.NewUpdateMetadataInstruction(accounts, leaf.proof, leaf.metadata, bubblegum.UpdateArgs{
		Creators: &creators,
	})
}

type compressedLeaf struct {
	tree     solana.PublicKey
	owner    solana.PublicKey
	delegate solana.PublicKey
	proof    bubblegum.LeafProof
	metadata bubblegum.MetadataArgs
}

func (b *Builder) compressedLeaf(ctx context.Context, asset das.Asset) (compressedLeaf, error) {
	proof, err := b.assets.GetAssetProof(ctx, asset.ID)
	if err != nil {
		return compressedLeaf{}, fmt.Errorf("failed to fetch asset proof: %w", err)
	}
	leafProof, err := LeafProofFrom(asset, proof)
	if err != nil {
		return compressedLeaf{}, err
	}
	metadata, err := MetadataArgsFrom(asset)
	if err != nil {
		return compressedLeaf{}, err
	}

	tree, err := solana.PublicKeyFromBase58(proof.TreeID)
	if err != nil {
		return compressedLeaf{}, fmt.Errorf("invalid tree id %q: %w", proof.TreeID, err)
	}
	owner, err := solana.PublicKeyFromBase58(asset.Owner())
	if err != nil {
		return compressedLeaf{}, fmt.Errorf("invalid owner %q: %w", asset.Owner(), err)
	}
	delegate := owner
	if asset.Ownership.Delegate != "" {
		delegate, err = solana.PublicKeyFromBase58(asset.Ownership.Delegate)
		if err != nil {
			return compressedLeaf{}, fmt.Errorf("invalid delegate %q: %w", asset.Ownership.Delegate, err)
		}
	}
	return compressedLeaf{
		tree:     tree,
		owner:    owner,
		delegate: delegate,
		proof:    leafProof,
		metadata: metadata,
	}, nil
}

// addCreatorInstruction rewrites the metadata data of an uncompressed NFT
// with authority appended to its creators. The kept fields come from the
// indexer record, which mirrors the on-chain account.
func addCreatorInstruction(asset das.Asset, mintAddress solana.PublicKey, authority solana.PublicKey) (solana.Instruction, error) {
	creators := make([]tokenmetadata.Creator, 0, len(asset.Creators)+1)
	for _, creator := range asset.Creators {
		address, err := solana.PublicKeyFromBase58(creator.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid creator %q: %w", creator.Address, err)
		}
		creators = append(creators, tokenmetadata.Creator{
			Address:  address,
			Verified: creator.Verified,
			Share:    creator.Share,
		})
	}
	creators = append(creators, tokenmetadata.Creator{Address: authority, Verified: true})

	return tokenmetadata.NewUpdateDataInstruction(tokenmetadata.UpdateAccounts{
		Mint:      mintAddress,
		Authority: authority,
		Payer:     authority,
	}, tokenmetadata.Data{
		Name:                 asset.Content.Metadata.Name,
		Symbol:               asset.Content.Metadata.Symbol,
		URI:                  asset.Content.JSONURI,
		SellerFeeBasisPoints: asset.Royalty.BasisPoints,
		Creators:             &creators,
	})
}

func (b *Builder) buildFailure(asset solana.PublicKey, err error) error {
	b.logger.Error("verification build failed", zap.String("asset", asset.String()), zap.Error(err))
	return fmt.Errorf("%w: %w", ErrBuild, err)
}
