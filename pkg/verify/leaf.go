package verify

import (
	"fmt"

	"github.com/etched-id/etched-go/pkg/bubblegum"
	"github.com/etched-id/etched-go/pkg/das"
	"github.com/gagliardetto/solana-go"
)

// LeafProofFrom combines the indexer's compression data and proof into the
// arguments bubblegum needs to replace a leaf.
func LeafProofFrom(asset das.Asset, proof das.AssetProof) (bubblegum.LeafProof, error) {
	root, err := solana.HashFromBase58(proof.Root)
	if err != nil {
		return bubblegum.LeafProof{}, fmt.Errorf("invalid proof root: %w", err)
	}
	dataHash, err := solana.HashFromBase58(asset.Compression.DataHash)
	if err != nil {
		return bubblegum.LeafProof{}, fmt.Errorf("invalid data hash: %w", err)
	}
	creatorHash, err := solana.HashFromBase58(asset.Compression.CreatorHash)
	if err != nil {
		return bubblegum.LeafProof{}, fmt.Errorf("invalid creator hash: %w", err)
	}

	nodes := make([]solana.PublicKey, 0, len(proof.Proof))
	for _, node := range proof.Proof {
		key, err := solana.PublicKeyFromBase58(node)
		if err != nil {
			return bubblegum.LeafProof{}, fmt.Errorf("invalid proof node %q: %w", node, err)
		}
		nodes = append(nodes, key)
	}

	// node_index counts from the root; leaves start at 2^depth.
	if len(nodes) >= 32 {
		return bubblegum.LeafProof{}, fmt.Errorf("proof depth %d is out of range", len(nodes))
	}
	firstLeaf := uint64(1) << len(nodes)
	if proof.NodeIndex < firstLeaf {
		return bubblegum.LeafProof{}, fmt.Errorf("node index %d is not a leaf of a depth %d tree", proof.NodeIndex, len(nodes))
	}

	return bubblegum.LeafProof{
		Root:        root,
		DataHash:    dataHash,
		CreatorHash: creatorHash,
		Nonce:       asset.Compression.LeafID,
		Index:       uint32(proof.NodeIndex - firstLeaf),
		Proof:       nodes,
	}, nil
}

// MetadataArgsFrom rebuilds the metadata hashed into a compressed leaf from
// its indexer record.
func MetadataArgsFrom(asset das.Asset) (bubblegum.MetadataArgs, error) {
	metadata := bubblegum.MetadataArgs{
		Name:                 asset.Content.Metadata.Name,
		Symbol:               asset.Content.Metadata.Symbol,
		URI:                  asset.Content.JSONURI,
		SellerFeeBasisPoints: asset.Royalty.BasisPoints,
		PrimarySaleHappened:  asset.Royalty.PrimarySaleHappened,
		IsMutable:            asset.Mutable,
		TokenProgramVersion:  bubblegum.TokenProgramVersionOriginal,
	}
	if asset.Supply != nil && asset.Supply.EditionNonce != nil {
		nonce := *asset.Supply.EditionNonce
		metadata.EditionNonce = &nonce
	}
	if standard, ok := tokenStandards[asset.Content.Metadata.TokenStandard]; ok {
		metadata.TokenStandard = &standard
	}
	if group, ok := asset.Collection(); ok {
		key, err := solana.PublicKeyFromBase58(group.GroupValue)
		if err != nil {
			return bubblegum.MetadataArgs{}, fmt.Errorf("invalid collection %q: %w", group.GroupValue, err)
		}
		metadata.Collection = &bubblegum.Collection{
			Verified: group.Verified != nil && *group.Verified,
			Key:      key,
		}
	}
	for _, creator := range asset.Creators {
		address, err := solana.PublicKeyFromBase58(creator.Address)
		if err != nil {
			return bubblegum.MetadataArgs{}, fmt.Errorf("invalid creator %q: %w", creator.Address, err)
		}
		metadata.Creators = append(metadata.Creators, bubblegum.Creator{
			Address:  address,
			Verified: creator.Verified,
			Share:    creator.Share,
		})
	}
	return metadata, nil
}

var tokenStandards = map[string]bubblegum.TokenStandard{
	"NonFungible":        bubblegum.TokenStandardNonFungible,
	"FungibleAsset":      bubblegum.TokenStandardFungibleAsset,
	"Fungible":           bubblegum.TokenStandardFungible,
	"NonFungibleEdition": bubblegum.TokenStandardNonFungibleEdition,
}
