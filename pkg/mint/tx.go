package mint

import (
	"fmt"

	"github.com/etched-id/etched-go/pkg/bubblegum"
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

type TransactionParams struct {
	Author        solana.PublicKey
	MerkleTree    solana.PublicKey
	TreeAuthority solana.PublicKey
	Name          string
	URI           string
	Blockhash     solana.Hash
}

// PriorityFeeInstruction returns the compute unit price instruction every
// Etched transaction starts with.
func PriorityFeeInstruction() solana.Instruction {
	return computebudget.NewSetComputeUnitPriceInstruction(PriorityMicroLamports).Build()
}

// BuildMintTx assembles an unsigned compressed mint paid for by the author.
// The author owns the leaf and is its single verified creator.
func BuildMintTx(params TransactionParams) (*solana.Transaction, error) {
	standard := bubblegum.TokenStandardNonFungible
	metadata := bubblegum.MetadataArgs{
		Name:                 params.Name,
		Symbol:               Symbol,
		URI:                  params.URI,
		SellerFeeBasisPoints: sellerFeeBasisPoints,
		PrimarySaleHappened:  false,
		IsMutable:            true,
		TokenStandard:        &standard,
		TokenProgramVersion:  bubblegum.TokenProgramVersionOriginal,
		Creators: []bubblegum.Creator{{
			Address:  params.Author,
			Verified: true,
			Share:    creatorShare,
		}},
	}

	mintInstruction, err := bubblegum.NewMintV1Instruction(bubblegum.MintV1Accounts{
		MerkleTree:            params.MerkleTree,
		LeafOwner:             params.Author,
		LeafDelegate:          params.Author,
		Payer:                 params.Author,
		TreeCreatorOrDelegate: params.TreeAuthority,
	}, metadata)
	if err != nil {
		return nil, err
	}

	transaction, err := solana.NewTransaction(
		[]solana.Instruction{PriorityFeeInstruction(), mintInstruction},
		params.Blockhash,
		solana.TransactionPayer(params.Author),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble mint transaction: %w", err)
	}
	return transaction, nil
}
