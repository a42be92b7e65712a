package bubblegum

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type MintV1Accounts struct {
	MerkleTree            solana.PublicKey
	LeafOwner             solana.PublicKey
	LeafDelegate          solana.PublicKey
	Payer                 solana.PublicKey
	TreeCreatorOrDelegate solana.PublicKey
}

// NewMintV1Instruction builds a bubblegum mint_v1 instruction. A zero
// LeafDelegate defaults to the leaf owner.
func NewMintV1Instruction(accounts MintV1Accounts, metadata MetadataArgs) (solana.Instruction, error) {
	if accounts.MerkleTree.IsZero() || accounts.LeafOwner.IsZero() ||
		accounts.Payer.IsZero() || accounts.TreeCreatorOrDelegate.IsZero() {
		return nil, fmt.Errorf("merkle tree, leaf owner, payer and tree delegate are required")
	}
	if err := metadata.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	delegate := accounts.LeafDelegate
	if delegate.IsZero() {
		delegate = accounts.LeafOwner
	}

	treeConfig, err := TreeConfigAddress(accounts.MerkleTree)
	if err != nil {
		return nil, err
	}

	args, err := encodeBorsh(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mint_v1 args: %w", err)
	}
	data := append(append([]byte{}, mintV1Discriminator[:]...), args...)

	metas := solana.AccountMetaSlice{
		solana.Meta(treeConfig).WRITE(),
		solana.Meta(accounts.LeafOwner),
		solana.Meta(delegate),
		solana.Meta(accounts.MerkleTree).WRITE(),
		solana.Meta(accounts.Payer).WRITE().SIGNER(),
		solana.Meta(accounts.TreeCreatorOrDelegate).SIGNER(),
		solana.Meta(NoopProgramID),
		solana.Meta(CompressionProgramID),
		solana.Meta(solana.SystemProgramID),
	}
	return solana.NewInstruction(ProgramID, metas, data), nil
}

type VerifyCreatorAccounts struct {
	MerkleTree   solana.PublicKey
	LeafOwner    solana.PublicKey
	LeafDelegate solana.PublicKey
	Payer        solana.PublicKey
	Creator      solana.PublicKey
}

// LeafProof locates a leaf in its tree.
type LeafProof struct {
	Root        solana.Hash
	DataHash    solana.Hash
	CreatorHash solana.Hash
	Nonce       uint64
	Index       uint32
	Proof       []solana.PublicKey
}

type verifyCreatorArgs struct {
	Root        [32]byte
	DataHash    [32]byte
	CreatorHash [32]byte
	Nonce       uint64
	Index       uint32
}

// NewVerifyCreatorInstruction builds a bubblegum verify_creator instruction.
// Proof nodes are passed as trailing read-only accounts.
func NewVerifyCreatorInstruction(
	accounts VerifyCreatorAccounts,
	proof LeafProof,
	metadata MetadataArgs,
) (solana.Instruction, error) {
	if accounts.MerkleTree.IsZero() || accounts.LeafOwner.IsZero() ||
		accounts.Payer.IsZero() || accounts.Creator.IsZero() {
		return nil, fmt.Errorf("merkle tree, leaf owner, payer and creator are required")
	}
	delegate := accounts.LeafDelegate
	if delegate.IsZero() {
		delegate = accounts.LeafOwner
	}

	treeConfig, err := TreeConfigAddress(accounts.MerkleTree)
	if err != nil {
		return nil, err
	}

	args, err := encodeBorsh(verifyCreatorArgs{
		Root:        proof.Root,
		DataHash:    proof.DataHash,
		CreatorHash: proof.CreatorHash,
		Nonce:       proof.Nonce,
		Index:       proof.Index,
	}, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode verify_creator args: %w", err)
	}
	data := append(append([]byte{}, verifyCreatorDiscriminator[:]...), args...)

	metas := solana.AccountMetaSlice{
		solana.Meta(treeConfig),
		solana.Meta(accounts.LeafOwner),
		solana.Meta(delegate),
		solana.Meta(accounts.MerkleTree).WRITE(),
		solana.Meta(accounts.Payer).WRITE().SIGNER(),
		solana.Meta(accounts.Creator).SIGNER(),
		solana.Meta(NoopProgramID),
		solana.Meta(CompressionProgramID),
		solana.Meta(solana.SystemProgramID),
	}
	// TODO: trim proof nodes covered by the tree's canopy once the canopy
	// depth is read from the tree account.
	for _, node := range proof.Proof {
		metas = append(metas, solana.Meta(node))
	}
	return solana.NewInstruction(ProgramID, metas, data), nil
}

// UpdateMetadataAccounts names the accounts of update_metadata. The
// collection accounts are only needed when the leaf belongs to a verified
// collection; zero keys are sent as absent.
type UpdateMetadataAccounts struct {
	MerkleTree         solana.PublicKey
	LeafOwner          solana.PublicKey
	LeafDelegate       solana.PublicKey
	Payer              solana.PublicKey
	Authority          solana.PublicKey
	CollectionMint     solana.PublicKey
	CollectionMetadata solana.PublicKey
}

// UpdateArgs lists the metadata fields to replace. Nil fields are kept.
type UpdateArgs struct {
	Name                 *string    `bin:"optional"`
	Symbol               *string    `bin:"optional"`
	URI                  *string    `bin:"optional"`
	Creators             *[]Creator `bin:"optional"`
	SellerFeeBasisPoints *uint16    `bin:"optional"`
	PrimarySaleHappened  *bool      `bin:"optional"`
	IsMutable            *bool      `bin:"optional"`
}

type updateMetadataArgs struct {
	Root  [32]byte
	Nonce uint64
	Index uint32
}

// NewUpdateMetadataInstruction builds a bubblegum update_metadata
// instruction replacing the fields set in update on the leaf described by
// proof and current.
func NewUpdateMetadataInstruction(
	accounts UpdateMetadataAccounts,
	proof LeafProof,
	current MetadataArgs,
	update UpdateArgs,
) (solana.Instruction, error) {
	if accounts.MerkleTree.IsZero() || accounts.LeafOwner.IsZero() ||
		accounts.Payer.IsZero() || accounts.Authority.IsZero() {
		return nil, fmt.Errorf("merkle tree, leaf owner, payer and authority are required")
	}
	updated := current
	if update.Creators != nil {
		updated.Creators = *update.Creators
	}
	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("invalid updated metadata: %w", err)
	}
	delegate := accounts.LeafDelegate
	if delegate.IsZero() {
		delegate = accounts.LeafOwner
	}

	treeConfig, err := TreeConfigAddress(accounts.MerkleTree)
	if err != nil {
		return nil, err
	}

	args, err := encodeBorsh(updateMetadataArgs{
		Root:  proof.Root,
		Nonce: proof.Nonce,
		Index: proof.Index,
	}, current, update)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update_metadata args: %w", err)
	}
	data := append(append([]byte{}, updateMetadataDiscriminator[:]...), args...)

	metas := solana.AccountMetaSlice{
		solana.Meta(treeConfig),
		solana.Meta(accounts.Authority).SIGNER(),
		optionalMeta(accounts.CollectionMint),
		optionalMeta(accounts.CollectionMetadata),
		optionalMeta(solana.PublicKey{}),
		solana.Meta(accounts.LeafOwner),
		solana.Meta(delegate),
		solana.Meta(accounts.Payer).WRITE().SIGNER(),
		solana.Meta(accounts.MerkleTree).WRITE(),
		solana.Meta(NoopProgramID),
		solana.Meta(CompressionProgramID),
		solana.Meta(TokenMetadataProgramID),
		solana.Meta(solana.SystemProgramID),
	}
	for _, node := range proof.Proof {
		metas = append(metas, solana.Meta(node))
	}
	return solana.NewInstruction(ProgramID, metas, data), nil
}

// optionalMeta stands in for an absent optional account with the program id.
func optionalMeta(key solana.PublicKey) *solana.AccountMeta {
	if key.IsZero() {
		return solana.Meta(ProgramID)
	}
	return solana.Meta(key)
}
