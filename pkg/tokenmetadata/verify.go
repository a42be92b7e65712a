package tokenmetadata

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const (
	instructionVerify = 52
	verifyCreatorV1   = 0
)

// MetadataAddress derives the metadata account of mint.
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), ProgramID[:], mint[:]},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	return address, nil
}

// NewVerifyCreatorInstruction signs creator onto the metadata of mint.
// Unused optional accounts are filled with the program id.
func NewVerifyCreatorInstruction(mint solana.PublicKey, creator solana.PublicKey) (solana.Instruction, error) {
	if mint.IsZero() || creator.IsZero() {
		return nil, fmt.Errorf("mint and creator are required")
	}
	metadata, err := MetadataAddress(mint)
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(creator).SIGNER(),
		solana.Meta(ProgramID),
		solana.Meta(metadata).WRITE(),
		solana.Meta(ProgramID),
		solana.Meta(ProgramID),
		solana.Meta(ProgramID),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SysVarInstructionsPubkey),
	}
	return solana.NewInstruction(ProgramID, metas, []byte{instructionVerify, verifyCreatorV1}), nil
}
