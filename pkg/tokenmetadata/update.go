package tokenmetadata

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	instructionUpdate = 50
	updateV1          = 0
	maxCreators       = 5
)

type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

// Data is the mutable part of a metadata account. Update replaces it whole,
// so callers pass the current values for fields they keep.
type Data struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             *[]Creator `bin:"optional"`
}

type UpdateAccounts struct {
	Mint      solana.PublicKey
	Authority solana.PublicKey
	Payer     solana.PublicKey
}

// NewUpdateDataInstruction builds an Update(V1) instruction that replaces the
// metadata data of mint and leaves every other field untouched.
func NewUpdateDataInstruction(accounts UpdateAccounts, data Data) (solana.Instruction, error) {
	if accounts.Mint.IsZero() || accounts.Authority.IsZero() {
		return nil, fmt.Errorf("mint and authority are required")
	}
	if data.Creators != nil {
		if len(*data.Creators) > maxCreators {
			return nil, fmt.Errorf("at most %d creators are allowed", maxCreators)
		}
		total := 0
		for _, creator := range *data.Creators {
			total += int(creator.Share)
		}
		if total != 100 {
			return nil, fmt.Errorf("creator shares must sum to 100, got %d", total)
		}
	}
	payer := accounts.Payer
	if payer.IsZero() {
		payer = accounts.Authority
	}
	metadata, err := MetadataAddress(accounts.Mint)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	buffer.Write([]byte{instructionUpdate, updateV1})
	buffer.WriteByte(0) // new update authority
	buffer.WriteByte(1)
	if err := bin.NewBorshEncoder(&buffer).Encode(data); err != nil {
		return nil, fmt.Errorf("failed to encode metadata data: %w", err)
	}
	// primary sale, mutability, then the collection, collection details,
	// uses and rule set toggles, then authorization data: all unchanged.
	buffer.Write([]byte{0, 0, 0, 0, 0, 0, 0})

	metas := solana.AccountMetaSlice{
		solana.Meta(accounts.Authority).SIGNER(),
		solana.Meta(ProgramID),
		solana.Meta(ProgramID),
		solana.Meta(accounts.Mint),
		solana.Meta(metadata).WRITE(),
		solana.Meta(ProgramID),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.SysVarInstructionsPubkey),
		solana.Meta(ProgramID),
		solana.Meta(ProgramID),
	}
	return solana.NewInstruction(ProgramID, metas, buffer.Bytes()), nil
}
