package bubblegum

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type TokenStandard uint8

const (
	TokenStandardNonFungible TokenStandard = iota
	TokenStandardFungibleAsset
	TokenStandardFungible
	TokenStandardNonFungibleEdition
)

type TokenProgramVersion uint8

const (
	TokenProgramVersionOriginal TokenProgramVersion = iota
	TokenProgramVersionToken2022
)

const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
)

type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

type Collection struct {
	Verified bool
	Key      solana.PublicKey
}

type Uses struct {
	UseMethod uint8
	Remaining uint64
	Total     uint64
}

// MetadataArgs is the borsh layout bubblegum hashes into every leaf.
type MetadataArgs struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	PrimarySaleHappened  bool
	IsMutable            bool
	EditionNonce         *uint8         `bin:"optional"`
	TokenStandard        *TokenStandard `bin:"optional"`
	Collection           *Collection    `bin:"optional"`
	Uses                 *Uses          `bin:"optional"`
	TokenProgramVersion  TokenProgramVersion
	Creators             []Creator
}

// Validate checks the limits the program enforces on metadata.
func (m MetadataArgs) Validate() error {
	if len(m.Name) > MaxNameLength {
		return fmt.Errorf("name exceeds %d bytes", MaxNameLength)
	}
	if len(m.Symbol) > MaxSymbolLength {
		return fmt.Errorf("symbol exceeds %d bytes", MaxSymbolLength)
	}
	if len(m.URI) > MaxURILength {
		return fmt.Errorf("uri exceeds %d bytes", MaxURILength)
	}
	if m.SellerFeeBasisPoints > 10000 {
		return fmt.Errorf("seller fee basis points exceed 10000")
	}
	if len(m.Creators) > 5 {
		return fmt.Errorf("at most 5 creators are allowed")
	}
	if len(m.Creators) > 0 {
		total := 0
		for _, creator := range m.Creators {
			total += int(creator.Share)
		}
		if total != 100 {
			return fmt.Errorf("creator shares must sum to 100, got %d", total)
		}
	}
	return nil
}

func encodeBorsh(values ...any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := bin.NewBorshEncoder(&buffer)
	for _, value := range values {
		if err := encoder.Encode(value); err != nil {
			return nil, err
		}
	}
	return buffer.Bytes(), nil
}
