package bubblegum

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ProgramID            = solana.MustPublicKeyFromBase58("BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY")
	NoopProgramID        = solana.MustPublicKeyFromBase58("noopb9bkMVfRPU8AsbpTUg8AQkHtKwMYZiFUjNRtMmV")
	CompressionProgramID = solana.MustPublicKeyFromBase58("cmtDvXumGCrqC1Age74AVPhSRVXJMd8PJS91L8KbNCK")

	// TokenMetadataProgramID is passed to update_metadata for collection checks.
	TokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

var (
	mintV1Discriminator         = anchorDiscriminator("mint_v1")
	verifyCreatorDiscriminator  = anchorDiscriminator("verify_creator")
	updateMetadataDiscriminator = anchorDiscriminator("update_metadata")
)

func anchorDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// TreeConfigAddress derives the tree config PDA of a merkle tree.
func TreeConfigAddress(merkleTree solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{merkleTree[:]}, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive tree config: %w", err)
	}
	return address, nil
}

// AssetID derives the id of the leaf minted at nonce in merkleTree.
func AssetID(merkleTree solana.PublicKey, nonce uint64) (solana.PublicKey, error) {
	nonceBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonceBytes, nonce)
	address, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("asset"), merkleTree[:], nonceBytes},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive asset id: %w", err)
	}
	return address, nil
}
