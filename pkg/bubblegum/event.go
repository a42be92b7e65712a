package bubblegum

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	compressionEventApplicationData = 1
	applicationDataV1               = 0
	bubblegumEventLeafSchema        = 1
	leafSchemaV1                    = 0
)

var ErrNotLeafEvent = errors.New("instruction data is not a bubblegum leaf schema event")

// Leaf is a decoded LeafSchema V1 event.
type Leaf struct {
	ID          solana.PublicKey
	Owner       solana.PublicKey
	Delegate    solana.PublicKey
	Nonce       uint64
	DataHash    solana.Hash
	CreatorHash solana.Hash
}

// DecodeLeafEvent parses the data bubblegum logs through the noop program
// after minting or updating a leaf.
func DecodeLeafEvent(data []byte) (Leaf, error) {
	decoder := bin.NewBorshDecoder(data)

	eventKind, err := decoder.ReadUint8()
	if err != nil || eventKind != compressionEventApplicationData {
		return Leaf{}, ErrNotLeafEvent
	}
	version, err := decoder.ReadUint8()
	if err != nil || version != applicationDataV1 {
		return Leaf{}, ErrNotLeafEvent
	}
	length, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return Leaf{}, ErrNotLeafEvent
	}
	payload, err := decoder.ReadNBytes(int(length))
	if err != nil {
		return Leaf{}, fmt.Errorf("truncated application data: %w", err)
	}

	inner := bin.NewBorshDecoder(payload)
	header, err := inner.ReadNBytes(3)
	if err != nil {
		return Leaf{}, ErrNotLeafEvent
	}
	if header[0] != bubblegumEventLeafSchema || header[2] != leafSchemaV1 {
		return Leaf{}, ErrNotLeafEvent
	}

	var leaf Leaf
	for _, target := range [][]byte{leaf.ID[:], leaf.Owner[:], leaf.Delegate[:]} {
		raw, err := inner.ReadNBytes(32)
		if err != nil {
			return Leaf{}, fmt.Errorf("truncated leaf schema: %w", err)
		}
		copy(target, raw)
	}
	if leaf.Nonce, err = inner.ReadUint64(bin.LE); err != nil {
		return Leaf{}, fmt.Errorf("truncated leaf schema: %w", err)
	}
	for _, target := range [][]byte{leaf.DataHash[:], leaf.CreatorHash[:]} {
		raw, err := inner.ReadNBytes(32)
		if err != nil {
			return Leaf{}, fmt.Errorf("truncated leaf schema: %w", err)
		}
		copy(target, raw)
	}
	return leaf, nil
}

// EncodeLeafEvent renders leaf the way the program logs it.
func EncodeLeafEvent(leaf Leaf) []byte {
	schema := make([]byte, 0, 3+32*5+8+32)
	schema = append(schema, bubblegumEventLeafSchema, 0, leafSchemaV1)
	schema = append(schema, leaf.ID[:]...)
	schema = append(schema, leaf.Owner[:]...)
	schema = append(schema, leaf.Delegate[:]...)
	nonce := make([]byte, 8)
	bin.LE.PutUint64(nonce, leaf.Nonce)
	schema = append(schema, nonce...)
	schema = append(schema, leaf.DataHash[:]...)
	schema = append(schema, leaf.CreatorHash[:]...)
	// leaf hash, unused by the decoder
	schema = append(schema, make([]byte, 32)...)

	length := make([]byte, 4)
	bin.LE.PutUint32(length, uint32(len(schema)))
	out := []byte{compressionEventApplicationData, applicationDataV1}
	out = append(out, length...)
	return append(out, schema...)
}
