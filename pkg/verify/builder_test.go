package verify

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/etched-id/etched-go/pkg/bubblegum"
	"github.com/etched-id/etched-go/pkg/das"
	"github.com/etched-id/etched-go/pkg/tokenmetadata"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type fakeAssets struct {
	asset      *das.Asset
	proof      das.AssetProof
	err        error
	proofCalls int
}

func (f *fakeAssets) GetAsset(context.Context, string) (*das.Asset, error) {
	return f.asset, f.err
}

func (f *fakeAssets) GetAssetProof(context.Context, string) (das.AssetProof, error) {
	f.proofCalls++
	return f.proof, nil
}

type staticBlockhash struct{}

func (staticBlockhash) GetLatestBlockhash(context.Context, rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: solana.Hash{7}, LastValidBlockHeight: 99},
	}, nil
}

func randomKey(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return key.PublicKey()
}

func newTestBuilder(t *testing.T, assets *fakeAssets) *Builder {
	t.Helper()
	builder, err := NewBuilder(Config{Assets: assets, Blockhashes: staticBlockhash{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return builder
}

func decodeTransaction(t *testing.T, encoded string) *solana.Transaction {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	transaction, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return transaction
}

func TestPrepareUncompressed(t *testing.T) {
	mintAddress := randomKey(t)
	creator := randomKey(t)
	assets := &fakeAssets{asset: &das.Asset{
		ID:       mintAddress.String(),
		Creators: []das.Creator{{Address: creator.String(), Share: 100}},
	}}

	prepared, err := newTestBuilder(t, assets).Prepare(context.Background(), Request{
		Asset:   mintAddress.String(),
		Creator: creator.String(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared.LastValidBlockHeight != 99 {
		t.Fatalf("unexpected last valid block height %d", prepared.LastValidBlockHeight)
	}
	if assets.proofCalls != 0 {
		t.Fatal("regular mints do not need a proof")
	}

	transaction := decodeTransaction(t, prepared.Transaction)
	message := transaction.Message
	if !message.AccountKeys[0].Equals(creator) {
		t.Fatal("creator must pay fees")
	}
	if len(transaction.Signatures) != 1 || !transaction.Signatures[0].IsZero() {
		t.Fatal("transaction must be left unsigned for the creator")
	}
	verifyInstruction := message.Instructions[1]
	if !message.AccountKeys[verifyInstruction.ProgramIDIndex].Equals(tokenmetadata.ProgramID) {
		t.Fatal("expected token metadata program")
	}
	if len(verifyInstruction.Data) != 2 || verifyInstruction.Data[0] != 52 || verifyInstruction.Data[1] != 0 {
		t.Fatalf("unexpected instruction data %v", []byte(verifyInstruction.Data))
	}
}

func TestPrepareCompressed(t *testing.T) {
	assetID := randomKey(t)
	creator := randomKey(t)
	owner := randomKey(t)
	tree := randomKey(t)
	proofNodes := []string{randomKey(t).String(), randomKey(t).String(), randomKey(t).String()}

	assets := &fakeAssets{
		asset: &das.Asset{
			ID: assetID.String(),
			Content: das.Content{
				JSONURI:  "https://nftstorage.link/ipfs/cid",
				Metadata: das.Metadata{Name: "Hello", Symbol: "ETCHED", TokenStandard: "NonFungible"},
			},
			Compression: das.Compression{
				Compressed:  true,
				DataHash:    solana.Hash{1}.String(),
				CreatorHash: solana.Hash{2}.String(),
				Tree:        tree.String(),
				LeafID:      5,
			},
			Creators:  []das.Creator{{Address: creator.String(), Share: 100}},
			Ownership: das.Ownership{Owner: owner.String()},
			Mutable:   true,
		},
		proof: das.AssetProof{
			Root:      solana.Hash{3}.String(),
			Proof:     proofNodes,
			NodeIndex: 13,
			TreeID:    tree.String(),
		},
	}

	prepared, err := newTestBuilder(t, assets).Prepare(context.Background(), Request{
		Asset:   assetID.String(),
		Creator: creator.String(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assets.proofCalls != 1 {
		t.Fatalf("expected one proof request, got %d", assets.proofCalls)
	}

	transaction := decodeTransaction(t, prepared.Transaction)
	message := transaction.Message
	verifyInstruction := message.Instructions[1]
	if !message.AccountKeys[verifyInstruction.ProgramIDIndex].Equals(bubblegum.ProgramID) {
		t.Fatal("expected bubblegum program")
	}
	if len(verifyInstruction.Accounts) != 9+len(proofNodes) {
		t.Fatalf("expected %d accounts, got %d", 9+len(proofNodes), len(verifyInstruction.Accounts))
	}
}

func TestPrepareRejections(t *testing.T) {
	creator := randomKey(t)
	authority := randomKey(t)
	assetID := randomKey(t)

	cases := []struct {
		name    string
		assets  *fakeAssets
		request Request
		target  error
		message string
	}{
		{
			name:    "not found",
			assets:  &fakeAssets{err: &das.RPCError{Code: das.CodeNotFound, Message: "Asset not found"}},
			request: Request{Asset: assetID.String(), Creator: creator.String()},
			target:  ErrAssetNotFound,
			message: MessageNotFound,
		},
		{
			name: "programmable update authority outside creators",
			assets: &fakeAssets{asset: &das.Asset{
				Interface:   das.InterfaceProgrammable,
				Authorities: []das.Authority{{Address: authority.String(), Scopes: []string{"full"}}},
				Creators:    []das.Creator{{Address: creator.String(), Share: 100}},
			}},
			request: Request{Asset: assetID.String(), Creator: authority.String()},
			target:  ErrAddCreatorUnsupported,
			message: MessageUnsupported,
		},
		{
			name: "creator list full",
			assets: &fakeAssets{asset: &das.Asset{
				Authorities: []das.Authority{{Address: authority.String(), Scopes: []string{"full"}}},
				Creators: []das.Creator{
					{Address: randomKey(t).String(), Share: 20},
					{Address: randomKey(t).String(), Share: 20},
					{Address: randomKey(t).String(), Share: 20},
					{Address: randomKey(t).String(), Share: 20},
					{Address: randomKey(t).String(), Share: 20},
				},
			}},
			request: Request{Asset: assetID.String(), Creator: authority.String()},
			target:  ErrCreatorsFull,
			message: MessageCreatorsFull,
		},
		{
			name: "already verified",
			assets: &fakeAssets{asset: &das.Asset{
				Creators: []das.Creator{{Address: creator.String(), Verified: true, Share: 100}},
			}},
			request: Request{Asset: assetID.String(), Creator: creator.String()},
			target:  ErrAlreadyVerified,
			message: MessageUnsupported,
		},
	}
	for _, tc := range cases {
		_, err := newTestBuilder(t, tc.assets).Prepare(context.Background(), tc.request)
		if !errors.Is(err, tc.target) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.target, err)
		}
		if PublicMessage(err) != tc.message {
			t.Fatalf("%s: unexpected public message %q", tc.name, PublicMessage(err))
		}
	}
}

func TestPrepareAddCreatorUncompressed(t *testing.T) {
	mintAddress := randomKey(t)
	author := randomKey(t)
	authority := randomKey(t)
	assets := &fakeAssets{asset: &das.Asset{
		ID:          mintAddress.String(),
		Interface:   das.InterfaceV1NFT,
		Content:     das.Content{JSONURI: "u", Metadata: das.Metadata{Name: "Hi", Symbol: "ETCHED"}},
		Authorities: []das.Authority{{Address: authority.String(), Scopes: []string{"full"}}},
		Creators:    []das.Creator{{Address: author.String(), Verified: true, Share: 100}},
	}}

	prepared, err := newTestBuilder(t, assets).Prepare(context.Background(), Request{
		Asset:   mintAddress.String(),
		Creator: authority.String(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assets.proofCalls != 0 {
		t.Fatal("regular mints do not need a proof")
	}

	transaction := decodeTransaction(t, prepared.Transaction)
	message := transaction.Message
	if !message.AccountKeys[0].Equals(authority) {
		t.Fatal("update authority must pay fees")
	}
	if len(transaction.Signatures) != 1 || !transaction.Signatures[0].IsZero() {
		t.Fatal("transaction must be left unsigned for the update authority")
	}
	update := message.Instructions[1]
	if !message.AccountKeys[update.ProgramIDIndex].Equals(tokenmetadata.ProgramID) {
		t.Fatal("expected token metadata program")
	}
	if update.Data[0] != 50 || update.Data[1] != 0 {
		t.Fatalf("expected Update(V1), got %v", []byte(update.Data[:2]))
	}
	tail := update.Data[len(update.Data)-7-34:]
	if !bytes.Equal(tail[:32], authority[:]) || tail[32] != 1 || tail[33] != 0 {
		t.Fatal("update authority must be appended as a verified creator with no share")
	}
}

func TestPrepareAddCreatorCompressed(t *testing.T) {
	verified := true
	assetID := randomKey(t)
	author := randomKey(t)
	authority := randomKey(t)
	tree := randomKey(t)
	collection := randomKey(t)
	proofNodes := []string{randomKey(t).String(), randomKey(t).String()}

	assets := &fakeAssets{
		asset: &das.Asset{
			ID: assetID.String(),
			Content: das.Content{
				JSONURI:  "https://nftstorage.link/ipfs/cid",
				Metadata: das.Metadata{Name: "Hello", Symbol: "ETCHED", TokenStandard: "NonFungible"},
			},
			Authorities: []das.Authority{{Address: authority.String(), Scopes: []string{"full"}}},
			Compression: das.Compression{
				Compressed:  true,
				DataHash:    solana.Hash{1}.String(),
				CreatorHash: solana.Hash{2}.String(),
				Tree:        tree.String(),
				LeafID:      2,
			},
			Grouping:  []das.Grouping{{GroupKey: "collection", GroupValue: collection.String(), Verified: &verified}},
			Creators:  []das.Creator{{Address: author.String(), Verified: true, Share: 100}},
			Ownership: das.Ownership{Owner: author.String()},
			Mutable:   true,
		},
		proof: das.AssetProof{
			Root:      solana.Hash{3}.String(),
			Proof:     proofNodes,
			NodeIndex: 6,
			TreeID:    tree.String(),
		},
	}

	prepared, err := newTestBuilder(t, assets).Prepare(context.Background(), Request{
		Asset:   assetID.String(),
		Creator: authority.String(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assets.proofCalls != 1 {
		t.Fatalf("expected one proof request, got %d", assets.proofCalls)
	}

	transaction := decodeTransaction(t, prepared.Transaction)
	message := transaction.Message
	update := message.Instructions[1]
	if !message.AccountKeys[update.ProgramIDIndex].Equals(bubblegum.ProgramID) {
		t.Fatal("expected bubblegum program")
	}
	if len(update.Accounts) != 13+len(proofNodes) {
		t.Fatalf("expected %d accounts, got %d", 13+len(proofNodes), len(update.Accounts))
	}
	if !message.AccountKeys[update.Accounts[1]].Equals(authority) {
		t.Fatal("update authority must sign the update")
	}
	if !message.AccountKeys[update.Accounts[2]].Equals(collection) {
		t.Fatal("verified collection mint must be passed")
	}
	collectionMetadata, _ := tokenmetadata.MetadataAddress(collection)
	if !message.AccountKeys[update.Accounts[3]].Equals(collectionMetadata) {
		t.Fatal("verified collection metadata must be passed")
	}
}

func TestPrepareValidatesAddresses(t *testing.T) {
	builder := newTestBuilder(t, &fakeAssets{})

	_, err := builder.Prepare(context.Background(), Request{Asset: "not-a-key", Creator: randomKey(t).String()})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "asset" {
		t.Fatalf("expected asset validation error, got %v", err)
	}

	_, err = builder.Prepare(context.Background(), Request{Asset: randomKey(t).String(), Creator: "0OIl"})
	if !errors.As(err, &validationErr) || validationErr.Field != "creator" {
		t.Fatalf("expected creator validation error, got %v", err)
	}
}

func TestLeafProofFromIndex(t *testing.T) {
	asset := das.Asset{Compression: das.Compression{
		DataHash:    solana.Hash{1}.String(),
		CreatorHash: solana.Hash{2}.String(),
		LeafID:      42,
	}}
	proof := das.AssetProof{
		Root:      solana.Hash{3}.String(),
		Proof:     []string{solana.SystemProgramID.String(), solana.SystemProgramID.String()},
		NodeIndex: 6,
	}

	leaf, err := LeafProofFrom(asset, proof)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leaf.Index != 2 || leaf.Nonce != 42 || leaf.Root != (solana.Hash{3}) {
		t.Fatalf("unexpected leaf proof %+v", leaf)
	}

	proof.NodeIndex = 3
	if _, err := LeafProofFrom(asset, proof); err == nil {
		t.Fatal("expected error for an inner node index")
	}
}

func TestMetadataArgsFromCollection(t *testing.T) {
	verified := true
	collection := randomKey(t)
	asset := das.Asset{
		Content:  das.Content{Metadata: das.Metadata{TokenStandard: "NonFungible"}},
		Grouping: []das.Grouping{{GroupKey: "collection", GroupValue: collection.String(), Verified: &verified}},
	}

	metadata, err := MetadataArgsFrom(asset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metadata.Collection == nil || !metadata.Collection.Verified || !metadata.Collection.Key.Equals(collection) {
		t.Fatalf("unexpected collection %+v", metadata.Collection)
	}
	if metadata.TokenStandard == nil || *metadata.TokenStandard != bubblegum.TokenStandardNonFungible {
		t.Fatal("expected non-fungible token standard")
	}
}
