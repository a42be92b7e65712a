package txflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/etched-id/etched-go/pkg/bubblegum"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrLeafEventMissing = errors.New("transaction has no bubblegum leaf event")

// RPCCaller issues raw JSON-RPC calls. *rpc.Client satisfies it.
type RPCCaller interface {
	RPCCallForInto(ctx context.Context, out any, method string, params []any) error
}

type confirmedTransaction struct {
	Transaction struct {
		Message struct {
			AccountKeys []solana.PublicKey `json:"accountKeys"`
		} `json:"message"`
	} `json:"transaction"`
	Meta *struct {
		InnerInstructions []struct {
			Index        int `json:"index"`
			Instructions []struct {
				ProgramIDIndex int           `json:"programIdIndex"`
				Data           solana.Base58 `json:"data"`
			} `json:"instructions"`
		} `json:"innerInstructions"`
		LoadedAddresses struct {
			Writable []solana.PublicKey `json:"writable"`
			Readonly []solana.PublicKey `json:"readonly"`
		} `json:"loadedAddresses"`
	} `json:"meta"`
}

func (t *confirmedTransaction) accountKeys() []solana.PublicKey {
	keys := append([]solana.PublicKey{}, t.Transaction.Message.AccountKeys...)
	if t.Meta != nil {
		keys = append(keys, t.Meta.LoadedAddresses.Writable...)
		keys = append(keys, t.Meta.LoadedAddresses.Readonly...)
	}
	return keys
}

// LeafDeriver reads a confirmed mint and decodes the leaf event bubblegum
// logged through the noop program. When MerkleTree is set the id is checked
// against the asset PDA for the event's nonce.
type LeafDeriver struct {
	caller     RPCCaller
	merkleTree solana.PublicKey
}

func NewLeafDeriver(caller RPCCaller, merkleTree solana.PublicKey) (*LeafDeriver, error) {
	if caller == nil {
		return nil, fmt.Errorf("rpc caller is required")
	}
	return &LeafDeriver{caller: caller, merkleTree: merkleTree}, nil
}

func (d *LeafDeriver) DeriveAssetID(ctx context.Context, signature solana.Signature) (solana.PublicKey, error) {
	var transaction *confirmedTransaction
	err := d.caller.RPCCallForInto(ctx, &transaction, "getTransaction", []any{
		signature.String(),
		map[string]any{
			"encoding":                       "json",
			"commitment":                     rpc.CommitmentConfirmed,
			"maxSupportedTransactionVersion": 0,
		},
	})
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to fetch transaction %s: %w", signature, err)
	}
	if transaction == nil || transaction.Meta == nil {
		return solana.PublicKey{}, fmt.Errorf("transaction %s is not available yet", signature)
	}

	leaf, err := findLeafEvent(transaction)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if d.merkleTree.IsZero() {
		return leaf.ID, nil
	}

	expected, err := bubblegum.AssetID(d.merkleTree, leaf.Nonce)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if !expected.Equals(leaf.ID) {
		return solana.PublicKey{}, fmt.Errorf("leaf id %s does not match asset %s at nonce %d", leaf.ID, expected, leaf.Nonce)
	}
	return expected, nil
}

func findLeafEvent(transaction *confirmedTransaction) (bubblegum.Leaf, error) {
	keys := transaction.accountKeys()
	for _, group := range transaction.Meta.InnerInstructions {
		for _, instruction := range group.Instructions {
			if instruction.ProgramIDIndex < 0 || instruction.ProgramIDIndex >= len(keys) {
				continue
			}
			if !keys[instruction.ProgramIDIndex].Equals(bubblegum.NoopProgramID) {
				continue
			}
			leaf, err := bubblegum.DecodeLeafEvent(instruction.Data)
			if errors.Is(err, bubblegum.ErrNotLeafEvent) {
				continue
			}
			if err != nil {
				return bubblegum.Leaf{}, err
			}
			return leaf, nil
		}
	}
	return bubblegum.Leaf{}, ErrLeafEventMissing
}
