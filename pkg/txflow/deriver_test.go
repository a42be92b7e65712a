package txflow

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/etched-id/etched-go/pkg/bubblegum"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	response []byte
	method   string
}

func (f *fakeCaller) RPCCallForInto(_ context.Context, out any, method string, _ []any) error {
	f.method = method
	return json.Unmarshal(f.response, out)
}

func transactionResponse(t *testing.T, keys []solana.PublicKey, programIndex int, data []byte) []byte {
	t.Helper()
	encoded, err := json.Marshal(solana.Base58(data))
	require.NoError(t, err)
	response, err := json.Marshal(map[string]any{
		"transaction": map[string]any{
			"message": map[string]any{"accountKeys": keys},
		},
		"meta": map[string]any{
			"innerInstructions": []any{map[string]any{
				"index": 1,
				"instructions": []any{
					map[string]any{"programIdIndex": programIndex, "data": json.RawMessage(encoded)},
				},
			}},
			"loadedAddresses": map[string]any{"writable": []any{}, "readonly": []any{}},
		},
	})
	require.NoError(t, err)
	return response
}

func TestLeafDeriverFindsAssetID(t *testing.T) {
	tree := solana.PublicKey{8}
	assetID, err := bubblegum.AssetID(tree, 5)
	require.NoError(t, err)
	event := bubblegum.EncodeLeafEvent(bubblegum.Leaf{ID: assetID, Nonce: 5})

	caller := &fakeCaller{response: transactionResponse(t,
		[]solana.PublicKey{{1}, bubblegum.ProgramID, bubblegum.NoopProgramID}, 2, event)}
	deriver, err := NewLeafDeriver(caller, tree)
	require.NoError(t, err)

	derived, err := deriver.DeriveAssetID(context.Background(), solana.Signature{1})
	require.NoError(t, err)
	assert.Equal(t, assetID, derived)
	assert.Equal(t, "getTransaction", caller.method)
}

func TestLeafDeriverRejectsMismatchedTree(t *testing.T) {
	event := bubblegum.EncodeLeafEvent(bubblegum.Leaf{ID: solana.PublicKey{3}, Nonce: 5})
	caller := &fakeCaller{response: transactionResponse(t,
		[]solana.PublicKey{{1}, bubblegum.NoopProgramID}, 1, event)}
	deriver, err := NewLeafDeriver(caller, solana.PublicKey{8})
	require.NoError(t, err)

	_, err = deriver.DeriveAssetID(context.Background(), solana.Signature{1})
	assert.Error(t, err)
}

func TestLeafDeriverWithoutEvent(t *testing.T) {
	caller := &fakeCaller{response: transactionResponse(t,
		[]solana.PublicKey{{1}, solana.SystemProgramID}, 1, []byte{1, 2, 3})}
	deriver, err := NewLeafDeriver(caller, solana.PublicKey{})
	require.NoError(t, err)

	_, err = deriver.DeriveAssetID(context.Background(), solana.Signature{1})
	assert.ErrorIs(t, err, ErrLeafEventMissing)
}

func TestLeafDeriverPendingTransaction(t *testing.T) {
	deriver, err := NewLeafDeriver(&fakeCaller{response: []byte("null")}, solana.PublicKey{})
	require.NoError(t, err)

	_, err = deriver.DeriveAssetID(context.Background(), solana.Signature{1})
	assert.Error(t, err)
}
