package txflow

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// StatusReader is the slice of the RPC client the confirmer polls.
// *rpc.Client satisfies it.
type StatusReader interface {
	GetSignatureStatuses(
		ctx context.Context,
		searchTransactionHistory bool,
		transactionSignatures ...solana.Signature,
	) (*rpc.GetSignatureStatusesResult, error)
	GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
}

// RPCConfirmer polls signature status until the transaction reaches
// confirmed commitment or the block height passes the blockhash's last
// valid height.
type RPCConfirmer struct {
	reader   StatusReader
	interval time.Duration
}

func NewRPCConfirmer(reader StatusReader, interval time.Duration) (*RPCConfirmer, error) {
	if reader == nil {
		return nil, fmt.Errorf("status reader is required")
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &RPCConfirmer{reader: reader, interval: interval}, nil
}

func (c *RPCConfirmer) Confirm(ctx context.Context, request ConfirmRequest) (bool, error) {
	for {
		result, err := c.reader.GetSignatureStatuses(ctx, false, request.Signature)
		if err != nil {
			return false, fmt.Errorf("failed to read signature status: %w", err)
		}
		if result != nil && len(result.Value) > 0 && result.Value[0] != nil {
			status := result.Value[0]
			if status.Err != nil {
				return false, fmt.Errorf("transaction %s failed: %v", request.Signature, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return true, nil
			}
		}

		height, err := c.reader.GetBlockHeight(ctx, rpc.CommitmentConfirmed)
		if err != nil {
			return false, fmt.Errorf("failed to read block height: %w", err)
		}
		if height > request.LastValidBlockHeight {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(c.interval):
		}
	}
}
