package txflow

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Sender submits signed transactions. *rpc.Client satisfies it.
type Sender interface {
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

// KeypairWallet signs with a local keypair, keeping any signatures the
// builder service already added.
type KeypairWallet struct {
	key    solana.PrivateKey
	sender Sender
}

func NewKeypairWallet(key solana.PrivateKey, sender Sender) (*KeypairWallet, error) {
	if len(key) != 64 {
		return nil, fmt.Errorf("wallet key must be 64 bytes")
	}
	if sender == nil {
		return nil, fmt.Errorf("sender is required")
	}
	return &KeypairWallet{key: key, sender: sender}, nil
}

func (w *KeypairWallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

func (w *KeypairWallet) SignAndSend(ctx context.Context, transaction *solana.Transaction) (solana.Signature, error) {
	if transaction == nil {
		return solana.Signature{}, ErrNoTransaction
	}
	owner := w.key.PublicKey()
	if _, err := transaction.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(owner) {
			return &w.key
		}
		return nil
	}); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	for index, signature := range transaction.Signatures {
		if signature.IsZero() {
			return solana.Signature{}, fmt.Errorf("transaction is missing signature %d", index)
		}
	}

	signature, err := w.sender.SendTransactionWithOpts(ctx, transaction, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signature, nil
}
