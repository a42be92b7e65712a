package main

import (
	"context"
	"fmt"
	"os"

	"github.com/etched-id/etched-go/internal/app"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/etched-id/etched-go/pkg/txflow"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

func readKeypair(path string) (solana.PrivateKey, error) {
	if path == "" {
		return nil, fmt.Errorf("--keypair is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair: %w", err)
	}
	return shared.ParsePrivateKey(string(raw))
}

// runTransaction drives one orchestrated attempt and logs every transition.
func runTransaction(
	ctx context.Context,
	components *app.Components,
	key solana.PrivateKey,
	fetcher txflow.Fetcher,
	deriver txflow.Deriver,
) (txflow.Session, error) {
	wallet, err := txflow.NewKeypairWallet(key, components.RPC)
	if err != nil {
		return txflow.Session{}, err
	}
	confirmer, err := txflow.NewRPCConfirmer(components.RPC, 0)
	if err != nil {
		return txflow.Session{}, err
	}
	orchestrator, err := txflow.NewOrchestrator(txflow.Config{
		Fetcher:   fetcher,
		Wallet:    wallet,
		Confirmer: confirmer,
		Deriver:   deriver,
		Logger:    logger.Named("txflow"),
	})
	if err != nil {
		return txflow.Session{}, err
	}
	defer orchestrator.Close()

	orchestrator.Subscribe(func(session txflow.Session) {
		fields := []zap.Field{zap.String("state", string(session.State))}
		if session.Signature != nil {
			fields = append(fields, zap.String("signature", session.Signature.String()))
		}
		logger.Debug("transaction state", fields...)
	})
	return orchestrator.Run(ctx)
}
