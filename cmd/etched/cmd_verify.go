package main

import (
	"fmt"

	"github.com/etched-id/etched-go/pkg/txflow"
	"github.com/etched-id/etched-go/pkg/verify"
	"github.com/spf13/cobra"
)

var (
	verifyAsset   string
	verifyKeypair string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Sign your creator entry on an asset, adding it as update authority",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyAsset, "asset", "", "asset id or mint address")
	verifyCmd.Flags().StringVar(&verifyKeypair, "keypair", "", "creator or update authority keypair file")
	_ = verifyCmd.MarkFlagRequired("asset")
	_ = verifyCmd.MarkFlagRequired("keypair")
}

func runVerify(cmd *cobra.Command, args []string) error {
	key, err := readKeypair(verifyKeypair)
	if err != nil {
		return err
	}
	components, err := loadComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	asset, err := components.Indexer.GetAsset(cmd.Context(), verifyAsset)
	if err != nil {
		return err
	}
	if asset == nil {
		return fmt.Errorf("asset %s not found", verifyAsset)
	}
	action := verify.Plan(*asset, key.PublicKey().String())
	if action != verify.ActionVerifyCreator && action != verify.ActionAddCreator {
		return fmt.Errorf("cannot verify %s as %s: %s", verifyAsset, key.PublicKey(), action)
	}

	fetcher, err := txflow.NewVerifyFetcher(
		apiBaseURL(components.Config),
		verify.Request{Asset: verifyAsset, Creator: key.PublicKey().String()},
		nil,
	)
	if err != nil {
		return err
	}
	session, err := runTransaction(cmd.Context(), components, key, fetcher, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", action, session.Signature)
	return nil
}
