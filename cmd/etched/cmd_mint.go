package main

import (
	"fmt"
	"os"

	"github.com/etched-id/etched-go/pkg/markdown"
	"github.com/etched-id/etched-go/pkg/mint"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/etched-id/etched-go/pkg/txflow"
	"github.com/spf13/cobra"
)

var (
	mintTitle   string
	mintFile    string
	mintImage   string
	mintSummary string
	mintKeypair string
)

var mintCmd = &cobra.Command{
	Use:     "mint",
	Short:   "Mint a Markdown file as a compressed NFT",
	Example: `  etched mint --title "Hello" --file hello.md --keypair ~/.config/solana/id.json`,
	RunE:    runMint,
}

func init() {
	mintCmd.Flags().StringVar(&mintTitle, "title", "", "title of the work (at most 32 characters)")
	mintCmd.Flags().StringVar(&mintFile, "file", "", "Markdown file to mint")
	mintCmd.Flags().StringVar(&mintImage, "image", "", "image URI stored in the front matter")
	mintCmd.Flags().StringVar(&mintSummary, "summary", "", "summary merged into the front matter")
	mintCmd.Flags().StringVar(&mintKeypair, "keypair", "", "author keypair file")
	_ = mintCmd.MarkFlagRequired("title")
	_ = mintCmd.MarkFlagRequired("file")
	_ = mintCmd.MarkFlagRequired("keypair")
}

func runMint(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(mintFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", mintFile, err)
	}
	content, err := markdown.SetField(string(raw), "image", mintImage)
	if err != nil {
		return err
	}
	key, err := readKeypair(mintKeypair)
	if err != nil {
		return err
	}

	request := mint.Request{
		Title:   mintTitle,
		Author:  key.PublicKey().String(),
		Content: content,
		Summary: mintSummary,
	}
	if _, err := mint.Validate(request); err != nil {
		return err
	}

	components, err := loadComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()
	fetcher, err := txflow.NewMintFetcher(apiBaseURL(components.Config), request, nil)
	if err != nil {
		return err
	}
	deriver, err := txflow.NewLeafDeriver(components.RPC, components.MerkleTree)
	if err != nil {
		return err
	}

	session, err := runTransaction(cmd.Context(), components, key, fetcher, deriver)
	if session.Signature != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "signature: %s\n", session.Signature)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "asset: %s\n", session.AssetID)
	fmt.Fprintf(cmd.OutOrStdout(), "page: %s/%s\n", components.Config.SiteURL, session.AssetID)
	fmt.Fprintf(cmd.OutOrStdout(), "explorer: %s\n", shared.ExplorerURL(components.Config.Network, "address", session.AssetID.String()))
	return nil
}
