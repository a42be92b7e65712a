package main

import (
	"encoding/json"
	"fmt"

	"github.com/etched-id/etched-go/pkg/assets"
	"github.com/etched-id/etched-go/pkg/route"
	"github.com/etched-id/etched-go/pkg/sns"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:     "resolve <path>",
	Short:   "Show what a page path renders and its canonical location",
	Example: "  etched resolve alice.sol\n  etched resolve alice.sol/<asset id>",
	Args:    cobra.ExactArgs(1),
	RunE:    runResolve,
}

var archiveCmd = &cobra.Command{
	Use:   "archive <shortname>",
	Short: "List the verified works owned by a shortname",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

type resolveOutput struct {
	RouteType           route.Kind `json:"routeType"`
	NotFound            bool       `json:"notFound"`
	Redirect            string     `json:"redirect,omitempty"`
	Asset               string     `json:"asset,omitempty"`
	AssetVerified       bool       `json:"assetVerified"`
	Shortname           string     `json:"shortname,omitempty"`
	ShortnameRegistered bool       `json:"shortnameRegistered"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	components, err := loadComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()
	decision, err := components.Routes.Resolve(cmd.Context(), route.SplitPath(args[0]))
	if err != nil {
		return err
	}

	output := resolveOutput{RouteType: decision.Result.Kind(), NotFound: decision.IsNotFound()}
	if decision.Redirect != nil {
		output.Redirect = decision.Redirect.Destination
	}
	switch result := decision.Result.(type) {
	case route.Archive:
		output.Shortname = result.Shortname
		output.ShortnameRegistered = result.ShortnameRegistered
	case route.AssetPage:
		output.Asset = result.Asset.ID
		output.AssetVerified = result.AssetVerified
		output.Shortname = result.Shortname
		output.ShortnameRegistered = result.ShortnameRegistered
	}
	return printJSON(cmd, output)
}

func runArchive(cmd *cobra.Command, args []string) error {
	components, err := loadComponents()
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()
	shortname := sns.CanonicalShortname(args[0])
	owner, err := components.Names.Resolve(cmd.Context(), shortname)
	if err != nil {
		return err
	}
	works, err := components.Assets.Archive(cmd.Context(), owner)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", shortname, owner)
	for _, work := range works {
		work := work
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s  verified=%t\n", work.ID, work.Content.Metadata.Name, assets.IsVerified(&work))
	}
	return nil
}

func printJSON(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
