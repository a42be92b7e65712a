package server

import (
	"github.com/etched-id/etched-go/pkg/das"
	"github.com/etched-id/etched-go/pkg/markdown"
	"github.com/etched-id/etched-go/pkg/route"
	"github.com/etched-id/etched-go/pkg/shared"
)

type errorResponse struct {
	Error string `json:"error"`
}

type redirectView struct {
	Destination string `json:"destination"`
	Permanent   bool   `json:"permanent"`
}

type linksView struct {
	Author string `json:"author,omitempty"`
	Mint   string `json:"mint"`
}

type assetView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Image       string        `json:"image,omitempty"`
	JSONURI     string        `json:"jsonUri,omitempty"`
	Owner       string        `json:"owner"`
	Compressed  bool          `json:"compressed"`
	Creators    []das.Creator `json:"creators"`
	Links       linksView     `json:"links"`
}

type routeResponse struct {
	RouteType           route.Kind    `json:"routeType"`
	NotFound            bool          `json:"notFound"`
	Redirect            *redirectView `json:"redirect,omitempty"`
	Asset               *assetView    `json:"asset,omitempty"`
	AssetVerified       bool          `json:"assetVerified"`
	Shortname           string        `json:"shortname,omitempty"`
	ShortnameRegistered bool          `json:"shortnameRegistered"`
}

type archiveItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

type archiveResponse struct {
	Shortname           string        `json:"shortname"`
	Owner               string        `json:"owner"`
	ShortnameRegistered bool          `json:"shortnameRegistered"`
	Items               []archiveItem `json:"items"`
}

func (s *Server) routeView(decision route.Decision) routeResponse {
	response := routeResponse{RouteType: decision.Result.Kind()}
	if decision.Redirect != nil {
		response.Redirect = &redirectView{
			Destination: decision.Redirect.Destination,
			Permanent:   decision.Redirect.Permanent,
		}
	}

	switch result := decision.Result.(type) {
	case route.NotFound:
		response.NotFound = true
	case route.Archive:
		response.Shortname = result.Shortname
		response.ShortnameRegistered = result.ShortnameRegistered
	case route.AssetPage:
		response.Asset = s.assetView(result.Asset, result.AssetVerified)
		response.AssetVerified = result.AssetVerified
		response.Shortname = result.Shortname
		response.ShortnameRegistered = result.ShortnameRegistered
	}
	return response
}

func (s *Server) assetView(asset *das.Asset, verified bool) *assetView {
	if asset == nil {
		return nil
	}
	document := parseDocument(asset.Content.Metadata.Description)

	image := document.Image()
	if image == "" {
		image = asset.Content.Metadata.Image
	}
	if image == "" {
		image = asset.Content.Links.Image
	}

	view := &assetView{
		ID:          asset.ID,
		Title:       markdown.DisplayTitle(document, asset.Content.Metadata.Name),
		Description: markdown.Preview(document, verified),
		Image:       image,
		JSONURI:     asset.Content.JSONURI,
		Owner:       asset.Owner(),
		Compressed:  asset.Compressed(),
		Creators:    asset.Creators,
		Links: linksView{
			Mint: shared.ExplorerURL(s.network, "address", asset.ID),
		},
	}
	if len(asset.Creators) > 0 {
		view.Links.Author = shared.ExplorerURL(s.network, "address", asset.Creators[0].Address)
	}
	return view
}

func archiveItems(assets []das.Asset) []archiveItem {
	items := make([]archiveItem, 0, len(assets))
	for _, asset := range assets {
		document := parseDocument(asset.Content.Metadata.Description)
		items = append(items, archiveItem{
			ID:       asset.ID,
			Name:     markdown.DisplayTitle(document, asset.Content.Metadata.Name),
			Verified: true,
		})
	}
	return items
}

// parseDocument falls back to the raw text when front matter is unreadable.
func parseDocument(content string) markdown.Document {
	document, err := markdown.Parse(content)
	if err != nil {
		return markdown.Document{Body: content}
	}
	return document
}
