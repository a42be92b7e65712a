package das

import "strings"

const (
	ScopeFull = "full"

	InterfaceV1NFT           = "V1_NFT"
	InterfaceProgrammable    = "ProgrammableNFT"
	TokenStandardNonFungible = "NonFungible"
)

type Asset struct {
	Interface   string      `json:"interface"`
	ID          string      `json:"id"`
	Content     Content     `json:"content"`
	Authorities []Authority `json:"authorities"`
	Compression Compression `json:"compression"`
	Grouping    []Grouping  `json:"grouping"`
	Royalty     Royalty     `json:"royalty"`
	Creators    []Creator   `json:"creators"`
	Ownership   Ownership   `json:"ownership"`
	Supply      *Supply     `json:"supply,omitempty"`
	Mutable     bool        `json:"mutable"`
	Burnt       bool        `json:"burnt"`
}

type Content struct {
	Schema   string   `json:"$schema,omitempty"`
	JSONURI  string   `json:"json_uri"`
	Metadata Metadata `json:"metadata"`
	Links    Links    `json:"links"`
}

type Metadata struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Description   string `json:"description,omitempty"`
	Image         string `json:"image,omitempty"`
	TokenStandard string `json:"token_standard,omitempty"`
}

type Links struct {
	Image       string `json:"image,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

type Authority struct {
	Address string   `json:"address"`
	Scopes  []string `json:"scopes"`
}

type Compression struct {
	Eligible    bool   `json:"eligible"`
	Compressed  bool   `json:"compressed"`
	DataHash    string `json:"data_hash"`
	CreatorHash string `json:"creator_hash"`
	AssetHash   string `json:"asset_hash"`
	Tree        string `json:"tree"`
	Seq         uint64 `json:"seq"`
	LeafID      uint64 `json:"leaf_id"`
}

type Grouping struct {
	GroupKey   string `json:"group_key"`
	GroupValue string `json:"group_value"`
	Verified   *bool  `json:"verified,omitempty"`
}

type Royalty struct {
	RoyaltyModel        string  `json:"royalty_model"`
	Percent             float64 `json:"percent"`
	BasisPoints         uint16  `json:"basis_points"`
	PrimarySaleHappened bool    `json:"primary_sale_happened"`
	Locked              bool    `json:"locked"`
}

type Creator struct {
	Address  string `json:"address"`
	Share    uint8  `json:"share"`
	Verified bool   `json:"verified"`
}

type Ownership struct {
	Frozen         bool   `json:"frozen"`
	Delegated      bool   `json:"delegated"`
	Delegate       string `json:"delegate,omitempty"`
	OwnershipModel string `json:"ownership_model"`
	Owner          string `json:"owner"`
}

type Supply struct {
	PrintMaxSupply     uint64 `json:"print_max_supply"`
	PrintCurrentSupply uint64 `json:"print_current_supply"`
	EditionNonce       *uint8 `json:"edition_nonce"`
}

type AssetList struct {
	Total int     `json:"total"`
	Limit int     `json:"limit"`
	Page  int     `json:"page"`
	Items []Asset `json:"items"`
}

type AssetProof struct {
	Root      string   `json:"root"`
	Proof     []string `json:"proof"`
	NodeIndex uint64   `json:"node_index"`
	Leaf      string   `json:"leaf"`
	TreeID    string   `json:"tree_id"`
}

type AssetsByCreatorQuery struct {
	CreatorAddress string
	OnlyVerified   bool
	Page           int
	Limit          int
}

// Owner returns the current holder of the asset.
func (a Asset) Owner() string {
	return a.Ownership.Owner
}

// Compressed reports whether the asset lives in a concurrent merkle tree.
func (a Asset) Compressed() bool {
	return a.Compression.Compressed
}

// UpdateAuthority returns the authority scoped "full", or "" when none is.
func (a Asset) UpdateAuthority() string {
	for _, authority := range a.Authorities {
		for _, scope := range authority.Scopes {
			if scope == ScopeFull {
				return authority.Address
			}
		}
	}
	return ""
}

// CreatorIndex returns the position of address in the creators list or -1.
func (a Asset) CreatorIndex(address string) int {
	for index, creator := range a.Creators {
		if creator.Address == address {
			return index
		}
	}
	return -1
}

// Collection returns the collection grouping value if the asset has one.
func (a Asset) Collection() (Grouping, bool) {
	for _, group := range a.Grouping {
		if group.GroupKey == "collection" && strings.TrimSpace(group.GroupValue) != "" {
			return group, true
		}
	}
	return Grouping{}, false
}

// NeedsMetadataCompletion reports whether name or description is missing
// from the inline metadata.
func (a Asset) NeedsMetadataCompletion() bool {
	return strings.TrimSpace(a.Content.Metadata.Name) == "" ||
		strings.TrimSpace(a.Content.Metadata.Description) == ""
}
