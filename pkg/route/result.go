package route

import "github.com/etched-id/etched-go/pkg/das"

// Kind names the page a result renders.
type Kind string

const (
	KindArchive          Kind = "SHORTNAME"
	KindShortnameAddress Kind = "ADDRESS"
	KindAssetAddress     Kind = "ASSET_ADDRESS"
)

// Result is one of NotFound, Archive or AssetPage.
type Result interface {
	Kind() Kind
	result()
}

type NotFound struct{}

type Archive struct {
	Shortname           string
	ShortnameRegistered bool
}

type AssetPage struct {
	PageKind            Kind
	Asset               *das.Asset
	AssetVerified       bool
	Shortname           string
	ShortnameRegistered bool
}

func (NotFound) Kind() Kind    { return "" }
func (Archive) Kind() Kind     { return KindArchive }
func (p AssetPage) Kind() Kind { return p.PageKind }

func (NotFound) result()  {}
func (Archive) result()   {}
func (AssetPage) result() {}

// Redirect points the client at the canonical path. Redirects are never
// permanent since ownership and bindings change.
type Redirect struct {
	Destination string
	Permanent   bool
}

type Decision struct {
	Intent   Intent
	Result   Result
	Redirect *Redirect
}

// IsNotFound reports whether the decision renders the not-found page.
func (d Decision) IsNotFound() bool {
	_, ok := d.Result.(NotFound)
	return ok
}

func temporaryRedirect(path string) *Redirect {
	return &Redirect{Destination: "/" + path, Permanent: false}
}
