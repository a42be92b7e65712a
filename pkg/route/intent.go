package route

import (
	"errors"
	"regexp"
	"strings"
)

var ErrNoMatch = errors.New("path does not name a shortname or address")

var (
	shortnameAddressPattern = regexp.MustCompile(`^([^./]+\.sol)/([A-Za-z0-9]+)$`)
	shortnamePattern        = regexp.MustCompile(`^([^./]+\.sol)$`)
	addressPattern          = regexp.MustCompile(`^([A-Za-z0-9]+)$`)
)

// Intent is what a request path asks for. It is one of ShortnameIntent,
// AddressIntent or ShortnameAddressIntent.
type Intent interface {
	Path() string
	intent()
}

type ShortnameIntent struct {
	Shortname string
}

type AddressIntent struct {
	Address string
}

type ShortnameAddressIntent struct {
	Shortname string
	Address   string
}

func (i ShortnameIntent) Path() string        { return i.Shortname }
func (i AddressIntent) Path() string          { return i.Address }
func (i ShortnameAddressIntent) Path() string { return i.Shortname + "/" + i.Address }

func (ShortnameIntent) intent()        {}
func (AddressIntent) intent()          {}
func (ShortnameAddressIntent) intent() {}

// Classify turns the one or two segments of a catch-all path into an Intent.
func Classify(segments []string) (Intent, error) {
	var joined string
	switch len(segments) {
	case 1:
		joined = segments[0]
	case 2:
		joined = segments[0] + "/" + segments[1]
	default:
		return nil, ErrNoMatch
	}

	if match := shortnameAddressPattern.FindStringSubmatch(joined); match != nil {
		return ShortnameAddressIntent{Shortname: match[1], Address: match[2]}, nil
	}
	if match := shortnamePattern.FindStringSubmatch(joined); match != nil {
		return ShortnameIntent{Shortname: match[1]}, nil
	}
	if match := addressPattern.FindStringSubmatch(joined); match != nil {
		return AddressIntent{Address: match[1]}, nil
	}
	return nil, ErrNoMatch
}

// SplitPath breaks a URL path into catch-all segments.
func SplitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
