package sns

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/etched-id/etched-go/pkg/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	TLD             = ".sol"
	recordSubdomain = "etched"
	defaultSiteHost = "etched.id"

	sharedLookupTimeout = 15 * time.Second
)

// Registry is the name-service surface the resolver reads from.
type Registry interface {
	ReverseLookup(ctx context.Context, address string) (string, error)
	Resolve(ctx context.Context, domain string) (string, error)
	RecordV2(ctx context.Context, domain string, record string) (string, error)
}

type ResolverConfig struct {
	Registry Registry
	// SiteHost is the host the url record must point at.
	SiteHost string
	Logger   *zap.Logger
}

// Query selects a binding either by owner address or by shortname.
type Query struct {
	Address   string
	Shortname string
}

type Result struct {
	Verified  bool
	Shortname string
}

type Resolver struct {
	registry Registry
	siteHost string
	logger   *zap.Logger
	group    singleflight.Group
}

// NewResolver creates a new Resolver.
func NewResolver(config ResolverConfig) (*Resolver, error) {
	if config.Registry == nil {
		return nil, fmt.Errorf("name registry is required")
	}
	siteHost := strings.TrimSpace(config.SiteHost)
	if siteHost == "" {
		siteHost = defaultSiteHost
	}
	return &Resolver{
		registry: config.Registry,
		siteHost: siteHost,
		logger:   shared.LoggerOrNop(config.Logger),
	}, nil
}

// CanonicalShortname lowercases name and ensures the .sol suffix.
func CanonicalShortname(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return ""
	}
	if !strings.HasSuffix(normalized, TLD) {
		normalized += TLD
	}
	return normalized
}

func bareName(shortname string) string {
	return strings.TrimSuffix(CanonicalShortname(shortname), TLD)
}

// ReverseLookup returns the shortname bound to address, or "" when there is
// none or the name service could not be reached.
func (r *Resolver) ReverseLookup(ctx context.Context, address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}
	domain, err := r.shared(ctx, "reverse:"+address, func(ctx context.Context) (string, error) {
		return r.registry.ReverseLookup(ctx, address)
	})
	if err != nil {
		r.logger.Warn("reverse lookup failed", zap.String("address", address), zap.Error(err))
		return ""
	}
	return CanonicalShortname(domain)
}

// VerifyBinding reports whether the shortname publishes an etched url record
// pointing back at its own page. Any failure yields false.
func (r *Resolver) VerifyBinding(ctx context.Context, shortname string) bool {
	canonical := CanonicalShortname(shortname)
	if canonical == "" || strings.ContainsAny(canonical, "/ ") {
		return false
	}
	subdomain := recordSubdomain + "." + bareName(canonical)

	record, err := r.shared(ctx, "record:"+subdomain, func(ctx context.Context) (string, error) {
		return r.registry.RecordV2(ctx, subdomain, RecordURL)
	})
	if err != nil {
		r.logger.Warn("url record lookup failed", zap.String("shortname", canonical), zap.Error(err))
		return false
	}
	return r.bindingPattern(canonical).MatchString(strings.TrimSpace(record))
}

// LookupAndVerify resolves the shortname for an address when needed and
// then checks its binding.
func (r *Resolver) LookupAndVerify(ctx context.Context, query Query) Result {
	shortname := CanonicalShortname(query.Shortname)
	if shortname == "" {
		if strings.TrimSpace(query.Address) == "" {
			return Result{}
		}
		shortname = r.ReverseLookup(ctx, query.Address)
		if shortname == "" {
			return Result{}
		}
	}
	return Result{
		Verified:  r.VerifyBinding(ctx, shortname),
		Shortname: shortname,
	}
}

// Resolve returns the owner address of shortname.
func (r *Resolver) Resolve(ctx context.Context, shortname string) (string, error) {
	canonical := CanonicalShortname(shortname)
	if canonical == "" {
		return "", ErrInvalidShortname
	}
	return r.shared(ctx, "resolve:"+canonical, func(ctx context.Context) (string, error) {
		return r.registry.Resolve(ctx, bareName(canonical))
	})
}

// shared collapses concurrent lookups for key into one registry call. The
// call runs on a context detached from any single caller, so a caller that
// gives up does not fail the others waiting on the same key.
func (r *Resolver) shared(ctx context.Context, key string, lookup func(context.Context) (string, error)) (string, error) {
	results := r.group.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()
		return lookup(lookupCtx)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}
		value, _ := result.Val.(string)
		return value, nil
	}
}

func (r *Resolver) bindingPattern(shortname string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`^https://(www\.)?%s/%s$`,
		regexp.QuoteMeta(r.siteHost),
		regexp.QuoteMeta(shortname),
	))
}
