// Package server exposes the Etched HTTP API: mint and verify transaction
// preparation, route resolution and creator archives.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/etched-id/etched-go/pkg/das"
	"github.com/etched-id/etched-go/pkg/mint"
	"github.com/etched-id/etched-go/pkg/route"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/etched-id/etched-go/pkg/sns"
	"github.com/etched-id/etched-go/pkg/verify"
	"go.uber.org/zap"
)

type MintPreparer interface {
	Prepare(ctx context.Context, request mint.Request) (mint.Prepared, error)
}

type VerifyPreparer interface {
	Prepare(ctx context.Context, request verify.Request) (mint.Prepared, error)
}

type RouteResolver interface {
	Resolve(ctx context.Context, segments []string) (route.Decision, error)
}

type ArchiveLister interface {
	Archive(ctx context.Context, creator string) ([]das.Asset, error)
}

type NameResolver interface {
	Resolve(ctx context.Context, shortname string) (string, error)
	LookupAndVerify(ctx context.Context, query sns.Query) sns.Result
}

// Config wires the server. Mint and Verify may be nil when the process has
// no tree authority; the matching endpoints then answer 503.
type Config struct {
	Mint         MintPreparer
	Verify       VerifyPreparer
	Routes       RouteResolver
	Archives     ArchiveLister
	Names        NameResolver
	Network      string
	AllowOrigins []string
	Logger       *zap.Logger
}

type Server struct {
	mint     MintPreparer
	verify   VerifyPreparer
	routes   RouteResolver
	archives ArchiveLister
	names    NameResolver
	network  string
	origins  []string
	logger   *zap.Logger
}

func New(config Config) (*Server, error) {
	if config.Routes == nil {
		return nil, fmt.Errorf("route resolver is required")
	}
	if config.Archives == nil {
		return nil, fmt.Errorf("archive lister is required")
	}
	if config.Names == nil {
		return nil, fmt.Errorf("name resolver is required")
	}
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}
	origins := config.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		mint:     config.Mint,
		verify:   config.Verify,
		routes:   config.Routes,
		archives: config.Archives,
		names:    config.Names,
		network:  network,
		origins:  origins,
		logger:   shared.LoggerOrNop(config.Logger),
	}, nil
}

// HTTPServer wraps the router with the timeouts the binary runs with.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}
