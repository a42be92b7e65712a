package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/etched-id/etched-go/internal/app"
	"github.com/etched-id/etched-go/internal/server"
	"github.com/etched-id/etched-go/pkg/shared"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "optional YAML config file")
	origins := flag.String("allow-origins", "", "comma separated CORS origins")
	flag.Parse()

	config, err := shared.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := shared.NewLogger(config.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	components, err := app.Build(config, logger)
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	srv, err := server.New(server.Config{
		Mint:         mintPreparer(components),
		Verify:       components.Verify,
		Routes:       components.Routes,
		Archives:     components.Assets,
		Names:        components.Names,
		Network:      config.Network,
		AllowOrigins: splitOrigins(*origins),
		Logger:       logger.Named("http"),
	})
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	httpServer := srv.HTTPServer(config.ListenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("listening", zap.String("addr", config.ListenAddr), zap.String("network", config.Network))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// mintPreparer keeps a nil builder from becoming a non-nil interface.
func mintPreparer(components *app.Components) server.MintPreparer {
	if components.Mint == nil {
		return nil
	}
	return components.Mint
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
