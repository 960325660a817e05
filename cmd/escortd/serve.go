package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/config"
	"github.com/yanizio/escortde/internal/form"
	"github.com/yanizio/escortde/internal/logger"
	"github.com/yanizio/escortde/internal/requestinfo"
	"github.com/yanizio/escortde/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(logOptions(cfg))
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	form.Configure(cfg.CSRF.Secret)

	res, err := open(ctx, cfg)
	if err != nil {
		log.Errorw("startup failed", "err", err)
		return err
	}
	defer res.Close()

	proxies, err := requestinfo.ParseProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	h, err := newRouter(res.deps, routerOptions{
		ForceHTTPS:  cfg.HTTP.ForceHTTPS,
		Geo:         res.geo,
		Proxies:     proxies,
		Health:      res.health,
		UploadsPath: res.uploadsPath,
		UploadsDir:  res.uploadsDir,
	})
	if err != nil {
		return err
	}

	zap.S().Infow("escortd starting",
		"addr", cfg.HTTP.ListenAddr,
		"base_url", cfg.HTTP.BaseURL,
		"indexing", cfg.SEO.AllowIndexing)
	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, h), server.ShutdownGrace)
}
