// cmd/server/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/budayachain/budaya-backend/internal/database"
	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/metrics"
	"github.com/budayachain/budaya-backend/internal/middleware"
	"github.com/budayachain/budaya-backend/internal/router"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/solana"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}

	store, closeStore, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer closeStore()

	// Migrations run on a separate connection so the store keeps its own pool
	if !cfg.Database.IsMemory() {
		if err := migrate(cfg.Database); err != nil {
			return err
		}
	} else if err := database.SeedInitialData(parent, store); err != nil {
		return fmt.Errorf("failed to seed memory store: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	endpoint := solana.Endpoint(cfg.Solana.Network, cfg.Solana.RPCURL)
	chain := solana.Dial(endpoint, solana.Options{
		Network: cfg.Solana.Network,
		Timeout: time.Duration(cfg.Solana.RequestTimeout) * time.Second,
		Metrics: m,
	})
	logrus.WithFields(logrus.Fields{
		"network":  cfg.Solana.Network,
		"endpoint": endpoint,
	}).Info("Solana RPC configured")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	audit := middleware.NewAuditLogger(store.Audit)
	r := router.Initialize(cfg, router.Dependencies{
		Store:   store,
		Chain:   chain,
		Metrics: m,
		Audit:   audit,
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Settle proposals whose voting window has closed
	go services.NewDAOService(store, m).Run(ctx, time.Duration(cfg.DAO.FinalizeInterval)*time.Second)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := audit.Wait(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("Audit writes still pending at shutdown")
	}

	logrus.Info("Server exited")
	return nil
}
