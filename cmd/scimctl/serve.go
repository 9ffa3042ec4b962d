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
	"github.com/spf13/cobra"

	"github.com/scim-go/scimcore/internal/config"
	"github.com/scim-go/scimcore/internal/metrics"
	"github.com/scim-go/scimcore/internal/schema"
	"github.com/scim-go/scimcore/internal/store"
	"github.com/scim-go/scimcore/pkg/scim"
)

type serveOptions struct {
	root    *rootOptions
	address string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{root: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SCIM PATCH/filter HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.address, "address", "", "listen address, overrides the config file")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	logger := loggerFor(opts.root)

	cfg := config.DefaultConfig()
	if opts.root.configPath != "" {
		loaded, err := config.Load(opts.root.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	reg := scim.NewUserRegistry()
	st, err := openStore(cfg, reg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	m := metrics.New()
	h := newHandlers(st, reg, logger, m)

	router := gin.New()
	router.Use(gin.Recovery())
	v2 := router.Group("/scim/v2")
	{
		v2.GET("/Users/:id", h.getUser)
		v2.PATCH("/Users/:id", h.patchUser)
		v2.GET("/Users", h.listUsers)
	}
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("scim service listening", "address", cfg.Server.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}

func openStore(cfg *config.Config, userRegistry *schema.Registry) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return store.NewMemory(), nil
	case "postgres":
		if cfg.Storage.DSN == "" {
			return nil, errors.New("postgres storage requires a dsn")
		}
		return store.OpenPostgres(cfg.Storage.DSN, func(resourceType string) (*schema.Registry, error) {
			if resourceType == "User" {
				return userRegistry, nil
			}
			return nil, fmt.Errorf("unknown resource type %q", resourceType)
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
