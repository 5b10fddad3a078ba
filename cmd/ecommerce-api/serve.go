package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MikeMC777/ecommerce-api/internal/auth"
	"github.com/MikeMC777/ecommerce-api/internal/broker"
	"github.com/MikeMC777/ecommerce-api/internal/cache"
	"github.com/MikeMC777/ecommerce-api/internal/config"
	"github.com/MikeMC777/ecommerce-api/internal/customer"
	"github.com/MikeMC777/ecommerce-api/internal/db"
	"github.com/MikeMC777/ecommerce-api/internal/health"
	"github.com/MikeMC777/ecommerce-api/internal/metrics"
	"github.com/MikeMC777/ecommerce-api/internal/order"
	"github.com/MikeMC777/ecommerce-api/internal/outbox"
	"github.com/MikeMC777/ecommerce-api/internal/product"
	"github.com/MikeMC777/ecommerce-api/internal/user"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the gRPC health server and the outbox relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply the schema before serving")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, migrate bool) error {
	gin.SetMode(cfg.GinMode)

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if migrate {
		if err := db.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	pub, err := broker.New(brokerOptions(cfg))
	if err != nil {
		return err
	}
	defer pub.Close()

	var inv cache.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		inv = cache.NewRedis(cfg.RedisAddr, "ecommerce")
	}
	defer inv.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tokens, err := auth.NewTokens(cfg.SecretKey, cfg.Algorithm, cfg.TokenTTL)
	if err != nil {
		return err
	}
	users := user.NewService(user.NewPGRepo(pool), tokens)
	store := outbox.NewStore(pool)

	router := newRouter(deps{
		Orders: order.NewService(order.NewPGRepo(pool, cfg.OrdersQueue), pub, store, m, order.Options{
			Queue:          cfg.OrdersQueue,
			PublishTimeout: cfg.PublishTimeout,
		}),
		Customers: customer.NewService(customer.NewPGRepo(pool)),
		Products:  product.NewService(product.NewPGRepo(pool)),
		Inventory: product.NewInventory(cfg.InventoryURL, cfg.InventoryTimeout, inv, cfg.InventoryCacheTTL),
		Users:     users,
		Guards:    []gin.HandlerFunc{auth.RequireBearer(tokens, users), auth.RequireAPIKey(users)},
		DB:        pool,
		Metrics:   m,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	hs := health.New(pool, 10*time.Second)
	relay := outbox.NewRelay(store, pub, m, relayConfig(cfg))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return hs.Serve(ctx, cfg.GRPCHealthAddr) })
	g.Go(func() error {
		hs.Watch(ctx)
		return nil
	})
	g.Go(func() error { return relay.Run(ctx) })

	err = g.Wait()
	slog.Info("shutdown complete")
	return err
}
