package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MikeMC777/ecommerce-api/internal/broker"
	"github.com/MikeMC777/ecommerce-api/internal/config"
	"github.com/MikeMC777/ecommerce-api/internal/db"
	"github.com/MikeMC777/ecommerce-api/internal/metrics"
	"github.com/MikeMC777/ecommerce-api/internal/outbox"
)

func newRelayCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Publish pending outbox messages to the broker",
		Long:  "Runs the outbox relay on its own. With --once, makes a single pass and exits.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runRelay(ctx, cfg, once)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "make a single relay pass and exit")
	return cmd
}

func runRelay(ctx context.Context, cfg config.Config, once bool) error {
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	pub, err := broker.New(brokerOptions(cfg))
	if err != nil {
		return err
	}
	defer pub.Close()

	r := outbox.NewRelay(outbox.NewStore(pool), pub, metrics.New(prometheus.NewRegistry()), relayConfig(cfg))
	if !once {
		return r.Run(ctx)
	}
	n, err := r.RunOnce(ctx)
	slog.Info("relay pass finished", "sent", n)
	return err
}

func brokerOptions(cfg config.Config) broker.Options {
	return broker.Options{Kind: cfg.Broker, URL: cfg.BrokerURL, Brokers: cfg.KafkaBrokers}
}

func relayConfig(cfg config.Config) outbox.RelayConfig {
	return outbox.RelayConfig{
		Interval:       cfg.RelayInterval,
		Batch:          cfg.RelayBatch,
		Grace:          cfg.RelayGrace,
		PublishTimeout: cfg.PublishTimeout,
	}
}
