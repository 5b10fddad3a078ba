// Command ecommerce-api serves the customers, products and orders API and
// relays order events to the message broker.
//
//	@title						E-commerce API
//	@version					1.0
//	@description				Customers, products and orders. Creating an order publishes an order-created event.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeMC777/ecommerce-api/internal/config"
	"github.com/MikeMC777/ecommerce-api/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ecommerce-api",
		Short:         "E-commerce orders API",
		Long:          "Serves customers, products and orders over HTTP and relays order-created events to RabbitMQ or Kafka.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newRelayCmd())
	return cmd
}

// loadConfig reads the environment once and installs the logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logging.Init(os.Stdout, cfg.LogLevel)
	slog.Info("config loaded", "config", cfg)
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
