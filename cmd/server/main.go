// cmd/server/main.go
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/budayachain/budaya-backend/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "budaya",
		Short:         "Budaya Chain marketplace backend",
		Long:          "Budaya Chain serves the artisan marketplace API: products, Solana purchases, provenance and the community DAO.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
	)

	// Running the binary with no subcommand starts the server
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	}

	return rootCmd
}

// loadConfig reads the environment and configures logrus from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("Failed to load configuration")
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	if cfg.IsProduction() || cfg.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logrus.WithField("level", cfg.Log.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
