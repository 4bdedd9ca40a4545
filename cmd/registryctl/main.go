// Package main implements registryctl, a command-line front-end that works
// on the same storage slot and pricing API as the server.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/deals-registry/internal/config"
	"github.com/aanand-mishra/deals-registry/internal/registry"
	"github.com/aanand-mishra/deals-registry/internal/storage/backend"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "registryctl",
		Short: "Manage the student registry and browse game deals",
		Long: `registryctl reads the same configuration file as the server and works
directly on its storage backend.

Examples:
  # List registered students
  registryctl --config config/local.yaml students list

  # Show the first page of deals, sorted by name
  registryctl --config config/local.yaml deals --sort name`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_PATH"), "path to the configuration YAML file")
	root.AddCommand(newStudentsCmd(a), newDealsCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	if a.configPath == "" {
		return errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	// Only problems reach the terminal; normal output goes to stdout.
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	return nil
}

// openRegistry opens the configured backend. The caller must run closeStore.
func (a *app) openRegistry() (reg *registry.Registry, closeStore func() error, err error) {
	s, err := backend.Open(a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	reg = registry.New(
		registry.NewStore(s, a.cfg.Storage.Slot, a.log, nil),
		registry.Options{Locale: a.cfg.Locale, Logger: a.log},
	)
	return reg, s.Close, nil
}
