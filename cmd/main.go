// Package main provides the CLI entrypoint of typewriter, a subdomain
// permutation generator. It wires subcommands (generate, tokens), loads
// configuration and initializes logging.
package main

import (
	"context"
	"os"
	"typewriter/internal/config"
	"typewriter/pkg/logger"
	"typewriter/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRootCmd builds the root command. The configuration is loaded once the
// flags are parsed and shared with every subcommand through cfg.
func newRootCmd() *cobra.Command {
	var (
		cfg        = &config.Config{}
		configPath string
		verbose    bool
		quiet      bool
	)

	rootCmd := &cobra.Command{
		Use:   "typewriter",
		Short: "Generates subdomain permutations from a wordlist",
		Long: `typewriter mutates known domains with tokens drawn from a wordlist and prints
candidate subdomains, one per line. It performs no DNS resolution.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return serrors.Wrap(serrors.ErrBadRequest, err, "could not load config")
			}
			*cfg = *loaded

			logger.Setup(logger.Options{
				Environment: cfg.Environment,
				Verbose:     verbose,
				Quiet:       quiet,
			})

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "typewriter.yml", "Config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logs on stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors on stderr")

	rootCmd.AddCommand(
		generateCommand(cfg),
		tokensCommand(cfg),
	)

	return rootCmd
}

func main() {
	ctx := context.Background()

	// errors raised before the config is loaded still need a logger
	logger.Setup(logger.Options{Environment: logger.DevelopmentEnvironment})

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		logger.Error(ctx, "command failed", zap.Error(err), zap.String("kind", serrors.KindOf(err).Error()))
	}
	logger.Sync(ctx)
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
