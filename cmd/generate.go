package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	"typewriter/internal/config"
	"typewriter/internal/output"
	"typewriter/internal/permuter"
	"typewriter/internal/seeds"
	"typewriter/pkg/domain"
	"typewriter/pkg/logger"
	"typewriter/pkg/metrics"
	"typewriter/pkg/serrors"
	"typewriter/pkg/tracing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateFlags struct {
	permutationFlags

	input       string
	file        string
	stdin       bool
	output      string
	json        bool
	metricsFile string
	traceFile   string
}

// generateCommand constructs the 'generate' subcommand which permutes the
// known domains with the wordlist tokens and writes every candidate.
func generateCommand(cfg *config.Config) *cobra.Command {
	var gf generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates subdomain permutations of known domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := gf.apply(cmd, cfg); err != nil {
				return serrors.Wrap(serrors.ErrBadRequest, err, "invalid flags")
			}
			if gf.json {
				cfg.Output.Format = string(output.FormatJSON)
			}
			if cmd.Flags().Changed("metrics-file") {
				cfg.Metrics.File = gf.metricsFile
			}
			if cmd.Flags().Changed("trace-file") {
				cfg.Tracing.File = gf.traceFile
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithFields(ctx, zap.String("run_id", uuid.NewString()))

			return generate(ctx, cmd, cfg, &gf)
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVarP(&gf.input, "input", "i", "", "The domain to generate permutations for")
	cmd.Flags().StringVarP(&gf.file, "file", "f", "", "A file of known domains, one per line")
	cmd.Flags().BoolVarP(&gf.stdin, "stdin", "s", false, "Read known domains from stdin")
	cmd.Flags().StringVarP(&gf.output, "output", "o", "", "Write candidates to this file instead of stdout")
	cmd.Flags().BoolVar(&gf.json, "json", false, "Write candidates as JSON lines")
	cmd.Flags().StringVar(&gf.metricsFile, "metrics-file", "", "Write run metrics to this Prometheus textfile")
	cmd.Flags().StringVar(&gf.traceFile, "trace-file", "", "Write a JSON span per expanded seed to this file")
	cmd.MarkFlagsOneRequired("input", "file", "stdin")
	cmd.MarkFlagsMutuallyExclusive("input", "file", "stdin")

	return cmd
}

func generate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, gf *generateFlags) (err error) {
	rec, err := metrics.New()
	if err != nil {
		return serrors.Wrap(serrors.ErrInternal, err, "could not set up metrics")
	}
	defer func() {
		if shutdownErr := rec.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Warn(ctx, "could not shut down metrics", zap.Error(shutdownErr))
		}
	}()

	tokens, err := loadTokens(ctx, cfg, gf.wordlist)
	if err != nil {
		return err
	}
	defer tokens.Close()
	rec.TokensLoaded(ctx, tokens.Len())

	known, err := loadSeeds(ctx, cmd, cfg, gf)
	if err != nil {
		return err
	}
	defer known.Close()
	rec.SeedsLoaded(ctx, known.Len())

	out := cmd.OutOrStdout()
	if gf.output != "" {
		f, createErr := os.Create(gf.output)
		if createErr != nil {
			return serrors.Wrap(serrors.ErrResource, createErr, "could not create %s", gf.output)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = serrors.Wrap(serrors.ErrResource, closeErr, "could not close %s", gf.output)
			}
		}()
		out = f
	}

	opts := permuter.NewOptions(cfg)
	if cfg.Tracing.File != "" {
		tp, shutdown, tracingErr := setupTracing(cfg.Tracing.File)
		if tracingErr != nil {
			return tracingErr
		}
		defer func() {
			if shutdownErr := shutdown(context.WithoutCancel(ctx)); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
		}()
		opts.TracerProvider = tp
	}

	return run(ctx, cfg, known, tokens, out, rec, opts)
}

// setupTracing opens path and returns a provider exporting spans to it. The
// returned func flushes the spans and closes the file.
func setupTracing(path string) (*tracing.Provider, func(context.Context) error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, serrors.Wrap(serrors.ErrResource, err, "could not create %s", path)
	}
	tp, err := tracing.New(f)
	if err != nil {
		_ = f.Close()

		return nil, nil, serrors.Wrap(serrors.ErrInternal, err, "could not set up tracing")
	}

	shutdown := func(ctx context.Context) error {
		shutdownErr := tp.Shutdown(ctx)
		if closeErr := f.Close(); closeErr != nil && shutdownErr == nil {
			shutdownErr = closeErr
		}
		if shutdownErr != nil {
			return serrors.Wrap(serrors.ErrResource, shutdownErr, "could not export spans to %s", path)
		}

		return nil
	}

	return tp, shutdown, nil
}

func loadSeeds(ctx context.Context, cmd *cobra.Command, cfg *config.Config, gf *generateFlags) (domain.DomainSet, error) {
	switch {
	case gf.input != "":
		return seeds.FromDomain(gf.input), nil
	case gf.file != "":
		return seeds.FromFile(ctx, gf.file, cfg.Input.MaxLineBytes)
	default:
		return seeds.FromStdin(ctx, cmd.InOrStdin(), cfg.Input.MaxLineBytes)
	}
}

func run(
	ctx context.Context,
	cfg *config.Config,
	known domain.DomainSet,
	tokens domain.TokenSet,
	out io.Writer,
	rec *metrics.Recorder,
	opts permuter.Options,
) error {
	outOpts, err := output.NewOptions(cfg)
	if err != nil {
		return err
	}
	writer := output.New(out, outOpts)
	engine := permuter.New(known, tokens, opts)

	logger.Info(ctx, "generating permutations",
		zap.Int("seeds", known.Len()),
		zap.Int("tokens", tokens.Len()),
		zap.Int("depth", cfg.Permutation.Depth),
	)

	start := time.Now()
	runErr := engine.RunAll(ctx, output.WithRecorder(writer, rec))
	flushErr := writer.Flush()
	elapsed := time.Since(start)
	rec.RunFinished(ctx, elapsed)

	if errors.Is(runErr, context.Canceled) {
		logger.Warn(ctx, "interrupted, output is partial")
		runErr = nil
	}

	logger.Info(ctx, "permutations generated",
		zap.Int("seeds", known.Len()),
		zap.Int("tokens", tokens.Len()),
		zap.Int64("candidates", rec.Emitted()),
		zap.Duration("elapsed", elapsed),
	)

	if cfg.Metrics.File != "" {
		if err := rec.WriteTextfile(cfg.Metrics.File); err != nil {
			return serrors.Wrap(serrors.ErrResource, err, "could not export metrics")
		}
	}

	if runErr != nil {
		return runErr
	}
	if flushErr != nil {
		return serrors.Wrap(serrors.ErrResource, flushErr, "could not write candidates")
	}

	return nil
}
