package main

import (
	"bufio"
	"context"
	"fmt"
	"typewriter/internal/config"
	"typewriter/internal/wordlist"
	"typewriter/pkg/domain"
	"typewriter/pkg/serrors"
	"typewriter/pkg/source"

	"github.com/spf13/cobra"
)

// loadTokens builds the permutation token set from the wordlist at path.
func loadTokens(ctx context.Context, cfg *config.Config, path string) (domain.TokenSet, error) {
	opts, err := wordlist.NewOptions(cfg)
	if err != nil {
		return domain.TokenSet{}, err
	}

	return wordlist.New(opts).Load(ctx, source.NewFile(path, cfg.Input.MaxLineBytes))
}

// tokensCommand constructs the 'tokens' subcommand that prints the expanded
// token set, sorted, so a wordlist can be inspected before generating.
func tokensCommand(cfg *config.Config) *cobra.Command {
	var pf permutationFlags

	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Prints the permutation tokens derived from a wordlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pf.apply(cmd, cfg); err != nil {
				return serrors.Wrap(serrors.ErrBadRequest, err, "invalid flags")
			}

			tokens, err := loadTokens(cmd.Context(), cfg, pf.wordlist)
			if err != nil {
				return err
			}
			defer tokens.Close()

			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, token := range tokens.Sorted() {
				if _, err := fmt.Fprintln(w, token); err != nil {
					return fmt.Errorf("could not write token: %w", err)
				}
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("could not flush tokens: %w", err)
			}

			return nil
		},
	}
	pf.register(cmd)

	return cmd
}
