package main

import (
	"typewriter/internal/config"

	"github.com/spf13/cobra"
)

// permutationFlags are shared by every command that builds a token set.
type permutationFlags struct {
	wordlist string
	depth    int
	spread   int
	overflow string
	padZeros bool
}

func (f *permutationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.wordlist, "wordlist", "w", "", "The wordlist to generate permutations with")
	cmd.Flags().IntVarP(&f.depth, "depth", "d", 1,
		"The depth to generate subdomains at; output grows as tokens^depth")
	cmd.Flags().IntVar(&f.spread, "spread", -1,
		"Numeric mutation magnitude for digits in tokens; negative reuses --depth")
	cmd.Flags().StringVar(&f.overflow, "overflow", "fail",
		"What to do with numbers that do not fit an int64: fail or skip")
	cmd.Flags().BoolVar(&f.padZeros, "pad-zeros", false, "Keep leading zeros when mutating numbers (007 -> 008)")
	_ = cmd.MarkFlagRequired("wordlist")
}

// apply copies explicitly set flags over the loaded config.
func (f *permutationFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("depth") {
		cfg.Permutation.Depth = f.depth
	}
	if flags.Changed("spread") {
		cfg.Permutation.Spread = f.spread
	}
	if flags.Changed("overflow") {
		cfg.Permutation.Overflow = f.overflow
	}
	if flags.Changed("pad-zeros") {
		cfg.Permutation.PadZeros = f.padZeros
	}

	return cfg.Validate()
}
