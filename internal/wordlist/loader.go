// Package wordlist turns a raw wordlist into the set of permutation tokens:
// whole lines, their hyphen-separated fragments, and numeric neighbours of
// every digit-bearing token.
package wordlist

import (
	"context"
	"strings"
	"typewriter/internal/config"
	"typewriter/pkg/domain"
	"typewriter/pkg/logger"
	"typewriter/pkg/serrors"
	"typewriter/pkg/source"

	"github.com/caffix/stringset"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// OverflowPolicy decides what happens when a digit run cannot be mutated.
type OverflowPolicy string

const (
	// OverflowFail aborts loading on the first overflowing digit run.
	OverflowFail OverflowPolicy = "fail"
	// OverflowSkip logs a warning and keeps the token without numeric variants.
	OverflowSkip OverflowPolicy = "skip"
)

// ParseOverflowPolicy validates s as an OverflowPolicy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(strings.ToLower(s)); p {
	case OverflowFail, OverflowSkip:
		return p, nil
	default:
		return "", serrors.With(serrors.ErrBadRequest, "unknown overflow policy %q (want %q or %q)", s, OverflowFail, OverflowSkip)
	}
}

// Options configure token extraction.
type Options struct {
	// Spread is the numeric mutation magnitude. Zero or less disables numeric
	// variants.
	Spread int
	// Overflow selects the overflow policy. Empty means OverflowFail.
	Overflow OverflowPolicy
	// PadZeros keeps the width of mutated digit runs.
	PadZeros bool
}

// NewOptions builds Options from the application config.
func NewOptions(cfg *config.Config) (Options, error) {
	policy, err := ParseOverflowPolicy(cfg.Permutation.Overflow)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Spread:   cfg.NumericSpread(),
		Overflow: policy,
		PadZeros: cfg.Permutation.PadZeros,
	}, nil
}

// Loader builds token sets from line sources.
type Loader struct {
	options Options
}

// New creates a Loader with the given options.
func New(options Options) *Loader {
	if options.Overflow == "" {
		options.Overflow = OverflowFail
	}

	return &Loader{options: options}
}

// Load reads src and returns the resulting token set. Every line has its
// spaces removed; empty lines are ignored. For each line the whole line and
// each non-empty hyphen fragment become tokens, and every one of those that
// contains digits is expanded with Mutate.
func (l *Loader) Load(ctx context.Context, src source.LineSource) (domain.TokenSet, error) {
	ctx = logger.WithFields(ctx, zap.String("wordlist", src.Name()))

	tokens := stringset.New()
	lines := 0
	err := src.Lines(ctx, func(line string) error {
		line = domain.StripSpaces(line)
		if line == "" {
			return nil
		}
		lines++

		surfaced := append([]string{line}, fragments(line)...)
		tokens.InsertMany(surfaced...)

		for _, token := range surfaced {
			if err := l.expand(ctx, tokens, token); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		tokens.Close()

		return domain.TokenSet{}, errors.Wrapf(err, "could not load wordlist %s", src.Name())
	}

	set := domain.TokenSetOf(tokens)
	logger.Debug(ctx, "wordlist loaded", zap.Int("lines", lines), zap.Int("tokens", set.Len()))

	return set, nil
}

func (l *Loader) expand(ctx context.Context, tokens *stringset.Set, token string) error {
	if l.options.Spread <= 0 || !domain.HasDigit(token) {
		return nil
	}

	variants, err := Mutate(token, l.options.Spread, MutateOptions{PadZeros: l.options.PadZeros})
	if err != nil {
		if l.options.Overflow == OverflowSkip && errors.Is(err, serrors.ErrNumericOverflow) {
			logger.Warn(ctx, "skipping numeric variants", zap.String("token", token), zap.Error(err))

			return nil
		}

		return err
	}

	tokens.InsertMany(variants...)

	return nil
}

// fragments returns the non-empty hyphen-separated parts of line. A line
// without hyphens yields nothing, since the line itself is already a token.
func fragments(line string) []string {
	if !strings.Contains(line, "-") {
		return nil
	}

	var out []string
	for _, part := range strings.Split(line, "-") {
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}
