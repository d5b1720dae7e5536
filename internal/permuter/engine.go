// Package permuter generates candidate subdomains by joining permutation
// tokens to known domains, level by level, up to a bounded depth.
package permuter

import (
	"context"
	"sort"
	"strings"
	"typewriter/internal/config"
	"typewriter/internal/output"
	"typewriter/pkg/domain"
	"typewriter/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "typewriter/internal/permuter"

// Options configure the permutation engine.
type Options struct {
	// Depth is the number of levels a seed is expanded. Values below 1
	// produce no candidates.
	Depth int
	// TracerProvider records a span per expanded seed. Nil uses the global
	// provider.
	TracerProvider trace.TracerProvider
}

// NewOptions builds Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{Depth: cfg.Permutation.Depth}
}

// Engine expands known domains with permutation tokens.
//
// Every level multiplies the work by up to 2 * len(tokens), so a run costs
// O(tokens^depth) time and emits as many candidates. Large wordlists should
// only be combined with a small depth; the engine does not cap the output.
//
// The known domain set and the token set are only read, so an Engine may be
// shared, but a single Run is sequential.
type Engine struct {
	options Options
	known   domain.DomainSet
	tokens  []string
	tracer  trace.Tracer
}

// New creates an Engine that expands seeds with tokens and never emits a
// name that is already part of known.
func New(known domain.DomainSet, tokens domain.TokenSet, options Options) *Engine {
	tp := options.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Engine{
		options: options,
		known:   known,
		tokens:  tokens.Tokens(),
		tracer:  tp.Tracer(tracerName),
	}
}

// workItem is a pending expansion of name with the remaining depth budget.
type workItem struct {
	name       string
	depth      int
	firstLevel bool
}

// RunAll expands every known domain in turn. It stops at the first sink
// error or when ctx is done. A sink implementing output.Flusher is flushed
// after every seed.
func (e *Engine) RunAll(ctx context.Context, sink output.Sink) error {
	seeds := e.known.Domains()
	sort.Strings(seeds)

	flusher, _ := sink.(output.Flusher)
	for _, seed := range seeds {
		if err := e.Run(ctx, seed, sink); err != nil {
			return err
		}
		if flusher != nil {
			if err := flusher.Flush(); err != nil {
				return err
			}
		}
	}

	return nil
}

// Run expands seed and sends every new candidate to sink.
//
// For each pending name and each token, the separators chosen by Joins build
// token+sep+name. A result with more than two labels that is not a known
// domain is emitted and, while depth remains, expanded in turn. On the first
// level of a depth-1 run, tokens are also merged into the first label of the
// seed (see augmentApex). The same name may be emitted more than once when
// several paths lead to it.
func (e *Engine) Run(ctx context.Context, seed string, sink output.Sink) error {
	ctx, span := e.tracer.Start(ctx, "permuter.Run", trace.WithAttributes(
		attribute.String("seed", seed),
		attribute.Int("depth", e.options.Depth),
		attribute.Int("tokens", len(e.tokens)),
	))
	defer span.End()

	emitted, err := e.run(ctx, seed, sink)
	span.SetAttributes(attribute.Int64("candidates", emitted))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "permutation stopped")

		return err
	}

	logger.Debug(ctx, "seed expanded", zap.String("seed", seed), zap.Int64("candidates", emitted))

	return nil
}

func (e *Engine) run(ctx context.Context, seed string, sink output.Sink) (int64, error) {
	var emitted int64
	emit := func(value string, level int, kind domain.CandidateKind) error {
		if err := sink.Emit(ctx, domain.Candidate{Value: value, Seed: seed, Level: level, Kind: kind}); err != nil {
			return err
		}
		emitted++

		return nil
	}

	stack := []workItem{{name: seed, depth: e.options.Depth, firstLevel: true}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return emitted, err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if item.depth < 1 {
			continue
		}
		level := e.options.Depth - item.depth + 1

		for _, token := range e.tokens {
			for _, join := range Joins(item.name, token, item.firstLevel) {
				candidate := token + join + item.name
				if !e.fresh(candidate) {
					continue
				}
				if err := emit(candidate, level, domain.CandidatePrefix); err != nil {
					return emitted, err
				}
				if item.depth > 1 {
					stack = append(stack, workItem{name: candidate, depth: item.depth - 1})
				}
			}

			if item.depth == 1 && item.firstLevel {
				for _, candidate := range e.augmentApex(item.name, token) {
					if err := emit(candidate, level, domain.CandidateApex); err != nil {
						return emitted, err
					}
				}
			}
		}
	}

	return emitted, nil
}

// augmentApex merges token into the first label of name, producing
// first+token+rest and first+"-"+token+rest, where rest is the remaining
// labels without a leading dot. Nothing is produced when the digit-stripped
// first label already ends with the digit-stripped token. Only results with
// more than two labels that are not known domains are returned.
func (e *Engine) augmentApex(name, token string) []string {
	if len(name) <= 2 {
		return nil
	}

	first, rest := domain.SplitFirst(name)
	if strings.HasSuffix(domain.StripDigits(first), domain.StripDigits(token)) {
		return nil
	}

	var out []string
	for _, candidate := range [...]string{first + token + rest, first + "-" + token + rest} {
		if e.fresh(candidate) {
			out = append(out, candidate)
		}
	}

	return out
}

// fresh reports whether candidate may be emitted: it must have more than two
// labels and must not be a known domain.
func (e *Engine) fresh(candidate string) bool {
	return domain.LabelCount(candidate) > 2 && !e.known.Has(candidate)
}
