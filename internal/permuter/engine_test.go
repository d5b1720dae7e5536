package permuter_test

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"typewriter/internal/config"
	mockoutput "typewriter/internal/output/mock"
	"typewriter/internal/permuter"
	"typewriter/pkg/domain"
	"typewriter/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.Options{Environment: logger.DevelopmentEnvironment, Quiet: true})
	os.Exit(m.Run())
}

type collector struct {
	candidates []domain.Candidate
}

func (c *collector) Emit(_ context.Context, cand domain.Candidate) error {
	c.candidates = append(c.candidates, cand)

	return nil
}

func (c *collector) values() []string {
	out := make([]string, 0, len(c.candidates))
	for _, cand := range c.candidates {
		out = append(out, cand.Value)
	}

	return out
}

func (c *collector) count(kind domain.CandidateKind) int {
	n := 0
	for _, cand := range c.candidates {
		if cand.Kind == kind {
			n++
		}
	}

	return n
}

func run(t *testing.T, seed string, known []string, tokens []string, depth int) *collector {
	t.Helper()

	if known == nil {
		known = []string{seed}
	}
	e := permuter.New(domain.NewDomainSet(known...), domain.NewTokenSet(tokens...), permuter.Options{Depth: depth})
	c := &collector{}
	require.NoError(t, e.Run(context.Background(), seed, c))

	return c
}

func TestRun_ApexFirstLevel(t *testing.T) {
	c := run(t, "foo.com", nil, []string{"www"}, 1)

	require.Equal(t, []string{"www.foo.com"}, c.values())
	require.Equal(t, domain.Candidate{
		Value: "www.foo.com",
		Seed:  "foo.com",
		Level: 1,
		Kind:  domain.CandidatePrefix,
	}, c.candidates[0])
}

func TestRun_EqualFirstLabelIsSkipped(t *testing.T) {
	c := run(t, "dev.example.com", nil, []string{"dev", "api"}, 1)

	require.ElementsMatch(t, []string{"api.dev.example.com", "api-dev.example.com"}, c.values())
}

func TestRun_DigitAdjacentJoins(t *testing.T) {
	c := run(t, "1.example.com", nil, []string{"test1"}, 1)

	require.ElementsMatch(t, []string{"test1.1.example.com", "test1-1.example.com"}, c.values())
}

func TestRun_KnownDomainsAreNotEmitted(t *testing.T) {
	c := run(t, "foo.com", []string{"foo.com", "www.foo.com"}, []string{"www"}, 1)

	require.Empty(t, c.values())
}

func TestRun_TwoLabelResultsAreNotEmitted(t *testing.T) {
	// "www-foo.com" only has two labels
	c := run(t, "foo.com", nil, []string{"www"}, 2)

	for _, v := range c.values() {
		require.Greater(t, domain.LabelCount(v), 2, v)
	}
	require.NotContains(t, c.values(), "www-foo.com")
}

func TestRun_ApexAugmentation(t *testing.T) {
	c := run(t, "a.b.example.com", nil, []string{"dev"}, 1)

	require.ElementsMatch(t, []string{
		"dev.a.b.example.com",
		"dev-a.b.example.com",
		"adevb.example.com",
		"a-devb.example.com",
	}, c.values())
	require.Equal(t, 2, c.count(domain.CandidateApex))
}

func TestRun_ApexAugmentationAtMostTwicePerToken(t *testing.T) {
	tokens := []string{"dev", "api", "stage1", "7"}
	c := run(t, "x.y.example.com", nil, tokens, 1)

	require.LessOrEqual(t, c.count(domain.CandidateApex), 2*len(tokens))
}

func TestRun_ApexAugmentationSkipsSuffixTokens(t *testing.T) {
	c := run(t, "myapi.b.example.com", nil, []string{"api1"}, 1)

	require.Zero(t, c.count(domain.CandidateApex))
}

func TestRun_ApexAugmentationOnlyOnDepthOneRuns(t *testing.T) {
	c := run(t, "a.b.example.com", nil, []string{"dev"}, 2)

	require.Zero(t, c.count(domain.CandidateApex))
	require.ElementsMatch(t, []string{
		"dev.a.b.example.com",
		"dev-a.b.example.com",
		"dev.dev-a.b.example.com",
		"dev-dev-a.b.example.com",
	}, c.values())

	for _, cand := range c.candidates {
		switch cand.Value {
		case "dev.a.b.example.com", "dev-a.b.example.com":
			require.Equal(t, 1, cand.Level)
		default:
			require.Equal(t, 2, cand.Level)
		}
	}
}

func TestRun_DepthBelowOneEmitsNothing(t *testing.T) {
	for _, depth := range []int{0, -1} {
		c := run(t, "api.example.com", nil, []string{"dev", "www"}, depth)
		require.Empty(t, c.values())
	}
}

func TestRun_EmissionIsBounded(t *testing.T) {
	tokens := []string{"dev", "api", "www"}
	k := float64(len(tokens))

	for depth := 1; depth <= 3; depth++ {
		c := run(t, "svc.example.com", nil, tokens, depth)

		// geometric bound: at most 2k new names per expanded name per level,
		// plus two apex candidates per token on depth-1 runs
		bound := 2 * k
		for l := 2; l <= depth; l++ {
			bound += math.Pow(2*k, float64(l))
		}
		bound += 2 * k
		require.LessOrEqual(t, float64(len(c.values())), bound, "depth %d", depth)
		require.NotEmpty(t, c.values())

		for _, cand := range c.candidates {
			require.GreaterOrEqual(t, cand.Level, 1)
			require.LessOrEqual(t, cand.Level, depth)
		}
	}
}

func TestRun_DuplicatesAcrossPaths(t *testing.T) {
	c := run(t, "x.y.z", nil, []string{"a", "b", "a.b"}, 2)

	n := 0
	for _, v := range c.values() {
		if v == "a.b.x.y.z" {
			n++
		}
	}
	require.GreaterOrEqual(t, n, 2)
}

func TestRun_SinkErrorStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mockoutput.NewMockSink(ctrl)
	closed := errors.New("closed pipe")
	sink.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(closed).Times(1)

	e := permuter.New(domain.NewDomainSet("api.example.com"), domain.NewTokenSet("dev", "www"), permuter.Options{Depth: 3})
	err := e.Run(context.Background(), "api.example.com", sink)
	require.ErrorIs(t, err, closed)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := permuter.New(domain.NewDomainSet("api.example.com"), domain.NewTokenSet("dev"), permuter.Options{Depth: 1})
	c := &collector{}
	require.ErrorIs(t, e.Run(ctx, "api.example.com", c), context.Canceled)
	require.Empty(t, c.values())
}

func TestRunAll(t *testing.T) {
	known := domain.NewDomainSet("foo.com", "bar.com", "www.bar.com")
	e := permuter.New(known, domain.NewTokenSet("www"), permuter.Options{Depth: 1})

	c := &collector{}
	require.NoError(t, e.RunAll(context.Background(), c))
	require.ElementsMatch(t, []string{"www.foo.com"}, c.values())
}

func TestNewOptions(t *testing.T) {
	var cfg config.Config
	cfg.Permutation.Depth = 4

	require.Equal(t, permuter.Options{Depth: 4}, permuter.NewOptions(&cfg))
}

type flushingCollector struct {
	collector
	flushes []int
	err     error
}

func (c *flushingCollector) Flush() error {
	c.flushes = append(c.flushes, len(c.candidates))

	return c.err
}

func TestRunAll_FlushesAfterEverySeed(t *testing.T) {
	known := domain.NewDomainSet("a.com", "b.com")
	e := permuter.New(known, domain.NewTokenSet("www"), permuter.Options{Depth: 1})

	c := &flushingCollector{}
	require.NoError(t, e.RunAll(context.Background(), c))
	require.Equal(t, []string{"www.a.com", "www.b.com"}, c.values())
	require.Equal(t, []int{1, 2}, c.flushes)
}

func TestRunAll_FlushError(t *testing.T) {
	known := domain.NewDomainSet("a.com", "b.com")
	e := permuter.New(known, domain.NewTokenSet("www"), permuter.Options{Depth: 1})

	c := &flushingCollector{err: errors.New("broken pipe")}
	require.ErrorContains(t, e.RunAll(context.Background(), c), "broken pipe")
	require.Equal(t, []string{"www.a.com"}, c.values())
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}

	return attribute.Value{}, false
}

func TestRun_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e := permuter.New(domain.NewDomainSet("foo.com"), domain.NewTokenSet("www"),
		permuter.Options{Depth: 1, TracerProvider: tp})
	require.NoError(t, e.Run(context.Background(), "foo.com", &collector{}))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "permuter.Run", spans[0].Name())

	seed, ok := spanAttr(spans[0], "seed")
	require.True(t, ok)
	require.Equal(t, "foo.com", seed.AsString())
	candidates, ok := spanAttr(spans[0], "candidates")
	require.True(t, ok)
	require.EqualValues(t, 1, candidates.AsInt64())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestRun_SpanRecordsSinkError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctrl := gomock.NewController(t)
	sink := mockoutput.NewMockSink(ctrl)
	sink.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	e := permuter.New(domain.NewDomainSet("foo.com"), domain.NewTokenSet("www"),
		permuter.Options{Depth: 1, TracerProvider: tp})
	require.Error(t, e.Run(context.Background(), "foo.com", sink))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
}
