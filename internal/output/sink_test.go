package output_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"typewriter/internal/config"
	"typewriter/internal/output"
	mockoutput "typewriter/internal/output/mock"
	"typewriter/pkg/domain"
	"typewriter/pkg/serrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestWriter_Plain(t *testing.T) {
	var buf bytes.Buffer
	w := output.New(&buf, output.Options{})

	ctx := context.Background()
	require.NoError(t, w.Emit(ctx, domain.Candidate{Value: "www.foo.com"}))
	require.NoError(t, w.Emit(ctx, domain.Candidate{Value: "dev.foo.com"}))

	// buffered until flushed
	require.Empty(t, buf.String())
	require.NoError(t, w.Flush())
	require.Equal(t, "www.foo.com\ndev.foo.com\n", buf.String())
	require.EqualValues(t, 2, w.Written())
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := output.New(&buf, output.Options{Format: output.FormatJSON, BufferSize: 16})

	ctx := context.Background()
	in := []domain.Candidate{
		{Value: "www.foo.com", Seed: "foo.com", Level: 1, Kind: domain.CandidatePrefix},
		{Value: "a-devb.foo.com", Seed: "a.b.foo.com", Level: 1, Kind: domain.CandidateApex},
	}
	for _, c := range in {
		require.NoError(t, w.Emit(ctx, c))
	}
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for i, line := range lines {
		var got domain.Candidate
		require.NoError(t, json.Unmarshal([]byte(line), &got), "line %q", line)
		require.Equal(t, in[i], got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriter_FlushError(t *testing.T) {
	w := output.New(failingWriter{}, output.Options{})
	require.NoError(t, w.Emit(context.Background(), domain.Candidate{Value: "www.foo.com"}))
	require.Error(t, w.Flush())
}

func TestParseFormat(t *testing.T) {
	f, err := output.ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, output.FormatJSON, f)

	_, err = output.ParseFormat("xml")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestNewOptions(t *testing.T) {
	var cfg config.Config
	cfg.Output.Format = "json"
	cfg.Output.BufferSize = 1024

	opts, err := output.NewOptions(&cfg)
	require.NoError(t, err)
	require.Equal(t, output.Options{Format: output.FormatJSON, BufferSize: 1024}, opts)
}

type countingRecorder struct {
	kinds []domain.CandidateKind
}

func (r *countingRecorder) CandidateEmitted(_ context.Context, kind domain.CandidateKind) {
	r.kinds = append(r.kinds, kind)
}

func TestWithRecorder(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mockoutput.NewMockSink(ctrl)
	rec := &countingRecorder{}
	sink := output.WithRecorder(next, rec)

	ok := domain.Candidate{Value: "www.foo.com", Kind: domain.CandidatePrefix}
	bad := domain.Candidate{Value: "dev.foo.com", Kind: domain.CandidateApex}
	next.EXPECT().Emit(gomock.Any(), ok).Return(nil)
	next.EXPECT().Emit(gomock.Any(), bad).Return(errors.New("closed"))

	ctx := context.Background()
	require.NoError(t, sink.Emit(ctx, ok))
	require.Error(t, sink.Emit(ctx, bad))

	// failed emissions are not counted
	require.Equal(t, []domain.CandidateKind{domain.CandidatePrefix}, rec.kinds)
}

func TestWithRecorder_Flush(t *testing.T) {
	var buf bytes.Buffer
	w := output.New(&buf, output.Options{BufferSize: 4096})
	sink := output.WithRecorder(w, &countingRecorder{})

	require.NoError(t, sink.Emit(context.Background(), domain.Candidate{Value: "www.foo.com"}))
	require.Empty(t, buf.String())

	flusher, ok := sink.(output.Flusher)
	require.True(t, ok)
	require.NoError(t, flusher.Flush())
	require.Equal(t, "www.foo.com\n", buf.String())

	// sinks without a buffer flush as a no-op
	unbuffered := output.WithRecorder(mockoutput.NewMockSink(gomock.NewController(t)), &countingRecorder{})
	require.NoError(t, unbuffered.(output.Flusher).Flush())
}
