// Package output writes generated candidates. Candidates are written as they
// are produced, one per line, either as plain names or as JSON objects.
//
//go:generate mockgen -package mockoutput -source=sink.go -destination=mock/mockoutput.go Sink
package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"typewriter/internal/config"
	"typewriter/pkg/domain"
	"typewriter/pkg/serrors"

	"github.com/go-faster/jx"
)

// Sink receives candidates from the permutation engine.
type Sink interface {
	// Emit records a single candidate. An error stops the traversal.
	Emit(ctx context.Context, c domain.Candidate) error
}

// Flusher is implemented by sinks that buffer candidates.
type Flusher interface {
	Flush() error
}

// Format selects the line format of a Writer.
type Format string

const (
	// FormatPlain writes the bare candidate name.
	FormatPlain Format = "plain"
	// FormatJSON writes one JSON object per candidate.
	FormatJSON Format = "json"
)

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPlain, FormatJSON:
		return f, nil
	default:
		return "", serrors.With(serrors.ErrBadRequest, "unknown output format %q (want %q or %q)", s, FormatPlain, FormatJSON)
	}
}

// Options configure a Writer.
type Options struct {
	// Format is the line format. Empty means FormatPlain.
	Format Format
	// BufferSize is the size of the write buffer. Zero uses the bufio default.
	BufferSize int
}

// NewOptions builds Options from the application config.
func NewOptions(cfg *config.Config) (Options, error) {
	format, err := ParseFormat(cfg.Output.Format)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Format:     format,
		BufferSize: cfg.Output.BufferSize,
	}, nil
}

// Writer is a buffered Sink writing to an io.Writer. Call Flush once the
// traversal is over.
type Writer struct {
	w       *bufio.Writer
	format  Format
	enc     jx.Encoder
	written int64
}

// New returns a Writer on top of w.
func New(w io.Writer, opts Options) *Writer {
	if opts.Format == "" {
		opts.Format = FormatPlain
	}

	var bw *bufio.Writer
	if opts.BufferSize > 0 {
		bw = bufio.NewWriterSize(w, opts.BufferSize)
	} else {
		bw = bufio.NewWriter(w)
	}

	return &Writer{w: bw, format: opts.Format}
}

// Emit implements Sink.
func (w *Writer) Emit(_ context.Context, c domain.Candidate) error {
	var err error
	switch w.format {
	case FormatJSON:
		_, err = w.w.Write(w.encode(c))
	default:
		_, err = w.w.WriteString(c.Value)
	}
	if err == nil {
		err = w.w.WriteByte('\n')
	}
	if err != nil {
		return fmt.Errorf("could not write candidate: %w", err)
	}
	w.written++

	return nil
}

func (w *Writer) encode(c domain.Candidate) []byte {
	w.enc.Reset()
	w.enc.ObjStart()
	w.enc.FieldStart("candidate")
	w.enc.Str(c.Value)
	w.enc.FieldStart("seed")
	w.enc.Str(c.Seed)
	w.enc.FieldStart("level")
	w.enc.Int(c.Level)
	w.enc.FieldStart("kind")
	w.enc.Str(string(c.Kind))
	w.enc.ObjEnd()

	return w.enc.Bytes()
}

// Written returns the number of candidates written so far.
func (w *Writer) Written() int64 { return w.written }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}

	return nil
}
