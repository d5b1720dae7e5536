package source

import (
	"bufio"
	"context"
	"io"
	"os"
	"typewriter/pkg/serrors"

	"github.com/go-faster/errors"
)

// DefaultMaxLineBytes is the longest line accepted when no limit is configured.
const DefaultMaxLineBytes = 1 << 20

// File reads lines from a file on disk. The file is opened on every call to
// Lines and closed before it returns.
type File struct {
	// Path is the file to read.
	Path string
	// MaxLineBytes bounds the length of a single line. Zero means DefaultMaxLineBytes.
	MaxLineBytes int
}

// NewFile returns a File source for path.
func NewFile(path string, maxLineBytes int) *File {
	return &File{Path: path, MaxLineBytes: maxLineBytes}
}

// Name returns the file path.
func (f *File) Name() string { return f.Path }

// Lines implements LineSource.
func (f *File) Lines(ctx context.Context, fn func(line string) error) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return serrors.Wrap(serrors.ErrResource, err, "could not open %s", f.Path)
	}
	defer file.Close()

	return scan(ctx, f.Path, file, f.MaxLineBytes, fn)
}

// Reader reads lines from an already open stream such as stdin.
// A Reader can be consumed only once.
type Reader struct {
	// Label is returned by Name.
	Label string
	// R is the underlying stream.
	R io.Reader
	// MaxLineBytes bounds the length of a single line. Zero means DefaultMaxLineBytes.
	MaxLineBytes int
}

// NewReader returns a Reader source named label.
func NewReader(label string, r io.Reader, maxLineBytes int) *Reader {
	return &Reader{Label: label, R: r, MaxLineBytes: maxLineBytes}
}

// Name returns the configured label.
func (r *Reader) Name() string { return r.Label }

// Lines implements LineSource.
func (r *Reader) Lines(ctx context.Context, fn func(line string) error) error {
	return scan(ctx, r.Label, r.R, r.MaxLineBytes, fn)
}

// Slice serves lines from memory. It is mostly useful for single values
// passed on the command line and in tests.
type Slice struct {
	Label string
	Items []string
}

// Name returns the configured label.
func (s Slice) Name() string { return s.Label }

// Lines implements LineSource.
func (s Slice) Lines(ctx context.Context, fn func(line string) error) error {
	for _, item := range s.Items {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "reading lines")
		}
		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}

func scan(ctx context.Context, name string, r io.Reader, maxLineBytes int, fn func(line string) error) error {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLineBytes)), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "reading lines")
		}
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return serrors.Wrap(serrors.ErrResource, err, "could not read %s", name)
	}

	return nil
}
