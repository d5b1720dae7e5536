// Package source abstracts newline-delimited inputs such as wordlists and
// domain lists, so loaders can be fed from files, pipes or in-memory readers.
//
//go:generate mockgen -package mocksource -source=interface.go -destination=mock/mocksource.go *
package source

import "context"

// LineSource yields the lines of a newline-delimited input.
type LineSource interface {
	// Name identifies the input in logs and errors (a path, "stdin", ...).
	Name() string
	// Lines calls fn for every line in order, without the trailing newline.
	// Iteration stops at the first error returned by fn, which is returned
	// unchanged. Open and read failures are reported with serrors.ErrResource.
	Lines(ctx context.Context, fn func(line string) error) error
}
