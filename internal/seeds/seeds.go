// Package seeds builds the set of known domains that seeds the permutation
// engine and filters its output.
package seeds

import (
	"context"
	"io"
	"os"
	"typewriter/pkg/domain"
	"typewriter/pkg/logger"
	"typewriter/pkg/serrors"
	"typewriter/pkg/source"

	"github.com/go-faster/errors"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// FromDomain returns a set holding name as given on the command line.
func FromDomain(name string) domain.DomainSet {
	return domain.NewDomainSet(name)
}

// Load reads known domains from src. Spaces are removed from every line and
// lines with fewer than two labels are dropped.
func Load(ctx context.Context, src source.LineSource) (domain.DomainSet, error) {
	var (
		names   []string
		dropped int
	)
	err := src.Lines(ctx, func(line string) error {
		line = domain.StripSpaces(line)
		if domain.LabelCount(line) < 2 {
			dropped++

			return nil
		}
		names = append(names, line)

		return nil
	})
	if err != nil {
		return domain.DomainSet{}, errors.Wrapf(err, "could not load domains from %s", src.Name())
	}

	set := domain.NewDomainSet(names...)
	logger.Debug(ctx, "domains loaded",
		zap.String("source", src.Name()),
		zap.Int("domains", set.Len()),
		zap.Int("dropped", dropped),
	)

	return set, nil
}

// FromFile loads known domains from the file at path.
func FromFile(ctx context.Context, path string, maxLineBytes int) (domain.DomainSet, error) {
	return Load(ctx, source.NewFile(path, maxLineBytes))
}

// FromStdin loads known domains piped on stdin. It refuses to read from an
// interactive terminal, since nothing would ever be piped in.
func FromStdin(ctx context.Context, stdin io.Reader, maxLineBytes int) (domain.DomainSet, error) {
	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		return domain.DomainSet{}, serrors.With(serrors.ErrBadRequest, "no stdin found")
	}

	return FromReader(ctx, "stdin", stdin, maxLineBytes)
}

// FromReader loads known domains from r, labelled name in logs and errors.
func FromReader(ctx context.Context, name string, r io.Reader, maxLineBytes int) (domain.DomainSet, error) {
	return Load(ctx, source.NewReader(name, r, maxLineBytes))
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
