package wordlist

import (
	"math"
	"strconv"
	"typewriter/pkg/domain"
	"typewriter/pkg/serrors"
)

// MutateOptions tune how numeric variants are formatted.
type MutateOptions struct {
	// PadZeros keeps the width of the original digit run, so "007" becomes
	// "008" instead of "8". Off by default: the historical output drops
	// leading zeros.
	PadZeros bool
}

// digitRun is the half-open byte range [start, end) of a maximal digit run.
type digitRun struct {
	start, end int
}

func digitRuns(s string) []digitRun {
	var runs []digitRun
	for i := 0; i < len(s); {
		if !domain.IsDigit(s[i]) {
			i++

			continue
		}
		j := i + 1
		for j < len(s) && domain.IsDigit(s[j]) {
			j++
		}
		runs = append(runs, digitRun{start: i, end: j})
		i = j
	}

	return runs
}

// Mutate returns the numeric neighbours of s. Every maximal digit run holding
// value v is replaced, one run at a time with the others left untouched, by
// v+i for i in 1..n and by v-i whenever v-i >= 0. The original string is not
// part of the result unless a mutation reproduces it. The result holds
// distinct values in generation order.
//
// A run that does not fit an int64, or whose value overflows when n is
// added, yields an error of kind serrors.ErrNumericOverflow.
func Mutate(s string, n int, opts MutateOptions) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	runs := digitRuns(s)
	if len(runs) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(runs)*n*2)
	out := make([]string, 0, len(runs)*n*2)
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	for _, run := range runs {
		digits := s[run.start:run.end]
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrNumericOverflow, err, "digit run %q in %q", digits, s)
		}
		if v > math.MaxInt64-int64(n) {
			return nil, serrors.With(serrors.ErrNumericOverflow, "digit run %q in %q overflows when adding %d", digits, s, n)
		}

		prefix, suffix := s[:run.start], s[run.end:]
		width := run.end - run.start
		for i := int64(1); i <= int64(n); i++ {
			add(prefix + formatNumber(v+i, width, opts) + suffix)
			if v-i >= 0 {
				add(prefix + formatNumber(v-i, width, opts) + suffix)
			}
		}
	}

	return out, nil
}

func formatNumber(v int64, width int, opts MutateOptions) string {
	s := strconv.FormatInt(v, 10)
	if !opts.PadZeros || len(s) >= width {
		return s
	}

	pad := make([]byte, width-len(s))
	for i := range pad {
		pad[i] = '0'
	}

	return string(pad) + s
}
