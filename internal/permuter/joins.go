package permuter

import (
	"strings"
	"typewriter/pkg/domain"
)

const (
	joinDot    = "."
	joinHyphen = "-"
)

// Joins returns the separators to try when prefixing name with token. The
// result is an ordered subset of [".", "-"] and may be empty, which means the
// token must not be joined to this name at all.
//
// Rules, in order:
//   - name starts with a digit and token ends with one: both separators,
//     nothing else is checked.
//   - name is an apex domain on the first level: only ".".
//   - token equals the first label of name: nothing.
//   - token is at least 4 bytes long and prefixes the first label: both.
//   - with digits removed, token equals the first label: nothing; the first
//     label ends with token: only ".".
func Joins(name, token string, firstLevel bool) []string {
	if domain.StartsWithDigit(name) && domain.EndsWithDigit(token) {
		return []string{joinDot, joinHyphen}
	}

	joins := []string{joinDot, joinHyphen}
	if firstLevel && domain.LabelCount(name) == 2 {
		joins = []string{joinDot}
	}

	first := domain.FirstLabel(name)
	switch {
	case first == token:
		return nil
	case len(token) >= 4 && strings.HasPrefix(first, token):
		return []string{joinDot, joinHyphen}
	}

	strippedFirst, strippedToken := domain.StripDigits(first), domain.StripDigits(token)
	switch {
	case strippedFirst == strippedToken:
		return nil
	case strings.HasSuffix(strippedFirst, strippedToken):
		return []string{joinDot}
	}

	return joins
}
