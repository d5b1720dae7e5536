package domain

import "strings"

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// LabelCount returns the number of dot-separated labels in name.
// An empty string counts as a single (empty) label.
func LabelCount(name string) int {
	return strings.Count(name, ".") + 1
}

// FirstLabel returns the part of name before the first dot.
func FirstLabel(name string) string {
	first, _, _ := strings.Cut(name, ".")

	return first
}

// SplitFirst splits name into its first label and the remaining labels.
// rest is empty when name has a single label.
func SplitFirst(name string) (first, rest string) {
	first, rest, _ = strings.Cut(name, ".")

	return first, rest
}

// StripDigits removes every ASCII digit from s.
func StripDigits(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// HasDigit reports whether s contains at least one ASCII digit.
func HasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if IsDigit(s[i]) {
			return true
		}
	}

	return false
}

// StartsWithDigit reports whether the first byte of s is a digit.
func StartsWithDigit(s string) bool {
	return s != "" && IsDigit(s[0])
}

// EndsWithDigit reports whether the last byte of s is a digit.
func EndsWithDigit(s string) bool {
	return s != "" && IsDigit(s[len(s)-1])
}

// StripSpaces removes every space character from line. Wordlists and domain
// lists are cleaned this way before use.
func StripSpaces(line string) string {
	return strings.ReplaceAll(line, " ", "")
}
