package domain

import (
	"sort"

	"github.com/caffix/stringset"
)

// DomainSet is the read-only set of known domains. It seeds a traversal and
// filters out candidates that are already known. Once built it exposes no
// mutation API, so it can be shared freely during a traversal.
type DomainSet struct {
	domains *stringset.Set
}

// NewDomainSet builds a DomainSet containing the given domains.
func NewDomainSet(domains ...string) DomainSet {
	return DomainSet{domains: stringset.New(domains...)}
}

// Has reports whether name is a known domain.
func (s DomainSet) Has(name string) bool {
	return s.domains != nil && s.domains.Has(name)
}

// Len returns the number of known domains.
func (s DomainSet) Len() int {
	if s.domains == nil {
		return 0
	}

	return s.domains.Len()
}

// Domains returns a copy of the known domains in unspecified order.
func (s DomainSet) Domains() []string {
	if s.domains == nil {
		return nil
	}

	return s.domains.Slice()
}

// Close releases the set. It must not be used afterwards.
func (s DomainSet) Close() {
	if s.domains != nil {
		s.domains.Close()
	}
}

// TokenSet is the read-only set of permutation tokens produced from a wordlist.
type TokenSet struct {
	tokens *stringset.Set
}

// NewTokenSet builds a TokenSet containing the given tokens.
func NewTokenSet(tokens ...string) TokenSet {
	return TokenSet{tokens: stringset.New(tokens...)}
}

// TokenSetOf wraps set, which must not be modified by the caller afterwards.
func TokenSetOf(set *stringset.Set) TokenSet {
	return TokenSet{tokens: set}
}

// Has reports whether token is part of the set.
func (s TokenSet) Has(token string) bool {
	return s.tokens != nil && s.tokens.Has(token)
}

// Len returns the number of tokens.
func (s TokenSet) Len() int {
	if s.tokens == nil {
		return 0
	}

	return s.tokens.Len()
}

// Tokens returns a copy of the tokens in unspecified order.
func (s TokenSet) Tokens() []string {
	if s.tokens == nil {
		return nil
	}

	return s.tokens.Slice()
}

// Sorted returns the tokens in lexicographic order.
func (s TokenSet) Sorted() []string {
	out := s.Tokens()
	sort.Strings(out)

	return out
}

// Close releases the set. It must not be used afterwards.
func (s TokenSet) Close() {
	if s.tokens != nil {
		s.tokens.Close()
	}
}
