package domain

// CandidateKind tells how a candidate was built.
type CandidateKind string

const (
	// CandidatePrefix is a candidate of the form token + join + domain.
	CandidatePrefix CandidateKind = "prefix"
	// CandidateApex is a candidate synthesized by merging a token into the
	// first label of the seed domain. Apex candidates are never expanded further.
	CandidateApex CandidateKind = "apex"
)

// Candidate is a generated subdomain name.
type Candidate struct {
	// Value is the generated name.
	Value string `json:"candidate"`
	// Seed is the known domain the traversal started from.
	Seed string `json:"seed"`
	// Level is the recursion level that produced the candidate, starting at 1.
	Level int `json:"level"`
	// Kind tells how the candidate was built.
	Kind CandidateKind `json:"kind"`
}
