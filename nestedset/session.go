package nestedset

import "sync/atomic"

// Session counts successful structural mutations. Until the first mutation of
// a session the engine trusts caller-supplied boundaries and skips the
// refresh read; this is a cache-validity hint, not a correctness requirement,
// because boundaries cannot have moved before anything mutated. Safe for
// concurrent use, though concurrent mutations on one forest still need
// store-level serialization.
type Session struct {
	mutations atomic.Int64
}

// NewSession returns a fresh session with no recorded mutations.
func NewSession() *Session {
	return &Session{}
}

// Mutations returns the number of structural mutations applied so far.
func (s *Session) Mutations() int64 {
	return s.mutations.Load()
}

func (s *Session) noteMutation() {
	s.mutations.Add(1)
}
