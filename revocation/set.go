package revocation

// SetKind identifies the backing structure of a revocation set.
type SetKind string

const (
	// SetKindExact is a hash set with exact membership.
	SetKindExact SetKind = "exact"
	// SetKindCascade is a layered Bloom filter cascade with a bounded
	// false-positive rate and no false negatives.
	SetKindCascade SetKind = "cascade"
)

// Set answers membership queries over certificate identifiers known to be
// revoked. Implementations are read-only after construction and safe for
// unlimited concurrent lookups. A probabilistic implementation must never
// return false for an identifier that was present at build time.
type Set interface {
	// Contains returns true if the identifier is in the set.
	Contains(id CertID) bool
	// Len returns the number of revoked identifiers the set was built from.
	Len() int
	// Kind returns the backing structure kind.
	Kind() SetKind
}

// ExactSet is a hash-set backed Set with exact membership.
type ExactSet struct {
	ids map[CertID]struct{}
}

// NewExactSet returns an exact set over the provided identifiers.
func NewExactSet(ids ...CertID) *ExactSet {
	s := &ExactSet{
		ids: make(map[CertID]struct{}, len(ids)),
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Contains returns true if the identifier is in the set.
func (s *ExactSet) Contains(id CertID) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of identifiers in the set.
func (s *ExactSet) Len() int {
	return len(s.ids)
}

// Kind returns SetKindExact.
func (s *ExactSet) Kind() SetKind {
	return SetKindExact
}

// IDs returns the identifiers in the set, in unspecified order.
func (s *ExactSet) IDs() []CertID {
	list := make([]CertID, 0, len(s.ids))
	for id := range s.ids {
		list = append(list, id)
	}
	return list
}
