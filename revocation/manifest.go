package revocation

import (
	"github.com/effective-security/upki/errs"
)

// FormatV1 is the current manifest wire format version.
const FormatV1 uint32 = 1

// Manifest bundles a coverage index and a revocation set as one
// atomically-replaceable unit. Immutable once constructed: a refreshed
// manifest fully replaces the old one, it is never mutated in place.
type Manifest struct {
	format     uint32
	derivation uint8
	generation uint64
	coverage   *CoverageIndex
	revoked    Set
}

// NewManifest assembles a manifest. It rejects structurally inconsistent
// input: unknown format or derivation versions, or missing parts.
func NewManifest(format uint32, derivation uint8, generation uint64, coverage *CoverageIndex, revoked Set) (*Manifest, error) {
	if format != FormatV1 {
		return nil, errs.ManifestLoad("unsupported manifest format version: %d", format)
	}
	if derivation != DerivationV1 {
		return nil, errs.ManifestLoad("unsupported identifier derivation version: %d", derivation)
	}
	if coverage == nil {
		return nil, errs.ManifestLoad("manifest missing coverage index")
	}
	if revoked == nil {
		return nil, errs.ManifestLoad("manifest missing revocation set")
	}
	return &Manifest{
		format:     format,
		derivation: derivation,
		generation: generation,
		coverage:   coverage,
		revoked:    revoked,
	}, nil
}

// Format returns the wire format version.
func (m *Manifest) Format() uint32 {
	return m.format
}

// Derivation returns the identifier derivation version the revocation
// set was built with.
func (m *Manifest) Derivation() uint8 {
	return m.derivation
}

// Generation returns the manifest generation marker, a monotonically
// increasing value assigned by the manifest builder.
func (m *Manifest) Generation() uint64 {
	return m.generation
}

// Coverage returns the coverage index.
func (m *Manifest) Coverage() *CoverageIndex {
	return m.coverage
}

// Revoked returns the revocation set.
func (m *Manifest) Revoked() Set {
	return m.revoked
}
