package revocation

import (
	"crypto/sha256"

	"github.com/effective-security/upki/errs"
)

// DerivationV1 derives the identifier as
// SHA-256(tag || issuer_spki_hash || len(serial) || serial).
// The derivation version is recorded in the manifest: lookups against a
// set built with a different derivation would silently miss.
const DerivationV1 uint8 = 1

const derivationV1Tag = "upki/cert-id/v1"

// Derive computes the certificate identifier from the 32-byte issuer SPKI
// hash and the certificate serial. The serial must be 1..MaxSerialLen
// bytes; the identifier is deterministic in both inputs.
func Derive(issuerSPKIHash []byte, serial []byte) (CertID, error) {
	var id CertID
	if len(issuerSPKIHash) != HashSize {
		return id, errs.InvalidArgument("issuer SPKI hash must be %d bytes, got %d", HashSize, len(issuerSPKIHash))
	}
	if len(serial) == 0 {
		return id, errs.InvalidArgument("serial must not be empty")
	}
	if len(serial) > MaxSerialLen {
		return id, errs.InvalidArgument("serial must not exceed %d bytes, got %d", MaxSerialLen, len(serial))
	}

	h := sha256.New()
	h.Write([]byte(derivationV1Tag))
	h.Write(issuerSPKIHash)
	h.Write([]byte{byte(len(serial))})
	h.Write(serial)
	h.Sum(id[:0])
	return id, nil
}
