// Package revocation implements the offline revocation decision engine:
// a compact, immutable manifest of known-revoked certificate identifiers
// with per-CT-log coverage windows, and the three-state check that decides
// whether a certificate is revoked, not revoked, or not covered by the
// available revocation data.
package revocation

import (
	"encoding/base64"
	"encoding/hex"
)

// HashSize is the size of the issuer SPKI hash, the CT log ID,
// and the derived certificate identifier.
const HashSize = 32

// MaxSerialLen is the maximum supported certificate serial length,
// per X.509 convention of 20 octets.
const MaxSerialLen = 20

// LogID identifies a Certificate Transparency log.
type LogID [HashSize]byte

// String returns base64 representation of the log ID,
// matching the encoding used in CT log lists.
func (l LogID) String() string {
	return base64.StdEncoding.EncodeToString(l[:])
}

// ParseLogID returns LogID from its base64 representation.
func ParseLogID(s string) (LogID, bool) {
	var id LogID
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) != HashSize {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

// CertID is the derived certificate identifier,
// see Derive for the binding to (issuer SPKI hash, serial).
type CertID [HashSize]byte

// String returns hex representation of the identifier.
func (c CertID) String() string {
	return hex.EncodeToString(c[:])
}

// CTTimestamp is evidence that a certificate was logged by a specific
// CT log at a specific time, in milliseconds since Unix epoch.
type CTTimestamp struct {
	LogID     LogID
	Timestamp uint64
}

// Status is the outcome of a revocation check.
type Status int

const (
	// StatusNotCovered means the certificate is outside the manifest's
	// coverage window: its revocation status is unknown and the caller
	// should fall back to another mechanism. It is a successful outcome,
	// not an error, and must never be conflated with StatusNotRevoked.
	StatusNotCovered Status = iota
	// StatusRevoked means the certificate is known to be revoked.
	StatusRevoked
	// StatusNotRevoked means the certificate is covered and not revoked.
	StatusNotRevoked
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusNotCovered:
		return "not_covered"
	case StatusRevoked:
		return "revoked"
	case StatusNotRevoked:
		return "not_revoked"
	}
	return "unknown"
}
