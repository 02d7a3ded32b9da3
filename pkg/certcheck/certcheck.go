// Package certcheck adapts the revocation engine to crypto/x509
// certificates: it derives the issuer SPKI hash and extracts embedded
// SCT timestamps, so TLS clients can check a parsed chain directly.
package certcheck

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/binary"

	"github.com/effective-security/upki/errs"
	"github.com/effective-security/upki/revocation"
	"github.com/effective-security/xpki/certutil"
)

// oidExtensionSCT is the embedded Signed Certificate Timestamp list
// extension, RFC 6962 s3.3.
var oidExtensionSCT = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 4, 2}

// Checker answers revocation status for parsed certificates.
// *upki.Client implements it.
type Checker interface {
	CheckRevocation(serial, issuerSPKIHash []byte, scts []revocation.CTTimestamp) (revocation.Status, error)
}

// IssuerSPKIHash returns the SHA-256 digest of the issuer's
// SubjectPublicKeyInfo, the identifier the manifest builder keys
// revocations by.
func IssuerSPKIHash(issuer *x509.Certificate) [revocation.HashSize]byte {
	return sha256.Sum256(issuer.RawSubjectPublicKeyInfo)
}

// Check decides the revocation status of crt, issued by issuer, using
// the SCTs embedded in crt as coverage evidence.
func Check(checker Checker, crt, issuer *x509.Certificate) (revocation.Status, error) {
	if checker == nil || crt == nil || issuer == nil {
		return revocation.StatusNotCovered, errs.InvalidArgument("certificate, issuer and checker are required")
	}

	scts, err := EmbeddedSCTs(crt)
	if err != nil {
		return revocation.StatusNotCovered, err
	}

	spki := IssuerSPKIHash(issuer)
	return checker.CheckRevocation(crt.SerialNumber.Bytes(), spki[:], scts)
}

// CheckFile decides the revocation status for PEM-encoded certificate and
// issuer files.
func CheckFile(checker Checker, certFile, issuerFile string) (revocation.Status, error) {
	crt, err := certutil.LoadFromPEM(certFile)
	if err != nil {
		return revocation.StatusNotCovered, errs.InvalidArgument("failed to load certificate: %s", certFile).WithCause(err)
	}
	issuer, err := certutil.LoadFromPEM(issuerFile)
	if err != nil {
		return revocation.StatusNotCovered, errs.InvalidArgument("failed to load issuer: %s", issuerFile).WithCause(err)
	}
	return Check(checker, crt, issuer)
}

// EmbeddedSCTs extracts (log ID, timestamp) pairs from the certificate's
// SCT list extension. A certificate without the extension yields no
// evidence, which the engine treats as not covered.
func EmbeddedSCTs(crt *x509.Certificate) ([]revocation.CTTimestamp, error) {
	var raw []byte
	for _, ext := range crt.Extensions {
		if ext.Id.Equal(oidExtensionSCT) {
			raw = ext.Value
			break
		}
	}
	if raw == nil {
		return nil, nil
	}

	// extension value is an OCTET STRING wrapping a TLS-encoded SCT list
	var list []byte
	_, err := asn1.Unmarshal(raw, &list)
	if err != nil {
		return nil, errs.InvalidArgument("malformed SCT extension").WithCause(err)
	}

	if len(list) < 2 {
		return nil, errs.InvalidArgument("malformed SCT list")
	}
	total := int(binary.BigEndian.Uint16(list[:2]))
	list = list[2:]
	if total != len(list) {
		return nil, errs.InvalidArgument("malformed SCT list: length %d, got %d", total, len(list))
	}

	var scts []revocation.CTTimestamp
	for len(list) > 0 {
		if len(list) < 2 {
			return nil, errs.InvalidArgument("malformed SCT entry")
		}
		l := int(binary.BigEndian.Uint16(list[:2]))
		list = list[2:]
		if l > len(list) {
			return nil, errs.InvalidArgument("malformed SCT entry: length %d, got %d", l, len(list))
		}
		sct := list[:l]
		list = list[l:]

		// v1 SCT: version(1) || log_id(32) || timestamp(8) || ...
		if len(sct) < 1+revocation.HashSize+8 || sct[0] != 0 {
			continue
		}
		var ts revocation.CTTimestamp
		copy(ts.LogID[:], sct[1:1+revocation.HashSize])
		ts.Timestamp = binary.BigEndian.Uint64(sct[1+revocation.HashSize : 1+revocation.HashSize+8])
		scts = append(scts, ts)
	}
	return scts, nil
}
