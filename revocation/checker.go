package revocation

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/effective-security/upki/errs"
	"github.com/effective-security/upki/metricskey"
	"github.com/effective-security/xlog"
	lru "github.com/hashicorp/golang-lru/v2"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/upki", "revocation")

// Checker evaluates revocation status against a single manifest snapshot.
// It performs no I/O and holds no mutable state besides an optional
// bounded result cache, so a single instance is safe for unlimited
// concurrent Check calls.
type Checker struct {
	manifest *Manifest
	trusted  map[LogID]bool
	results  *lru.Cache[resultKey, Status]
}

type resultKey [HashSize]byte

// CheckerOption configures the checker
type CheckerOption interface {
	apply(*checkerOptions)
}

type checkerOptions struct {
	trusted   []LogID
	cacheSize int
}

type funcCheckerOption struct {
	f func(*checkerOptions)
}

func (fo *funcCheckerOption) apply(o *checkerOptions) {
	fo.f(o)
}

// WithTrustedLogs restricts coverage decisions to evidence from the
// listed logs. Without this option, any log present in the coverage
// index is trusted.
func WithTrustedLogs(ids ...LogID) CheckerOption {
	return &funcCheckerOption{f: func(o *checkerOptions) {
		o.trusted = append(o.trusted, ids...)
	}}
}

// WithResultCache enables a bounded LRU cache of check results,
// keyed by the derived identifier and the supplied evidence.
func WithResultCache(size int) CheckerOption {
	return &funcCheckerOption{f: func(o *checkerOptions) {
		o.cacheSize = size
	}}
}

// NewChecker returns a checker over the manifest snapshot.
func NewChecker(m *Manifest, ops ...CheckerOption) (*Checker, error) {
	if m == nil {
		return nil, errs.InvalidArgument("manifest not provided")
	}

	var dops checkerOptions
	for _, op := range ops {
		op.apply(&dops)
	}

	c := &Checker{
		manifest: m,
	}
	if len(dops.trusted) > 0 {
		c.trusted = make(map[LogID]bool, len(dops.trusted))
		for _, id := range dops.trusted {
			c.trusted[id] = true
		}
	}
	if dops.cacheSize > 0 {
		cache, err := lru.New[resultKey, Status](dops.cacheSize)
		if err != nil {
			return nil, errs.InvalidArgument("invalid result cache size: %d", dops.cacheSize)
		}
		c.results = cache
	}
	return c, nil
}

// Manifest returns the manifest snapshot the checker was built over.
func (c *Checker) Manifest() *Manifest {
	return c.manifest
}

// Check decides the revocation status of the certificate identified by
// (issuerSPKIHash, serial), given its CT issuance evidence.
//
// Coverage is always evaluated before membership: a membership match
// outside the vetted coverage window could be a stale or unrelated false
// positive, so uncovered certificates short-circuit to StatusNotCovered.
func (c *Checker) Check(serial, issuerSPKIHash []byte, scts []CTTimestamp) (Status, error) {
	started := time.Now()

	id, err := Derive(issuerSPKIHash, serial)
	if err != nil {
		return StatusNotCovered, err
	}

	if c.manifest == nil || c.manifest.coverage == nil || c.manifest.revoked == nil {
		return StatusNotCovered, errs.CheckFailed("checker state is corrupt")
	}

	var key resultKey
	if c.results != nil {
		key = cacheKey(id, scts)
		if status, ok := c.results.Get(key); ok {
			metricskey.RevocationCheckByStatus.IncrCounter(1, status.String())
			return status, nil
		}
	}

	status := StatusNotCovered
	if c.covered(scts) {
		if c.manifest.revoked.Contains(id) {
			status = StatusRevoked
		} else {
			status = StatusNotRevoked
		}
	}

	if c.results != nil {
		c.results.Add(key, status)
	}

	logger.KV(xlog.DEBUG,
		"cert_id", id.String(),
		"status", status.String(),
		"sct_count", len(scts),
	)
	metricskey.RevocationCheckByStatus.IncrCounter(1, status.String())
	metricskey.RevocationCheckPerf.MeasureSince(started, status.String())

	return status, nil
}

// covered combines per-log coverage with OR: evidence from any single
// trusted log inside a known-complete interval suffices. Untrusted logs
// are never a source of coverage.
func (c *Checker) covered(scts []CTTimestamp) bool {
	for _, ts := range scts {
		if c.trusted != nil && !c.trusted[ts.LogID] {
			continue
		}
		if c.manifest.coverage.Covered(ts.LogID, ts.Timestamp) {
			return true
		}
	}
	return false
}

func cacheKey(id CertID, scts []CTTimestamp) resultKey {
	h := sha256.New()
	h.Write(id[:])
	var buf [8]byte
	for _, ts := range scts {
		h.Write(ts.LogID[:])
		binary.BigEndian.PutUint64(buf[:], ts.Timestamp)
		h.Write(buf[:])
	}
	var key resultKey
	h.Sum(key[:0])
	return key
}
