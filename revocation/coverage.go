package revocation

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Interval is a closed range [MinTimestamp, MaxTimestamp] of issuance
// timestamps, in milliseconds since Unix epoch, for which the manifest's
// revocation data is asserted complete.
type Interval struct {
	MinTimestamp uint64
	MaxTimestamp uint64
}

// Contains returns true if ts falls inside the closed interval.
func (iv Interval) Contains(ts uint64) bool {
	return ts >= iv.MinTimestamp && ts <= iv.MaxTimestamp
}

// CoverageIndex records, per CT log, the issuance-timestamp intervals for
// which the revocation data is known complete: any certificate logged by
// that log inside an interval is guaranteed present in the revocation set
// if it was revoked. Read-only after construction.
type CoverageIndex struct {
	entries map[LogID][]Interval
}

// NewCoverageIndex returns an empty index.
func NewCoverageIndex() *CoverageIndex {
	return &CoverageIndex{
		entries: map[LogID][]Interval{},
	}
}

// Add records a coverage interval for the log.
// Returns error for an inverted interval.
func (x *CoverageIndex) Add(logID LogID, iv Interval) error {
	if iv.MinTimestamp > iv.MaxTimestamp {
		return errors.Newf("inverted coverage interval for log %s: [%d, %d]",
			logID, iv.MinTimestamp, iv.MaxTimestamp)
	}
	ivs := append(x.entries[logID], iv)
	sort.Slice(ivs, func(i, j int) bool {
		return ivs[i].MinTimestamp < ivs[j].MinTimestamp
	})
	x.entries[logID] = ivs
	return nil
}

// Covered returns true if the timestamp falls inside any interval
// recorded for the log.
func (x *CoverageIndex) Covered(logID LogID, ts uint64) bool {
	for _, iv := range x.entries[logID] {
		if iv.Contains(ts) {
			return true
		}
	}
	return false
}

// Intervals returns the recorded intervals for the log,
// sorted by MinTimestamp.
func (x *CoverageIndex) Intervals(logID LogID) []Interval {
	return x.entries[logID]
}

// Logs returns the IDs of all logs with recorded coverage.
func (x *CoverageIndex) Logs() []LogID {
	list := make([]LogID, 0, len(x.entries))
	for id := range x.entries {
		list = append(list, id)
	}
	return list
}

// Len returns the number of logs with recorded coverage.
func (x *CoverageIndex) Len() int {
	return len(x.entries)
}
