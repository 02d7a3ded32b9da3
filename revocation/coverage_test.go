package revocation_test

import (
	"testing"

	"github.com/effective-security/upki/revocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logID(b byte) revocation.LogID {
	var id revocation.LogID
	for i := range id {
		id[i] = b
	}
	return id
}

func Test_CoverageIndex_ClosedIntervals(t *testing.T) {
	x := revocation.NewCoverageIndex()
	log1 := logID(1)

	err := x.Add(log1, revocation.Interval{MinTimestamp: 1000, MaxTimestamp: 2000})
	require.NoError(t, err)

	// closed on both ends
	assert.True(t, x.Covered(log1, 1000))
	assert.True(t, x.Covered(log1, 2000))
	assert.True(t, x.Covered(log1, 1500))
	assert.False(t, x.Covered(log1, 999))
	assert.False(t, x.Covered(log1, 2001))

	// unknown log
	assert.False(t, x.Covered(logID(2), 1500))
}

func Test_CoverageIndex_DisjointIntervals(t *testing.T) {
	x := revocation.NewCoverageIndex()
	log1 := logID(1)

	require.NoError(t, x.Add(log1, revocation.Interval{MinTimestamp: 5000, MaxTimestamp: 6000}))
	require.NoError(t, x.Add(log1, revocation.Interval{MinTimestamp: 1000, MaxTimestamp: 2000}))

	assert.True(t, x.Covered(log1, 1500))
	assert.True(t, x.Covered(log1, 5500))
	assert.False(t, x.Covered(log1, 3000))

	ivs := x.Intervals(log1)
	require.Len(t, ivs, 2)
	assert.Equal(t, uint64(1000), ivs[0].MinTimestamp)

	assert.Equal(t, 1, x.Len())
	assert.Len(t, x.Logs(), 1)
}

func Test_CoverageIndex_InvertedInterval(t *testing.T) {
	x := revocation.NewCoverageIndex()
	err := x.Add(logID(1), revocation.Interval{MinTimestamp: 2000, MaxTimestamp: 1000})
	assert.Error(t, err)
}
