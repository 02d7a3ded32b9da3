package refresh_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/effective-security/upki/pkg/refresh"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	count atomic.Int32
	err   error
}

func (r *countingReloader) Refresh() error {
	r.count.Add(1)
	return r.err
}

func Test_Refresher_Runs(t *testing.T) {
	rel := &countingReloader{}
	rf := refresh.NewRefresher(rel, refresh.WithInterval(10*time.Millisecond), refresh.WithID("test"))
	assert.Equal(t, "test", rf.ID())
	assert.False(t, rf.IsRunning())

	require.NoError(t, rf.Start())
	assert.True(t, rf.IsRunning())
	assert.Error(t, rf.Start())

	assert.Eventually(t, func() bool {
		return rel.count.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, rf.Stop())
	assert.False(t, rf.IsRunning())
	assert.Error(t, rf.Stop())
}

func Test_Refresher_KeepsRunningOnFailure(t *testing.T) {
	rel := &countingReloader{err: errors.Errorf("load failed")}
	rf := refresh.NewRefresher(rel, refresh.WithInterval(10*time.Millisecond))
	assert.NotEmpty(t, rf.ID())

	require.NoError(t, rf.Start())
	defer rf.Stop()

	// failures are counted and logged, the loop keeps going
	assert.Eventually(t, func() bool {
		return rel.count.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}
