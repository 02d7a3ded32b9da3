// Package refresh provides a background reloader for the revocation
// manifest. The reloader never mutates an active manifest: each cycle
// loads a fresh snapshot and the client swaps it in atomically, so
// in-flight checks complete against a consistent snapshot.
package refresh

import (
	"sync"
	"time"

	"github.com/effective-security/upki/metricskey"
	"github.com/effective-security/x/guid"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/upki/pkg", "refresh")

// DefaultInterval between refresh attempts
const DefaultInterval = 6 * time.Hour

// Reloader reloads the manifest and swaps it in.
// *upki.Client implements it.
type Reloader interface {
	Refresh() error
}

// Refresher periodically invokes the reloader. A failed cycle is logged
// and counted; the previous manifest keeps serving.
type Refresher struct {
	dops options

	reloader Reloader
	running  bool
	quit     chan bool
	lock     sync.Mutex
}

// NewRefresher creates a refresher for the reloader
func NewRefresher(r Reloader, ops ...Option) *Refresher {
	rf := &Refresher{
		reloader: r,
		quit:     make(chan bool, 1),
	}
	for _, op := range ops {
		op.apply(&rf.dops)
	}
	rf.dops.id = values.StringsCoalesce(rf.dops.id, guid.MustCreate())
	if rf.dops.interval == 0 {
		rf.dops.interval = DefaultInterval
	}
	return rf
}

// ID returns the id of the refresher
func (r *Refresher) ID() string {
	return r.dops.id
}

// IsRunning return the status
func (r *Refresher) IsRunning() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.running
}

// Start the refresh loop
func (r *Refresher) Start() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.running {
		return errors.Errorf("refresher already started")
	}
	r.running = true

	logger.KV(xlog.DEBUG,
		"status", "started",
		"id", r.dops.id,
		"interval", r.dops.interval,
	)

	ticker := time.NewTicker(r.dops.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				r.run()
			case <-r.quit:
				ticker.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop the refresh loop
func (r *Refresher) Stop() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.running {
		return errors.Errorf("the refresher is not running")
	}
	r.running = false
	r.quit <- true

	return nil
}

func (r *Refresher) run() {
	err := r.reloader.Refresh()
	if err != nil {
		metricskey.ManifestRefreshFailed.IncrCounter(1)
		logger.KV(xlog.ERROR,
			"status", "refresh_failed",
			"id", r.dops.id,
			"err", err.Error(),
		)
		return
	}
	metricskey.ManifestRefreshed.IncrCounter(1)
}

// Option configures the refresher
type Option interface {
	apply(*options)
}

type options struct {
	id       string
	interval time.Duration
}

type funcOption struct {
	f func(*options)
}

func (fo *funcOption) apply(o *options) {
	fo.f(o)
}

// WithInterval option to provide the refresh interval
func WithInterval(interval time.Duration) Option {
	return &funcOption{f: func(o *options) {
		o.interval = interval
	}}
}

// WithID option to provide ID
func WithID(id string) Option {
	return &funcOption{f: func(o *options) {
		o.id = id
	}}
}
