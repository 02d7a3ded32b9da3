// Package telemetry wires the process-global metrics sink for
// applications embedding the revocation client.
package telemetry

import (
	"net/http"
	"time"

	"github.com/effective-security/metrics"
	"github.com/effective-security/metrics/prometheus"
	"github.com/effective-security/upki/metricskey"
	"github.com/effective-security/xlog"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/upki/pkg", "telemetry")

// Config specifies configuration of the metrics sink.
type Config struct {
	// Provider specifies the metrics provider: prometheus|inmem
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	// Prefix is prepended to all emitted metric names.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Addr optionally starts a Prometheus scrape endpoint.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	AllowedPrefixes []string `json:"allowed_prefixes,omitempty" yaml:"allowed_prefixes,omitempty"`
	BlockedPrefixes []string `json:"blocked_prefixes,omitempty" yaml:"blocked_prefixes,omitempty"`
}

// can be initialized only once per process.
// keep global for tests
var promSink metrics.Sink

// Init initializes the global metrics sink.
// An empty provider leaves metrics disabled.
func Init(cfg *Config, extraDescribe []*metrics.Describe) error {
	if cfg == nil || cfg.Provider == "" {
		logger.KV(xlog.INFO, "status", "metrics_disabled")
		return nil
	}

	mcfg := &metrics.Config{
		EnableHostname:   false,
		FilterDefault:    true,
		TimerGranularity: time.Millisecond,
		ProfileInterval:  time.Second,
		GlobalPrefix:     cfg.Prefix,
		AllowedPrefixes:  cfg.AllowedPrefixes,
		BlockedPrefixes:  cfg.BlockedPrefixes,
	}

	var sink metrics.Sink
	var err error

	switch cfg.Provider {
	case "prometheus":
		if promSink == nil {
			ops := prometheus.Opts{
				Registerer: prom.DefaultRegisterer,
				Help:       mcfg.Help(extraDescribe, metricskey.Metrics),
			}
			promSink, err = prometheus.NewSinkFrom(ops)
			if err != nil {
				return err
			}

			if cfg.Addr != "" {
				go func() {
					logger.KV(xlog.INFO,
						"status", "starting_prometheus",
						"endpoint", cfg.Addr)
					h := promhttp.HandlerFor(prom.DefaultGatherer, promhttp.HandlerOpts{})
					logger.Fatal(http.ListenAndServe(cfg.Addr, h).Error())
				}()
			}
		}
		sink = promSink

	case "inmem", "inmemory":

	default:
		return errors.Errorf("metrics provider %q not supported", cfg.Provider)
	}

	if sink != nil {
		_, err = metrics.NewGlobal(mcfg, sink)
		if err != nil {
			return err
		}
	}

	logger.KV(xlog.INFO,
		"status", "metrics_started",
		"provider", cfg.Provider,
	)
	return nil
}
