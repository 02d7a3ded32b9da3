// Package upki provides offline, privacy-preserving certificate
// revocation checks: a client loads a compact revocation manifest and
// answers revoked / not revoked / not covered for certificates identified
// by issuer SPKI hash and serial, using CT issuance evidence to decide
// coverage. No network traffic is generated per check.
package upki

import (
	"os"
	"sync/atomic"

	"github.com/effective-security/upki/config"
	"github.com/effective-security/upki/errs"
	"github.com/effective-security/upki/metricskey"
	"github.com/effective-security/upki/revocation"
	"github.com/effective-security/upki/x/fileutil"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/upki", "upki")

// Client is the handle owning a loaded manifest and check policy.
// It is created once, used for an arbitrary number of concurrent
// CheckRevocation calls, and released exactly once with Close.
// Refresh replaces the manifest snapshot atomically: in-flight checks
// complete against the snapshot they started with.
type Client struct {
	cfg     *config.Config
	checker atomic.Pointer[revocation.Checker]
}

// Open returns a client configured from the file at path.
func Open(path string) (*Client, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}

// Default returns a client using built-in defaults: the manifest in the
// platform-specific configuration directory, every manifest log trusted.
func Default() (*Client, error) {
	cfg, err := config.Default()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}

// NewClient returns a client over the provided configuration.
// The manifest is loaded before the client is returned.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errs.InvalidArgument("configuration not provided")
	}

	c := &Client{
		cfg: cfg,
	}
	err := c.Refresh()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Config returns the client configuration.
// The returned value must be treated as read-only.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// CheckRevocation decides the revocation status of the certificate
// identified by (issuerSPKIHash, serial), given its CT issuance evidence.
// StatusNotCovered is a successful outcome: the caller should fall back
// to another revocation mechanism, not treat it as a failure.
func (c *Client) CheckRevocation(serial, issuerSPKIHash []byte, scts []revocation.CTTimestamp) (revocation.Status, error) {
	if c == nil {
		return revocation.StatusNotCovered, errs.InvalidArgument("client not provided")
	}
	checker := c.checker.Load()
	if checker == nil {
		return revocation.StatusNotCovered, errs.CheckFailed("client is released")
	}
	return checker.Check(serial, issuerSPKIHash, scts)
}

// Generation returns the generation of the active manifest,
// 0 if the client is released.
func (c *Client) Generation() uint64 {
	checker := c.checker.Load()
	if checker == nil {
		return 0
	}
	return checker.Manifest().Generation()
}

// Refresh reloads the manifest from the configured location and swaps it
// in atomically. On failure the active snapshot keeps serving.
func (c *Client) Refresh() error {
	m, err := LoadManifest(c.cfg.ManifestFile)
	if err != nil {
		return err
	}

	trusted, err := c.cfg.TrustedLogIDs()
	if err != nil {
		return err
	}

	var ops []revocation.CheckerOption
	if len(trusted) > 0 {
		ops = append(ops, revocation.WithTrustedLogs(trusted...))
	}
	if c.cfg.CheckCacheSize > 0 {
		ops = append(ops, revocation.WithResultCache(c.cfg.CheckCacheSize))
	}

	checker, err := revocation.NewChecker(m, ops...)
	if err != nil {
		return err
	}

	c.checker.Store(checker)
	metricskey.ManifestGeneration.SetGauge(float64(m.Generation()))
	logger.KV(xlog.INFO,
		"status", "manifest_loaded",
		"file", c.cfg.ManifestFile,
		"generation", m.Generation(),
		"revoked", m.Revoked().Len(),
		"logs", m.Coverage().Len(),
	)
	return nil
}

// Close releases the client. Safe to call on a nil client.
// The owner must serialize Close after all outstanding checks return.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.checker.Store(nil)
	return nil
}

// LoadManifest reads and decodes a manifest from the file.
func LoadManifest(file string) (*revocation.Manifest, error) {
	if err := fileutil.FileExists(file); err != nil {
		metricskey.ManifestLoadFailed.IncrCounter(1, "missing")
		return nil, errs.ManifestLoad("manifest not found: %s", file).WithCause(err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		metricskey.ManifestLoadFailed.IncrCounter(1, "read")
		return nil, errs.ManifestLoad("failed to read manifest: %s", file).WithCause(err)
	}

	m, err := revocation.Unmarshal(data)
	if err != nil {
		metricskey.ManifestLoadFailed.IncrCounter(1, "parse")
		return nil, err
	}
	return m, nil
}
