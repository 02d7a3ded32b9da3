// Package config provides the client configuration: the manifest
// location and the policy knobs applied to revocation checks.
package config

import (
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/effective-security/upki/errs"
	"github.com/effective-security/upki/revocation"
	"github.com/effective-security/upki/x/fileutil"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/upki", "config")

const (
	appDirName = "upki"

	// DefaultManifestFile is the manifest file name inside the
	// platform-specific configuration directory.
	DefaultManifestFile = "manifest.bin"
)

// Config specifies the configuration of the revocation client.
// It owns exactly one manifest, loaded once; all fields are read-only
// after construction.
type Config struct {
	// ManifestFile specifies the location of the revocation manifest.
	ManifestFile string `json:"manifest_file,omitempty" yaml:"manifest_file,omitempty"`

	// TrustedLogs specifies base64 IDs of CT logs trusted to assert
	// coverage. When empty, every log present in the manifest's coverage
	// index is trusted.
	TrustedLogs []string `json:"trusted_logs,omitempty" yaml:"trusted_logs,omitempty"`

	// CheckCacheSize enables an LRU cache of check results when > 0.
	CheckCacheSize int `json:"check_cache_size,omitempty" yaml:"check_cache_size,omitempty"`

	// RefreshInterval specifies how often to reload the manifest from
	// ManifestFile. 0 disables background refresh.
	RefreshInterval time.Duration `json:"refresh_interval,omitempty" yaml:"refresh_interval,omitempty"`
}

// Load returns configuration loaded from a YAML or JSON file.
func Load(file string) (*Config, error) {
	if !utf8.ValidString(file) {
		return nil, errs.PathEncoding("config path is not valid UTF-8")
	}

	file = fileutil.ExpandPath(file)
	var cfg Config
	err := fileutil.Unmarshal(file, &cfg)
	if err != nil {
		return nil, errs.ConfigLoad("failed to load config: %s", file).WithCause(err)
	}

	if _, err := cfg.TrustedLogIDs(); err != nil {
		return nil, err
	}

	logger.KV(xlog.DEBUG,
		"status", "config_loaded",
		"file", file,
		"manifest", cfg.ManifestFile,
		"trusted_logs", len(cfg.TrustedLogs),
	)
	return &cfg, nil
}

// Default returns configuration pointing at the manifest in the
// platform-specific configuration directory.
func Default() (*Config, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errs.PlatformResolution("failed to resolve user config directory").WithCause(err)
	}

	return &Config{
		ManifestFile: filepath.Join(dir, appDirName, DefaultManifestFile),
	}, nil
}

// TrustedLogIDs parses the configured trusted log IDs.
// An empty result means every log in the manifest is trusted.
func (c *Config) TrustedLogIDs() ([]revocation.LogID, error) {
	var ids []revocation.LogID
	for _, s := range c.TrustedLogs {
		id, ok := revocation.ParseLogID(s)
		if !ok {
			return nil, errs.ConfigLoad("invalid trusted log ID: %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
