package config_test

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/effective-security/upki/config"
	"github.com/effective-security/upki/errs"
	"github.com/effective-security/upki/revocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	tmpDir := path.Join(os.TempDir(), "upki-config-test")
	os.MkdirAll(tmpDir, os.ModePerm)
	defer os.RemoveAll(tmpDir)

	trusted := logID(1)
	cfgFile := path.Join(tmpDir, "upki.yaml")
	content := `
manifest_file: /var/lib/upki/manifest.bin
trusted_logs:
  - ` + trusted.String() + `
check_cache_size: 1024
refresh_interval: 21600000000000
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), os.ModePerm))

	cfg, err := config.Load(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/upki/manifest.bin", cfg.ManifestFile)
	assert.Equal(t, 1024, cfg.CheckCacheSize)
	assert.Equal(t, 6*time.Hour, cfg.RefreshInterval)

	ids, err := cfg.TrustedLogIDs()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, trusted, ids[0])
}

func Test_Load_Errors(t *testing.T) {
	// non-UTF-8 path: no config is produced
	cfg, err := config.Load(string([]byte{0xff, 0xfe, 0xfd}))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errs.IsPathEncoding(err))

	_, err = config.Load("/this/file/does/not/exist.yaml")
	require.Error(t, err)
	assert.True(t, errs.IsConfigLoad(err))
}

func Test_Load_InvalidTrustedLog(t *testing.T) {
	tmpDir := path.Join(os.TempDir(), "upki-config-test2")
	os.MkdirAll(tmpDir, os.ModePerm)
	defer os.RemoveAll(tmpDir)

	cfgFile := path.Join(tmpDir, "upki.yaml")
	content := `
manifest_file: /var/lib/upki/manifest.bin
trusted_logs:
  - not-a-log-id
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), os.ModePerm))

	_, err := config.Load(cfgFile)
	require.Error(t, err)
	assert.True(t, errs.IsConfigLoad(err))
}

func Test_Default(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ManifestFile)
	assert.Contains(t, cfg.ManifestFile, "upki")
	assert.Empty(t, cfg.TrustedLogs)
}

func logID(b byte) revocation.LogID {
	var id revocation.LogID
	for i := range id {
		id[i] = b
	}
	return id
}
