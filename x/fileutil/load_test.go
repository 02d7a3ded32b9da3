package fileutil_test

import (
	"os"
	"path"
	"testing"

	"github.com/effective-security/upki/x/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type config struct {
	ManifestFile string   `json:"manifest_file" yaml:"manifest_file"`
	TrustedLogs  []string `json:"trusted_logs" yaml:"trusted_logs"`
}

func Test_Unmarshal(t *testing.T) {
	tmpDir := path.Join(os.TempDir(), "fileutil-test")
	os.MkdirAll(tmpDir, os.ModePerm)
	defer os.RemoveAll(tmpDir)

	v := config{
		ManifestFile: "/var/lib/upki/manifest.bin",
		TrustedLogs:  []string{"abc", "def"},
	}

	yml := path.Join(tmpDir, "cfg.yaml")
	err := fileutil.Marshal(yml, &v)
	require.NoError(t, err)

	var v2 config
	err = fileutil.Unmarshal(yml, &v2)
	require.NoError(t, err)
	assert.Equal(t, v, v2)

	jsn := path.Join(tmpDir, "cfg.json")
	err = fileutil.Marshal(jsn, &v)
	require.NoError(t, err)

	var v3 config
	err = fileutil.Unmarshal(jsn, &v3)
	require.NoError(t, err)
	assert.Equal(t, v, v3)

	err = fileutil.Unmarshal(path.Join(tmpDir, "missing.yaml"), &v3)
	assert.Error(t, err)
}

func Test_FileExists(t *testing.T) {
	assert.Error(t, fileutil.FileExists(""))
	assert.Error(t, fileutil.FileExists("/this/file/does/not/exist"))
	assert.Error(t, fileutil.FileExists(os.TempDir()))

	tmp, err := os.CreateTemp("", "fileutil")
	require.NoError(t, err)
	defer os.Remove(tmp.Name())
	tmp.Close()

	assert.NoError(t, fileutil.FileExists(tmp.Name()))
}

func Test_ExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, path.Join(home, "cfg.yaml"), fileutil.ExpandPath("~/cfg.yaml"))
	assert.Equal(t, "/etc/upki/cfg.yaml", fileutil.ExpandPath("/etc/upki/cfg.yaml"))
}
