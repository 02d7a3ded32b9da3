package upki_test

import (
	"os"
	"path"
	"testing"

	"github.com/effective-security/upki"
	"github.com/effective-security/upki/config"
	"github.com/effective-security/upki/errs"
	"github.com/effective-security/upki/revocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLog = func() revocation.LogID {
	var id revocation.LogID
	for i := range id {
		id[i] = 0xAB
	}
	return id
}()

const (
	testMin = uint64(1600000000000)
	testMax = uint64(1700000000000)
)

// writeManifest builds and persists a manifest with the given generation
// and revoked serials under a zero issuer hash.
func writeManifest(t *testing.T, file string, generation uint64, revokedSerials ...[]byte) {
	t.Helper()
	issuerHash := make([]byte, revocation.HashSize)

	var ids []revocation.CertID
	for _, serial := range revokedSerials {
		id, err := revocation.Derive(issuerHash, serial)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	coverage := revocation.NewCoverageIndex()
	require.NoError(t, coverage.Add(testLog, revocation.Interval{MinTimestamp: testMin, MaxTimestamp: testMax}))

	m, err := revocation.NewManifest(revocation.FormatV1, revocation.DerivationV1, generation, coverage, revocation.NewExactSet(ids...))
	require.NoError(t, err)

	data, err := revocation.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, data, os.ModePerm))
}

func Test_Open_CheckRevocation(t *testing.T) {
	tmpDir := path.Join(os.TempDir(), "upki-client-test")
	os.MkdirAll(tmpDir, os.ModePerm)
	defer os.RemoveAll(tmpDir)

	manifestFile := path.Join(tmpDir, "manifest.bin")
	writeManifest(t, manifestFile, 1, []byte{0x01})

	cfgFile := path.Join(tmpDir, "upki.yaml")
	content := `
manifest_file: ` + manifestFile + `
trusted_logs:
  - ` + testLog.String() + `
check_cache_size: 16
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), os.ModePerm))

	client, err := upki.Open(cfgFile)
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, uint64(1), client.Generation())

	issuerHash := make([]byte, revocation.HashSize)
	inside := []revocation.CTTimestamp{{LogID: testLog, Timestamp: testMin + 100}}

	status, err := client.CheckRevocation([]byte{0x01}, issuerHash, inside)
	require.NoError(t, err)
	assert.Equal(t, revocation.StatusRevoked, status)

	status, err = client.CheckRevocation([]byte{0x02}, issuerHash, inside)
	require.NoError(t, err)
	assert.Equal(t, revocation.StatusNotRevoked, status)

	// no CT evidence is never "not revoked"
	status, err = client.CheckRevocation([]byte{0x01}, issuerHash, nil)
	require.NoError(t, err)
	assert.Equal(t, revocation.StatusNotCovered, status)

	_, err = client.CheckRevocation([]byte{0x01}, issuerHash[:8], nil)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidArgument(err))
}

func Test_Refresh_SwapsManifest(t *testing.T) {
	tmpDir := path.Join(os.TempDir(), "upki-refresh-test")
	os.MkdirAll(tmpDir, os.ModePerm)
	defer os.RemoveAll(tmpDir)

	manifestFile := path.Join(tmpDir, "manifest.bin")
	writeManifest(t, manifestFile, 1)

	client, err := upki.NewClient(&config.Config{ManifestFile: manifestFile})
	require.NoError(t, err)
	defer client.Close()

	issuerHash := make([]byte, revocation.HashSize)
	inside := []revocation.CTTimestamp{{LogID: testLog, Timestamp: testMin}}

	status, err := client.CheckRevocation([]byte{0x07}, issuerHash, inside)
	require.NoError(t, err)
	assert.Equal(t, revocation.StatusNotRevoked, status)

	// a new generation with the serial revoked replaces the snapshot
	writeManifest(t, manifestFile, 2, []byte{0x07})
	require.NoError(t, client.Refresh())
	assert.Equal(t, uint64(2), client.Generation())

	status, err = client.CheckRevocation([]byte{0x07}, issuerHash, inside)
	require.NoError(t, err)
	assert.Equal(t, revocation.StatusRevoked, status)
}

func Test_Refresh_KeepsServingOnFailure(t *testing.T) {
	tmpDir := path.Join(os.TempDir(), "upki-refresh-fail-test")
	os.MkdirAll(tmpDir, os.ModePerm)
	defer os.RemoveAll(tmpDir)

	manifestFile := path.Join(tmpDir, "manifest.bin")
	writeManifest(t, manifestFile, 1, []byte{0x01})

	client, err := upki.NewClient(&config.Config{ManifestFile: manifestFile})
	require.NoError(t, err)
	defer client.Close()

	// corrupt the file on disk; the loaded snapshot keeps serving
	require.NoError(t, os.WriteFile(manifestFile, []byte("garbage"), os.ModePerm))
	err = client.Refresh()
	require.Error(t, err)
	assert.True(t, errs.IsManifestLoad(err))
	assert.Equal(t, uint64(1), client.Generation())

	issuerHash := make([]byte, revocation.HashSize)
	status, err := client.CheckRevocation([]byte{0x01}, issuerHash, []revocation.CTTimestamp{{LogID: testLog, Timestamp: testMin}})
	require.NoError(t, err)
	assert.Equal(t, revocation.StatusRevoked, status)
}

func Test_NewClient_Errors(t *testing.T) {
	_, err := upki.NewClient(nil)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidArgument(err))

	_, err = upki.NewClient(&config.Config{ManifestFile: "/does/not/exist.bin"})
	require.Error(t, err)
	assert.True(t, errs.IsManifestLoad(err))

	_, err = upki.Open(string([]byte{0xff, 0xfe}))
	require.Error(t, err)
	assert.True(t, errs.IsPathEncoding(err))
}

func Test_Close(t *testing.T) {
	// nil-safe no-op
	var client *upki.Client
	assert.NoError(t, client.Close())

	tmpDir := path.Join(os.TempDir(), "upki-close-test")
	os.MkdirAll(tmpDir, os.ModePerm)
	defer os.RemoveAll(tmpDir)

	manifestFile := path.Join(tmpDir, "manifest.bin")
	writeManifest(t, manifestFile, 1)

	c, err := upki.NewClient(&config.Config{ManifestFile: manifestFile})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = c.CheckRevocation([]byte{0x01}, make([]byte, revocation.HashSize), nil)
	require.Error(t, err)
	assert.True(t, errs.IsCheckFailed(err))
}
