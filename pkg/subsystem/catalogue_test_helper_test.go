package subsystem

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/sdfgen/pkg/driverdb"
)

// writeDriverConfig writes a class/driver-name/config.json under repoPath,
// mirroring the layout driverdb.Probe scans.
func writeDriverConfig(t *testing.T, repoPath, classDir, driverName string, cfg interface{}) {
	t.Helper()
	dir := filepath.Join(repoPath, classDir, driverName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), raw, 0o644))
}

func newTestCatalogue(t *testing.T, repoPath string) *driverdb.Catalogue {
	t.Helper()
	cat, err := driverdb.Probe(repoPath, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}
