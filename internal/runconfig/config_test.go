package runconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New("")
	require.NoError(t, err)
	require.Equal(t, ".", cfg.OutputDir)
	require.Empty(t, cfg.Board)
}

func TestNew_LoadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sdfgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board: qemu_virt_aarch64\nexample: serial\ndebug: true\n"), 0o644))

	cfg, err := New(path)
	require.NoError(t, err)
	require.Equal(t, "qemu_virt_aarch64", cfg.Board)
	require.Equal(t, "serial", cfg.Example)
	require.True(t, cfg.Debug)
}

func TestNew_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sdfgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board: qemu_virt_aarch64\n"), 0o644))

	t.Setenv("SDFGEN_BOARD", "odroidc4")
	cfg, err := New(path)
	require.NoError(t, err)
	require.Equal(t, "odroidc4", cfg.Board)
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
