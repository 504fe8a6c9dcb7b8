package driverdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/sdfgen/pkg/arch"
)

func writeDescriptor(t *testing.T, repoPath, classDir, driverName string, compatible []string) {
	t.Helper()
	dir := filepath.Join(repoPath, classDir, driverName)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	doc := `{
		"compatible": ` + marshalStrings(compatible) + `,
		"regions": [{"name": "regs", "reg_index": 0, "size": 4096, "cached": false, "perms": "rw"}],
		"irqs": [{"name": "irq0", "dt_index": 0}]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(doc), 0o644))
}

func marshalStrings(ss []string) string {
	out := "["
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += `"` + s + `"`
	}
	return out + "]"
}

func TestProbe_FindsDescriptorByCompatible(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	writeDescriptor(t, repo, "blk", "virtio", []string{"virtio,mmio"})

	cat, err := Probe(repo, zerolog.Nop())
	require.NoError(t, err)
	defer cat.Close()

	desc, err := cat.FindDriver([]string{"virtio,mmio"}, ClassBlock)
	require.NoError(t, err)
	assert.Equal(t, ClassBlock, desc.Class)
	assert.Len(t, desc.Regions, 1)
}

func TestProbe_UnknownDeviceReturnsError(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	writeDescriptor(t, repo, "blk", "virtio", []string{"virtio,mmio"})

	cat, err := Probe(repo, zerolog.Nop())
	require.NoError(t, err)
	defer cat.Close()

	_, err = cat.FindDriver([]string{"nonexistent,dev"}, ClassBlock)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDevice)
}

func TestProbe_SkipsDirectoryMissingConfig(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "serial", "empty-driver"), 0o755))
	writeDescriptor(t, repo, "serial", "pl011", []string{"arm,pl011"})

	cat, err := Probe(repo, zerolog.Nop())
	require.NoError(t, err)
	defer cat.Close()

	desc, err := cat.FindDriver([]string{"arm,pl011"}, ClassSerial)
	require.NoError(t, err)
	assert.Equal(t, ClassSerial, desc.Class)
}

func TestProbe_MissingClassDirectoriesAreNonErrors(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	cat, err := Probe(repo, zerolog.Nop())
	require.NoError(t, err)
	defer cat.Close()

	_, err = cat.FindDriver([]string{"anything"}, ClassBlock)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDevice)
}

func TestValidateRegion_RejectsOversizedClaim(t *testing.T) {
	t.Parallel()

	desc := RegionDescriptor{Name: "regs", Size: 0x2000}
	err := ValidateRegion(arch.AArch64, desc, 0x1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRegion_RejectsUnalignedSize(t *testing.T) {
	t.Parallel()

	desc := RegionDescriptor{Name: "regs", Size: 0x123}
	err := ValidateRegion(arch.AArch64, desc, 0x1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRegion_AcceptsWellFormed(t *testing.T) {
	t.Parallel()

	desc := RegionDescriptor{Name: "regs", Size: 0x1000}
	assert.NoError(t, ValidateRegion(arch.AArch64, desc, 0x1000))
}
