package subsystem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
)

func i2cTestNode() *devicetree.Node {
	return &devicetree.Node{
		Name:       "i2c@ff110000",
		Compatible: []string{"vendor,i2c-v1"},
		Reg:        []devicetree.RegEntry{{Addr: 0xff110000, Size: 0x1000}},
		Interrupts: []devicetree.InterruptCell{{Cells: []uint32{0, 33, 4}}},
	}
}

func TestI2c_ConnectRoundTrip(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	writeDriverConfig(t, repo, "i2c", "vendor-i2c", map[string]interface{}{
		"compatible": []string{"vendor,i2c-v1"},
		"regions": []map[string]interface{}{
			{"name": "regs", "reg_index": 0, "size": 0x1000, "perms": "rw"},
		},
		"irqs": []map[string]interface{}{
			{"name": "irq", "dt_index": 0},
		},
	})
	cat := newTestCatalogue(t, repo)

	sys := newTestSystem(t)
	driver := sdf.NewProtectionDomain("i2c_driver", sdf.ProtectionDomainOptions{ProgramImage: "i2c_driver.elf"})
	virt := sdf.NewProtectionDomain("i2c_virt", sdf.ProtectionDomainOptions{ProgramImage: "i2c_virt.elf"})
	client := sdf.NewProtectionDomain("client", sdf.ProtectionDomainOptions{ProgramImage: "client.elf"})
	require.NoError(t, sys.AddProtectionDomain(driver))
	require.NoError(t, sys.AddProtectionDomain(virt))
	require.NoError(t, sys.AddProtectionDomain(client))

	i2c := NewI2c(sys, sys.Arch, driver, virt, i2cTestNode(), cat)
	require.NoError(t, i2c.AddClient(client))
	require.NoError(t, i2c.Connect())
	require.ErrorIs(t, i2c.Connect(), ErrAlreadyConnected)

	require.NoError(t, i2c.SerialiseConfig(t.TempDir(), false))
}

func TestI2c_UnknownDriver(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	cat := newTestCatalogue(t, repo)

	sys := newTestSystem(t)
	driver := sdf.NewProtectionDomain("i2c_driver", sdf.ProtectionDomainOptions{ProgramImage: "i2c_driver.elf"})
	virt := sdf.NewProtectionDomain("i2c_virt", sdf.ProtectionDomainOptions{ProgramImage: "i2c_virt.elf"})
	require.NoError(t, sys.AddProtectionDomain(driver))
	require.NoError(t, sys.AddProtectionDomain(virt))

	i2c := NewI2c(sys, sys.Arch, driver, virt, i2cTestNode(), cat)
	require.ErrorIs(t, i2c.Connect(), driverdb.ErrUnknownDevice)
}
