package subsystem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

func networkTestNode() *devicetree.Node {
	return &devicetree.Node{
		Name:       "ethernet@ff000000",
		Compatible: []string{"vendor,eth-v1"},
		Reg:        []devicetree.RegEntry{{Addr: 0xff000000, Size: 0x1000}},
		Interrupts: []devicetree.InterruptCell{{Cells: []uint32{0, 2, 4}}},
	}
}

func TestParseMac(t *testing.T) {
	t.Parallel()

	mac, err := ParseMac("02:00:00:00:00:01")
	require.NoError(t, err)
	require.Equal(t, wire.MacAddr{0x02, 0, 0, 0, 0, 0x01}, mac)

	_, err = ParseMac("not-a-mac")
	require.ErrorIs(t, err, ErrInvalidMacAddr)
}

func TestNetwork_ConnectRoundTrip(t *testing.T) {
	t.Parallel()

	repo := t.TempDir()
	writeDriverConfig(t, repo, "network", "vendor-eth", map[string]interface{}{
		"compatible": []string{"vendor,eth-v1"},
		"regions": []map[string]interface{}{
			{"name": "regs", "reg_index": 0, "size": 0x1000, "perms": "rw"},
		},
		"irqs": []map[string]interface{}{
			{"name": "irq", "dt_index": 0},
		},
	})
	cat := newTestCatalogue(t, repo)

	sys := newTestSystem(t)
	driver := sdf.NewProtectionDomain("eth_driver", sdf.ProtectionDomainOptions{ProgramImage: "eth.elf"})
	virt := sdf.NewProtectionDomain("eth_virt", sdf.ProtectionDomainOptions{ProgramImage: "eth_virt.elf"})
	client := sdf.NewProtectionDomain("client", sdf.ProtectionDomainOptions{ProgramImage: "client.elf"})
	copier := sdf.NewProtectionDomain("copier", sdf.ProtectionDomainOptions{ProgramImage: "copy.elf"})
	copier2 := sdf.NewProtectionDomain("copier2", sdf.ProtectionDomainOptions{ProgramImage: "copy.elf"})
	require.NoError(t, sys.AddProtectionDomain(driver))
	require.NoError(t, sys.AddProtectionDomain(virt))
	require.NoError(t, sys.AddProtectionDomain(client))
	require.NoError(t, sys.AddProtectionDomain(copier))
	require.NoError(t, sys.AddProtectionDomain(copier2))

	net := NewNetwork(sys, sys.Arch, driver, virt, networkTestNode(), cat)
	require.NoError(t, net.AddClient(client, copier, "02:00:00:00:00:01"))
	require.ErrorIs(t, net.AddClient(client, copier2, "02:00:00:00:00:02"), ErrDuplicateClient)
	require.NoError(t, net.Connect())

	require.NoError(t, net.SerialiseConfig(t.TempDir(), false))
}

func TestNetwork_RejectsDuplicateMacAndCopier(t *testing.T) {
	t.Parallel()

	sys := newTestSystem(t)
	driver := sdf.NewProtectionDomain("eth_driver", sdf.ProtectionDomainOptions{ProgramImage: "eth.elf"})
	virt := sdf.NewProtectionDomain("eth_virt", sdf.ProtectionDomainOptions{ProgramImage: "eth_virt.elf"})
	clientA := sdf.NewProtectionDomain("client_a", sdf.ProtectionDomainOptions{ProgramImage: "client.elf"})
	clientB := sdf.NewProtectionDomain("client_b", sdf.ProtectionDomainOptions{ProgramImage: "client.elf"})
	copierA := sdf.NewProtectionDomain("copier_a", sdf.ProtectionDomainOptions{ProgramImage: "copy.elf"})
	require.NoError(t, sys.AddProtectionDomain(driver))
	require.NoError(t, sys.AddProtectionDomain(virt))
	require.NoError(t, sys.AddProtectionDomain(clientA))
	require.NoError(t, sys.AddProtectionDomain(clientB))
	require.NoError(t, sys.AddProtectionDomain(copierA))

	net := NewNetwork(sys, sys.Arch, driver, virt, networkTestNode(), nil)
	require.NoError(t, net.AddClient(clientA, copierA, "02:00:00:00:00:01"))
	require.ErrorIs(t, net.AddClient(clientB, copierA, "02:00:00:00:00:02"), ErrDuplicateCopier)

	copierB := sdf.NewProtectionDomain("copier_b", sdf.ProtectionDomainOptions{ProgramImage: "copy.elf"})
	require.NoError(t, sys.AddProtectionDomain(copierB))
	require.ErrorIs(t, net.AddClient(clientB, copierB, "02:00:00:00:00:01"), ErrDuplicateMacAddr)
}
