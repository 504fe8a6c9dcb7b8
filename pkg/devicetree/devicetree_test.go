package devicetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/sdfgen/pkg/arch"
)

func TestIsCompatible(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCompatible([]string{"virtio,mmio", "arm,something"}, []string{"virtio,mmio"}))
	assert.False(t, IsCompatible([]string{"arm,something"}, []string{"virtio,mmio"}))
}

func TestFindCompatible_PreOrder(t *testing.T) {
	t.Parallel()

	grandchild := &Node{Name: "gc", Compatible: []string{"target,dev"}}
	child := &Node{Name: "c", Compatible: []string{"other"}, Children: []*Node{grandchild}}
	root := &Node{Name: "root", Compatible: []string{"root,dev"}, Children: []*Node{child}}

	found := FindCompatible(root, []string{"target,dev"})
	require.NotNil(t, found)
	assert.Equal(t, "gc", found.Name)
}

func TestFindAllCompatible(t *testing.T) {
	t.Parallel()

	a := &Node{Name: "a", Compatible: []string{"x"}}
	b := &Node{Name: "b", Compatible: []string{"x"}}
	root := &Node{Name: "root", Children: []*Node{a, b}}

	found := FindAllCompatible(root, []string{"x"})
	assert.Len(t, found, 2)
}

func TestMemory(t *testing.T) {
	t.Parallel()

	mem := &Node{Name: "memory@0", DeviceType: "memory", Reg: []RegEntry{{Addr: 0x40000000, Size: 0x10000000}}}
	root := &Node{Name: "root", Children: []*Node{mem}}

	found := Memory(root)
	require.NotNil(t, found)
	assert.Equal(t, "memory@0", found.Name)

	size, ok := MemorySize(root)
	require.True(t, ok)
	assert.Equal(t, uint64(0x10000000), size)
}

func TestRegPaddr_AppliesAncestorRanges(t *testing.T) {
	t.Parallel()

	parent := &Node{
		Name:   "soc",
		Ranges: []RangeEntry{{ChildBase: 0x0, ParentBase: 0x80000000, Size: 0x10000000}},
	}
	child := &Node{Name: "dev", Parent: parent}

	got := RegPaddr(arch.AArch64, child, 0x1000)
	assert.Equal(t, uint64(0x80001000), got)
}

func TestRegPaddr_NoRangesIsIdentity(t *testing.T) {
	t.Parallel()

	node := &Node{Name: "dev"}
	got := RegPaddr(arch.AArch64, node, 0x80001234)
	assert.Equal(t, uint64(0x80001000), got) // rounded down to page
}

func TestParseIRQ_ArmSPI(t *testing.T) {
	t.Parallel()

	irq, err := ParseIRQ(arch.AArch64, InterruptCell{Cells: []uint32{0, 5, 0x4}})
	require.NoError(t, err)
	assert.Equal(t, uint32(37), irq.Number)
	assert.Equal(t, TriggerLevel, irq.Trigger)
}

func TestParseIRQ_ArmPPI(t *testing.T) {
	t.Parallel()

	irq, err := ParseIRQ(arch.AArch64, InterruptCell{Cells: []uint32{1, 9, 0x1}})
	require.NoError(t, err)
	assert.Equal(t, uint32(25), irq.Number)
	assert.Equal(t, TriggerEdge, irq.Trigger)
}

func TestParseIRQ_RiscV(t *testing.T) {
	t.Parallel()

	irq, err := ParseIRQ(arch.RISCV64, InterruptCell{Cells: []uint32{7}})
	require.NoError(t, err)
	assert.Equal(t, uint32(7), irq.Number)
	assert.Equal(t, TriggerDefault, irq.Trigger)
}

func TestParseIRQ_InvalidCells(t *testing.T) {
	t.Parallel()

	_, err := ParseIRQ(arch.AArch64, InterruptCell{Cells: []uint32{0, 5}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInterruptCells)
}

func TestArmGic_V2(t *testing.T) {
	t.Parallel()

	gic := &Node{
		Name:       "interrupt-controller@8000000",
		Compatible: []string{"arm,gic-400"},
		Reg: []RegEntry{
			{Addr: 0x8000000, Size: 0x1000},
			{Addr: 0x8010000, Size: 0x1000},
			{Addr: 0x8020000, Size: 0x2000},
			{Addr: 0x8030000, Size: 0x2000},
		},
	}
	root := &Node{Name: "root", Children: []*Node{gic}}

	got, err := ArmGic(root)
	require.NoError(t, err)
	assert.Equal(t, GicV2, got.Version)
	require.NotNil(t, got.CPUPaddr)
	assert.Equal(t, uint64(0x8010000), *got.CPUPaddr)
	require.NotNil(t, got.VCPUPaddr)
	assert.Equal(t, uint64(0x8030000), *got.VCPUPaddr)
}

func TestArmGic_MissingReturnsError(t *testing.T) {
	t.Parallel()

	root := &Node{Name: "root"}
	_, err := ArmGic(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingGicNode)
}

func TestLinuxUio_ValidatesShape(t *testing.T) {
	t.Parallel()

	node := &Node{
		Name: "uio@9000000",
		Reg:  []RegEntry{{Addr: 0x9000000, Size: 0x1000}},
	}
	uio, err := LinuxUio(arch.AArch64, node)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x9000000), uio.Paddr)
	assert.Nil(t, uio.Irq)
}

func TestLinuxUio_RejectsMultipleRegEntries(t *testing.T) {
	t.Parallel()

	node := &Node{
		Name: "uio@9000000",
		Reg:  []RegEntry{{Addr: 0x9000000, Size: 0x1000}, {Addr: 0x9001000, Size: 0x1000}},
	}
	_, err := LinuxUio(arch.AArch64, node)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidUio)
}

func TestLinuxUio_RejectsUnalignedAddress(t *testing.T) {
	t.Parallel()

	node := &Node{
		Name: "uio@9000123",
		Reg:  []RegEntry{{Addr: 0x9000123, Size: 0x1000}},
	}
	_, err := LinuxUio(arch.AArch64, node)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidUio)
}

func TestChosenFromNode(t *testing.T) {
	t.Parallel()

	chosen := &Node{Name: "chosen", Reg: []RegEntry{{Addr: 0x48000000, Size: 0x1000000}}}
	c, err := ChosenFromNode(chosen)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x48000000), c.InitrdStart)
	assert.Equal(t, uint64(0x49000000), c.InitrdEnd)
}

func TestChosenFromNode_Missing(t *testing.T) {
	t.Parallel()

	_, err := ChosenFromNode(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingInitrd)
}
