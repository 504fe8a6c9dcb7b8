package sdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/sdfgen/pkg/arch"
)

func TestRender_EmptySystem(t *testing.T) {
	t.Parallel()

	s := NewSystemDescription(arch.AArch64, 0x60000000)
	got := s.Render()

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<system>\n</system>"
	assert.Equal(t, want, got)
}

func TestRender_SinglePD(t *testing.T) {
	t.Parallel()

	s := NewSystemDescription(arch.AArch64, 0x60000000)
	pd := NewProtectionDomain("hello", ProtectionDomainOptions{ProgramImage: "hello.elf"})
	require.NoError(t, s.AddProtectionDomain(pd))

	got := s.Render()
	assert.Contains(t, got, `<protection_domain name="hello" priority="100" budget="100" period="100" passive="false" stack_size="0x1000" smc="false">`)
	assert.Contains(t, got, `<program_image path="hello.elf" />`)
}

func TestRender_SixPermissionCombinations(t *testing.T) {
	t.Parallel()

	s := NewSystemDescription(arch.AArch64, 0x60000000)
	mr, err := s.AddMemoryRegion("test", 0x1000, nil, nil)
	require.NoError(t, err)

	pd := NewProtectionDomain("owner", ProtectionDomainOptions{})
	require.NoError(t, s.AddProtectionDomain(pd))

	combos := []Perm{Read, Exec, Read | Write, Read | Exec, Write | Exec, Read | Write | Exec}
	vaddr := uint64(0x20000000)
	for _, p := range combos {
		require.NoError(t, pd.AddMap(mr, vaddr, p, false, ""))
		vaddr += 0x1000
	}

	got := s.Render()
	for _, want := range []string{`perms="r"`, `perms="x"`, `perms="rw"`, `perms="rx"`, `perms="wx"`, `perms="rwx"`} {
		assert.Contains(t, got, want)
	}
}

func TestRender_WriteOnlyMapRejected(t *testing.T) {
	t.Parallel()

	s := NewSystemDescription(arch.AArch64, 0x60000000)
	mr, err := s.AddMemoryRegion("test", 0x1000, nil, nil)
	require.NoError(t, err)

	pd := NewProtectionDomain("owner", ProtectionDomainOptions{})
	require.NoError(t, s.AddProtectionDomain(pd))

	err = pd.AddMap(mr, 0x20000000, Write, false, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMap)
}

func TestRender_FixedChannelIDs(t *testing.T) {
	t.Parallel()

	s := NewSystemDescription(arch.AArch64, 0x60000000)
	pdA := NewProtectionDomain("a", ProtectionDomainOptions{})
	pdB := NewProtectionDomain("b", ProtectionDomainOptions{})
	require.NoError(t, s.AddProtectionDomain(pdA))
	require.NoError(t, s.AddProtectionDomain(pdB))

	idA, idB := uint8(3), uint8(5)
	_, err := s.AddChannel(pdA, ChannelEndOptions{ID: &idA}, pdB, ChannelEndOptions{ID: &idB})
	require.NoError(t, err)

	defaultCh, err := s.AddChannel(pdA, ChannelEndOptions{}, pdB, ChannelEndOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint8(0), defaultCh.A.ID)
	assert.Equal(t, uint8(0), defaultCh.B.ID)
}

func TestRender_BasicVM(t *testing.T) {
	t.Parallel()

	s := NewSystemDescription(arch.AArch64, 0x60000000)
	ramSize := uint64(0x10000000)
	ram, err := s.AddMemoryRegion("guest_ram_vm1", ramSize, nil, nil)
	require.NoError(t, err)

	vmm := NewProtectionDomain("vmm", ProtectionDomainOptions{})
	require.NoError(t, s.AddProtectionDomain(vmm))
	require.NoError(t, vmm.AddMap(ram, 0x40000000, Read|Write, true, ""))

	vm := &VirtualMachine{Name: "vm1", Vcpus: []Vcpu{{ID: 0}}, Priority: 100, Budget: 100, Period: 100}
	require.NoError(t, vm.AddMap(ram, 0x40000000, Read|Write|Exec, true, ""))
	require.NoError(t, vmm.SetVM(vm))

	got := s.Render()
	assert.Contains(t, got, `<memory_region name="guest_ram_vm1" size="0x10000000" phys_addr="0x50000000" />`)
	assert.Contains(t, got, `<virtual_machine name="vm1" priority="100" budget="100" period="100">`)
}

func TestRender_TwoVMsDistinctNames(t *testing.T) {
	t.Parallel()

	s := NewSystemDescription(arch.AArch64, 0x60000000)
	_, err := s.AddMemoryRegion("guest_ram_vm1", 0x10000000, nil, nil)
	require.NoError(t, err)
	_, err = s.AddMemoryRegion("guest_ram_vm2", 0x10000000, nil, nil)
	require.NoError(t, err)

	got := s.Render()
	assert.Contains(t, got, `name="guest_ram_vm1"`)
	assert.Contains(t, got, `name="guest_ram_vm2"`)
}
