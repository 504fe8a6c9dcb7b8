package subsystem

import (
	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

const (
	vmmDtbRegionSize = 0x100000
	vmmUioNameMax    = 31
)

// Vmm is the virtual-machine-monitor subsystem: the driver position is
// played by the VMM PD itself, and its single client is the guest VM
// attached to that PD. connect() installs guest RAM from the device tree's
// memory node, optionally the GIC vCPU interface frame, the initrd bounds
// parsed from /chosen, and a page-aligned slot for the device tree blob.
type Vmm struct {
	Sys     *sdf.SystemDescription
	Arch    arch.Arch
	VMM     *sdf.ProtectionDomain
	GuestDT *devicetree.Node

	vmmVaddrs *VaddrAllocator
	vm        *sdf.VirtualMachine

	passthroughIrqs []wire.VmmIrq
	virtioDevices   []wire.VmmVirtioDevice
	linuxUios       []wire.VmmLinuxUio
	uioNames        map[string]bool

	record    wire.Vmm
	connected bool

	ramPhysAddr *uint64
}

// NewVmm creates the guest VM with numVcpus vcpus and attaches it to vmmPD.
func NewVmm(sys *sdf.SystemDescription, a arch.Arch, vmmPD *sdf.ProtectionDomain, guestName string, guestDT *devicetree.Node, numVcpus int) (*Vmm, error) {
	vm := &sdf.VirtualMachine{Name: guestName, Priority: vmmPD.Priority, Budget: vmmPD.Budget, Period: vmmPD.Period}
	for i := 0; i < numVcpus; i++ {
		vm.Vcpus = append(vm.Vcpus, sdf.Vcpu{ID: uint8(i)})
	}
	if err := vmmPD.SetVM(vm); err != nil {
		return nil, err
	}
	return &Vmm{
		Sys: sys, Arch: a, VMM: vmmPD, GuestDT: guestDT,
		vmmVaddrs: NewVaddrAllocator(), vm: vm,
		uioNames: make(map[string]bool),
	}, nil
}

// AddPassthroughDevice maps node's regIndex'th reg entry directly into the
// guest with the given permissions and, if the node declares an interrupt,
// forwards it to the VMM.
func (v *Vmm) AddPassthroughDevice(node *devicetree.Node, regIndex int, perms string) error {
	if regIndex >= len(node.Reg) {
		return wrapDetail(ErrInvalidPassthroughRegions, node.Name)
	}
	reg := node.Reg[regIndex]
	paddr := devicetree.RegPaddr(v.Arch, node, reg.Addr)
	page := v.Arch.DefaultPageSize()
	mr, err := v.Sys.AddMemoryRegion(v.VMM.Name+"_passthrough_"+node.Name, reg.Size, &paddr, &page)
	if err != nil {
		return err
	}
	if err := v.vm.AddMap(mr, paddr, parsePerms(perms), false, ""); err != nil {
		return err
	}

	if len(node.Interrupts) > 1 {
		return wrapDetail(ErrInvalidPassthroughIrqs, node.Name)
	}
	if len(node.Interrupts) == 1 {
		dtIrq, err := devicetree.ParseIRQ(v.Arch, node.Interrupts[0])
		if err != nil {
			return err
		}
		trigger := sdf.TriggerEdge
		if dtIrq.Trigger == devicetree.TriggerLevel {
			trigger = sdf.TriggerLevel
		}
		in, err := v.VMM.AddInterrupt(sdf.Irq{Number: dtIrq.Number, Trigger: trigger}, nil)
		if err != nil {
			return err
		}
		v.passthroughIrqs = append(v.passthroughIrqs, wire.VmmIrq{ID: *in.ID, Irq: dtIrq.Number})
	}
	return nil
}

func (v *Vmm) addVirtio(typ wire.VirtioDeviceType, addr uint64, size uint32, irqNumber uint32) error {
	page := v.Arch.DefaultPageSize()
	mr, err := v.Sys.AddMemoryRegion(v.VMM.Name+"_virtio", uint64(size), &addr, &page)
	if err != nil {
		return err
	}
	if err := v.vm.AddMap(mr, addr, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}
	if _, err := v.VMM.AddInterrupt(sdf.Irq{Number: irqNumber, Trigger: sdf.TriggerEdge}, nil); err != nil {
		return err
	}
	v.virtioDevices = append(v.virtioDevices, wire.VmmVirtioDevice{Type: typ, Addr: addr, Size: size, Irq: irqNumber})
	return nil
}

// AddVirtioMMIOConsole registers a synthetic virtio-console MMIO device.
func (v *Vmm) AddVirtioMMIOConsole(addr uint64, size uint32, irq uint32) error {
	return v.addVirtio(wire.VirtioConsole, addr, size, irq)
}

// AddVirtioMMIOBlk registers a synthetic virtio-blk MMIO device.
func (v *Vmm) AddVirtioMMIOBlk(addr uint64, size uint32, irq uint32) error {
	return v.addVirtio(wire.VirtioBlk, addr, size, irq)
}

// AddVirtioMMIONet registers a synthetic virtio-net MMIO device.
func (v *Vmm) AddVirtioMMIONet(addr uint64, size uint32, irq uint32) error {
	return v.addVirtio(wire.VirtioNet, addr, size, irq)
}

// AddLinuxUio validates node as a generic-uio device and records it by the
// name the caller supplies (the node's second compatible string by
// convention), enforcing the 31-byte name cap and uniqueness.
func (v *Vmm) AddLinuxUio(name string, node *devicetree.Node) error {
	if len(name) > vmmUioNameMax {
		return wrapDetail(ErrInvalidUioName, name)
	}
	if v.uioNames[name] {
		return wrapDetail(ErrDuplicateClient, name)
	}

	uio, err := devicetree.LinuxUio(v.Arch, node)
	if err != nil {
		return err
	}

	page := v.Arch.DefaultPageSize()
	mr, err := v.Sys.AddMemoryRegion(v.VMM.Name+"_uio_"+name, uio.Size, &uio.Paddr, &page)
	if err != nil {
		return err
	}
	vmmVaddr := v.vmmVaddrs.Alloc(mr.Size, page)
	if err := v.VMM.AddMap(mr, vmmVaddr, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}

	rec := wire.VmmLinuxUio{Name: name, GuestPaddr: uio.Paddr, VmmVaddr: vmmVaddr, Size: uio.Size}
	if uio.Irq != nil {
		rec.Irq = uio.Irq.Number
	}
	v.uioNames[name] = true
	v.linuxUios = append(v.linuxUios, rec)
	return nil
}

// SetGuestRAMPhysAddr pins the guest RAM region to a fixed physical
// address instead of letting AddMemoryRegion auto-allocate one from
// paddr_top, for boards where the guest's RAM must be 1:1 physical-backed.
// Must be called before Connect.
func (v *Vmm) SetGuestRAMPhysAddr(paddr uint64) {
	v.ramPhysAddr = &paddr
}

func findChild(root *devicetree.Node, name string) *devicetree.Node {
	if root == nil {
		return nil
	}
	for _, c := range root.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Connect installs guest RAM, the GIC vCPU interface frame (if the platform
// exposes one), the initrd bounds from /chosen, and a page-aligned slot for
// the device tree blob.
func (v *Vmm) Connect() error {
	if v.connected {
		return ErrAlreadyConnected
	}

	ramSize, ok := devicetree.MemorySize(v.GuestDT)
	if !ok {
		return devicetree.ErrMissingMemoryNode
	}
	page := v.Arch.LargePageSize()
	ramMR, err := v.Sys.AddMemoryRegion(v.VMM.Name+"_guest_ram", ramSize, v.ramPhysAddr, &page)
	if err != nil {
		return err
	}
	guestRamVaddr := uint64(0x40000000)
	if v.ramPhysAddr != nil {
		guestRamVaddr = *v.ramPhysAddr
	}
	if err := v.vm.AddMap(ramMR, guestRamVaddr, sdf.Read|sdf.Write|sdf.Exec, false, ""); err != nil {
		return err
	}
	vmmRamVaddr := v.vmmVaddrs.Alloc(ramMR.Size, page)
	if err := v.VMM.AddMap(ramMR, vmmRamVaddr, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}
	v.record.Ram = guestRamVaddr
	v.record.RamSize = ramMR.Size

	gic, err := devicetree.ArmGic(v.GuestDT)
	if err == nil && gic.VCPUPaddr != nil {
		small := v.Arch.SmallPageSize()
		vcpuMR, err := v.Sys.AddMemoryRegion(v.VMM.Name+"_gic_vcpu", *gic.VCPUSize, gic.VCPUPaddr, &small)
		if err != nil {
			return err
		}
		if err := v.vm.AddMap(vcpuMR, *gic.CPUPaddr, sdf.Read|sdf.Write, false, ""); err != nil {
			return err
		}
	}

	chosen := findChild(v.GuestDT, "chosen")
	if chosen != nil {
		bounds, err := devicetree.ChosenFromNode(chosen)
		if err != nil {
			return err
		}
		if bounds.InitrdEnd <= bounds.InitrdStart {
			return ErrInvalidInitrd
		}
		v.record.Initrd = bounds.InitrdStart

		defaultPage := v.Arch.DefaultPageSize()
		dtbCandidate := arch.RoundUpToPage(bounds.InitrdEnd, defaultPage)
		if dtbCandidate+vmmDtbRegionSize > v.record.Ram+v.record.RamSize {
			// Placing the DTB after the initrd would overrun guest RAM; fall
			// back to a page-aligned slot before it instead.
			if bounds.InitrdStart < v.record.Ram+vmmDtbRegionSize {
				return ErrCouldNotAllocateDtb
			}
			before := arch.RoundDownToPage(bounds.InitrdStart-vmmDtbRegionSize, defaultPage)
			if before < v.record.Ram {
				return ErrCouldNotAllocateDtb
			}
			dtbCandidate = before
		}
		v.record.Dtb = dtbCandidate

		dtbMR, err := v.Sys.AddMemoryRegion(v.VMM.Name+"_dtb", vmmDtbRegionSize, &dtbCandidate, &defaultPage)
		if err != nil {
			return err
		}
		if err := v.vm.AddMap(dtbMR, dtbCandidate, sdf.Read, false, ""); err != nil {
			return err
		}
	}

	for _, vc := range v.vm.Vcpus {
		v.record.Vcpus = append(v.record.Vcpus, wire.VmmVcpu{ID: vc.ID})
	}
	v.record.Irqs = v.passthroughIrqs
	v.record.VirtioMmio = v.virtioDevices
	v.record.LinuxUios = v.linuxUios

	v.connected = true
	return nil
}

// SerialiseConfig emits the VMM's configuration record.
func (v *Vmm) SerialiseConfig(outDir string, debug bool) error {
	if !v.connected {
		return ErrNotConnected
	}
	return wire.Emit(outDir, "vmm", v.VMM.Name, v.record, debug)
}
