package wire

import "bytes"

const (
	vmmMaxIrqs            = 32
	vmmMaxVcpus           = 32
	vmmMaxVirtioDevices   = 32
	vmmMaxLinuxUioRegions = 16
	vmmUioNameSize        = 32
)

// VmmIrq pairs a forwarded interrupt with the id the VMM registered it
// under.
type VmmIrq struct {
	ID  uint8  `json:"id"`
	Irq uint32 `json:"irq"`
}

// VmmVcpu is one guest vCPU's id.
type VmmVcpu struct {
	ID uint8 `json:"id"`
}

// VirtioDeviceType identifies which virtio-mmio device class a VmmVirtioDevice describes.
type VirtioDeviceType uint8

const (
	VirtioConsole VirtioDeviceType = 1
	VirtioBlk     VirtioDeviceType = 2
	VirtioNet     VirtioDeviceType = 3
)

// VmmVirtioDevice records one add_virtio_mmio_{console,blk,net} call.
type VmmVirtioDevice struct {
	Type VirtioDeviceType `json:"type"`
	Addr uint64           `json:"addr"`
	Size uint32           `json:"size"`
	Irq  uint32           `json:"irq"`
}

// VmmLinuxUio records one generic-uio device registered through
// subsystem.Vmm.AddLinuxUio, under the name the caller supplied.
type VmmLinuxUio struct {
	Name       string `json:"name"`
	GuestPaddr uint64 `json:"guest_paddr"`
	VmmVaddr   uint64 `json:"vmm_vaddr"`
	Size       uint64 `json:"size"`
	Irq        uint32 `json:"irq"`
}

// Vmm is the virtual-machine monitor's configuration record.
type Vmm struct {
	Ram          uint64            `json:"ram"`
	RamSize      uint64            `json:"ram_size"`
	Dtb          uint64            `json:"dtb"`
	Initrd       uint64            `json:"initrd"`
	Irqs         []VmmIrq          `json:"irqs"`
	Vcpus        []VmmVcpu         `json:"vcpus"`
	VirtioMmio   []VmmVirtioDevice `json:"virtio_mmio_devices"`
	LinuxUios    []VmmLinuxUio     `json:"linux_uios"`
}

func (r Vmm) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := vmmMagic()
	buf.Write(m[:])

	writeU64(&buf, r.Ram)
	writeU64(&buf, r.RamSize)
	writeU64(&buf, r.Dtb)
	writeU64(&buf, r.Initrd)

	writeU8(&buf, uint8(len(r.Irqs)))
	irqs := make([]VmmIrq, vmmMaxIrqs)
	copy(irqs, r.Irqs)
	for _, irq := range irqs {
		writeU8(&buf, irq.ID)
		writeU32(&buf, irq.Irq)
	}

	writeU8(&buf, uint8(len(r.Vcpus)))
	vcpus := make([]VmmVcpu, vmmMaxVcpus)
	copy(vcpus, r.Vcpus)
	for _, v := range vcpus {
		writeU8(&buf, v.ID)
	}

	writeU8(&buf, uint8(len(r.VirtioMmio)))
	devices := make([]VmmVirtioDevice, vmmMaxVirtioDevices)
	copy(devices, r.VirtioMmio)
	for _, d := range devices {
		writeU8(&buf, uint8(d.Type))
		writeU64(&buf, d.Addr)
		writeU32(&buf, d.Size)
		writeU32(&buf, d.Irq)
	}

	writeU8(&buf, uint8(len(r.LinuxUios)))
	uios := make([]VmmLinuxUio, vmmMaxLinuxUioRegions)
	copy(uios, r.LinuxUios)
	for _, u := range uios {
		writeString(&buf, u.Name, vmmUioNameSize)
		writeU64(&buf, u.GuestPaddr)
		writeU64(&buf, u.VmmVaddr)
		writeU64(&buf, u.Size)
		writeU32(&buf, u.Irq)
	}

	return buf.Bytes()
}
