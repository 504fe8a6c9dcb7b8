package devicetree

import "github.com/jimyag/sdfgen/pkg/arch"

// RegPaddr walks from node upward to the root, applying each ancestor's
// ranges triple that contains the running address, translating
// parent = parent_base + (child - child_base) at each step. The result is
// rounded down to a's default page size.
func RegPaddr(a arch.Arch, node *Node, childAddr uint64) uint64 {
	addr := childAddr
	for n := node; n != nil; n = n.Parent {
		for _, r := range n.Ranges {
			if addr >= r.ChildBase && addr < r.ChildBase+r.Size {
				addr = r.ParentBase + (addr - r.ChildBase)
				break
			}
		}
	}
	return arch.RoundDownToPage(addr, a.DefaultPageSize())
}

// Irq is a decoded kernel-visible interrupt number and trigger mode,
// independent of the DT cell encoding it came from.
type Irq struct {
	Number  uint32
	Trigger IrqTrigger
}

// IrqTrigger mirrors sdf.Trigger without importing pkg/sdf, keeping
// pkg/devicetree free of any dependency on the system-description core.
type IrqTrigger string

const (
	TriggerEdge    IrqTrigger = "edge"
	TriggerLevel   IrqTrigger = "level"
	TriggerDefault IrqTrigger = ""
)

const (
	armSPI = 0
	armPPI = 1

	armSPIOffset = 32
	armPPIOffset = 16
)

// ParseIRQ decodes one raw interrupt-cell entry for the given architecture.
// On ARM, cells are [type, number, trigger, ...]: SPI numbers are offset by
// +32, PPI by +16, and the trigger's low 3 bits select edge (0x1) or level
// (0x4). On RISC-V, a single cell is the IRQ number directly and the
// trigger is left unspecified for the caller to default.
func ParseIRQ(a arch.Arch, cell InterruptCell) (Irq, error) {
	switch a {
	case arch.AArch32, arch.AArch64:
		if len(cell.Cells) < 3 {
			return Irq{}, ErrInvalidInterruptCells
		}
		typ, num, trigger := cell.Cells[0], cell.Cells[1], cell.Cells[2]
		var number uint32
		switch typ {
		case armSPI:
			number = num + armSPIOffset
		case armPPI:
			number = num + armPPIOffset
		default:
			return Irq{}, ErrInvalidInterruptCells
		}
		var mode IrqTrigger
		switch trigger & 0x7 {
		case 0x1:
			mode = TriggerEdge
		case 0x4:
			mode = TriggerLevel
		default:
			return Irq{}, ErrInvalidInterruptCells
		}
		return Irq{Number: number, Trigger: mode}, nil

	case arch.RISCV32, arch.RISCV64:
		if len(cell.Cells) < 1 {
			return Irq{}, ErrInvalidInterruptCells
		}
		return Irq{Number: cell.Cells[0], Trigger: TriggerDefault}, nil

	default:
		return Irq{}, &arch.ErrUnsupportedArch{Arch: a, For: "parse_irq"}
	}
}

// GicVersion identifies the ARM generic interrupt controller's architecture
// version, which determines the reg-property index of the CPU and vCPU
// interface frames.
type GicVersion string

const (
	GicV2 GicVersion = "v2"
	GicV3 GicVersion = "v3"
)

var gicCompatibles = map[string]GicVersion{
	"arm,gic-400":  GicV2,
	"arm,cortex-a15-gic": GicV2,
	"arm,gic-v3":   GicV3,
	"arm,gic-v3-its": GicV3,
}

const (
	gicV2CPUIdx  = 1
	gicV2VCPUIdx = 3
	gicV3CPUIdx  = 2
	gicV3VCPUIdx = 4
)

// Gic is the subset of a GIC node's geometry the VMM subsystem needs to map
// an MMIO vCPU interface frame into a guest. CPUPaddr/VCPUPaddr/VCPUSize are
// all present or all absent, matching whether the GIC exposes an MMIO CPU
// interface at all (GICv3 without a compatibility CPU interface reg omits
// them).
type Gic struct {
	Version  GicVersion
	CPUPaddr *uint64
	VCPUPaddr *uint64
	VCPUSize  *uint64
}

// ArmGic locates the first node under root whose compatible string names a
// known GIC and extracts its CPU/vCPU interface geometry.
func ArmGic(root *Node) (*Gic, error) {
	var match *Node
	var version GicVersion
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == nil {
			return false
		}
		for _, c := range n.Compatible {
			if v, ok := gicCompatibles[c]; ok {
				match = n
				version = v
				return true
			}
		}
		for _, c := range n.Children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(root) {
		return nil, ErrMissingGicNode
	}

	cpuIdx, vcpuIdx := gicV2CPUIdx, gicV2VCPUIdx
	if version == GicV3 {
		cpuIdx, vcpuIdx = gicV3CPUIdx, gicV3VCPUIdx
	}

	if len(match.Reg) <= vcpuIdx {
		return &Gic{Version: version}, nil
	}
	cpu := match.Reg[cpuIdx].Addr
	vcpu := match.Reg[vcpuIdx].Addr
	vcpuSize := match.Reg[vcpuIdx].Size
	return &Gic{Version: version, CPUPaddr: &cpu, VCPUPaddr: &vcpu, VCPUSize: &vcpuSize}, nil
}

// Uio is the validated geometry of a Linux "generic-uio" device node: a
// page-aligned physical address, a page-aligned size, and at most one
// interrupt.
type Uio struct {
	Paddr uint64
	Size  uint64
	Irq   *Irq
}

// LinuxUio validates node as a UIO device: exactly one reg entry, both
// address and size page-aligned, and at most one interrupt.
func LinuxUio(a arch.Arch, node *Node) (*Uio, error) {
	if len(node.Reg) != 1 {
		return nil, wrapNode(ErrInvalidUio, node.Name)
	}
	reg := node.Reg[0]
	page := a.DefaultPageSize()
	if !arch.PageAligned(reg.Addr, page) || !arch.PageAligned(reg.Size, page) {
		return nil, wrapNode(ErrInvalidUio, node.Name)
	}
	if len(node.Interrupts) > 1 {
		return nil, wrapNode(ErrInvalidUio, node.Name)
	}

	u := &Uio{Paddr: reg.Addr, Size: reg.Size}
	if len(node.Interrupts) == 1 {
		irq, err := ParseIRQ(a, node.Interrupts[0])
		if err != nil {
			return nil, err
		}
		u.Irq = &irq
	}
	return u, nil
}
