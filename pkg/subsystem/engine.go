package subsystem

import (
	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
)

// client pairs a participant PD with its own vaddr allocator; every
// subsystem tracks its clients this way regardless of class.
type client struct {
	PD      *sdf.ProtectionDomain
	Vaddrs  *VaddrAllocator
	Options interface{}
}

// Base is the shared state and phase-1/phase-2 behavior every subsystem
// composer embeds: the system description being built, the target
// architecture, the driver and virtualiser PDs, the device tree node
// describing the hardware, the driver catalogue, and the bounded client
// list. Phase 3 (connect) is implemented per class on top of Base's helpers.
type Base struct {
	Sys       *sdf.SystemDescription
	Arch      arch.Arch
	Driver    *sdf.ProtectionDomain
	Virt      *sdf.ProtectionDomain
	Node      *devicetree.Node
	Catalogue *driverdb.Catalogue

	DriverVaddrs *VaddrAllocator
	VirtVaddrs   *VaddrAllocator

	clients   []client
	connected bool
}

// NewBase captures phase-1 references. No graph mutation happens here.
func NewBase(sys *sdf.SystemDescription, a arch.Arch, driver, virt *sdf.ProtectionDomain, node *devicetree.Node, cat *driverdb.Catalogue) Base {
	return Base{
		Sys:          sys,
		Arch:         a,
		Driver:       driver,
		Virt:         virt,
		Node:         node,
		Catalogue:    cat,
		DriverVaddrs: NewVaddrAllocator(),
		VirtVaddrs:   NewVaddrAllocator(),
	}
}

// addClient runs the common phase-2 validation: the client must not be the
// driver or virtualiser and must not already be present, and the subsystem
// must not already hold MaxClients.
func (b *Base) addClient(pd *sdf.ProtectionDomain, opts interface{}) (*client, error) {
	if pd == b.Driver || pd == b.Virt {
		return nil, wrapDetail(ErrInvalidClient, pd.Name)
	}
	for _, c := range b.clients {
		if c.PD == pd {
			return nil, wrapDetail(ErrDuplicateClient, pd.Name)
		}
	}
	if len(b.clients) >= wireMaxClients {
		return nil, ErrTooManyClients
	}

	b.clients = append(b.clients, client{PD: pd, Vaddrs: NewVaddrAllocator(), Options: opts})
	return &b.clients[len(b.clients)-1], nil
}

// requireNotConnected enforces the single-use connect() rule.
func (b *Base) requireNotConnected() error {
	if b.connected {
		return ErrAlreadyConnected
	}
	return nil
}

const wireMaxClients = 61

// newQueueRegion allocates a small-page-rounded control-ring MR: queue
// regions are always small-page sized.
func (b *Base) newQueueRegion(name string, size uint64) (*sdf.MemoryRegion, error) {
	page := b.Arch.SmallPageSize()
	return b.Sys.AddMemoryRegion(name, size, nil, &page)
}

// newDataRegion allocates a large-page-rounded bulk-payload MR.
func (b *Base) newDataRegion(name string, size uint64) (*sdf.MemoryRegion, error) {
	page := b.Arch.LargePageSize()
	return b.Sys.AddMemoryRegion(name, size, nil, &page)
}

// mapDriverAndVirt installs mr into both the driver and the virtualiser at
// each side's own auto-picked vaddr, uncached, with symmetric read/write
// permissions, and returns both vaddrs.
func (b *Base) mapDriverAndVirt(mr *sdf.MemoryRegion, perms sdf.Perm) (driverVaddr, virtVaddr uint64, err error) {
	page := b.Arch.DefaultPageSize()
	if mr.PageSize != nil {
		page = *mr.PageSize
	}

	driverVaddr = b.DriverVaddrs.Alloc(mr.Size, page)
	if err = b.Driver.AddMap(mr, driverVaddr, perms, false, ""); err != nil {
		return 0, 0, err
	}

	virtVaddr = b.VirtVaddrs.Alloc(mr.Size, page)
	if err = b.Virt.AddMap(mr, virtVaddr, perms, false, ""); err != nil {
		return 0, 0, err
	}
	return driverVaddr, virtVaddr, nil
}

// mapVirtAndClient installs mr into the virtualiser and one client at each
// side's own auto-picked vaddr with symmetric permissions, returning both
// vaddrs.
func (b *Base) mapVirtAndClient(c *client, mr *sdf.MemoryRegion, perms sdf.Perm) (virtVaddr, clientVaddr uint64, err error) {
	page := b.Arch.DefaultPageSize()
	if mr.PageSize != nil {
		page = *mr.PageSize
	}

	virtVaddr = b.VirtVaddrs.Alloc(mr.Size, page)
	if err = b.Virt.AddMap(mr, virtVaddr, perms, false, ""); err != nil {
		return 0, 0, err
	}

	clientVaddr = c.Vaddrs.Alloc(mr.Size, page)
	if err = c.PD.AddMap(mr, clientVaddr, perms, false, ""); err != nil {
		return 0, 0, err
	}
	return virtVaddr, clientVaddr, nil
}

// channelDriverVirt wires a notifying channel between the driver and the
// virtualiser, consuming an id from each PD's bitset.
func (b *Base) channelDriverVirt() (*sdf.Channel, error) {
	return b.Sys.AddChannel(b.Driver, sdf.ChannelEndOptions{Notify: true}, b.Virt, sdf.ChannelEndOptions{Notify: true})
}

// channelVirtClient wires a notifying channel between the virtualiser and
// one client.
func (b *Base) channelVirtClient(c *client) (*sdf.Channel, error) {
	return b.Sys.AddChannel(b.Virt, sdf.ChannelEndOptions{Notify: true}, c.PD, sdf.ChannelEndOptions{Notify: true})
}

// checkDeviceStatus enforces that the device tree node backing this
// subsystem reports status "okay" (or is silent, which DTB convention
// treats as enabled).
func (b *Base) checkDeviceStatus() error {
	if b.Node.Status != "" && b.Node.Status != "okay" {
		return wrapDetail(driverdb.ErrDeviceStatusInvalid, b.Node.Name)
	}
	return nil
}

// deviceRegion is one driver-mapped region resolved from a driver
// descriptor against the concrete device tree node.
type deviceRegion struct {
	Name   string
	MR     *sdf.MemoryRegion
	Vaddr  uint64
	IOAddr uint64
}

// installDriverDeviceRegions handles the driver's device-region half of
// init: for each abstract region the descriptor claims, translate the DT
// node's reg entry to a physical address, create a page-rounded MR there,
// and map it into the driver with the descriptor's declared permissions,
// cached flag, and setvar name.
func (b *Base) installDriverDeviceRegions(desc *driverdb.Descriptor) ([]deviceRegion, error) {
	out := make([]deviceRegion, 0, len(desc.Regions))
	for _, rd := range desc.Regions {
		if rd.RegIndex >= len(b.Node.Reg) {
			return nil, wrapDetail(ErrInvalidPassthroughRegions, rd.Name)
		}
		reg := b.Node.Reg[rd.RegIndex]
		if err := driverdb.ValidateRegion(b.Arch, rd, reg.Size); err != nil {
			return nil, err
		}

		paddr := devicetree.RegPaddr(b.Arch, b.Node, reg.Addr)
		page := b.Arch.DefaultPageSize()
		mr, err := b.Sys.AddMemoryRegion(b.Driver.Name+"_"+rd.Name, rd.Size, &paddr, &page)
		if err != nil {
			return nil, err
		}

		perms := parsePerms(rd.Perms)
		vaddr := b.DriverVaddrs.Alloc(mr.Size, page)
		if err := b.Driver.AddMap(mr, vaddr, perms, rd.Cached, rd.SetvarName); err != nil {
			return nil, err
		}

		out = append(out, deviceRegion{Name: rd.Name, MR: mr, Vaddr: vaddr, IOAddr: paddr})
	}
	return out, nil
}

// installDriverIrqs handles the driver's irq half of init: for each
// abstract irq the descriptor claims, decode the DT node's interrupt cell
// at the recorded index and register it on the driver.
func (b *Base) installDriverIrqs(desc *driverdb.Descriptor) error {
	for _, id := range desc.Irqs {
		if id.DTIndex >= len(b.Node.Interrupts) {
			return wrapDetail(ErrInvalidPassthroughIrqs, id.Name)
		}
		cell := b.Node.Interrupts[id.DTIndex]
		dtIrq, err := devicetree.ParseIRQ(b.Arch, cell)
		if err != nil {
			return err
		}
		trigger := sdf.TriggerEdge
		if dtIrq.Trigger == devicetree.TriggerLevel {
			trigger = sdf.TriggerLevel
		}
		if _, err := b.Driver.AddInterrupt(sdf.Irq{Number: dtIrq.Number, Trigger: trigger}, nil); err != nil {
			return err
		}
	}
	return nil
}

func parsePerms(s string) sdf.Perm {
	var p sdf.Perm
	for _, c := range s {
		switch c {
		case 'r':
			p |= sdf.Read
		case 'w':
			p |= sdf.Write
		case 'x':
			p |= sdf.Exec
		}
	}
	return p
}
