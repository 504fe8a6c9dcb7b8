package subsystem

import (
	"fmt"

	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

const (
	netQueueSize     = 0x1000
	netDataSize      = 0x1000
	netHwRingSize    = 64 * 1024
)

// netClient is one client's copier pairing and MAC address, tracked
// alongside the Base.clients entry it corresponds to by PD identity.
type netClient struct {
	Copier *sdf.ProtectionDomain
	Mac    wire.MacAddr
}

// Network is the network subsystem: each client is paired with a copier
// PD, and the driver exposes a fixed-size hw_ring_buffer region via a
// physical-address setvar.
type Network struct {
	Base

	macsInUse map[wire.MacAddr]*sdf.ProtectionDomain
	copiers   map[*sdf.ProtectionDomain]netClient

	driverRecord wire.NetDriver
	virtRxRecord wire.NetVirtRx
	virtTxRecord wire.NetVirtTx
	copyRecords  map[*sdf.ProtectionDomain]wire.NetCopy
	clientConn   map[*sdf.ProtectionDomain]wire.NetClient
}

// NewNetwork captures phase-1 references. virt plays both the RX and the TX
// virtualiser role; the two roles cannot be given separate PDs.
func NewNetwork(sys *sdf.SystemDescription, a arch.Arch, driver, virt *sdf.ProtectionDomain, node *devicetree.Node, cat *driverdb.Catalogue) *Network {
	return &Network{
		Base:        NewBase(sys, a, driver, virt, node, cat),
		macsInUse:   make(map[wire.MacAddr]*sdf.ProtectionDomain),
		copiers:     make(map[*sdf.ProtectionDomain]netClient),
		copyRecords: make(map[*sdf.ProtectionDomain]wire.NetCopy),
		clientConn:  make(map[*sdf.ProtectionDomain]wire.NetClient),
	}
}

// ParseMac validates and parses a colon-separated MAC address string.
func ParseMac(s string) (wire.MacAddr, error) {
	var mac wire.MacAddr
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x", &mac[0], &mac[1], &mac[2], &mac[3], &mac[4], &mac[5])
	if err != nil || n != 6 {
		return wire.MacAddr{}, ErrInvalidMacAddr
	}
	return mac, nil
}

// AddClient registers a network client paired with its copier PD and a
// unique, validated MAC address.
func (n *Network) AddClient(pd, copierPD *sdf.ProtectionDomain, macStr string) error {
	mac, err := ParseMac(macStr)
	if err != nil {
		return err
	}
	if owner, ok := n.macsInUse[mac]; ok && owner != pd {
		return wrapDetail(ErrDuplicateMacAddr, macStr)
	}
	for _, nc := range n.copiers {
		if nc.Copier == copierPD {
			return wrapDetail(ErrDuplicateCopier, copierPD.Name)
		}
	}

	if _, err := n.addClient(pd, macStr); err != nil {
		return err
	}
	n.macsInUse[mac] = pd
	n.copiers[pd] = netClient{Copier: copierPD, Mac: mac}
	return nil
}

// Connect resolves the driver descriptor, installs the hw_ring_buffer
// region with its physical-address setvar, wires driver<->virt rx/tx, and
// per client wires a copier with rx/tx data+queue regions.
func (n *Network) Connect() error {
	if err := n.requireNotConnected(); err != nil {
		return err
	}
	if err := n.checkDeviceStatus(); err != nil {
		return err
	}

	desc, err := n.Catalogue.FindDriver(n.Node.Compatible, driverdb.ClassNet)
	if err != nil {
		return err
	}
	if _, err := n.installDriverDeviceRegions(desc); err != nil {
		return err
	}
	if err := n.installDriverIrqs(desc); err != nil {
		return err
	}

	hwRing, err := n.Sys.AddMemoryRegion(n.Driver.Name+"_hw_ring_buffer", netHwRingSize, nil, nil)
	if err != nil {
		return err
	}
	page := n.Arch.DefaultPageSize()
	hwRingVaddr := n.DriverVaddrs.Alloc(hwRing.Size, page)
	if err := n.Driver.AddMap(hwRing, hwRingVaddr, sdf.Read|sdf.Write, false, "hw_ring_buffer_paddr"); err != nil {
		return err
	}
	n.Driver.AddSetvar("hw_ring_buffer_paddr", hwRing)

	rxConn, err := n.connectDriverSide("rx")
	if err != nil {
		return err
	}
	txConn, err := n.connectDriverSide("tx")
	if err != nil {
		return err
	}
	n.driverRecord = wire.NetDriver{RX: rxConn, TX: txConn, HwRingBuffer: wire.DeviceRegion{Region: wire.Region{Vaddr: hwRingVaddr, Size: hwRing.Size}, IOAddr: *hwRing.PhysAddr}}
	n.virtRxRecord.Driver = rxConn
	n.virtTxRecord.Driver = txConn

	for _, c := range n.clients {
		nc := n.copiers[c.PD]

		rxFree, err := n.newQueueRegion("net_rx_free_"+c.PD.Name, netQueueSize)
		if err != nil {
			return err
		}
		rxActive, err := n.newQueueRegion("net_rx_active_"+c.PD.Name, netQueueSize)
		if err != nil {
			return err
		}
		rxData, err := n.newDataRegion("net_rx_data_"+c.PD.Name, netDataSize)
		if err != nil {
			return err
		}

		_, freeC, err := n.mapVirtAndClient(&c, rxFree, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, activeC, err := n.mapVirtAndClient(&c, rxActive, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		// Data regions are mapped only into the virt and the copier/client,
		// never the driver.
		copierVaddrs := NewVaddrAllocator()
		dataVirtVaddr := n.VirtVaddrs.Alloc(rxData.Size, page)
		if err := n.Virt.AddMap(rxData, dataVirtVaddr, sdf.Read|sdf.Write, false, ""); err != nil {
			return err
		}
		dataCopierVaddr := copierVaddrs.Alloc(rxData.Size, page)
		if err := nc.Copier.AddMap(rxData, dataCopierVaddr, sdf.Read|sdf.Write, false, ""); err != nil {
			return err
		}

		rxVirtCh, err := n.Sys.AddChannel(n.Virt, sdf.ChannelEndOptions{Notify: true}, nc.Copier, sdf.ChannelEndOptions{Notify: true})
		if err != nil {
			return err
		}
		rxCopierConn := wire.NetConnection{FreeQueue: wire.Region{Vaddr: freeC, Size: rxFree.Size}, ActiveQueue: wire.Region{Vaddr: activeC, Size: rxActive.Size}, ID: rxVirtCh.B.ID}
		n.virtRxRecord.Clients = append(n.virtRxRecord.Clients, wire.NetVirtRxClient{Conn: rxCopierConn, Mac: nc.Mac})

		txFree, err := n.newQueueRegion("net_tx_free_"+c.PD.Name, netQueueSize)
		if err != nil {
			return err
		}
		txActive, err := n.newQueueRegion("net_tx_active_"+c.PD.Name, netQueueSize)
		if err != nil {
			return err
		}
		_, txFreeC, err := n.mapVirtAndClient(&c, txFree, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, txActiveC, err := n.mapVirtAndClient(&c, txActive, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		txClientCh, err := n.Sys.AddChannel(n.Virt, sdf.ChannelEndOptions{Notify: true}, c.PD, sdf.ChannelEndOptions{Notify: true})
		if err != nil {
			return err
		}
		txConn := wire.NetConnection{FreeQueue: wire.Region{Vaddr: txFreeC, Size: txFree.Size}, ActiveQueue: wire.Region{Vaddr: txActiveC, Size: txActive.Size}, ID: txClientCh.B.ID}
		n.virtTxRecord.Clients = append(n.virtTxRecord.Clients, txConn)

		clientCopyCh, err := n.Sys.AddChannel(nc.Copier, sdf.ChannelEndOptions{Notify: true}, c.PD, sdf.ChannelEndOptions{Notify: true})
		if err != nil {
			return err
		}
		copyClientConn := wire.NetConnection{ID: clientCopyCh.B.ID}
		n.copyRecords[c.PD] = wire.NetCopy{Virt: rxCopierConn, Client: copyClientConn, Mac: nc.Mac}
		n.clientConn[c.PD] = wire.NetClient{RX: copyClientConn, TX: txConn, Mac: nc.Mac}
	}

	n.connected = true
	return nil
}

func (n *Network) connectDriverSide(side string) (wire.NetConnection, error) {
	free, err := n.newQueueRegion("net_driver_"+side+"_free", netQueueSize)
	if err != nil {
		return wire.NetConnection{}, err
	}
	active, err := n.newQueueRegion("net_driver_"+side+"_active", netQueueSize)
	if err != nil {
		return wire.NetConnection{}, err
	}
	freeV, _, err := n.mapDriverAndVirt(free, sdf.Read|sdf.Write)
	if err != nil {
		return wire.NetConnection{}, err
	}
	activeV, _, err := n.mapDriverAndVirt(active, sdf.Read|sdf.Write)
	if err != nil {
		return wire.NetConnection{}, err
	}
	ch, err := n.channelDriverVirt()
	if err != nil {
		return wire.NetConnection{}, err
	}
	return wire.NetConnection{FreeQueue: wire.Region{Vaddr: freeV, Size: free.Size}, ActiveQueue: wire.Region{Vaddr: activeV, Size: active.Size}, ID: ch.A.ID}, nil
}

// SerialiseConfig emits driver, virt-rx, virt-tx, per-copier, and
// per-client records.
func (n *Network) SerialiseConfig(outDir string, debug bool) error {
	if !n.connected {
		return ErrNotConnected
	}
	if err := wire.Emit(outDir, "network", n.Driver.Name, n.driverRecord, debug); err != nil {
		return err
	}
	if err := wire.Emit(outDir, "network", n.Virt.Name+"_rx", n.virtRxRecord, debug); err != nil {
		return err
	}
	if err := wire.Emit(outDir, "network", n.Virt.Name+"_tx", n.virtTxRecord, debug); err != nil {
		return err
	}
	for pd, rec := range n.copyRecords {
		if err := wire.Emit(outDir, "network", pd.Name+"_copy", rec, debug); err != nil {
			return err
		}
	}
	for pd, rec := range n.clientConn {
		if err := wire.Emit(outDir, "network", pd.Name, rec, debug); err != nil {
			return err
		}
	}
	return nil
}
