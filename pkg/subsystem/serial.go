package subsystem

import (
	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

const (
	serialQueueSize    = 0x1000
	serialDataSize     = 0x1000
	serialMaxBeginStr  = 128
	serialMaxClientNam = 64
)

// SerialOptions carries the driver-level serial configuration.
type SerialOptions struct {
	BeginStr    string
	EnableColor bool
	DefaultBaud uint32
}

// Serial is the serial subsystem. RX is optional: when VirtRX is nil the
// subsystem is TX-only. The driver has two independent connections, rx and
// tx, each with its own queue and data MR.
type Serial struct {
	Base

	Options SerialOptions
	VirtRX  *sdf.ProtectionDomain

	driverRecord wire.SerialDriver
	virtRxRecord wire.SerialVirtRx
	virtTxRecord wire.SerialVirtTx
	clientConn   map[*sdf.ProtectionDomain]wire.SerialClient
}

// NewSerial captures phase-1 references. virtTx is required; virtRx may be
// nil for a TX-only configuration.
func NewSerial(sys *sdf.SystemDescription, a arch.Arch, driver, virtTx, virtRx *sdf.ProtectionDomain, node *devicetree.Node, cat *driverdb.Catalogue, opts SerialOptions) (*Serial, error) {
	if virtTx == nil {
		return nil, ErrInvalidVirt
	}
	if len(opts.BeginStr) > serialMaxBeginStr {
		return nil, ErrInvalidBeginString
	}
	return &Serial{
		Base:       NewBase(sys, a, driver, virtTx, node, cat),
		Options:    opts,
		VirtRX:     virtRx,
		clientConn: make(map[*sdf.ProtectionDomain]wire.SerialClient),
	}, nil
}

// AddClient registers a serial client, recording its console name for the
// tx virtualiser.
func (s *Serial) AddClient(pd *sdf.ProtectionDomain, name string) error {
	if len(name) > serialMaxClientNam {
		return wrapDetail(ErrInvalidClient, pd.Name)
	}
	_, err := s.addClient(pd, name)
	return err
}

// Connect wires the driver's rx/tx connections to their virtualisers, then
// per client a tx connection (and rx if enabled).
func (s *Serial) Connect() error {
	if err := s.requireNotConnected(); err != nil {
		return err
	}
	if err := s.checkDeviceStatus(); err != nil {
		return err
	}

	desc, err := s.Catalogue.FindDriver(s.Node.Compatible, driverdb.ClassSerial)
	if err != nil {
		return err
	}
	if _, err := s.installDriverDeviceRegions(desc); err != nil {
		return err
	}
	if err := s.installDriverIrqs(desc); err != nil {
		return err
	}

	txConn, err := s.connectSide("tx", s.Virt)
	if err != nil {
		return err
	}
	s.driverRecord.TX = txConn
	s.virtTxRecord.Driver = txConn
	s.virtTxRecord.BeginStr = s.Options.BeginStr
	s.virtTxRecord.EnableColour = s.Options.EnableColor
	s.virtTxRecord.EnableRx = s.VirtRX != nil

	if s.VirtRX != nil {
		rxConn, err := s.connectSide("rx", s.VirtRX)
		if err != nil {
			return err
		}
		s.driverRecord.RX = rxConn
		s.virtRxRecord.Driver = rxConn
	}

	for _, c := range s.clients {
		name, _ := c.Options.(string)

		txQueue, err := s.newQueueRegion("serial_tx_"+c.PD.Name, serialQueueSize)
		if err != nil {
			return err
		}
		txData, err := s.newDataRegion("serial_tx_data_"+c.PD.Name, serialDataSize)
		if err != nil {
			return err
		}
		_, qC, err := s.mapVirtAndClient(&c, txQueue, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, dC, err := s.mapVirtAndClient(&c, txData, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		ch, err := s.channelVirtClient(&c)
		if err != nil {
			return err
		}
		txClientConn := wire.SerialConnection{Queue: wire.Region{Vaddr: qC, Size: txQueue.Size}, Data: wire.Region{Vaddr: dC, Size: txData.Size}, ID: ch.B.ID}
		s.virtTxRecord.Clients = append(s.virtTxRecord.Clients, wire.SerialVirtTxClient{Conn: txClientConn, Name: name})

		clientRec := wire.SerialClient{TX: txClientConn}

		if s.VirtRX != nil {
			rxQueue, err := s.newQueueRegion("serial_rx_"+c.PD.Name, serialQueueSize)
			if err != nil {
				return err
			}
			rxData, err := s.newDataRegion("serial_rx_data_"+c.PD.Name, serialDataSize)
			if err != nil {
				return err
			}
			_, rqC, err := s.mapVirtAndClient(&c, rxQueue, sdf.Read|sdf.Write)
			if err != nil {
				return err
			}
			_, rdC, err := s.mapVirtAndClient(&c, rxData, sdf.Read|sdf.Write)
			if err != nil {
				return err
			}
			rxCh, err := s.Sys.AddChannel(s.VirtRX, sdf.ChannelEndOptions{Notify: true}, c.PD, sdf.ChannelEndOptions{Notify: true})
			if err != nil {
				return err
			}
			rxClientConn := wire.SerialConnection{Queue: wire.Region{Vaddr: rqC, Size: rxQueue.Size}, Data: wire.Region{Vaddr: rdC, Size: rxData.Size}, ID: rxCh.B.ID}
			s.virtRxRecord.Clients = append(s.virtRxRecord.Clients, rxClientConn)
			clientRec.RX = rxClientConn
		}

		s.clientConn[c.PD] = clientRec
	}

	s.connected = true
	return nil
}

func (s *Serial) connectSide(side string, virt *sdf.ProtectionDomain) (wire.SerialConnection, error) {
	queue, err := s.newQueueRegion("serial_"+side+"_queue", serialQueueSize)
	if err != nil {
		return wire.SerialConnection{}, err
	}
	data, err := s.newDataRegion("serial_"+side+"_data", serialDataSize)
	if err != nil {
		return wire.SerialConnection{}, err
	}

	page := s.Arch.DefaultPageSize()
	driverQVaddr := s.DriverVaddrs.Alloc(queue.Size, page)
	if err := s.Driver.AddMap(queue, driverQVaddr, sdf.Read|sdf.Write, false, ""); err != nil {
		return wire.SerialConnection{}, err
	}
	driverDVaddr := s.DriverVaddrs.Alloc(data.Size, page)
	if err := s.Driver.AddMap(data, driverDVaddr, sdf.Read|sdf.Write, false, ""); err != nil {
		return wire.SerialConnection{}, err
	}

	virtVaddrs := NewVaddrAllocator()
	if virt == s.Virt {
		virtVaddrs = s.VirtVaddrs
	}
	virtQVaddr := virtVaddrs.Alloc(queue.Size, page)
	if err := virt.AddMap(queue, virtQVaddr, sdf.Read|sdf.Write, false, ""); err != nil {
		return wire.SerialConnection{}, err
	}
	virtDVaddr := virtVaddrs.Alloc(data.Size, page)
	if err := virt.AddMap(data, virtDVaddr, sdf.Read|sdf.Write, false, ""); err != nil {
		return wire.SerialConnection{}, err
	}

	ch, err := s.Sys.AddChannel(s.Driver, sdf.ChannelEndOptions{Notify: true}, virt, sdf.ChannelEndOptions{Notify: true})
	if err != nil {
		return wire.SerialConnection{}, err
	}

	return wire.SerialConnection{Queue: wire.Region{Vaddr: driverQVaddr, Size: queue.Size}, Data: wire.Region{Vaddr: driverDVaddr, Size: data.Size}, ID: ch.A.ID}, nil
}

// SerialiseConfig emits driver, virt-tx, optional virt-rx, and per-client
// records.
func (s *Serial) SerialiseConfig(outDir string, debug bool) error {
	if !s.connected {
		return ErrNotConnected
	}
	if err := wire.Emit(outDir, "serial", s.Driver.Name, s.driverRecord, debug); err != nil {
		return err
	}
	if err := wire.Emit(outDir, "serial", s.Virt.Name, s.virtTxRecord, debug); err != nil {
		return err
	}
	if s.VirtRX != nil {
		if err := wire.Emit(outDir, "serial", s.VirtRX.Name, s.virtRxRecord, debug); err != nil {
			return err
		}
	}
	for pd, conn := range s.clientConn {
		if err := wire.Emit(outDir, "serial", pd.Name, conn, debug); err != nil {
			return err
		}
	}
	return nil
}
