package subsystem

import (
	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

const (
	i2cQueueSize = 0x1000
	i2cDataSize  = 0x1000
)

// I2c is the i2c subsystem: a request queue, response queue, and data
// region per client. Every channel it creates is notify-only: no channel
// end is marked pp, so the virtualiser is not PPC-capable.
type I2c struct {
	Base

	driverRecord wire.I2cDriver
	virtRecord   wire.I2cVirt
	clientConn   map[*sdf.ProtectionDomain]wire.I2cConnection
}

// NewI2c captures phase-1 references; Connect later resolves the driver
// descriptor from node's compatibles against the catalogue.
func NewI2c(sys *sdf.SystemDescription, a arch.Arch, driver, virt *sdf.ProtectionDomain, node *devicetree.Node, cat *driverdb.Catalogue) *I2c {
	return &I2c{
		Base:       NewBase(sys, a, driver, virt, node, cat),
		clientConn: make(map[*sdf.ProtectionDomain]wire.I2cConnection),
	}
}

// AddClient registers an i2c client.
func (s *I2c) AddClient(pd *sdf.ProtectionDomain) error {
	_, err := s.addClient(pd, nil)
	return err
}

// Connect resolves the driver descriptor, installs its device regions and
// irqs, wires the driver<->virt rendezvous, then per client allocates a
// request queue, response queue, and data region shared with the
// virtualiser, and a notifying channel.
func (s *I2c) Connect() error {
	if err := s.requireNotConnected(); err != nil {
		return err
	}
	if err := s.checkDeviceStatus(); err != nil {
		return err
	}

	desc, err := s.Catalogue.FindDriver(s.Node.Compatible, driverdb.ClassI2C)
	if err != nil {
		return err
	}
	if _, err := s.installDriverDeviceRegions(desc); err != nil {
		return err
	}
	if err := s.installDriverIrqs(desc); err != nil {
		return err
	}

	driverReq, err := s.newQueueRegion("i2c_driver_req", i2cQueueSize)
	if err != nil {
		return err
	}
	driverResp, err := s.newQueueRegion("i2c_driver_resp", i2cQueueSize)
	if err != nil {
		return err
	}
	driverData, err := s.newDataRegion("i2c_driver_data", i2cDataSize)
	if err != nil {
		return err
	}
	dReqV, _, err := s.mapDriverAndVirt(driverReq, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	dRespV, _, err := s.mapDriverAndVirt(driverResp, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	dDataV, _, err := s.mapDriverAndVirt(driverData, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	ch, err := s.channelDriverVirt()
	if err != nil {
		return err
	}
	s.driverRecord = wire.I2cDriver{Virt: wire.I2cConnection{
		ReqQueue: wire.Region{Vaddr: dReqV, Size: driverReq.Size}, RespQueue: wire.Region{Vaddr: dRespV, Size: driverResp.Size}, Data: wire.Region{Vaddr: dDataV, Size: driverData.Size}, ID: ch.A.ID,
	}}
	s.virtRecord.Driver = s.driverRecord.Virt

	for _, c := range s.clients {
		req, err := s.newQueueRegion("i2c_"+c.PD.Name+"_req", i2cQueueSize)
		if err != nil {
			return err
		}
		resp, err := s.newQueueRegion("i2c_"+c.PD.Name+"_resp", i2cQueueSize)
		if err != nil {
			return err
		}
		data, err := s.newDataRegion("i2c_"+c.PD.Name+"_data", i2cDataSize)
		if err != nil {
			return err
		}
		_, reqC, err := s.mapVirtAndClient(&c, req, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, respC, err := s.mapVirtAndClient(&c, resp, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, dataC, err := s.mapVirtAndClient(&c, data, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		ch, err := s.channelVirtClient(&c)
		if err != nil {
			return err
		}

		conn := wire.I2cConnection{
			ReqQueue: wire.Region{Vaddr: reqC, Size: req.Size}, RespQueue: wire.Region{Vaddr: respC, Size: resp.Size}, Data: wire.Region{Vaddr: dataC, Size: data.Size}, ID: ch.B.ID,
		}
		s.clientConn[c.PD] = conn
		s.virtRecord.Clients = append(s.virtRecord.Clients, conn)
	}

	s.connected = true
	return nil
}

// SerialiseConfig emits the driver, virt, and per-client records.
func (s *I2c) SerialiseConfig(outDir string, debug bool) error {
	if !s.connected {
		return ErrNotConnected
	}
	if err := wire.Emit(outDir, "i2c", s.Driver.Name, s.driverRecord, debug); err != nil {
		return err
	}
	if err := wire.Emit(outDir, "i2c", s.Virt.Name, s.virtRecord, debug); err != nil {
		return err
	}
	for pd, conn := range s.clientConn {
		if err := wire.Emit(outDir, "i2c", pd.Name, wire.I2cClient{Virt: conn}, debug); err != nil {
			return err
		}
	}
	return nil
}
