package subsystem

import (
	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

const (
	gpuEventsSize = 0x1000
	gpuQueueSize  = 0x1000
	gpuDataSize   = 0x1000
)

// Gpu is the gpu subsystem: an events region, request queue, response
// queue, and data region per client.
type Gpu struct {
	Base

	driverRecord wire.GpuDriver
	virtRecord   wire.GpuVirt
	clientConn   map[*sdf.ProtectionDomain]wire.GpuConnection
}

// NewGpu captures phase-1 references.
func NewGpu(sys *sdf.SystemDescription, a arch.Arch, driver, virt *sdf.ProtectionDomain, node *devicetree.Node, cat *driverdb.Catalogue) *Gpu {
	return &Gpu{
		Base:       NewBase(sys, a, driver, virt, node, cat),
		clientConn: make(map[*sdf.ProtectionDomain]wire.GpuConnection),
	}
}

// AddClient registers a gpu client.
func (s *Gpu) AddClient(pd *sdf.ProtectionDomain) error {
	_, err := s.addClient(pd, nil)
	return err
}

// Connect resolves the driver descriptor, installs device regions/irqs, and
// wires the driver/virt/client rendezvous regions.
func (s *Gpu) Connect() error {
	if err := s.requireNotConnected(); err != nil {
		return err
	}
	if err := s.checkDeviceStatus(); err != nil {
		return err
	}

	desc, err := s.Catalogue.FindDriver(s.Node.Compatible, driverdb.ClassGPU)
	if err != nil {
		return err
	}
	if _, err := s.installDriverDeviceRegions(desc); err != nil {
		return err
	}
	if err := s.installDriverIrqs(desc); err != nil {
		return err
	}

	events, err := s.newQueueRegion("gpu_driver_events", gpuEventsSize)
	if err != nil {
		return err
	}
	req, err := s.newQueueRegion("gpu_driver_req", gpuQueueSize)
	if err != nil {
		return err
	}
	resp, err := s.newQueueRegion("gpu_driver_resp", gpuQueueSize)
	if err != nil {
		return err
	}
	data, err := s.newDataRegion("gpu_driver_data", gpuDataSize)
	if err != nil {
		return err
	}
	eV, _, err := s.mapDriverAndVirt(events, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	rV, _, err := s.mapDriverAndVirt(req, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	respV, _, err := s.mapDriverAndVirt(resp, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	dV, _, err := s.mapDriverAndVirt(data, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	ch, err := s.channelDriverVirt()
	if err != nil {
		return err
	}
	s.driverRecord = wire.GpuDriver{Virt: wire.GpuConnection{
		Events: wire.Region{Vaddr: eV, Size: events.Size}, ReqQueue: wire.Region{Vaddr: rV, Size: req.Size},
		RespQueue: wire.Region{Vaddr: respV, Size: resp.Size}, Data: wire.Region{Vaddr: dV, Size: data.Size}, ID: ch.A.ID,
	}}
	s.virtRecord.Driver = s.driverRecord.Virt

	for _, c := range s.clients {
		ce, err := s.newQueueRegion("gpu_"+c.PD.Name+"_events", gpuEventsSize)
		if err != nil {
			return err
		}
		cr, err := s.newQueueRegion("gpu_"+c.PD.Name+"_req", gpuQueueSize)
		if err != nil {
			return err
		}
		crr, err := s.newQueueRegion("gpu_"+c.PD.Name+"_resp", gpuQueueSize)
		if err != nil {
			return err
		}
		cd, err := s.newDataRegion("gpu_"+c.PD.Name+"_data", gpuDataSize)
		if err != nil {
			return err
		}
		_, ceC, err := s.mapVirtAndClient(&c, ce, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, crC, err := s.mapVirtAndClient(&c, cr, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, crrC, err := s.mapVirtAndClient(&c, crr, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, cdC, err := s.mapVirtAndClient(&c, cd, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		ch, err := s.channelVirtClient(&c)
		if err != nil {
			return err
		}

		conn := wire.GpuConnection{
			Events: wire.Region{Vaddr: ceC, Size: ce.Size}, ReqQueue: wire.Region{Vaddr: crC, Size: cr.Size},
			RespQueue: wire.Region{Vaddr: crrC, Size: crr.Size}, Data: wire.Region{Vaddr: cdC, Size: cd.Size}, ID: ch.B.ID,
		}
		s.clientConn[c.PD] = conn
		s.virtRecord.Clients = append(s.virtRecord.Clients, conn)
	}

	s.connected = true
	return nil
}

// SerialiseConfig emits the driver, virt, and per-client records.
func (s *Gpu) SerialiseConfig(outDir string, debug bool) error {
	if !s.connected {
		return ErrNotConnected
	}
	if err := wire.Emit(outDir, "gpu", s.Driver.Name, s.driverRecord, debug); err != nil {
		return err
	}
	if err := wire.Emit(outDir, "gpu", s.Virt.Name, s.virtRecord, debug); err != nil {
		return err
	}
	for pd, conn := range s.clientConn {
		if err := wire.Emit(outDir, "gpu", pd.Name, wire.GpuClient{Virt: conn}, debug); err != nil {
			return err
		}
	}
	return nil
}
