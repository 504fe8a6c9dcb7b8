package subsystem

import (
	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

const (
	blkQueueSize        = 0x1000
	blkVirtioHeaderSize = 16 * 1024
	blkMetadataSize     = 2 * 1024 * 1024
)

// BlockClientOptions carries the per-client options the block class adds:
// the partition index and the negotiated data/queue sizing.
type BlockClientOptions struct {
	Partition  uint32
	DataSize   uint64
	NumBuffers uint16
}

// Block is the block subsystem. Every client declares a partition; the
// driver's DMA-visible data is allocated from paddr_top at a fixed physical
// address (hardware DMA requirement). When the driver is virtio-mmio
// compatible, VirtioMMIO additionally allocates named virtio-header and
// metadata regions with physical-address setvars.
type Block struct {
	Base

	VirtioMMIO bool

	driverRecord wire.BlkDriver
	virtRecord   wire.BlkVirt
	clientConn   map[*sdf.ProtectionDomain]wire.BlkClient
}

// NewBlock captures phase-1 references.
func NewBlock(sys *sdf.SystemDescription, a arch.Arch, driver, virt *sdf.ProtectionDomain, node *devicetree.Node, cat *driverdb.Catalogue, virtioMMIO bool) *Block {
	return &Block{
		Base:       NewBase(sys, a, driver, virt, node, cat),
		VirtioMMIO: virtioMMIO,
		clientConn: make(map[*sdf.ProtectionDomain]wire.BlkClient),
	}
}

// AddClient registers a block client with its partition and sizing options.
func (b *Block) AddClient(pd *sdf.ProtectionDomain, opts BlockClientOptions) error {
	_, err := b.addClient(pd, opts)
	return err
}

// Connect resolves the driver descriptor, installs its device regions/irqs,
// allocates the driver's DMA data region from paddr_top at a fixed
// address, optionally the virtio-mmio header/metadata regions, wires
// driver<->virt, and per client a storage-info/req/resp rendezvous plus a
// data region.
func (b *Block) Connect() error {
	if err := b.requireNotConnected(); err != nil {
		return err
	}
	if err := b.checkDeviceStatus(); err != nil {
		return err
	}

	desc, err := b.Catalogue.FindDriver(b.Node.Compatible, driverdb.ClassBlock)
	if err != nil {
		return err
	}
	if _, err := b.installDriverDeviceRegions(desc); err != nil {
		return err
	}
	if err := b.installDriverIrqs(desc); err != nil {
		return err
	}

	// Block driver DMA data comes from paddr_top, not an arbitrary
	// auto-allocated physical address, because the hardware requires a
	// fixed DMA-visible region.
	driverDataSize := uint64(blkMetadataSize)
	driverDataMR, err := b.Sys.AddMemoryRegion(b.Driver.Name+"_data", driverDataSize, nil, nil)
	if err != nil {
		return err
	}
	driverDataVaddr, _, err := b.mapDriverAndVirt(driverDataMR, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}

	if b.VirtioMMIO {
		headerMR, err := b.Sys.AddMemoryRegion(b.Driver.Name+"_virtio_headers", blkVirtioHeaderSize, nil, nil)
		if err != nil {
			return err
		}
		page := b.Arch.DefaultPageSize()
		headerVaddr := b.DriverVaddrs.Alloc(headerMR.Size, page)
		if err := b.Driver.AddMap(headerMR, headerVaddr, sdf.Read|sdf.Write, false, "virtio_headers_paddr"); err != nil {
			return err
		}
		b.Driver.AddSetvar("virtio_headers_paddr", headerMR)

		metaMR, err := b.Sys.AddMemoryRegion(b.Driver.Name+"_metadata", blkMetadataSize, nil, nil)
		if err != nil {
			return err
		}
		metaVaddr := b.DriverVaddrs.Alloc(metaMR.Size, page)
		if err := b.Driver.AddMap(metaMR, metaVaddr, sdf.Read|sdf.Write, false, "metadata_paddr"); err != nil {
			return err
		}
		b.Driver.AddSetvar("metadata_paddr", metaMR)
	}

	storageInfo, err := b.newQueueRegion("blk_storage_info", blkQueueSize)
	if err != nil {
		return err
	}
	reqQueue, err := b.newQueueRegion("blk_driver_req", blkQueueSize)
	if err != nil {
		return err
	}
	respQueue, err := b.newQueueRegion("blk_driver_resp", blkQueueSize)
	if err != nil {
		return err
	}
	siV, _, err := b.mapDriverAndVirt(storageInfo, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	reqV, _, err := b.mapDriverAndVirt(reqQueue, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	respV, _, err := b.mapDriverAndVirt(respQueue, sdf.Read|sdf.Write)
	if err != nil {
		return err
	}
	ch, err := b.channelDriverVirt()
	if err != nil {
		return err
	}
	driverConn := wire.BlkConnection{
		StorageInfo: wire.Region{Vaddr: siV, Size: storageInfo.Size},
		ReqQueue:    wire.Region{Vaddr: reqV, Size: reqQueue.Size},
		RespQueue:   wire.Region{Vaddr: respV, Size: respQueue.Size},
		ID:          ch.A.ID,
	}
	b.driverRecord = wire.BlkDriver{Virt: driverConn}
	b.virtRecord.Driver = wire.BlkDriverSide{Conn: driverConn, Data: wire.DeviceRegion{Region: wire.Region{Vaddr: driverDataVaddr, Size: driverDataMR.Size}, IOAddr: *driverDataMR.PhysAddr}}
	b.virtRecord.NumClients = uint64(len(b.clients))

	for _, c := range b.clients {
		opts, _ := c.Options.(BlockClientOptions)

		si, err := b.newQueueRegion("blk_"+c.PD.Name+"_storage_info", blkQueueSize)
		if err != nil {
			return err
		}
		req, err := b.newQueueRegion("blk_"+c.PD.Name+"_req", blkQueueSize)
		if err != nil {
			return err
		}
		resp, err := b.newQueueRegion("blk_"+c.PD.Name+"_resp", blkQueueSize)
		if err != nil {
			return err
		}
		dataSize := opts.DataSize
		if dataSize == 0 {
			dataSize = blkQueueSize
		}
		data, err := b.newDataRegion("blk_"+c.PD.Name+"_data", dataSize)
		if err != nil {
			return err
		}

		_, siC, err := b.mapVirtAndClient(&c, si, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, reqC, err := b.mapVirtAndClient(&c, req, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		_, respC, err := b.mapVirtAndClient(&c, resp, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		dataV, dataC, err := b.mapVirtAndClient(&c, data, sdf.Read|sdf.Write)
		if err != nil {
			return err
		}
		ch, err := b.channelVirtClient(&c)
		if err != nil {
			return err
		}

		conn := wire.BlkConnection{
			StorageInfo: wire.Region{Vaddr: siC, Size: si.Size},
			ReqQueue:    wire.Region{Vaddr: reqC, Size: req.Size},
			RespQueue:   wire.Region{Vaddr: respC, Size: resp.Size},
			NumBuffers:  opts.NumBuffers,
			ID:          ch.B.ID,
		}
		b.virtRecord.Clients = append(b.virtRecord.Clients, wire.BlkVirtClientSlot{
			Conn: conn, Data: wire.DeviceRegion{Region: wire.Region{Vaddr: dataV, Size: data.Size}, IOAddr: *data.PhysAddr}, Partition: opts.Partition,
		})
		b.clientConn[c.PD] = wire.BlkClient{Virt: conn, Data: wire.Region{Vaddr: dataC, Size: data.Size}}
	}

	b.connected = true
	return nil
}

// SerialiseConfig emits driver, virt, and per-client records.
func (b *Block) SerialiseConfig(outDir string, debug bool) error {
	if !b.connected {
		return ErrNotConnected
	}
	if err := wire.Emit(outDir, "blk", b.Driver.Name, b.driverRecord, debug); err != nil {
		return err
	}
	if err := wire.Emit(outDir, "blk", b.Virt.Name, b.virtRecord, debug); err != nil {
		return err
	}
	for pd, conn := range b.clientConn {
		if err := wire.Emit(outDir, "blk", pd.Name, conn, debug); err != nil {
			return err
		}
	}
	return nil
}
