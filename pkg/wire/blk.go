package wire

import "bytes"

// BlkConnection is the driver/virt/client rendezvous point for the block
// subsystem: the storage-info, request, and response control rings, the
// negotiated buffer count, and this side's channel ID.
type BlkConnection struct {
	StorageInfo Region `json:"storage_info"`
	ReqQueue    Region `json:"req_queue"`
	RespQueue   Region `json:"resp_queue"`
	NumBuffers  uint16 `json:"num_buffers"`
	ID          uint8  `json:"id"`
}

func (c BlkConnection) writeTo(buf *bytes.Buffer) {
	c.StorageInfo.writeTo(buf)
	c.ReqQueue.writeTo(buf)
	c.RespQueue.writeTo(buf)
	writeU16(buf, c.NumBuffers)
	writeU8(buf, c.ID)
}

// BlkDriver is the driver-side record: its rendezvous with the virtualiser.
type BlkDriver struct {
	Virt BlkConnection `json:"virt"`
}

func (r BlkDriver) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagBlk)
	buf.Write(m[:])
	r.Virt.writeTo(&buf)
	return buf.Bytes()
}

// BlkVirtClientSlot is one client's entry in the virtualiser's fixed client
// table: its connection, its DMA-visible data region, and its partition.
type BlkVirtClientSlot struct {
	Conn      BlkConnection `json:"conn"`
	Data      DeviceRegion  `json:"data"`
	Partition uint32        `json:"partition"`
}

func (s BlkVirtClientSlot) writeTo(buf *bytes.Buffer) {
	s.Conn.writeTo(buf)
	s.Data.writeTo(buf)
	writeU32(buf, s.Partition)
}

// BlkDriverSide is the virtualiser's view of its driver rendezvous: the
// connection plus the driver's DMA-visible data region, allocated from
// paddr_top at a fixed physical address per the hardware DMA requirement.
type BlkDriverSide struct {
	Conn BlkConnection `json:"conn"`
	Data DeviceRegion  `json:"data"`
}

func (d BlkDriverSide) writeTo(buf *bytes.Buffer) {
	d.Conn.writeTo(buf)
	d.Data.writeTo(buf)
}

// BlkVirt is the virtualiser's record: the driver rendezvous and every
// client slot, fixed-capacity at MaxClients with unused slots zero-filled.
type BlkVirt struct {
	NumClients uint64              `json:"num_clients"`
	Driver     BlkDriverSide       `json:"driver"`
	Clients    []BlkVirtClientSlot `json:"clients"`
}

func (r BlkVirt) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagBlk)
	buf.Write(m[:])
	writeU64(&buf, r.NumClients)
	r.Driver.writeTo(&buf)

	slots := make([]BlkVirtClientSlot, MaxClients)
	copy(slots, r.Clients)
	for _, s := range slots {
		s.writeTo(&buf)
	}
	return buf.Bytes()
}

// BlkClient is one client's record: its rendezvous with the virtualiser and
// its own data region.
type BlkClient struct {
	Virt BlkConnection `json:"virt"`
	Data Region        `json:"data"`
}

func (r BlkClient) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagBlk)
	buf.Write(m[:])
	r.Virt.writeTo(&buf)
	r.Data.writeTo(&buf)
	return buf.Bytes()
}
