package wire

import "bytes"

// GpuConnection is the events/request/response queue triple plus per-client
// data region shared with the gpu virtualiser.
type GpuConnection struct {
	Events   Region `json:"events"`
	ReqQueue Region `json:"req_queue"`
	RespQueue Region `json:"resp_queue"`
	Data     Region `json:"data"`
	ID       uint8  `json:"id"`
}

func (c GpuConnection) writeTo(buf *bytes.Buffer) {
	c.Events.writeTo(buf)
	c.ReqQueue.writeTo(buf)
	c.RespQueue.writeTo(buf)
	c.Data.writeTo(buf)
	writeU8(buf, c.ID)
}

// GpuDriver is the driver-side record.
type GpuDriver struct {
	Virt GpuConnection `json:"virt"`
}

func (r GpuDriver) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagGpu)
	buf.Write(m[:])
	r.Virt.writeTo(&buf)
	return buf.Bytes()
}

// GpuVirt is the virtualiser's record.
type GpuVirt struct {
	Driver  GpuConnection   `json:"driver"`
	Clients []GpuConnection `json:"clients"`
}

func (r GpuVirt) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagGpu)
	buf.Write(m[:])
	r.Driver.writeTo(&buf)

	clients := make([]GpuConnection, MaxClients)
	copy(clients, r.Clients)
	for _, c := range clients {
		c.writeTo(&buf)
	}
	return buf.Bytes()
}

// GpuClient is one client's record.
type GpuClient struct {
	Virt GpuConnection `json:"virt"`
}

func (r GpuClient) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagGpu)
	buf.Write(m[:])
	r.Virt.writeTo(&buf)
	return buf.Bytes()
}
