package wire

import "bytes"

// NetConnection is the free/active queue pair shared across every
// network-subsystem participant.
type NetConnection struct {
	FreeQueue   Region `json:"free_queue"`
	ActiveQueue Region `json:"active_queue"`
	NumBuffers  uint16 `json:"num_buffers"`
	ID          uint8  `json:"id"`
}

func (c NetConnection) writeTo(buf *bytes.Buffer) {
	c.FreeQueue.writeTo(buf)
	c.ActiveQueue.writeTo(buf)
	writeU16(buf, c.NumBuffers)
	writeU8(buf, c.ID)
}

// MacAddr is a 6-byte hardware address.
type MacAddr [6]byte

func (m MacAddr) writeTo(buf *bytes.Buffer) {
	buf.Write(m[:])
}

// NetDriver is the driver-side record: its RX and TX rendezvous with the
// virtualisers, plus the physical hw_ring_buffer region.
type NetDriver struct {
	RX          NetConnection `json:"rx"`
	TX          NetConnection `json:"tx"`
	HwRingBuffer DeviceRegion `json:"hw_ring_buffer"`
}

func (r NetDriver) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagNet)
	buf.Write(m[:])
	r.RX.writeTo(&buf)
	r.TX.writeTo(&buf)
	r.HwRingBuffer.writeTo(&buf)
	return buf.Bytes()
}

// NetVirtRxClient pairs a connection with the copier's MAC address.
type NetVirtRxClient struct {
	Conn NetConnection `json:"conn"`
	Mac  MacAddr       `json:"mac_addr"`
}

// NetVirtRx is the RX virtualiser's record.
type NetVirtRx struct {
	Driver  NetConnection     `json:"driver"`
	Clients []NetVirtRxClient `json:"clients"`
}

func (r NetVirtRx) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagNet)
	buf.Write(m[:])
	r.Driver.writeTo(&buf)

	clients := make([]NetVirtRxClient, MaxClients)
	copy(clients, r.Clients)
	for _, c := range clients {
		c.Conn.writeTo(&buf)
		c.Mac.writeTo(&buf)
	}
	return buf.Bytes()
}

// NetVirtTx is the TX virtualiser's record.
type NetVirtTx struct {
	Driver  NetConnection   `json:"driver"`
	Clients []NetConnection `json:"clients"`
}

func (r NetVirtTx) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagNet)
	buf.Write(m[:])
	r.Driver.writeTo(&buf)

	clients := make([]NetConnection, MaxClients)
	copy(clients, r.Clients)
	for _, c := range clients {
		c.writeTo(&buf)
	}
	return buf.Bytes()
}

// NetCopy is a per-client copier's record: its rendezvous with the RX virt
// on one side and the client on the other.
type NetCopy struct {
	Virt   NetConnection `json:"virt"`
	Client NetConnection `json:"client"`
	Mac    MacAddr       `json:"mac_addr"`
}

func (r NetCopy) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagNet)
	buf.Write(m[:])
	r.Virt.writeTo(&buf)
	r.Client.writeTo(&buf)
	r.Mac.writeTo(&buf)
	return buf.Bytes()
}

// NetClient is one client's record.
type NetClient struct {
	RX  NetConnection `json:"rx"`
	TX  NetConnection `json:"tx"`
	Mac MacAddr       `json:"mac_addr"`
}

func (r NetClient) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagNet)
	buf.Write(m[:])
	r.RX.writeTo(&buf)
	r.TX.writeTo(&buf)
	r.Mac.writeTo(&buf)
	return buf.Bytes()
}
