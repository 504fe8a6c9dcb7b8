package wire

import "bytes"

const serialClientNameSize = 64
const serialBeginStrSize = 128

// SerialConnection is the shared rendezvous point between the serial driver
// (split into rx/tx sides) and its virtualisers.
type SerialConnection struct {
	Queue      Region `json:"queue"`
	Data       Region `json:"data"`
	NumBuffers uint16 `json:"num_buffers"`
	ID         uint8  `json:"id"`
}

func (c SerialConnection) writeTo(buf *bytes.Buffer) {
	c.Queue.writeTo(buf)
	c.Data.writeTo(buf)
	writeU16(buf, c.NumBuffers)
	writeU8(buf, c.ID)
}

// SerialDriver is the driver-side record; RX is the zero value when the
// subsystem was composed TX-only (no RX virt).
type SerialDriver struct {
	RX SerialConnection `json:"rx"`
	TX SerialConnection `json:"tx"`
}

func (r SerialDriver) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagSerial)
	buf.Write(m[:])
	r.RX.writeTo(&buf)
	r.TX.writeTo(&buf)
	return buf.Bytes()
}

// SerialVirtRx is the RX virtualiser's record.
type SerialVirtRx struct {
	Driver  SerialConnection   `json:"driver"`
	Clients []SerialConnection `json:"clients"`
}

func (r SerialVirtRx) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagSerial)
	buf.Write(m[:])
	r.Driver.writeTo(&buf)

	clients := make([]SerialConnection, MaxClients)
	copy(clients, r.Clients)
	for _, c := range clients {
		c.writeTo(&buf)
	}
	return buf.Bytes()
}

// SerialVirtTxClient pairs a connection with the client's fixed-size name,
// used by the console multiplexer to label output lines.
type SerialVirtTxClient struct {
	Conn SerialConnection `json:"conn"`
	Name string           `json:"name"`
}

// SerialVirtTx is the TX virtualiser's record, carrying the shared
// begin-of-line string and per-client names.
type SerialVirtTx struct {
	Driver        SerialConnection     `json:"driver"`
	Clients       []SerialVirtTxClient `json:"clients"`
	BeginStr      string               `json:"begin_str"`
	EnableColour  bool                 `json:"enable_colour"`
	EnableRx      bool                 `json:"enable_rx"`
}

func (r SerialVirtTx) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagSerial)
	buf.Write(m[:])
	r.Driver.writeTo(&buf)

	clients := make([]SerialVirtTxClient, MaxClients)
	copy(clients, r.Clients)
	for _, c := range clients {
		c.Conn.writeTo(&buf)
		writeString(&buf, c.Name, serialClientNameSize)
	}

	writeString(&buf, r.BeginStr, serialBeginStrSize)
	writeU8(&buf, uint8(len(r.BeginStr)))
	writeBool(&buf, r.EnableColour)
	writeBool(&buf, r.EnableRx)
	return buf.Bytes()
}

// SerialClient is one client's record.
type SerialClient struct {
	RX SerialConnection `json:"rx"`
	TX SerialConnection `json:"tx"`
}

func (r SerialClient) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagSerial)
	buf.Write(m[:])
	r.RX.writeTo(&buf)
	r.TX.writeTo(&buf)
	return buf.Bytes()
}
