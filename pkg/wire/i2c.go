package wire

import "bytes"

// I2cConnection is the request/response queue pair plus the shared data
// region between an i2c participant and the virtualiser.
type I2cConnection struct {
	ReqQueue  Region `json:"req_queue"`
	RespQueue Region `json:"resp_queue"`
	Data      Region `json:"data"`
	ID        uint8  `json:"id"`
}

func (c I2cConnection) writeTo(buf *bytes.Buffer) {
	c.ReqQueue.writeTo(buf)
	c.RespQueue.writeTo(buf)
	c.Data.writeTo(buf)
	writeU8(buf, c.ID)
}

// I2cDriver is the driver-side record.
type I2cDriver struct {
	Virt I2cConnection `json:"virt"`
}

func (r I2cDriver) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagI2c)
	buf.Write(m[:])
	r.Virt.writeTo(&buf)
	return buf.Bytes()
}

// I2cVirt is the virtualiser's record; it carries no PPC marking.
type I2cVirt struct {
	Driver  I2cConnection   `json:"driver"`
	Clients []I2cConnection `json:"clients"`
}

func (r I2cVirt) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagI2c)
	buf.Write(m[:])
	r.Driver.writeTo(&buf)

	clients := make([]I2cConnection, MaxClients)
	copy(clients, r.Clients)
	for _, c := range clients {
		c.writeTo(&buf)
	}
	return buf.Bytes()
}

// I2cClient is one client's record.
type I2cClient struct {
	Virt I2cConnection `json:"virt"`
}

func (r I2cClient) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagI2c)
	buf.Write(m[:])
	r.Virt.writeTo(&buf)
	return buf.Bytes()
}
