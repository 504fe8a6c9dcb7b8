package wire

import (
	"bytes"
	"encoding/binary"
)

// Region is the universal {vaddr, size} sub-record shared by every
// per-class configuration record.
type Region struct {
	Vaddr uint64
	Size  uint64
}

func (r Region) writeTo(buf *bytes.Buffer) {
	binary.Write(buf, binary.LittleEndian, r.Vaddr)
	binary.Write(buf, binary.LittleEndian, r.Size)
}

// DeviceRegion is Region plus the region's I/O (physical) address, used by
// driver-facing records that need both the driver's virtual mapping and the
// underlying device address.
type DeviceRegion struct {
	Region Region
	IOAddr uint64
}

func (d DeviceRegion) writeTo(buf *bytes.Buffer) {
	d.Region.writeTo(buf)
	binary.Write(buf, binary.LittleEndian, d.IOAddr)
}

// writeString writes s left-justified into a fixed-size byte array,
// zero-filling the remainder, truncating if s is too long for size. The
// fixed-capacity array is always fully written.
func writeString(buf *bytes.Buffer, s string, size int) {
	b := make([]byte, size)
	copy(b, s)
	buf.Write(b)
}

func writeU8(buf *bytes.Buffer, v uint8)   { buf.WriteByte(v) }
func writeU16(buf *bytes.Buffer, v uint16) { binary.Write(buf, binary.LittleEndian, v) }
func writeU32(buf *bytes.Buffer, v uint32) { binary.Write(buf, binary.LittleEndian, v) }
func writeU64(buf *bytes.Buffer, v uint64) { binary.Write(buf, binary.LittleEndian, v) }
func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}
