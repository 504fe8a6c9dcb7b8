package wire

import "bytes"

// TimerClient is the timer subsystem's only record: the timer driver has no
// shared memory with its clients, only a notification channel carrying the
// per-client ID.
type TimerClient struct {
	ID uint8 `json:"id"`
}

func (r TimerClient) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := sddfMagic(TagTimer)
	buf.Write(m[:])
	writeU8(&buf, r.ID)
	return buf.Bytes()
}
