package wire

import "bytes"

const nfsURLSize = 128
const nfsExportSize = 128

// FsConnection is the command/completion queue pair plus shared data region
// between a file-system server and its single client.
type FsConnection struct {
	CmdQueue      Region `json:"cmd_queue"`
	CompletionQueue Region `json:"completion_queue"`
	Data          Region `json:"data"`
}

func (c FsConnection) writeTo(buf *bytes.Buffer) {
	c.CmdQueue.writeTo(buf)
	c.CompletionQueue.writeTo(buf)
	c.Data.writeTo(buf)
}

// FsServer is the server-side record.
type FsServer struct {
	Client FsConnection `json:"client"`
}

func (r FsServer) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := lionsMagic(TagFs)
	buf.Write(m[:])
	r.Client.writeTo(&buf)
	return buf.Bytes()
}

// FsClient is the client-side record.
type FsClient struct {
	Server FsConnection `json:"server"`
}

func (r FsClient) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := lionsMagic(TagFs)
	buf.Write(m[:])
	r.Server.writeTo(&buf)
	return buf.Bytes()
}

// Nfs is the NFS subsystem's combined record: the shared FsConnection plus
// the server URL and export path the NFS server depends on. It carries
// nothing about serial, timer, or network subsystems.
type Nfs struct {
	Conn       FsConnection `json:"conn"`
	ServerURL  string       `json:"server_url"`
	ExportPath string       `json:"export_path"`
}

func (r Nfs) MarshalBinary() []byte {
	var buf bytes.Buffer
	m := lionsMagic(TagNfs)
	buf.Write(m[:])
	r.Conn.writeTo(&buf)
	writeString(&buf, r.ServerURL, nfsURLSize)
	writeString(&buf, r.ExportPath, nfsExportSize)
	return buf.Bytes()
}
