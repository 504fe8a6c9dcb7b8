package subsystem

import (
	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

const (
	fsCmdQueueSize  = 0x1000
	fsComplQueueSize = 0x1000
	fsDataSize      = 0x100000
)

// FsKind distinguishes the three file-system flavours the composer
// supports; all three share the same command/completion/data wiring.
type FsKind string

const (
	FsFAT  FsKind = "fat"
	FsNFS  FsKind = "nfs"
	FsVMFS FsKind = "vmfs"
)

// Fs is a file-system subsystem: a command queue, a completion queue, and a
// data-sharing region between the server PD and its single client. NFS
// additionally carries a server URL and export path; Fs does not create or
// wire any serial, timer, or network subsystem for it.
type Fs struct {
	Sys    *sdf.SystemDescription
	Arch   arch.Arch
	Kind   FsKind
	Server *sdf.ProtectionDomain
	Client *sdf.ProtectionDomain

	ServerURL  string
	ExportPath string

	serverVaddrs *VaddrAllocator
	clientVaddrs *VaddrAllocator

	serverRecord wire.FsServer
	clientRecord wire.FsClient
	nfsRecord    wire.Nfs
	connected    bool
}

// NewFs captures phase-1 references; server and client are fixed at
// construction (the class has exactly one client, unlike the shared-bus
// subsystems).
func NewFs(sys *sdf.SystemDescription, a arch.Arch, kind FsKind, server, client *sdf.ProtectionDomain) *Fs {
	return &Fs{
		Sys: sys, Arch: a, Kind: kind, Server: server, Client: client,
		serverVaddrs: NewVaddrAllocator(), clientVaddrs: NewVaddrAllocator(),
	}
}

// SetNFSOptions records the NFS-only server URL and export path; a no-op
// panic-free call for FAT/VMFS, which ignore it.
func (f *Fs) SetNFSOptions(serverURL, exportPath string) {
	f.ServerURL = serverURL
	f.ExportPath = exportPath
}

// Connect wires the command queue, completion queue, and data region
// between server and client, and a single notifying channel.
func (f *Fs) Connect() error {
	if f.connected {
		return ErrAlreadyConnected
	}

	cmdQueue, err := f.Sys.AddMemoryRegion(string(f.Kind)+"_cmd_queue", fsCmdQueueSize, nil, nil)
	if err != nil {
		return err
	}
	complQueue, err := f.Sys.AddMemoryRegion(string(f.Kind)+"_completion_queue", fsComplQueueSize, nil, nil)
	if err != nil {
		return err
	}
	data, err := f.Sys.AddMemoryRegion(string(f.Kind)+"_data", fsDataSize, nil, nil)
	if err != nil {
		return err
	}

	page := f.Arch.DefaultPageSize()
	conn := wire.FsConnection{}

	cmdS := f.serverVaddrs.Alloc(cmdQueue.Size, page)
	if err := f.Server.AddMap(cmdQueue, cmdS, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}
	cmdC := f.clientVaddrs.Alloc(cmdQueue.Size, page)
	if err := f.Client.AddMap(cmdQueue, cmdC, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}
	conn.CmdQueue = wire.Region{Vaddr: cmdC, Size: cmdQueue.Size}

	complS := f.serverVaddrs.Alloc(complQueue.Size, page)
	if err := f.Server.AddMap(complQueue, complS, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}
	complC := f.clientVaddrs.Alloc(complQueue.Size, page)
	if err := f.Client.AddMap(complQueue, complC, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}
	conn.CompletionQueue = wire.Region{Vaddr: complC, Size: complQueue.Size}

	dataS := f.serverVaddrs.Alloc(data.Size, page)
	if err := f.Server.AddMap(data, dataS, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}
	dataC := f.clientVaddrs.Alloc(data.Size, page)
	if err := f.Client.AddMap(data, dataC, sdf.Read|sdf.Write, false, ""); err != nil {
		return err
	}
	conn.Data = wire.Region{Vaddr: dataC, Size: data.Size}

	if _, err := f.Sys.AddChannel(f.Server, sdf.ChannelEndOptions{Notify: true}, f.Client, sdf.ChannelEndOptions{Notify: true}); err != nil {
		return err
	}

	f.serverRecord = wire.FsServer{Client: conn}
	f.clientRecord = wire.FsClient{Server: conn}
	if f.Kind == FsNFS {
		f.nfsRecord = wire.Nfs{Conn: conn, ServerURL: f.ServerURL, ExportPath: f.ExportPath}
	}

	f.connected = true
	return nil
}

// SerialiseConfig emits the server and client records; for NFS it emits the
// combined NFS record instead of the bare server/client pair.
func (f *Fs) SerialiseConfig(outDir string, debug bool) error {
	if !f.connected {
		return ErrNotConnected
	}
	if f.Kind == FsNFS {
		return wire.Emit(outDir, "nfs", f.Client.Name, f.nfsRecord, debug)
	}
	if err := wire.Emit(outDir, string(f.Kind), f.Server.Name, f.serverRecord, debug); err != nil {
		return err
	}
	return wire.Emit(outDir, string(f.Kind), f.Client.Name, f.clientRecord, debug)
}
