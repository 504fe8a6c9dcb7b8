package composerapi

// SystemRequest is the JSON shape the visual editor posts to describe one
// system: the architecture, the physical-address bump allocator's starting
// point, and the memory regions, protection domains, and channels to build.
// It mirrors pkg/sdf's entity graph field for field rather than wrapping it
// directly, so the wire contract stays stable if the internal entity types
// grow unrelated fields.
type SystemRequest struct {
	Arch              string                      `json:"arch"`
	PaddrTop          uint64                      `json:"paddr_top"`
	MemoryRegions     []MemoryRegionRequest       `json:"memory_regions"`
	ProtectionDomains []ProtectionDomainRequest   `json:"protection_domains"`
	Channels          []ChannelRequest            `json:"channels"`
}

// IsValid reports whether req has the bare minimum needed to build a system
// description; ginx.Adapt calls this before invoking the handler.
func (req *SystemRequest) IsValid() error {
	if req.Arch == "" {
		return newBadRequest("arch is required")
	}
	return nil
}

type MemoryRegionRequest struct {
	Name     string  `json:"name"`
	Size     uint64  `json:"size"`
	PhysAddr *uint64 `json:"phys_addr,omitempty"`
	PageSize *uint64 `json:"page_size,omitempty"`
}

type MapRequest struct {
	MemoryRegion string `json:"memory_region"`
	Vaddr        uint64 `json:"vaddr"`
	Perms        string `json:"perms"`
	Cached       bool   `json:"cached"`
	SetvarSymbol string `json:"setvar_symbol,omitempty"`
}

type SetvarRequest struct {
	Symbol       string `json:"symbol"`
	MemoryRegion string `json:"memory_region"`
}

type InterruptRequest struct {
	Number  uint32 `json:"number"`
	Trigger string `json:"trigger"`
	ID      *uint8 `json:"id,omitempty"`
}

type VcpuRequest struct {
	ID          uint8 `json:"id"`
	CPUAffinity *int  `json:"cpu_affinity,omitempty"`
}

type VirtualMachineRequest struct {
	Name     string        `json:"name"`
	Priority uint8         `json:"priority,omitempty"`
	Budget   uint64        `json:"budget,omitempty"`
	Period   uint64        `json:"period,omitempty"`
	Vcpus    []VcpuRequest `json:"vcpus"`
	Maps     []MapRequest  `json:"maps"`
}

type ProtectionDomainRequest struct {
	Name         string                    `json:"name"`
	ProgramImage string                    `json:"program_image"`
	Priority     uint8                     `json:"priority,omitempty"`
	Budget       uint64                    `json:"budget,omitempty"`
	Period       uint64                    `json:"period,omitempty"`
	Passive      bool                      `json:"passive,omitempty"`
	StackSize    uint64                    `json:"stack_size,omitempty"`
	SMC          bool                      `json:"smc,omitempty"`
	Maps         []MapRequest              `json:"maps"`
	Setvars      []SetvarRequest           `json:"setvars"`
	Interrupts   []InterruptRequest        `json:"interrupts"`
	Children     []ProtectionDomainRequest `json:"children"`
	VM           *VirtualMachineRequest    `json:"vm,omitempty"`
}

type ChannelEndRequest struct {
	ProtectionDomain string `json:"protection_domain"`
	ID               *uint8 `json:"id,omitempty"`
	Notify           bool   `json:"notify,omitempty"`
	PPC              bool   `json:"ppc,omitempty"`
}

type ChannelRequest struct {
	A ChannelEndRequest `json:"a"`
	B ChannelEndRequest `json:"b"`
}

// RenderResponse is returned by /compose and /render: the rendered XML
// system description alongside a ComposeID correlating it with whatever the
// caller logs client-side.
type RenderResponse struct {
	ComposeID string `json:"compose_id"`
	XML       string `json:"xml"`
}

// ValidateResponse is returned by /validate.
type ValidateResponse struct {
	ComposeID string `json:"compose_id"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
}
