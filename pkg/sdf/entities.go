package sdf

// Perm is a subset of {read, write, execute} mapping permissions. Write-only
// (Write with neither Read nor Execute) is never valid.
type Perm uint8

const (
	Read Perm = 1 << iota
	Write
	Exec
)

// String renders the permission set in r, w, x order, e.g. "rwx", "rx", "r".
func (p Perm) String() string {
	s := ""
	if p&Read != 0 {
		s += "r"
	}
	if p&Write != 0 {
		s += "w"
	}
	if p&Exec != 0 {
		s += "x"
	}
	return s
}

// WriteOnly reports whether p is exactly {write}.
func (p Perm) WriteOnly() bool {
	return p == Write
}

// MemoryRegion is a named, sized, optionally physically-fixed frame of
// memory. SystemDescription.AddMemoryRegion sets PhysAddr at creation,
// either to the caller's address or by bump allocation.
type MemoryRegion struct {
	Name     string
	Size     uint64
	PhysAddr *uint64
	PageSize *uint64
}

// Map binds a memory region into a protection domain's or virtual machine's
// address space. It copies the MR's name and size at creation time; if the
// MR is later removed the map becomes a dangling reference — the composer
// has no MR-removal operation, so this cannot happen in practice.
type Map struct {
	MRName       string
	MRSize       uint64
	Vaddr        uint64
	Perms        Perm
	Cached       bool
	SetVarSymbol string
}

func newMap(mr *MemoryRegion, vaddr uint64, perms Perm, cached bool, setvar string) (Map, error) {
	if perms.WriteOnly() {
		return Map{}, newErr(ErrInvalidMap.Code, ErrInvalidMap.Message, mr.Name)
	}
	return Map{
		MRName:       mr.Name,
		MRSize:       mr.Size,
		Vaddr:        vaddr,
		Perms:        perms,
		Cached:       cached,
		SetVarSymbol: setvar,
	}, nil
}

// Trigger is an interrupt trigger mode.
type Trigger string

const (
	TriggerEdge  Trigger = "edge"
	TriggerLevel Trigger = "level"
)

// Irq is a kernel-visible interrupt number with its trigger, independent of
// any registration on a protection domain.
type Irq struct {
	Number  uint32
	Trigger Trigger
}

// Interrupt is an Irq registered on a protection domain, with the PD-local
// id allocated for it at registration time.
type Interrupt struct {
	Irq Irq
	ID  *uint8
}

// Vcpu is one virtual CPU inside a VirtualMachine.
type Vcpu struct {
	ID          uint8
	CPUAffinity *int
}

// VirtualMachine is a guest address space hosted inside its parent
// protection domain (the VMM). It exists only as a PD's child.
type VirtualMachine struct {
	Name     string
	Vcpus    []Vcpu
	Priority uint8
	Budget   uint64
	Period   uint64
	Maps     []Map
}

// AddMap binds mr into the VM's address space.
func (vm *VirtualMachine) AddMap(mr *MemoryRegion, vaddr uint64, perms Perm, cached bool, setvar string) error {
	m, err := newMap(mr, vaddr, perms, cached, setvar)
	if err != nil {
		return err
	}
	vm.Maps = append(vm.Maps, m)
	return nil
}

// Setvar is a symbol the loader patches with an MR's physical address.
type Setvar struct {
	Symbol string
	MRName string
}

// ProtectionDomainOptions carries the scheduling and lifecycle parameters of
// a ProtectionDomain, following an options-struct constructor convention.
type ProtectionDomainOptions struct {
	ProgramImage string
	Priority     uint8  // default 100
	Budget       uint64 // default 100
	Period       uint64 // default = Budget
	Passive      bool
	StackSize    uint64 // default 0x1000
	CPUAffinity  *int
	SMC          bool
}

func (o ProtectionDomainOptions) withDefaults() ProtectionDomainOptions {
	if o.Priority == 0 {
		o.Priority = 100
	}
	if o.Budget == 0 {
		o.Budget = 100
	}
	if o.Period == 0 {
		o.Period = o.Budget
	}
	if o.StackSize == 0 {
		o.StackSize = 0x1000
	}
	return o
}

// ProtectionDomain is a schedulable, isolated component. Its Children,
// Interrupts, and channel endpoints all draw ids from the same 62-wide
// bitset (ids field); Maps take no id.
type ProtectionDomain struct {
	Name string
	ProtectionDomainOptions

	ID *uint8 // set only when this PD is a child of another PD

	Maps       []Map
	Children   []*ProtectionDomain
	Interrupts []Interrupt
	Setvars    []Setvar
	VM         *VirtualMachine

	ids IDAllocator
}

// NewProtectionDomain creates a PD with defaults applied (priority 100,
// budget 100, period = budget, stack size 0x1000).
func NewProtectionDomain(name string, opts ProtectionDomainOptions) *ProtectionDomain {
	return &ProtectionDomain{
		Name:                    name,
		ProtectionDomainOptions: opts.withDefaults(),
	}
}

// AddMap binds mr into this PD's address space.
func (pd *ProtectionDomain) AddMap(mr *MemoryRegion, vaddr uint64, perms Perm, cached bool, setvar string) error {
	m, err := newMap(mr, vaddr, perms, cached, setvar)
	if err != nil {
		return err
	}
	pd.Maps = append(pd.Maps, m)
	return nil
}

// AddSetvar records a symbol the loader will patch with mr's physical address.
func (pd *ProtectionDomain) AddSetvar(symbol string, mr *MemoryRegion) {
	pd.Setvars = append(pd.Setvars, Setvar{Symbol: symbol, MRName: mr.Name})
}

// AddChild registers child as a child of pd, allocating child's id from pd's
// bitset (requested id if given, else the lowest free id).
func (pd *ProtectionDomain) AddChild(child *ProtectionDomain, requested *uint8) (uint8, error) {
	id, err := pd.ids.Allocate(requested)
	if err != nil {
		return 0, wrapEntity(err, pd.Name)
	}
	child.ID = &id
	pd.Children = append(pd.Children, child)
	return id, nil
}

// AddInterrupt registers irq on pd, allocating a PD-local id from pd's bitset.
func (pd *ProtectionDomain) AddInterrupt(irq Irq, requested *uint8) (*Interrupt, error) {
	id, err := pd.ids.Allocate(requested)
	if err != nil {
		return nil, wrapEntity(err, pd.Name)
	}
	in := Interrupt{Irq: irq, ID: &id}
	pd.Interrupts = append(pd.Interrupts, in)
	return &pd.Interrupts[len(pd.Interrupts)-1], nil
}

// AllocateChannelID allocates a channel-endpoint id from pd's bitset; used
// by NewChannel and by subsystem composers wiring multiple endpoints.
func (pd *ProtectionDomain) AllocateChannelID(requested *uint8) (uint8, error) {
	id, err := pd.ids.Allocate(requested)
	if err != nil {
		return 0, wrapEntity(err, pd.Name)
	}
	return id, nil
}

// SetVM attaches vm as pd's virtual machine. A PD may own at most one VM.
func (pd *ProtectionDomain) SetVM(vm *VirtualMachine) error {
	if pd.VM != nil {
		return wrapEntity(ErrVMAlreadySet, pd.Name)
	}
	pd.VM = vm
	return nil
}

func wrapEntity(e *Error, entity string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Entity: entity, Cause: e.Cause}
}

// ChannelEnd is one side of a Channel: the owning PD, its locally-allocated
// id, whether it receives notifications, and whether it may issue a
// protected procedure call to the other end.
type ChannelEnd struct {
	PD     *ProtectionDomain
	ID     uint8
	Notify bool
	PPC    bool
}

// Channel links two protection domains. Spec leaves pd_a == pd_b
// unvalidated (implementation-defined, see DESIGN.md).
type Channel struct {
	A, B ChannelEnd
}

// ChannelEndOptions configures one endpoint when creating a Channel.
type ChannelEndOptions struct {
	ID     *uint8
	Notify bool
	PPC    bool
}

// NewChannel allocates an id on each PD's bitset (explicit if given in the
// options, otherwise the lowest free id) and returns the resulting Channel.
func NewChannel(pdA *ProtectionDomain, optsA ChannelEndOptions, pdB *ProtectionDomain, optsB ChannelEndOptions) (*Channel, error) {
	idA, err := pdA.AllocateChannelID(optsA.ID)
	if err != nil {
		return nil, err
	}
	idB, err := pdB.AllocateChannelID(optsB.ID)
	if err != nil {
		return nil, err
	}
	return &Channel{
		A: ChannelEnd{PD: pdA, ID: idA, Notify: optsA.Notify, PPC: optsA.PPC},
		B: ChannelEnd{PD: pdB, ID: idB, Notify: optsB.Notify, PPC: optsB.PPC},
	}, nil
}
