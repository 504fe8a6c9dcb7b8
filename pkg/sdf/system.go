package sdf

import (
	"errors"

	"github.com/jimyag/sdfgen/pkg/arch"
)

// SystemDescription is the root of one composed system: the arena of memory
// regions and protection domains, the physical-address bump allocator, and
// the channels linking them. It is not safe for concurrent use; the
// composer builds exactly one of these per CLI invocation.
type SystemDescription struct {
	Arch     arch.Arch
	PaddrTop uint64

	MRs      []*MemoryRegion
	PDs      []*ProtectionDomain
	Channels []*Channel

	names  map[string]struct{}
	logger Logger
}

// NewSystemDescription creates an empty system description for the given
// architecture, with its physical bump allocator starting at paddrTop.
func NewSystemDescription(a arch.Arch, paddrTop uint64) *SystemDescription {
	return &SystemDescription{
		Arch:     a,
		PaddrTop: paddrTop,
		names:    make(map[string]struct{}),
		logger:   nopLogger{},
	}
}

// SetLogger installs the logger used for diagnostic messages emitted while
// building this system description.
func (s *SystemDescription) SetLogger(l Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *SystemDescription) reserveName(name string) error {
	if _, ok := s.names[name]; ok {
		return newErr(ErrDuplicateName.Code, ErrDuplicateName.Message, name)
	}
	s.names[name] = struct{}{}
	return nil
}

// AddMemoryRegion creates and registers a memory region of exactly size
// bytes; size is not rounded here, so callers that need a page-aligned
// region round it themselves before calling (see pkg/subsystem's
// newQueueRegion/newDataRegion). If physAddr is nil, a physical address is
// bump-allocated downward from PaddrTop (so the highest-addressed regions
// are allocated first), rounding only the bump-allocator arithmetic to
// pageSize, and PaddrTop is decremented by the page-rounded size; an
// explicit physAddr leaves PaddrTop untouched (see DESIGN.md open question
// decision).
func (s *SystemDescription) AddMemoryRegion(name string, size uint64, physAddr *uint64, pageSize *uint64) (*MemoryRegion, error) {
	if err := s.reserveName(name); err != nil {
		return nil, err
	}

	page := s.Arch.DefaultPageSize()
	if pageSize != nil {
		page = *pageSize
	}

	mr := &MemoryRegion{Name: name, Size: size, PageSize: pageSize}

	if physAddr != nil {
		mr.PhysAddr = physAddr
	} else {
		alignedSize := arch.RoundUpToPage(size, page)
		s.PaddrTop = arch.RoundDownToPage(s.PaddrTop-alignedSize, page)
		addr := s.PaddrTop
		mr.PhysAddr = &addr
	}

	s.MRs = append(s.MRs, mr)
	s.logger.Debug("added memory region", "name", name, "size", size)
	return mr, nil
}

// AddProtectionDomain registers a top-level protection domain. Nested PDs
// are registered via the parent's AddChild, not here.
func (s *SystemDescription) AddProtectionDomain(pd *ProtectionDomain) error {
	if err := s.reserveName(pd.Name); err != nil {
		return err
	}
	if pd.Budget > pd.Period {
		return wrapEntity(ErrInvalidBudget, pd.Name)
	}
	s.PDs = append(s.PDs, pd)
	s.logger.Debug("added protection domain", "name", pd.Name)
	return nil
}

// AddChannel links two protection domains, allocating an id on each side's
// bitset, and registers the resulting channel on the system description.
func (s *SystemDescription) AddChannel(pdA *ProtectionDomain, optsA ChannelEndOptions, pdB *ProtectionDomain, optsB ChannelEndOptions) (*Channel, error) {
	ch, err := NewChannel(pdA, optsA, pdB, optsB)
	if err != nil {
		return nil, err
	}
	s.Channels = append(s.Channels, ch)
	return ch, nil
}

// Validate runs the preflight pass described in SPEC_FULL.md §4: every
// PD's budget must not exceed its period (checked again here since VMs and
// nested children bypass AddProtectionDomain) and every map must reference a
// memory region that exists in this system description. Unlike the
// mutating Add* calls, which fail fast on the first violation, Validate
// walks the whole graph and collects every violation it finds, joining them
// with errors.Join so a caller can see all of them from one call instead of
// fixing the input one error at a time. Name uniqueness is not checked
// here: reserveName enforces it for memory regions and top-level PDs as
// they are added, and child PDs added through AddChild are not
// name-checked at all.
func (s *SystemDescription) Validate() error {
	mrNames := make(map[string]struct{}, len(s.MRs))
	for _, mr := range s.MRs {
		mrNames[mr.Name] = struct{}{}
	}

	var errs []error

	var walk func(pd *ProtectionDomain)
	walk = func(pd *ProtectionDomain) {
		if pd.Budget > pd.Period {
			errs = append(errs, wrapEntity(ErrInvalidBudget, pd.Name))
		}
		for _, m := range pd.Maps {
			if _, ok := mrNames[m.MRName]; !ok {
				errs = append(errs, newErr(ErrUnknownMemoryRegion.Code, ErrUnknownMemoryRegion.Message, m.MRName))
			}
		}
		if pd.VM != nil {
			if pd.VM.Budget > pd.VM.Period {
				errs = append(errs, wrapEntity(ErrInvalidBudget, pd.VM.Name))
			}
			for _, m := range pd.VM.Maps {
				if _, ok := mrNames[m.MRName]; !ok {
					errs = append(errs, newErr(ErrUnknownMemoryRegion.Code, ErrUnknownMemoryRegion.Message, m.MRName))
				}
			}
		}
		for _, child := range pd.Children {
			walk(child)
		}
	}

	for _, pd := range s.PDs {
		walk(pd)
	}
	return errors.Join(errs...)
}
