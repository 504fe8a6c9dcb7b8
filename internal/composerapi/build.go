package composerapi

import (
	"github.com/jinzhu/copier"

	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/sdf"
)

// buildSystem converts one SystemRequest into a *sdf.SystemDescription,
// performing exactly the calls the CLI-driven composer would make had it
// read this same graph out of board/example files. PD and channel requests
// are applied in request order, so any name-uniqueness or budget failure is
// reported against the entity that introduced it.
func buildSystem(req *SystemRequest) (*sdf.SystemDescription, error) {
	a := arch.Arch(req.Arch)
	if !a.Valid() {
		return nil, newBadRequest("unrecognised arch " + req.Arch)
	}

	sys := sdf.NewSystemDescription(a, req.PaddrTop)

	for _, mrReq := range req.MemoryRegions {
		if _, err := sys.AddMemoryRegion(mrReq.Name, mrReq.Size, mrReq.PhysAddr, mrReq.PageSize); err != nil {
			return nil, err
		}
	}

	mrByName := make(map[string]*sdf.MemoryRegion, len(sys.MRs))
	for _, mr := range sys.MRs {
		mrByName[mr.Name] = mr
	}

	pdByName := make(map[string]*sdf.ProtectionDomain)

	var buildPD func(r ProtectionDomainRequest) (*sdf.ProtectionDomain, error)
	buildPD = func(r ProtectionDomainRequest) (*sdf.ProtectionDomain, error) {
		pd := sdf.NewProtectionDomain(r.Name, sdf.ProtectionDomainOptions{
			ProgramImage: r.ProgramImage,
			Priority:     r.Priority,
			Budget:       r.Budget,
			Period:       r.Period,
			Passive:      r.Passive,
			StackSize:    r.StackSize,
			SMC:          r.SMC,
		})

		for _, mReq := range r.Maps {
			mr, ok := mrByName[mReq.MemoryRegion]
			if !ok {
				return nil, newBadRequest("map references unknown memory region " + mReq.MemoryRegion)
			}
			if err := pd.AddMap(mr, mReq.Vaddr, parsePerms(mReq.Perms), mReq.Cached, mReq.SetvarSymbol); err != nil {
				return nil, err
			}
		}
		for _, svReq := range r.Setvars {
			mr, ok := mrByName[svReq.MemoryRegion]
			if !ok {
				return nil, newBadRequest("setvar references unknown memory region " + svReq.MemoryRegion)
			}
			pd.AddSetvar(svReq.Symbol, mr)
		}
		for _, irqReq := range r.Interrupts {
			if _, err := pd.AddInterrupt(sdf.Irq{Number: irqReq.Number, Trigger: sdf.Trigger(irqReq.Trigger)}, irqReq.ID); err != nil {
				return nil, err
			}
		}
		if r.VM != nil {
			vm := &sdf.VirtualMachine{
				Name:     r.VM.Name,
				Priority: r.VM.Priority,
				Budget:   r.VM.Budget,
				Period:   r.VM.Period,
			}
			if err := copier.Copy(&vm.Vcpus, &r.VM.Vcpus); err != nil {
				return nil, newBadRequest("vcpu list: " + err.Error())
			}
			for _, mReq := range r.VM.Maps {
				mr, ok := mrByName[mReq.MemoryRegion]
				if !ok {
					return nil, newBadRequest("vm map references unknown memory region " + mReq.MemoryRegion)
				}
				if err := vm.AddMap(mr, mReq.Vaddr, parsePerms(mReq.Perms), mReq.Cached, mReq.SetvarSymbol); err != nil {
					return nil, err
				}
			}
			if err := pd.SetVM(vm); err != nil {
				return nil, err
			}
		}
		for _, childReq := range r.Children {
			child, err := buildPD(childReq)
			if err != nil {
				return nil, err
			}
			if _, err := pd.AddChild(child, nil); err != nil {
				return nil, err
			}
		}
		return pd, nil
	}

	for _, pdReq := range req.ProtectionDomains {
		pd, err := buildPD(pdReq)
		if err != nil {
			return nil, err
		}
		if err := sys.AddProtectionDomain(pd); err != nil {
			return nil, err
		}
		pdByName[pd.Name] = pd
	}

	for _, chReq := range req.Channels {
		pdA, ok := pdByName[chReq.A.ProtectionDomain]
		if !ok {
			return nil, newBadRequest("channel references unknown protection domain " + chReq.A.ProtectionDomain)
		}
		pdB, ok := pdByName[chReq.B.ProtectionDomain]
		if !ok {
			return nil, newBadRequest("channel references unknown protection domain " + chReq.B.ProtectionDomain)
		}
		_, err := sys.AddChannel(pdA,
			sdf.ChannelEndOptions{ID: chReq.A.ID, Notify: chReq.A.Notify, PPC: chReq.A.PPC},
			pdB,
			sdf.ChannelEndOptions{ID: chReq.B.ID, Notify: chReq.B.Notify, PPC: chReq.B.PPC},
		)
		if err != nil {
			return nil, err
		}
	}

	return sys, nil
}

func parsePerms(s string) sdf.Perm {
	var p sdf.Perm
	for _, c := range s {
		switch c {
		case 'r':
			p |= sdf.Read
		case 'w':
			p |= sdf.Write
		case 'x':
			p |= sdf.Exec
		}
	}
	return p
}
