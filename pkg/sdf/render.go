package sdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const xmlProlog = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Render produces the bit-exact XML system description: the prologue and
// <system> wrapping MRs, PDs, and channels in insertion order. The document
// is built with a trailing NUL byte for C consumers; the returned string
// excludes it. Render never mutates the system description and never
// fails except on out-of-memory, which Go reports as a panic rather than an
// error.
func (s *SystemDescription) Render() string {
	var b strings.Builder
	b.WriteString(xmlProlog)
	b.WriteString("<system>\n")

	for _, mr := range s.MRs {
		renderMemoryRegion(&b, mr, 1)
	}
	for _, pd := range s.PDs {
		renderPD(&b, pd, 1)
	}
	for _, ch := range s.Channels {
		renderChannel(&b, ch, 1)
	}

	b.WriteString("</system>")
	b.WriteByte(0)

	out := b.String()
	return out[:len(out)-1]
}

// RenderTo writes the same bit-exact XML Render produces to w. It builds
// the whole document with Render first and then writes it in one call, so
// it does not stream or lower peak memory use.
func (s *SystemDescription) RenderTo(w io.Writer) error {
	_, err := io.WriteString(w, s.Render())
	return err
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("    ")
	}
}

func hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func renderMemoryRegion(b *strings.Builder, mr *MemoryRegion, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, `<memory_region name="%s" size="%s"`, mr.Name, hex(mr.Size))
	if mr.PageSize != nil {
		fmt.Fprintf(b, ` page_size="%s"`, hex(*mr.PageSize))
	}
	if mr.PhysAddr != nil {
		fmt.Fprintf(b, ` phys_addr="%s"`, hex(*mr.PhysAddr))
	}
	b.WriteString(" />\n")
}

func renderMap(b *strings.Builder, m Map, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, `<map mr="%s" vaddr="%s" perms="%s" cached="%s"`,
		m.MRName, hex(m.Vaddr), m.Perms.String(), boolStr(m.Cached))
	if m.SetVarSymbol != "" {
		fmt.Fprintf(b, ` setvar_vaddr="%s"`, m.SetVarSymbol)
	}
	b.WriteString(" />\n")
}

func renderPD(b *strings.Builder, pd *ProtectionDomain, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, `<protection_domain name="%s"`, pd.Name)
	if pd.ID != nil {
		fmt.Fprintf(b, ` id="%d"`, *pd.ID)
	}
	fmt.Fprintf(b, ` priority="%d" budget="%d" period="%d" passive="%s" stack_size="%s" smc="%s">`+"\n",
		pd.Priority, pd.Budget, pd.Period, boolStr(pd.Passive), hex(pd.StackSize), boolStr(pd.SMC))

	if pd.ProgramImage != "" {
		indent(b, depth+1)
		fmt.Fprintf(b, `<program_image path="%s" />`+"\n", pd.ProgramImage)
	}
	for _, m := range pd.Maps {
		renderMap(b, m, depth+1)
	}
	for _, child := range pd.Children {
		renderPD(b, child, depth+1)
	}
	if pd.VM != nil {
		renderVM(b, pd.VM, depth+1)
	}
	for _, irq := range pd.Interrupts {
		indent(b, depth+1)
		id := uint8(0)
		if irq.ID != nil {
			id = *irq.ID
		}
		fmt.Fprintf(b, `<irq irq="%d" trigger="%s" id="%d"/>`+"\n", irq.Irq.Number, irq.Irq.Trigger, id)
	}
	for _, sv := range pd.Setvars {
		indent(b, depth+1)
		fmt.Fprintf(b, `<setvar symbol="%s" region_paddr="%s"/>`+"\n", sv.Symbol, sv.MRName)
	}

	indent(b, depth)
	b.WriteString("</protection_domain>\n")
}

func renderVM(b *strings.Builder, vm *VirtualMachine, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, `<virtual_machine name="%s" priority="%d" budget="%d" period="%d">`+"\n",
		vm.Name, vm.Priority, vm.Budget, vm.Period)

	for _, vcpu := range vm.Vcpus {
		indent(b, depth+1)
		cpu := 0
		if vcpu.CPUAffinity != nil {
			cpu = *vcpu.CPUAffinity
		}
		fmt.Fprintf(b, `<vcpu id="%d" cpu="%d"/>`+"\n", vcpu.ID, cpu)
	}
	for _, m := range vm.Maps {
		renderMap(b, m, depth+1)
	}

	indent(b, depth)
	b.WriteString("</virtual_machine>\n")
}

func renderChannel(b *strings.Builder, ch *Channel, depth int) {
	indent(b, depth)
	b.WriteString("<channel>\n")
	renderChannelEnd(b, ch.A, depth+1)
	renderChannelEnd(b, ch.B, depth+1)
	indent(b, depth)
	b.WriteString("</channel>\n")
}

func renderChannelEnd(b *strings.Builder, end ChannelEnd, depth int) {
	indent(b, depth)
	fmt.Fprintf(b, `<end pd="%s" id="%d" notify="%s" pp="%s"/>`+"\n",
		end.PD.Name, end.ID, boolStr(end.Notify), boolStr(end.PPC))
}
