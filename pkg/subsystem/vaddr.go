package subsystem

import "github.com/jimyag/sdfgen/pkg/arch"

// autoVaddrBase is the fixed starting point for every subsystem's
// auto-picked virtual addresses. Not guaranteed to avoid user-installed
// fixed maps at higher addresses.
const autoVaddrBase = 0x20_000_000

// VaddrAllocator hands out non-overlapping virtual addresses for
// auto-placed maps, growing monotonically by each region's page-rounded
// size. One allocator is shared per participant address space (driver,
// virt, each client have their own).
type VaddrAllocator struct {
	next uint64
}

// NewVaddrAllocator creates an allocator starting at autoVaddrBase.
func NewVaddrAllocator() *VaddrAllocator {
	return &VaddrAllocator{next: autoVaddrBase}
}

// Alloc reserves size bytes (rounded up to page) and returns the vaddr it
// was placed at.
func (v *VaddrAllocator) Alloc(size, page uint64) uint64 {
	addr := v.next
	v.next = addr + arch.RoundUpToPage(size, page)
	return addr
}
