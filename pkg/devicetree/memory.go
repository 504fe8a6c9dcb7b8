package devicetree

// MemorySize returns the total size described by root's memory node's reg
// entries, or 0 and false if no memory node exists.
func MemorySize(root *Node) (uint64, bool) {
	mem := Memory(root)
	if mem == nil {
		return 0, false
	}
	var total uint64
	for _, r := range mem.Reg {
		total += r.Size
	}
	return total, true
}

// ChosenFromNode extracts initrd bounds from a /chosen node's properties,
// expecting "linux,initrd-start" and "linux,initrd-end" to have already
// been parsed into the node's Reg as a single synthetic entry by the DTB
// loader (addr = start, size = end-start). This mirrors how the composer's
// DTB front-end hands /chosen to this package without requiring
// pkg/devicetree to know the raw DTB property-cell encoding itself.
func ChosenFromNode(chosen *Node) (*Chosen, error) {
	if chosen == nil || len(chosen.Reg) == 0 {
		return nil, ErrMissingInitrd
	}
	r := chosen.Reg[0]
	return &Chosen{InitrdStart: r.Addr, InitrdEnd: r.Addr + r.Size}, nil
}
