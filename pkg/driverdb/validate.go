package driverdb

import "github.com/jimyag/sdfgen/pkg/arch"

// ValidateRegion checks a driver descriptor's claimed region size against
// the actual device tree region it will be mapped over: the descriptor may
// not claim more than the hardware exposes, and the resulting mapping must
// be page-aligned for a's page size.
func ValidateRegion(a arch.Arch, desc RegionDescriptor, dtRegionSize uint64) error {
	if desc.Size > dtRegionSize {
		return wrapDetail(ErrInvalidConfig, desc.Name)
	}
	if !arch.PageAligned(desc.Size, a.DefaultPageSize()) {
		return wrapDetail(ErrInvalidConfig, desc.Name)
	}
	return nil
}
