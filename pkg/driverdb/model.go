// Package driverdb implements the driver catalogue probe: it scans an sDDF
// repository tree for per-device-class config.json descriptors, caches them
// in an in-memory database for the lifetime of one compose, and resolves a
// device tree node's compatible strings to the matching descriptor.
package driverdb

// Class names the standard device-driver subsystem kind a descriptor
// belongs to.
type Class string

const (
	ClassBlock  Class = "block"
	ClassSerial Class = "serial"
	ClassI2C    Class = "i2c"
	ClassNet    Class = "network"
	ClassTimer  Class = "timer"
	ClassGPU    Class = "gpu"
	ClassFS     Class = "fs"
	ClassVMM    Class = "vmm"
)

// RegionDescriptor describes one abstract MMIO region a driver needs
// mapped, by its index into the device tree node's reg property.
type RegionDescriptor struct {
	Name       string `json:"name"`
	RegIndex   int    `json:"reg_index"`
	Size       uint64 `json:"size"`
	Cached     bool   `json:"cached"`
	Perms      string `json:"perms"`
	SetvarName string `json:"setvar_name,omitempty"`
}

// IrqDescriptor describes one abstract interrupt a driver needs
// registered, by its index into the device tree node's interrupts property.
type IrqDescriptor struct {
	Name    string `json:"name"`
	DTIndex int    `json:"dt_index"`
}

// Descriptor is the parsed form of one driver's config.json: the set of
// compatible strings it claims, and the abstract regions/irqs the
// subsystem composer must translate and install.
type Descriptor struct {
	ID          uint         `gorm:"primarykey" json:"-"`
	Class       Class        `gorm:"index" json:"class"`
	Compatible  StringSlice  `gorm:"type:text" json:"compatible"`
	Regions     RegionSlice  `gorm:"type:text" json:"regions"`
	Irqs        IrqSlice     `gorm:"type:text" json:"irqs"`
	SourcePath  string       `json:"-"`
}

// TableName pins the gorm table name rather than letting gorm pluralise
// "Descriptor" (kept explicit because the table is never migrated from a
// model package shared with other consumers).
func (Descriptor) TableName() string {
	return "descriptors"
}
