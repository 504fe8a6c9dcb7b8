// Package wire implements the binary configuration serialiser: fixed-layout
// packed records, little-endian, with a leading magic byte sequence
// identifying the schema, emitted to <subsystem>_<component>.data files with
// an optional pretty-printed .json sibling.
package wire

// Tag identifies a record's schema within its magic family.
type Tag byte

const (
	TagDevice Tag = 1
	TagBlk    Tag = 2
	TagSerial Tag = 3
	TagI2c    Tag = 4
	TagNet    Tag = 5
	TagTimer  Tag = 6
	TagGpu    Tag = 7
	TagSddfLwip Tag = 8
)

const (
	TagFs  Tag = 1
	TagNfs Tag = 2
)

// sddfMagic returns the 5-byte "sDDF" + tag magic used by driver/virt/client
// records.
func sddfMagic(tag Tag) [5]byte {
	return [5]byte{'s', 'D', 'D', 'F', byte(tag)}
}

// lionsMagic returns the 8-byte "LionsOS" + tag magic used by file-system
// records.
func lionsMagic(tag Tag) [8]byte {
	return [8]byte{'L', 'i', 'o', 'n', 's', 'O', 'S', byte(tag)}
}

// vmmMagic is the fixed 3-byte "vmm" magic the VMM record uses in place of
// the family schemes above.
func vmmMagic() [3]byte {
	return [3]byte{'v', 'm', 'm'}
}
