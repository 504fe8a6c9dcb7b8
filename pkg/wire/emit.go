package wire

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MaxClients is the per-subsystem client bound enforced by the composition
// engine and the fixed client-array capacity every Virt record below
// allocates.
const MaxClients = 61

// Record is a fixed-layout packed configuration record ready to be written
// to a <subsystem>_<component>.data file.
type Record interface {
	MarshalBinary() []byte
}

// Emit writes rec's packed bytes to <dir>/<subsystem>_<component>.data. When
// debug is true it additionally writes a pretty-printed JSON sibling at the
// same path with a .json extension, for local inspection — the record
// struct's exported fields double as the JSON projection.
func Emit(dir, subsystem, component string, rec Record, debug bool) error {
	base := filepath.Join(dir, fmt.Sprintf("%s_%s", subsystem, component))

	if err := os.WriteFile(base+".data", rec.MarshalBinary(), 0o644); err != nil {
		return fmt.Errorf("wire: write %s.data: %w", base, err)
	}

	if debug {
		pretty, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("wire: marshal %s.json: %w", base, err)
		}
		if err := os.WriteFile(base+".json", pretty, 0o644); err != nil {
			return fmt.Errorf("wire: write %s.json: %w", base, err)
		}
	}
	return nil
}
