package driverdb

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice, RegionSlice, and IrqSlice round-trip through gorm's sqlite
// backend as JSON text columns, storing composite fields without a join
// table.

type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s)
}

type RegionSlice []RegionDescriptor

func (r RegionSlice) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RegionSlice) Scan(value interface{}) error {
	return scanJSON(value, r)
}

type IrqSlice []IrqDescriptor

func (s IrqSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *IrqSlice) Scan(value interface{}) error {
	return scanJSON(value, s)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("driverdb: unsupported scan type %T", value)
	}
}
