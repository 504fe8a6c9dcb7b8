// Package subsystem implements the composition engine: the shared
// three-phase protocol (init, add_client, connect) that binds a driver, a
// virtualiser, and up to MaxClients clients into a working sDDF subsystem,
// and the per-class specializations (serial, block, i2c, network, timer,
// gpu, filesystem, VMM) on top of it.
package subsystem

import "fmt"

// Error is a typed subsystem composition failure, following the same
// Is/Unwrap sentinel convention as pkg/sdf.Error.
type Error struct {
	Code    string
	Message string
	Detail  string
	Cause   error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func wrapDetail(e *Error, detail string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Detail: detail, Cause: e.Cause}
}

// Sentinels for errors.Is comparison.
var (
	ErrDuplicateClient        = &Error{Code: "DuplicateClient", Message: "client already added to this subsystem"}
	ErrInvalidClient          = &Error{Code: "InvalidClient", Message: "client is the driver or virtualiser, or already present"}
	ErrDuplicateCopier        = &Error{Code: "DuplicateCopier", Message: "copier already added for this client"}
	ErrDuplicateMacAddr       = &Error{Code: "DuplicateMacAddr", Message: "mac address already in use by another client"}
	ErrInvalidMacAddr         = &Error{Code: "InvalidMacAddr", Message: "mac address is not a valid 6-octet address"}
	ErrInvalidBeginString     = &Error{Code: "InvalidBeginString", Message: "begin_str exceeds the 128-byte serial virt-tx capacity"}
	ErrInvalidVirt            = &Error{Code: "InvalidVirt", Message: "serial subsystem requires at least a tx virtualiser"}
	ErrNotConnected           = &Error{Code: "NotConnected", Message: "serialise_config called before connect"}
	ErrTooManyClients         = &Error{Code: "TooManyClients", Message: "subsystem is bounded at 61 clients"}
	ErrAlreadyConnected       = &Error{Code: "AlreadyConnected", Message: "connect already called on this subsystem"}
	ErrInvalidVirtioDevice    = &Error{Code: "InvalidVirtioDevice", Message: "virtio-mmio device record is invalid"}
	ErrInvalidPassthroughRegions = &Error{Code: "InvalidPassthroughRegions", Message: "passthrough device region index out of range"}
	ErrInvalidPassthroughIrqs = &Error{Code: "InvalidPassthroughIrqs", Message: "passthrough device irq index out of range"}
	ErrInvalidInitrd          = &Error{Code: "InvalidInitrd", Message: "initrd bounds are invalid"}
	ErrCouldNotAllocateDtb    = &Error{Code: "CouldNotAllocateDtb", Message: "no page-aligned slot for the device tree blob around the initrd"}
	ErrInvalidUioName         = &Error{Code: "InvalidUioName", Message: "generic-uio device name exceeds the 31-byte vmm config capacity"}
)
