package sdf

import "fmt"

// Error is a typed composer error carrying the entity name needed to locate
// the failure in the input, following the same Is/Unwrap sentinel
// convention as pkg/apierror.Error.
type Error struct {
	Code    string
	Message string
	Entity  string
	Cause   error
}

func (e *Error) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is compares by Code only, so callers can test against the package-level
// sentinels below regardless of Entity/Cause.
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

func newErr(code, message, entity string) *Error {
	return &Error{Code: code, Message: message, Entity: entity}
}

// Sentinels for errors.Is comparison.
var (
	ErrAlreadyAllocatedID = &Error{Code: "AlreadyAllocatedId", Message: "id already allocated"}
	ErrNoMoreIDs          = &Error{Code: "NoMoreIds", Message: "no free ids in [0, 62)"}
	ErrInvalidMap         = &Error{Code: "InvalidMap", Message: "write-only maps are not permitted"}
	ErrInvalidBudget      = &Error{Code: "InvalidBudget", Message: "budget must not exceed period"}
	ErrDuplicateName      = &Error{Code: "DuplicateName", Message: "name already used in this system description"}
	ErrVMAlreadySet       = &Error{Code: "VMAlreadySet", Message: "protection domain already owns a virtual machine"}
	ErrUnknownMemoryRegion = &Error{Code: "UnknownMemoryRegion", Message: "memory region not found"}
)
