package devicetree

import "fmt"

// Error is a typed device-tree query/translation failure, following the
// same Is/Unwrap sentinel convention as pkg/sdf.Error and pkg/apierror.Error.
type Error struct {
	Code    string
	Message string
	Node    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (node %s)", e.Code, e.Message, e.Node)
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

func wrapNode(e *Error, node string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Node: node, Cause: e.Cause}
}

// Sentinels for errors.Is comparison.
var (
	ErrInvalidInterruptCells = &Error{Code: "InvalidInterruptCells", Message: "unexpected irq-cell layout"}
	ErrInvalidUio            = &Error{Code: "InvalidUio", Message: "uio node failed validation"}
	ErrMissingInitrd         = &Error{Code: "MissingInitrd", Message: "/chosen has no initrd bounds"}
	ErrMissingMemoryNode     = &Error{Code: "MissingMemoryNode", Message: "no descendant node has device_type \"memory\""}
	ErrMissingGicNode        = &Error{Code: "MissingGicNode", Message: "no known GIC compatible found"}
	ErrInvalidMemoryNode     = &Error{Code: "InvalidMemoryNode", Message: "memory node reg property is malformed"}
)
