package composerapi

import (
	"github.com/jimyag/sdfgen/pkg/apierror"
	"github.com/jimyag/sdfgen/pkg/devicetree"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/subsystem"
)

func newBadRequest(message string) *apierror.Error {
	return apierror.NewErrorWithStatus("InvalidRequest", message, 400)
}

// translateError maps one of the composer core's typed errors onto the
// stable apierror.Error codes defined in pkg/apierror/server.go, so an HTTP
// caller sees the same Code regardless of which internal package raised it.
// Anything else (a bug, not a composer-domain failure) falls back to a
// generic 500.
func translateError(err error) *apierror.Error {
	if err == nil {
		return nil
	}

	var code, message string
	switch e := err.(type) {
	case *sdf.Error:
		code, message = e.Code, e.Error()
	case *subsystem.Error:
		code, message = e.Code, e.Error()
	case *devicetree.Error:
		code, message = e.Code, e.Error()
	case *driverdb.Error:
		code, message = e.Code, e.Error()
	case *apierror.Error:
		return e
	default:
		return apierror.NewErrorWithRaw("InternalError", err.Error(), err)
	}

	for _, known := range apierrorCodes {
		if known.Code == code {
			return apierror.WrapError(known, message, err)
		}
	}
	return apierror.NewErrorWithRawAndStatus(code, message, 400, err)
}

var apierrorCodes = []*apierror.Error{
	apierror.ErrAlreadyAllocatedID,
	apierror.ErrNoMoreIDs,
	apierror.ErrDuplicateClient,
	apierror.ErrInvalidClient,
	apierror.ErrDuplicateCopier,
	apierror.ErrDuplicateMacAddr,
	apierror.ErrInvalidMacAddr,
	apierror.ErrInvalidBeginString,
	apierror.ErrInvalidVirt,
	apierror.ErrNotConnected,
	apierror.ErrUnknownDevice,
	apierror.ErrDeviceStatusInvalid,
	apierror.ErrInvalidConfig,
	apierror.ErrInvalidInterruptCells,
	apierror.ErrInvalidUio,
	apierror.ErrInvalidVirtioDevice,
	apierror.ErrInvalidPassthroughRegions,
	apierror.ErrInvalidPassthroughIrqs,
	apierror.ErrMissingInitrd,
	apierror.ErrMissingMemoryNode,
	apierror.ErrMissingGicNode,
	apierror.ErrInvalidMemoryNode,
	apierror.ErrInvalidInitrd,
	apierror.ErrCouldNotAllocateDtb,
	apierror.ErrUnsupportedArch,
}
