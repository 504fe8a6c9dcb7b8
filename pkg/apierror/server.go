package apierror

// Composer error codes, one per entry of the error taxonomy. These are the
// stable Codes used when an internal sentinel error (pkg/sdf, pkg/devicetree,
// pkg/subsystem, pkg/driverdb) crosses the internal/composerapi HTTP boundary.
var (
	ErrAlreadyAllocatedID = &Error{Code: "AlreadyAllocatedId", Message: "the requested id is already allocated on this protection domain", HTTPStatus: 409}
	ErrNoMoreIDs          = &Error{Code: "NoMoreIds", Message: "the protection domain's id space (0-61) is exhausted", HTTPStatus: 409}

	ErrDuplicateClient = &Error{Code: "DuplicateClient", Message: "the protection domain is already a client of this subsystem", HTTPStatus: 409}
	ErrInvalidClient   = &Error{Code: "InvalidClient", Message: "the protection domain cannot be added as a client", HTTPStatus: 400}

	ErrDuplicateCopier  = &Error{Code: "DuplicateCopier", Message: "the protection domain is already registered as a copier", HTTPStatus: 409}
	ErrDuplicateMacAddr = &Error{Code: "DuplicateMacAddr", Message: "the MAC address is already assigned to another client", HTTPStatus: 409}
	ErrInvalidMacAddr   = &Error{Code: "InvalidMacAddr", Message: "the MAC address is not a valid 6-octet address", HTTPStatus: 400}

	ErrInvalidBeginString = &Error{Code: "InvalidBeginString", Message: "the serial begin string exceeds the maximum length", HTTPStatus: 400}
	ErrInvalidVirt        = &Error{Code: "InvalidVirt", Message: "the subsystem's virtualiser configuration is invalid", HTTPStatus: 400}

	ErrNotConnected = &Error{Code: "NotConnected", Message: "serialise_config called before connect", HTTPStatus: 409}

	ErrUnknownDevice        = &Error{Code: "UnknownDevice", Message: "no driver descriptor matches the device tree node's compatible strings", HTTPStatus: 404}
	ErrDeviceStatusInvalid  = &Error{Code: "DeviceStatusInvalid", Message: "the device tree node's status is not \"okay\"", HTTPStatus: 400}
	ErrInvalidConfig        = &Error{Code: "InvalidConfig", Message: "the driver descriptor's region geometry does not fit the device tree node", HTTPStatus: 400}
	ErrInvalidInterruptCells = &Error{Code: "InvalidInterruptCells", Message: "the interrupt cell layout is not recognised for this architecture", HTTPStatus: 400}

	ErrInvalidUio                  = &Error{Code: "InvalidUio", Message: "the generic-uio node does not satisfy the single-region, page-aligned contract", HTTPStatus: 400}
	ErrInvalidVirtioDevice         = &Error{Code: "InvalidVirtioDevice", Message: "the virtio-mmio device descriptor is invalid", HTTPStatus: 400}
	ErrInvalidPassthroughRegions   = &Error{Code: "InvalidPassthroughRegions", Message: "a passthrough region index is out of range for the device's reg property", HTTPStatus: 400}
	ErrInvalidPassthroughIrqs      = &Error{Code: "InvalidPassthroughIrqs", Message: "a passthrough irq index is out of range for the device's interrupts property", HTTPStatus: 400}

	ErrMissingInitrd      = &Error{Code: "MissingInitrd", Message: "the device tree's /chosen node has no initrd bounds", HTTPStatus: 400}
	ErrMissingMemoryNode  = &Error{Code: "MissingMemoryNode", Message: "the device tree has no device_type=\"memory\" node", HTTPStatus: 400}
	ErrMissingGicNode     = &Error{Code: "MissinGicNode", Message: "the device tree has no recognised GIC node", HTTPStatus: 400}
	ErrInvalidMemoryNode  = &Error{Code: "InvalidMemoryNode", Message: "the memory node's reg property could not be parsed", HTTPStatus: 400}
	ErrInvalidInitrd      = &Error{Code: "InvalidInitrd", Message: "the initrd start/end bounds are inconsistent", HTTPStatus: 400}
	ErrCouldNotAllocateDtb = &Error{Code: "CouldNotAllocateDtb", Message: "no page-aligned slot for the guest DTB could be found around the initrd", HTTPStatus: 409}

	ErrUnsupportedArch = &Error{Code: "UnsupportedArch", Message: "the subsystem does not support the system description's target architecture", HTTPStatus: 400}
)
