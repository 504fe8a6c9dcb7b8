// Package apierror provides the composer's server-boundary error codes —
// stable identifiers, one per entry in the composer's error taxonomy, for
// surfacing pkg/sdf, pkg/devicetree, pkg/subsystem and pkg/driverdb errors to
// HTTP callers of internal/composerapi.
//
// Response format supports both XML and JSON:
//
//	XML:
//	<Response>
//	    <Errors>
//	        <Error>
//	            <Code>UnknownDevice</Code>
//	            <Message>no driver descriptor matches compatible "foo,bar"</Message>
//	        </Error>
//	    </Errors>
//	    <RequestID>compose-123456</RequestID>
//	</Response>
//
//	JSON:
//	{
//	    "errors": [
//	        {"code": "UnknownDevice", "message": "no driver descriptor matches compatible \"foo,bar\""}
//	    ],
//	    "requestID": "compose-123456"
//	}
//
// Usage:
//
//	err := apierror.WrapError(apierror.ErrUnknownDevice, "no match for compatible foo,bar", cause)
//	resp := apierror.NewErrorResponse(composeID, err)
//	c.JSON(http.StatusBadRequest, resp)
package apierror
