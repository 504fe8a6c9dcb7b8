package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jimyag/sdfgen/pkg/apierror"
)

// renderResponse writes response as JSON, or 204 if it is nil.
func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// renderError writes err as JSON. An *apierror.Error or *apierror.ErrorResponse
// is serialised using its own HTTPStatus; anything else falls back to
// statusCode with a bare {"error": ...} envelope.
func renderError(ctx *gin.Context, statusCode int, err error) {
	if apiErr, ok := err.(*apierror.Error); ok {
		if apiErr.HTTPStatus > 0 {
			statusCode = apiErr.HTTPStatus
		}
		ctx.JSON(statusCode, apierror.NewErrorResponse("", apiErr))
		return
	}

	if errorResp, ok := err.(*apierror.ErrorResponse); ok {
		if len(errorResp.Errors) > 0 && errorResp.Errors[0].HTTPStatus > 0 {
			statusCode = errorResp.Errors[0].HTTPStatus
		}
		ctx.JSON(statusCode, errorResp)
		return
	}

	ctx.JSON(statusCode, gin.H{"error": err.Error()})
}
