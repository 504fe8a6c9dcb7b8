package ginx

import "github.com/gin-gonic/gin"

// bindArgs binds the request's JSON body into args. The visual editor is
// the only caller of internal/composerapi and always posts JSON, so this
// does not also try XML, URI, query, or form binding.
func bindArgs(ctx *gin.Context, args interface{}) error {
	return ctx.ShouldBindJSON(args)
}
