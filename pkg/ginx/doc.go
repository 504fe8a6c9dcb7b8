// Package ginx adapts the composer's JSON handler functions to gin's
// handler signature. The visual editor posts and receives JSON only (see
// internal/composerapi), so this package exposes a single adapter shape
// instead of a general multi-arity, multi-format family: a handler taking
// a bound, validated request struct and returning a response struct or an
// error.
//
//	router.POST("/system/compose", ginx.Adapt(system.Compose))
//
// where Compose has the signature
//
//	func(ctx *gin.Context, req *SystemRequest) (*RenderResponse, error)
//
// If the request type implements IsValid() error, Adapt calls it after
// binding and before invoking the handler.
package ginx
