package composerapi

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/sdfgen/pkg/ginx"
	"github.com/jimyag/sdfgen/pkg/idgen"
)

// System fronts the composer core for the JSON-driven visual editor: one
// HTTP request carries one whole system graph, built, validated, and
// optionally rendered in the same call, matching the core's single-shot
// compose-and-emit contract.
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (s *System) RegisterRoutes(router *gin.RouterGroup) {
	sysRouter := router.Group("/system")
	sysRouter.POST("/compose", ginx.Adapt(s.Compose))
	sysRouter.POST("/validate", ginx.Adapt(s.Validate))
	sysRouter.POST("/render", ginx.Adapt(s.Render))
}

// Compose builds the system description, validates it, and returns the
// rendered XML in one call — the HTTP analogue of one `sdfgen` invocation.
func (s *System) Compose(ctx *gin.Context, req *SystemRequest) (*RenderResponse, error) {
	logger := zerolog.Ctx(ctx)
	composeID, idErr := idgen.GenerateComposeID()
	if idErr != nil {
		composeID = ""
	}
	logger.Info().Str("compose_id", composeID).Int("pd_count", len(req.ProtectionDomains)).Msg("Compose called")

	sys, err := buildSystem(req)
	if err != nil {
		logger.Error().Err(err).Str("compose_id", composeID).Msg("failed to build system")
		return nil, translateError(err)
	}
	if err := sys.Validate(); err != nil {
		logger.Error().Err(err).Str("compose_id", composeID).Msg("system failed validation")
		return nil, translateError(err)
	}

	xml := sys.Render()
	logger.Info().Str("compose_id", composeID).Int("xml_bytes", len(xml)).Msg("Compose succeeded")
	return &RenderResponse{ComposeID: composeID, XML: xml}, nil
}

// Validate runs the preflight pass without rendering anything.
func (s *System) Validate(ctx *gin.Context, req *SystemRequest) (*ValidateResponse, error) {
	logger := zerolog.Ctx(ctx)
	composeID, idErr := idgen.GenerateComposeID()
	if idErr != nil {
		composeID = ""
	}

	sys, err := buildSystem(req)
	if err != nil {
		logger.Error().Err(err).Str("compose_id", composeID).Msg("failed to build system")
		return &ValidateResponse{ComposeID: composeID, Valid: false, Error: err.Error()}, nil
	}
	if err := sys.Validate(); err != nil {
		logger.Info().Err(err).Str("compose_id", composeID).Msg("system failed validation")
		return &ValidateResponse{ComposeID: composeID, Valid: false, Error: err.Error()}, nil
	}

	logger.Info().Str("compose_id", composeID).Msg("system passed validation")
	return &ValidateResponse{ComposeID: composeID, Valid: true}, nil
}

// Render rebuilds the system and returns only its rendered XML, skipping
// the explicit Validate() preflight: the caller has already validated
// elsewhere, or accepts only the fail-fast errors building the system
// reports.
func (s *System) Render(ctx *gin.Context, req *SystemRequest) (*RenderResponse, error) {
	logger := zerolog.Ctx(ctx)
	composeID, idErr := idgen.GenerateComposeID()
	if idErr != nil {
		composeID = ""
	}

	sys, err := buildSystem(req)
	if err != nil {
		logger.Error().Err(err).Str("compose_id", composeID).Msg("failed to build system")
		return nil, translateError(err)
	}

	xml := sys.Render()
	return &RenderResponse{ComposeID: composeID, XML: xml}, nil
}
