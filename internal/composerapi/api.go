// Package composerapi is the JSON HTTP contract for the browser-hosted
// visual editor: a small gin API wrapping the composer core so the editor
// can post a system graph and get back validation results or rendered XML.
// The core itself (pkg/sdf, pkg/devicetree, pkg/subsystem, pkg/wire) never
// touches the network; this package is a separate, optional process
// boundary around it, exactly as cmd/jvp was a boundary around the
// teacher's services.
package composerapi

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// API owns the gin engine and the http.Server wrapping it.
type API struct {
	engine *gin.Engine
	server *http.Server

	system *System
}

// New builds the API with routes registered under /api.
func New(addr string) (*API, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.Default()
	api := &API{
		engine: engine,
		system: NewSystem(),
	}

	apiGroup := engine.Group("/api")
	api.system.RegisterRoutes(apiGroup)

	printRoutes(engine)

	if addr == "" {
		addr = ":8080"
	}
	api.server = &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	return api, nil
}

func printRoutes(engine *gin.Engine) {
	routes := engine.Routes()
	if len(routes) == 0 {
		return
	}

	fmt.Fprintf(os.Stdout, "\n[composerapi routes]\n")
	fmt.Fprintf(os.Stdout, "Method   Path\n")
	fmt.Fprintf(os.Stdout, "----------------------------\n")
	for _, route := range routes {
		fmt.Fprintf(os.Stdout, "%-8s %s\n", route.Method, route.Path)
	}
	fmt.Fprintf(os.Stdout, "\n")
}

// Run implements grace.Grace: it serves until ctx is cancelled or the
// server fails to start.
func (a *API) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown implements grace.Grace.
func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name implements grace.Grace.
func (a *API) Name() string {
	return "composerapi"
}
