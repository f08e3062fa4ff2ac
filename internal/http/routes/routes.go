// Package routes registers every public operation on a huma API.
package routes

import (
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/cicd-demo-api/internal/http/health"
	"github.com/janisto/cicd-demo-api/internal/http/hello"
	"github.com/janisto/cicd-demo-api/internal/http/info"
	"github.com/janisto/cicd-demo-api/internal/http/root"
)

// Deps are the read-only values the handlers report.
type Deps struct {
	Version     string
	Environment string
	// Started is the reference point for uptime; zero means process start.
	Started time.Time
	// Now defaults to time.Now.
	Now func() time.Time
}

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, deps Deps) {
	root.Register(api, deps.Version, deps.Environment)
	health.Register(api, health.Options{Started: deps.Started, Now: deps.Now})
	hello.Register(api, deps.Now)
	info.Register(api)
}
