// Package root serves the welcome document at GET /.
package root

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
)

// Register wires GET / into api. version and environment are reported verbatim.
func Register(api huma.API, version, environment string) {
	body := Welcome{
		Message:     WelcomeMessage,
		Version:     version,
		Environment: environment,
	}
	huma.Get(api, "/", func(ctx context.Context, _ *struct{}) (*Output, error) {
		applog.LogInfo(ctx, "welcome", zap.String("environment", environment))
		return &Output{Body: body}, nil
	}, func(op *huma.Operation) {
		op.OperationID = "get-welcome"
		op.Summary = "Welcome message"
		op.Tags = []string{"system"}
	})
}
