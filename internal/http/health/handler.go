// Package health serves the liveness endpoint used by CI smoke tests and load balancers.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
	"github.com/janisto/cicd-demo-api/internal/platform/procinfo"
	"github.com/janisto/cicd-demo-api/internal/platform/timeutil"
)

// Options controls the clock the handler reads. Zero values use the process
// start time and time.Now.
type Options struct {
	Started time.Time
	Now     func() time.Time
}

// Register wires GET /health into api.
func Register(api huma.API, opts Options) {
	if opts.Started.IsZero() {
		opts.Started = procinfo.StartTime()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"system"},
	}, func(ctx context.Context, _ *struct{}) (*Output, error) {
		now := opts.Now()
		uptime := procinfo.Uptime(opts.Started, now)
		applog.LogInfo(ctx, "health check", zap.Float64("uptime", uptime))
		return &Output{Body: Report{
			Status:    StatusHealthy,
			Timestamp: timeutil.NewTime(now),
			Uptime:    uptime,
		}}, nil
	})
}
