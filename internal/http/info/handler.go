// Package info reports runtime details of the serving process.
package info

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
	"github.com/janisto/cicd-demo-api/internal/platform/procinfo"
)

// Register wires GET /info into api.
func Register(api huma.API) {
	rt := procinfo.ReadRuntime()
	huma.Get(api, "/info", func(ctx context.Context, _ *struct{}) (*Output, error) {
		mem := procinfo.ReadMemory()
		applog.LogInfo(ctx, "runtime info", zap.Uint64("heapUsed", mem.HeapUsed))
		return &Output{Body: RuntimeInfo{
			NodeVersion: rt.Version,
			Platform:    rt.Platform,
			Memory:      mem,
			PID:         rt.PID,
		}}, nil
	}, func(op *huma.Operation) {
		op.OperationID = "get-info"
		op.Summary = "Runtime information"
		op.Tags = []string{"system"}
	})
}
