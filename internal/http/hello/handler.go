// Package hello serves the parameterized greeting.
package hello

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
	"github.com/janisto/cicd-demo-api/internal/platform/timeutil"
)

// Register wires GET /api/hello into api. now defaults to time.Now.
func Register(api huma.API, now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	huma.Register(api, huma.Operation{
		OperationID: "get-hello",
		Method:      http.MethodGet,
		Path:        "/api/hello",
		Summary:     "Greet by name",
		Description: "Greets the name query parameter, or " + DefaultName + " when it is missing or empty.",
		Tags:        []string{"greeting"},
	}, func(ctx context.Context, input *GetInput) (*GetOutput, error) {
		name := input.Name
		if name == "" {
			name = DefaultName
		}
		applog.LogInfo(ctx, "hello get", zap.String("name", name))
		return &GetOutput{Body: Greeting{
			Message:   Message(name),
			Timestamp: timeutil.NewTime(now()),
		}}, nil
	})
}

// Message formats the greeting for name.
func Message(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}
