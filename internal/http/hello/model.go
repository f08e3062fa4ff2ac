package hello

import "github.com/janisto/cicd-demo-api/internal/platform/timeutil"

// DefaultName is greeted when the name parameter is absent or empty.
const DefaultName = "DevOps"

// Greeting is the payload of GET /api/hello.
type Greeting struct {
	Message   string        `json:"message" doc:"Greeting message" example:"Hello, DevOps!"`
	Timestamp timeutil.Time `json:"timestamp" doc:"Server time when the greeting was made"`
}

// GetOutput wraps Greeting for huma.
type GetOutput struct {
	Body Greeting
}
