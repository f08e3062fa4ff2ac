package info

import "github.com/janisto/cicd-demo-api/internal/platform/procinfo"

// RuntimeInfo is the payload of GET /info. The nodeVersion key is kept for
// existing clients; it carries the Go runtime version.
type RuntimeInfo struct {
	NodeVersion string          `json:"nodeVersion" doc:"Runtime version" example:"go1.25.5"`
	Platform    string          `json:"platform" doc:"Operating system" example:"linux"`
	Memory      procinfo.Memory `json:"memory" doc:"Memory usage snapshot in bytes"`
	PID         int             `json:"pid" doc:"Process ID" example:"1"`
}

// Output wraps RuntimeInfo for huma.
type Output struct {
	Body RuntimeInfo
}
