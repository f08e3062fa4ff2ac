package health

import "github.com/janisto/cicd-demo-api/internal/platform/timeutil"

// StatusHealthy is the only status the endpoint reports: answering at all means healthy.
const StatusHealthy = "healthy"

// Report is the health payload.
type Report struct {
	Status    string        `json:"status" doc:"Service health" example:"healthy"`
	Timestamp timeutil.Time `json:"timestamp" doc:"Server time when the check ran"`
	Uptime    float64       `json:"uptime" doc:"Seconds since process start" example:"12.345"`
}

// Output wraps Report for huma.
type Output struct {
	Body Report
}
