package hello

// GetInput carries the optional name query parameter.
type GetInput struct {
	Name string `query:"name" doc:"Name to greet" example:"Test" default:"DevOps"`
}
