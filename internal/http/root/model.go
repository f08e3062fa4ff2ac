package root

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "¡Hola desde Jenkins CI/CD!"

// Welcome is the payload of GET /.
type Welcome struct {
	Message     string `json:"message" doc:"Welcome message" example:"¡Hola desde Jenkins CI/CD!"`
	Version     string `json:"version" doc:"Application version" example:"1.0.0"`
	Environment string `json:"environment" doc:"Deployment environment (NODE_ENV)" example:"development"`
}

// Output wraps Welcome for huma.
type Output struct {
	Body Welcome
}
