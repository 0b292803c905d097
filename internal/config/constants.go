package config

// Error messages
const (
	ErrMsgParseEnvFailed  = "failed to parse environment"
	ErrMsgAPIKeyMissing   = "API_KEY environment variable must be set for security"
	ErrMsgInvalidPort     = "PORT must be between 1 and 65535, got %d"
	ErrMsgInvalidWorkers  = "WORKER_COUNT must be positive, got %d"
	ErrMsgInvalidInterval = "%s must be positive"
)

// Warnings
const (
	WarnMsgDefaultDBPassword = "DB_PASSWORD is using the default value - set a secure password"
	WarnMsgExampleAPIKey     = "API_KEY appears to be the example value - generate one with: openssl rand -hex 32"
	WarnMsgDiscordDisabled   = "DISCORD_TOKEN is not set - the Discord gateway will not start"
)

const (
	exampleAPIKey     = "generate_with_openssl_rand_hex_32"
	defaultDBPassword = "postgres"
)
