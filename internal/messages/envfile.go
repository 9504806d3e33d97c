package messages

// Envfile messages.
const (
	// EnvfileReadFailedFmt formats env file read errors.
	EnvfileReadFailedFmt = "failed to read %s: %w"
	EnvfileParseFmt      = "parse env content: %w"
)
