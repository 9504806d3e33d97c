package messages

// Deployment tool messages.
const (
	// DeployStartFailedFmt formats subprocess start failures.
	DeployStartFailedFmt = "failed to start %s: %v"
	DeployExitFmt        = "%s exited with: %d"
	DeployInterruptedFmt = "%s was interrupted: %v"
	DeployTimeoutFmt     = "timed out after %s: %w"
	DeployNoServices     = "no services to deploy"
)
