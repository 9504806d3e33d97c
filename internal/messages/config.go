package messages

// Config messages for configuration loading and validation.
const (
	// ConfigReadFileFmt formats config file read errors.
	ConfigReadFileFmt           = "failed to read config %s: %w"
	ConfigInvalidFileFmt        = "invalid config %s: %w"
	ConfigUnsupportedTypeFmt    = "invalid configuration type: %s (use .json, .yml, .yaml or .toml)"
	ConfigExpandPathFmt         = "expand path %s: %w"
	ConfigMissingRequiredFmt    = "missing required argument '%s'"
	ConfigInvalidFieldFmt       = "invalid %s: %s"
	ConfigPositiveRequired      = "must be greater than zero"
	ConfigNonNegativeRequired   = "must not be negative"
	ConfigDockerCredentialsPair = "docker_user and docker_pass must be given together"
	ConfigURLInvalid            = "must be an http or https URL"
	ConfigValidationGuidanceFmt = "%w (check flags, --config and RANCHER_* environment variables)"
	ConfigEnvFileReadFmt        = "failed to read env file %s: %w"
	ConfigEnvFileInvalidFmt     = "invalid env file %s: %w"
	ConfigEnvFileIgnoredKeyFmt  = "ignoring %s from %s: only RANCHER_* and DOCKER_* keys are used"
)
