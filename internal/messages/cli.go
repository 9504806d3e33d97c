package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "rancher-client"
	// RootShort is the short description for the root command.
	RootShort      = "Drive rancher-compose upgrades through the Rancher API"
	RootFlagConfig = "Specify a JSON, YAML or TOML configuration to use"
	RootFlagLevel  = "Log level for diagnostic output (debug, info, warn, error)"
	RootFlagDebug  = "Shortcut for --log-level debug"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// VersionUse is the version command name.
	VersionUse                = "version"
	VersionShort              = "Print the version and optionally check for a newer release"
	VersionFlagCheck          = "Check GitHub for a newer release"
	VersionUpdateAvailableFmt = "A newer release is available: %s (current %s)\n"
	VersionUpToDateFmt        = "%s is the latest release\n"
	VersionDevBuildFmt        = "Running a dev build; latest release is %s\n"
	VersionCheckFailedFmt     = "Warning: failed to check for updates: %v\n"
	VersionCheckDisabledFmt   = "Update check skipped: %s is set\n"

	// UpgradeUse is the upgrade command usage line.
	UpgradeUse   = "upgrade [services...]"
	UpgradeShort = "Upgrade services in a Rancher stack with rancher-compose"
	UpgradeLong  = `Resolve the environment and stack through the Rancher API, download the
stack's compose files, optionally point the selected services at a new image
tag (verifying it exists in the registry first) and run a rolling
rancher-compose upgrade, one container at a time.

Services may be given as arguments or comma separated lists. With no
services every service in the stack is upgraded.`

	UpgradeFlagEnvironment   = "Specify an environment name"
	UpgradeFlagStack         = "Specify a stack name"
	UpgradeFlagURL           = "Specify the Rancher API endpoint URL"
	UpgradeFlagAccessKey     = "Specify Rancher API access key"
	UpgradeFlagSecretKey     = "Specify Rancher API secret key"
	UpgradeFlagTag           = "Change the image tag for the given services"
	UpgradeFlagDockerUser    = "Docker Hub user name"
	UpgradeFlagDockerPass    = "Docker Hub password"
	UpgradeFlagDryRun        = "Don't make any actual changes"
	UpgradeFlagRegistryURL   = "Registry API base URL used to verify new tags"
	UpgradeFlagWorkDir       = "Directory the compose files are written to"
	UpgradeFlagComposeFile   = "Name of the compose file to rewrite"
	UpgradeFlagComposeBin    = "rancher-compose executable to run"
	UpgradeFlagTimeout       = "Timeout for each Rancher and registry request"
	UpgradeFlagDeployTimeout = "Timeout for each rancher-compose run (0 disables)"
	UpgradeFlagConcurrency   = "Maximum concurrent registry tag checks"
	UpgradeFlagConfirm       = "Ask for confirmation before running rancher-compose"
	UpgradeFlagEnvFile       = "Load RANCHER_* and DOCKER_* defaults from a dotenv file"
	UpgradeFlagVerbose       = "Stream rancher-compose output to the terminal"

	UpgradeStartFmt                = "Upgrading %s in %s/%s\n"
	UpgradeStageFmt                = "==> %s\n"
	UpgradeAllServices             = "all services"
	UpgradeRewroteFmt              = "Updated %s\n"
	UpgradeSkippedFmt              = "Skipped %s: %s\n"
	UpgradeDryRunHeader            = "Dry run: rancher-compose was not run."
	UpgradeDone                    = "All done."
	UpgradeAborted                 = "Upgrade cancelled."
	UpgradeConfirmTitleFmt         = "Run a rolling upgrade of %s in %s/%s?"
	UpgradeConfirmRequiresTerminal = "--confirm requires an interactive terminal"
)
