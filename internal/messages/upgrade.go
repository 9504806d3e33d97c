package messages

// Upgrade pipeline messages.
const (
	// UpgradeServicesNotFoundFmt lists every requested service that is not in the stack.
	UpgradeServicesNotFoundFmt = "services not found: %s"
	UpgradeStageErrFmt         = "%s: %v"
	UpgradeAbortedErr          = "upgrade aborted"
	UpgradeNoServicesSelected  = "no services selected"
	UpgradeRegistryRequired    = "registry client is required to verify tags"
	UpgradeDeployerRequired    = "deployer is required"
	UpgradeAPIRequired         = "rancher API client is required"
	UpgradeFetcherRequired     = "bundle fetcher is required"
)
