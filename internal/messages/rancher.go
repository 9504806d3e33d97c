package messages

// Rancher API messages.
const (
	// RancherBaseURLRequired indicates the API client was built without an endpoint.
	RancherBaseURLRequired     = "rancher API url is required"
	RancherCreateRequestFmt    = "create request for %s: %w"
	RancherTransportFmt        = "request %s: %v"
	RancherUnexpectedStatusFmt = "request %s: bad status code: %d"
	RancherMalformedFmt        = "bad %s response: %s"
	RancherMissingDataArray    = "missing data array"
	RancherReadBodyFmt         = "read response body: %w"
	RancherResponseTooLargeFmt = "response larger than %d bytes"
	RancherNotFoundFmt         = "couldn't find matching %s %q"
	RancherNotFoundAnyFmt      = "couldn't find any %s"
	RancherMissingLinkFmt      = "%s %q has no %s link"
	RancherDuplicateNameFmt    = "%d %s entries named %q; using the first (id %s)"
)
