package messages

// Registry messages.
const (
	// RegistryCredentialsRequired indicates login was attempted without credentials.
	RegistryCredentialsRequired = "registry user name and password are required"
	RegistryTokenRequired       = "no registry token; log in before checking images"
	RegistryLoginFmt            = "registry login: %w"
	RegistryLoginStatusFmt      = "registry login: bad status code: %d"
	RegistryLoginMissingToken   = "JWT token not found in body"
	RegistryAuthErrFmt          = "registry auth: %s"
	RegistryCheckFmt            = "check %s: %w"
	RegistryCheckStatusFmt      = "check %s: bad status code: %d"
	RegistryDecodeFmt           = "check %s: decode response: %w"
	RegistryMissingImagesFmt    = "missing images: %s"
	RegistryNotFoundDetail      = "Not found"
)
