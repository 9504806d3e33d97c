package messages

// Compose definition messages.
const (
	// ComposeReadFmt formats definition read errors.
	ComposeReadFmt       = "failed to read %s: %w"
	ComposeParseFmt      = "failed to parse %s: %w"
	ComposeNotMappingFmt = "%s: top level must be a mapping of services"
	ComposeWriteFmt      = "failed to write %s: %w"
	ComposeEncodeFmt     = "failed to encode %s: %w"
	ComposeInvalidTagFmt = "invalid image tag %q"
	ComposeApplyTagFmt   = "apply tag %q to %s: %w"
	ComposeTagRequired   = "image tag is required"
	ComposeSkipNoService = "service is not declared in the compose file"
	ComposeSkipNoImage   = "service doesn't use an image"
	ComposeSkipUntagged  = "image has no tag to replace"
)
