package messages

// Compose bundle messages.
const (
	// BundleDirRequired indicates the extraction directory was not provided.
	BundleDirRequired          = "bundle extraction directory is required"
	BundleArchiveErrFmt        = "compose bundle: %v"
	BundleArchiveEntryErrFmt   = "compose bundle entry %s: %v"
	BundleCreateTempFmt        = "create temp file: %w"
	BundleDownloadFmt          = "download %s: %w"
	BundleTooLargeFmt          = "bundle larger than %d bytes"
	BundleOpenZipFmt           = "open archive: %w"
	BundleEntryEscapes         = "entry path escapes the target directory"
	BundleEntryUnsupportedType = "unsupported entry type"
	BundleCreateDirFmt         = "create directory: %w"
	BundleWriteEntryFmt        = "write file: %w"
)
