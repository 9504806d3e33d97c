package messages

// Work directory and lock messages.
const (
	FsutilWorkDirFmt  = "create work dir %s: %w"
	FsutilOpenLockFmt = "open lock %s: %w"
	FsutilLockFmt     = "lock %s: %w"
	// FsutilLockBusyFmt receives the work dir, the holder PID and the wait.
	FsutilLockBusyFmt = "work dir %s is in use by another upgrade (pid %s); gave up after %s"
)
