// Package updatewarn reports whether a newer rancher-client release exists.
package updatewarn

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/rancher-client/internal/messages"
	"github.com/conn-castle/rancher-client/internal/update"
)

// EnvNoNetwork disables the release check when set to any non-empty value.
const EnvNoNetwork = "RANCHER_CLIENT_NO_NETWORK"

// CheckForUpdate is a seam for tests.
var CheckForUpdate = update.Check

// Report checks for a newer release and prints the outcome to w.
// It is best effort and never returns an error: a failed check is printed
// as a warning.
func Report(ctx context.Context, currentVersion string, w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	warnColor := color.New(color.FgYellow)
	if strings.TrimSpace(os.Getenv(EnvNoNetwork)) != "" {
		_, _ = warnColor.Fprintf(w, messages.VersionCheckDisabledFmt, EnvNoNetwork)
		return
	}

	result, err := CheckForUpdate(ctx, currentVersion)
	if err != nil {
		_, _ = warnColor.Fprintf(w, messages.VersionCheckFailedFmt, err)
		return
	}
	switch {
	case result.CurrentIsDev:
		_, _ = warnColor.Fprintf(w, messages.VersionDevBuildFmt, result.Latest)
	case result.Outdated:
		_, _ = warnColor.Fprintf(w, messages.VersionUpdateAvailableFmt, result.Latest, result.Current)
	default:
		_, _ = color.New(color.FgGreen).Fprintf(w, messages.VersionUpToDateFmt, result.Current)
	}
}
