// Package update asks the release feed whether a newer rancher-client exists.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/conn-castle/rancher-client/internal/messages"
)

const (
	// DefaultReleaseURL is the latest-release endpoint of the rancher-client repository.
	DefaultReleaseURL = "https://api.github.com/repos/conn-castle/rancher-client/releases/latest"
	// EnvReleaseURL points the check at a mirror of the release feed.
	EnvReleaseURL = "RANCHER_CLIENT_RELEASE_URL"

	maxReleaseBody = 1 << 20
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// CheckResult captures the latest release check outcome.
type CheckResult struct {
	Current      string
	Latest       string
	Outdated     bool
	CurrentIsDev bool
}

// Check makes a single request for the latest release and compares it to
// currentVersion. Dev builds are never reported as outdated.
func Check(ctx context.Context, currentVersion string) (CheckResult, error) {
	result := CheckResult{Current: "dev", CurrentIsDev: isDev(currentVersion)}

	var current *semver.Version
	if !result.CurrentIsDev {
		v, err := semver.NewVersion(strings.TrimSpace(currentVersion))
		if err != nil {
			return CheckResult{}, fmt.Errorf(messages.UpdateInvalidCurrentVersionFmt, currentVersion, err)
		}
		current = v
		result.Current = v.String()
	}

	latest, err := latestRelease(ctx, releaseURL())
	if err != nil {
		return CheckResult{}, err
	}
	result.Latest = latest.String()
	if current != nil {
		result.Outdated = current.LessThan(latest)
	}
	return result, nil
}

func releaseURL() string {
	if url := strings.TrimSpace(os.Getenv(EnvReleaseURL)); url != "" {
		return url
	}
	return DefaultReleaseURL
}

type release struct {
	TagName string `json:"tag_name"`
}

func latestRelease(ctx context.Context, url string) (*semver.Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf(messages.UpdateCreateRequestErrFmt, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "rancher-client")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf(messages.UpdateFetchLatestReleaseErrFmt, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(messages.UpdateFetchLatestReleaseStatusFmt, resp.Status)
	}

	var payload release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReleaseBody)).Decode(&payload); err != nil {
		return nil, fmt.Errorf(messages.UpdateDecodeLatestReleaseErrFmt, err)
	}
	tag := strings.TrimSpace(payload.TagName)
	if tag == "" {
		return nil, errors.New(messages.UpdateLatestReleaseMissingTag)
	}
	latest, err := semver.NewVersion(tag)
	if err != nil {
		return nil, fmt.Errorf(messages.UpdateInvalidLatestReleaseTagFmt, payload.TagName, err)
	}
	return latest, nil
}

// isDev reports whether raw names an unreleased build.
func isDev(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed == "dev" || strings.HasPrefix(trimmed, "dev-")
}
