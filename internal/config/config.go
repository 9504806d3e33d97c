// Package config resolves the settings of one upgrade run from flags, an
// optional config file and the environment.
package config

import (
	"time"

	"github.com/conn-castle/rancher-client/internal/compose"
	"github.com/conn-castle/rancher-client/internal/deploy"
	"github.com/conn-castle/rancher-client/internal/rancher"
	"github.com/conn-castle/rancher-client/internal/registry"
)

// Defaults applied after every layer has been consulted.
const (
	DefaultRegistryURL   = registry.DefaultURL
	DefaultComposeFile   = compose.DefaultFile
	DefaultComposeBinary = deploy.DefaultBinary
	DefaultWorkDir       = "."
	DefaultHTTPTimeout   = rancher.DefaultTimeout
	DefaultDeployTimeout = deploy.DefaultTimeout
	DefaultConcurrency   = registry.DefaultConcurrency
)

// Upgrade is the resolved request for one upgrade run. It is built once by
// Resolve and treated as read-only afterwards.
type Upgrade struct {
	Environment string
	Stack       string
	URL         string
	AccessKey   string
	SecretKey   string
	// Services is empty when every service in the stack should be upgraded.
	Services   []string
	Tag        string
	DockerUser string
	DockerPass string

	RegistryURL         string
	DryRun              bool
	WorkDir             string
	ComposeFile         string
	ComposeBinary       string
	HTTPTimeout         time.Duration
	DeployTimeout       time.Duration
	RegistryConcurrency int
	Confirm             bool
}

// HasRegistryCredentials reports whether new tags should be verified
// against the registry before the compose file is written.
func (u Upgrade) HasRegistryCredentials() bool {
	return u.DockerUser != "" && u.DockerPass != ""
}

// Values is one layer of settings (flags, config file or environment).
// A nil field is unset and falls through to the next layer.
type Values struct {
	Environment   *string   `json:"environment,omitempty" yaml:"environment,omitempty" toml:"environment,omitempty"`
	Stack         *string   `json:"stack,omitempty" yaml:"stack,omitempty" toml:"stack,omitempty"`
	URL           *string   `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	AccessKey     *string   `json:"access_key,omitempty" yaml:"access_key,omitempty" toml:"access_key,omitempty"`
	SecretKey     *string   `json:"secret_key,omitempty" yaml:"secret_key,omitempty" toml:"secret_key,omitempty"`
	Services      []string  `json:"services,omitempty" yaml:"services,omitempty" toml:"services,omitempty"`
	Tag           *string   `json:"tag,omitempty" yaml:"tag,omitempty" toml:"tag,omitempty"`
	DockerUser    *string   `json:"docker_user,omitempty" yaml:"docker_user,omitempty" toml:"docker_user,omitempty"`
	DockerPass    *string   `json:"docker_pass,omitempty" yaml:"docker_pass,omitempty" toml:"docker_pass,omitempty"`
	DryRun        *bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty" toml:"dry_run,omitempty"`
	RegistryURL   *string   `json:"registry_url,omitempty" yaml:"registry_url,omitempty" toml:"registry_url,omitempty"`
	WorkDir       *string   `json:"work_dir,omitempty" yaml:"work_dir,omitempty" toml:"work_dir,omitempty"`
	ComposeFile   *string   `json:"compose_file,omitempty" yaml:"compose_file,omitempty" toml:"compose_file,omitempty"`
	ComposeBinary *string   `json:"compose_bin,omitempty" yaml:"compose_bin,omitempty" toml:"compose_bin,omitempty"`
	Timeout       *Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	DeployTimeout *Duration `json:"deploy_timeout,omitempty" yaml:"deploy_timeout,omitempty" toml:"deploy_timeout,omitempty"`
	Concurrency   *int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
	Confirm       *bool     `json:"confirm,omitempty" yaml:"confirm,omitempty" toml:"confirm,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("45s", "10m")
// in config files.
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DurationPtr returns a pointer to v as a Duration.
func DurationPtr(v time.Duration) *Duration {
	d := Duration(v)
	return &d
}
