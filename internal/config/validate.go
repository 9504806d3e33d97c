package config

import (
	"net/url"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// Validate ensures the request is complete and consistent. Required fields
// are checked in catalog order and the first missing one is reported.
func (u Upgrade) Validate() error {
	for _, f := range fields {
		if f.Required && u.value(f.Key) == "" {
			return &MissingFieldError{Field: f.Flag}
		}
	}

	if !isHTTPURL(u.URL) {
		return &InvalidFieldError{Field: "url", Reason: messages.ConfigURLInvalid}
	}
	if !isHTTPURL(u.RegistryURL) {
		return &InvalidFieldError{Field: "registry-url", Reason: messages.ConfigURLInvalid}
	}
	if (u.DockerUser == "") != (u.DockerPass == "") {
		return &InvalidFieldError{Field: "docker-user", Reason: messages.ConfigDockerCredentialsPair}
	}
	if u.HTTPTimeout <= 0 {
		return &InvalidFieldError{Field: "timeout", Reason: messages.ConfigPositiveRequired}
	}
	if u.DeployTimeout < 0 {
		return &InvalidFieldError{Field: "deploy-timeout", Reason: messages.ConfigNonNegativeRequired}
	}
	if u.RegistryConcurrency <= 0 {
		return &InvalidFieldError{Field: "concurrency", Reason: messages.ConfigPositiveRequired}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
