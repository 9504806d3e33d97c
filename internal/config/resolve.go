package config

import (
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Merge combines layers, highest precedence first: for every field the
// first layer that sets it wins.
func Merge(layers ...Values) Values {
	var merged Values
	for _, f := range fields {
		dst := merged.stringField(f.Key)
		for i := range layers {
			if src := *layers[i].stringField(f.Key); src != nil {
				*dst = src
				break
			}
		}
	}
	for _, layer := range layers {
		if len(layer.Services) > 0 {
			merged.Services = layer.Services
			break
		}
	}
	merged.DryRun = first(layers, func(v Values) *bool { return v.DryRun })
	merged.Confirm = first(layers, func(v Values) *bool { return v.Confirm })
	merged.Timeout = first(layers, func(v Values) *Duration { return v.Timeout })
	merged.DeployTimeout = first(layers, func(v Values) *Duration { return v.DeployTimeout })
	merged.Concurrency = first(layers, func(v Values) *int { return v.Concurrency })
	return merged
}

func first[T any](layers []Values, get func(Values) *T) *T {
	for _, layer := range layers {
		if value := get(layer); value != nil {
			return value
		}
	}
	return nil
}

// Resolve merges flags over the config file over the environment, applies
// defaults and validates the result.
func Resolve(flags Values, file Values, env Values) (Upgrade, error) {
	merged := Merge(flags, file, env)

	req := Upgrade{
		Environment:         str(merged.Environment, ""),
		Stack:               str(merged.Stack, ""),
		URL:                 strings.TrimRight(str(merged.URL, ""), "/"),
		AccessKey:           str(merged.AccessKey, ""),
		SecretKey:           str(merged.SecretKey, ""),
		Services:            SplitServices(merged.Services),
		Tag:                 str(merged.Tag, ""),
		DockerUser:          str(merged.DockerUser, ""),
		DockerPass:          str(merged.DockerPass, ""),
		RegistryURL:         str(merged.RegistryURL, DefaultRegistryURL),
		WorkDir:             str(merged.WorkDir, DefaultWorkDir),
		ComposeFile:         str(merged.ComposeFile, DefaultComposeFile),
		ComposeBinary:       str(merged.ComposeBinary, DefaultComposeBinary),
		HTTPTimeout:         dur(merged.Timeout, DefaultHTTPTimeout),
		DeployTimeout:       dur(merged.DeployTimeout, DefaultDeployTimeout),
		RegistryConcurrency: DefaultConcurrency,
	}
	if merged.DryRun != nil {
		req.DryRun = *merged.DryRun
	}
	if merged.Confirm != nil {
		req.Confirm = *merged.Confirm
	}
	if merged.Concurrency != nil {
		req.RegistryConcurrency = *merged.Concurrency
	}

	workDir, err := homedir.Expand(req.WorkDir)
	if err != nil {
		return Upgrade{}, &InvalidFieldError{Field: "work-dir", Reason: err.Error()}
	}
	req.WorkDir = workDir

	if err := req.Validate(); err != nil {
		return Upgrade{}, err
	}
	return req, nil
}

// SplitServices flattens comma separated entries ("api,worker") and drops
// blanks and repeats, keeping first-seen order.
func SplitServices(values []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func str(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func dur(value *Duration, fallback time.Duration) time.Duration {
	if value == nil {
		return fallback
	}
	return time.Duration(*value)
}
