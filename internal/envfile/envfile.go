// Package envfile reads dotenv files that supply environment defaults.
package envfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// Parse reads .env content into a key-value map.
// content is the raw file content; returns parsed key/value pairs or an error.
func Parse(content string) (map[string]string, error) {
	env, err := godotenv.Unmarshal(content)
	if err != nil {
		return nil, fmt.Errorf(messages.EnvfileParseFmt, err)
	}
	return env, nil
}

// Load reads and parses the .env file at path.
// A missing file keeps os.ErrNotExist in the error chain.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, path, err)
	}
	return Parse(string(data))
}

// Filter splits env into the keys carrying one of prefixes and the rest.
// The ignored keys are sorted.
func Filter(env map[string]string, prefixes ...string) (map[string]string, []string) {
	kept := make(map[string]string, len(env))
	var ignored []string
	for key, value := range env {
		if hasAnyPrefix(key, prefixes) {
			kept[key] = value
			continue
		}
		ignored = append(ignored, key)
	}
	sort.Strings(ignored)
	return kept, ignored
}

func hasAnyPrefix(key string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
