package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/conn-castle/rancher-client/internal/envfile"
	"github.com/conn-castle/rancher-client/internal/messages"
)

// envPrefixes limits which dotenv keys reach the environment layer.
var envPrefixes = []string{"RANCHER_", "DOCKER_"}

// LoadFile reads a JSON, YAML or TOML config file. The format follows the
// file extension; unknown keys are rejected.
func LoadFile(path string) (Values, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Values{}, &FileError{Path: path, Err: fmt.Errorf(messages.ConfigExpandPathFmt, path, err)}
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return Values{}, &FileError{Path: path, Err: fmt.Errorf(messages.ConfigReadFileFmt, path, err)}
	}
	return ParseFile(data, path)
}

// ParseFile decodes config data; source supplies the extension and is used
// in error messages.
func ParseFile(data []byte, source string) (Values, error) {
	var (
		values Values
		err    error
	)
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		values, err = decodeJSON(data)
	case ".yml", ".yaml":
		values, err = decodeYAML(data)
	case ".toml":
		values, err = decodeStrict(data)
	default:
		return Values{}, &FileError{Path: source, Err: fmt.Errorf(messages.ConfigUnsupportedTypeFmt, source)}
	}
	if err != nil {
		return Values{}, &FileError{Path: source, Err: fmt.Errorf(messages.ConfigInvalidFileFmt, source, err)}
	}
	return values, nil
}

func decodeJSON(data []byte) (Values, error) {
	var values Values
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return Values{}, err
	}
	return values, nil
}

func decodeYAML(data []byte) (Values, error) {
	var values Values
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return Values{}, err
	}
	return values, nil
}

// decodeStrict decodes TOML with strict unknown-field rejection.
func decodeStrict(data []byte) (Values, error) {
	var values Values
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&values); err != nil {
		return Values{}, err
	}
	return values, nil
}

// LoadEnvFile reads a dotenv file and keeps only RANCHER_* and DOCKER_*
// keys. The ignored keys are returned so callers can mention them.
func LoadEnvFile(path string) (map[string]string, []string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, nil, &FileError{Path: path, Err: fmt.Errorf(messages.ConfigExpandPathFmt, path, err)}
	}
	env, err := envfile.Load(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, &FileError{Path: path, Err: fmt.Errorf(messages.ConfigEnvFileReadFmt, path, err)}
		}
		return nil, nil, &FileError{Path: path, Err: fmt.Errorf(messages.ConfigEnvFileInvalidFmt, path, err)}
	}
	kept, ignored := envfile.Filter(env, envPrefixes...)
	return kept, ignored, nil
}

// EnvLookup returns a lookup that prefers the process environment and falls
// back to fileEnv. A process variable that is set but empty does not hide
// the env file's value.
func EnvLookup(fileEnv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value, true
		}
		value, ok := fileEnv[key]
		return value, ok
	}
}

// FromEnv builds the environment layer. Empty variables count as unset.
func FromEnv(lookup func(string) (string, bool)) Values {
	var values Values
	if lookup == nil {
		return values
	}
	for _, f := range fields {
		if f.Env == "" {
			continue
		}
		value, ok := lookup(f.Env)
		if !ok || value == "" {
			continue
		}
		v := value
		*values.stringField(f.Key) = &v
	}
	return values
}
