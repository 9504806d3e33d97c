package config

// FieldDef ties a setting's config file key to its flag and environment variable.
type FieldDef struct {
	Key      string
	Flag     string
	Env      string // empty when the setting has no environment variable
	Required bool
}

// fields is the catalog of string settings in the order they are checked.
var fields = []FieldDef{
	{Key: "environment", Flag: "environment", Env: "RANCHER_ENVIRONMENT", Required: true},
	{Key: "stack", Flag: "stack", Env: "RANCHER_STACK", Required: true},
	{Key: "url", Flag: "url", Env: "RANCHER_URL", Required: true},
	{Key: "access_key", Flag: "access-key", Env: "RANCHER_ACCESS_KEY", Required: true},
	{Key: "secret_key", Flag: "secret-key", Env: "RANCHER_SECRET_KEY", Required: true},
	{Key: "tag", Flag: "tag"},
	{Key: "docker_user", Flag: "docker-user", Env: "DOCKER_USER"},
	{Key: "docker_pass", Flag: "docker-pass", Env: "DOCKER_PASS"},
	{Key: "registry_url", Flag: "registry-url"},
	{Key: "work_dir", Flag: "work-dir"},
	{Key: "compose_file", Flag: "compose-file"},
	{Key: "compose_bin", Flag: "compose-bin"},
}

// fieldIndex provides O(1) lookup by key.
var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Key] = i
	}
	return idx
}

// LookupField returns the field definition for the given config key.
// Returns false when the key is not in the catalog.
func LookupField(key string) (FieldDef, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return FieldDef{}, false
	}
	return fields[i], true
}

// Fields returns a copy of all field definitions in catalog order.
func Fields() []FieldDef {
	out := make([]FieldDef, len(fields))
	copy(out, fields)
	return out
}

// EnvKeys returns every environment variable the environment layer reads.
func EnvKeys() []string {
	var keys []string
	for _, f := range fields {
		if f.Env != "" {
			keys = append(keys, f.Env)
		}
	}
	return keys
}

// stringField returns the address of the string setting stored under key.
func (v *Values) stringField(key string) **string {
	switch key {
	case "environment":
		return &v.Environment
	case "stack":
		return &v.Stack
	case "url":
		return &v.URL
	case "access_key":
		return &v.AccessKey
	case "secret_key":
		return &v.SecretKey
	case "tag":
		return &v.Tag
	case "docker_user":
		return &v.DockerUser
	case "docker_pass":
		return &v.DockerPass
	case "registry_url":
		return &v.RegistryURL
	case "work_dir":
		return &v.WorkDir
	case "compose_file":
		return &v.ComposeFile
	case "compose_bin":
		return &v.ComposeBinary
	}
	return nil
}

// value returns the resolved string setting stored under key.
func (u Upgrade) value(key string) string {
	switch key {
	case "environment":
		return u.Environment
	case "stack":
		return u.Stack
	case "url":
		return u.URL
	case "access_key":
		return u.AccessKey
	case "secret_key":
		return u.SecretKey
	case "tag":
		return u.Tag
	case "docker_user":
		return u.DockerUser
	case "docker_pass":
		return u.DockerPass
	case "registry_url":
		return u.RegistryURL
	case "work_dir":
		return u.WorkDir
	case "compose_file":
		return u.ComposeFile
	case "compose_bin":
		return u.ComposeBinary
	}
	return ""
}
