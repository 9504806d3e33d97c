package main

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conn-castle/rancher-client/internal/config"
	"github.com/conn-castle/rancher-client/internal/testutil"
)

const stackCompose = `api:
  image: repo/api:v2
worker:
  image: repo/worker:v2
`

// newRancherServer serves one environment "prod" with one stack "web"
// holding the services api and worker.
func newRancherServer(t *testing.T) *httptest.Server {
	t.Helper()
	bundle := zipBundle(t, map[string]string{"docker-compose.yml": stackCompose})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "access" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		base := "http://" + r.Host
		switch r.URL.Path {
		case "/v1/projects":
			_, _ = w.Write([]byte(strings.ReplaceAll(`{"data":[{"id":"1a5","name":"prod","links":{"environments":"{base}/v1/projects/1a5/environments"}}]}`, "{base}", base)))
		case "/v1/projects/1a5/environments":
			_, _ = w.Write([]byte(strings.ReplaceAll(`{"data":[{"id":"1e1","name":"web","links":{"composeConfig":"{base}/v1/environments/1e1/composeconfig","services":"{base}/v1/environments/1e1/services"}}]}`, "{base}", base)))
		case "/v1/environments/1e1/composeconfig":
			_, _ = w.Write(bundle)
		case "/v1/environments/1e1/services":
			_, _ = w.Write([]byte(`{"data":[{"id":"1s1","name":"api"},{"id":"1s2","name":"worker"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func zipBundle(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// clearEnv hides RANCHER_* and DOCKER_* variables from the process environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range config.EnvKeys() {
		t.Setenv(key, "")
	}
}

// upgradeEnv is a ready-to-run upgrade invocation against a fake Rancher
// server and a recording rancher-compose stub.
type upgradeEnv struct {
	workDir string
	binary  string
	record  string
	args    []string
}

func newUpgradeEnv(t *testing.T, exitCode int) *upgradeEnv {
	t.Helper()
	clearEnv(t)
	server := newRancherServer(t)
	binDir := t.TempDir()
	env := &upgradeEnv{
		workDir: t.TempDir(),
		binary:  filepath.Join(binDir, "rancher-compose"),
		record:  filepath.Join(binDir, "calls.txt"),
	}
	testutil.WriteStubRecordingArgs(t, binDir, "rancher-compose", env.record, exitCode)
	env.args = []string{
		"rancher-client", "upgrade",
		"-e", "prod",
		"-s", "web",
		"--url", server.URL,
		"--access-key", "access",
		"--secret-key", "secret",
		"--work-dir", env.workDir,
		"--compose-bin", env.binary,
	}
	return env
}

func (e *upgradeEnv) with(extra ...string) []string {
	return append(append([]string(nil), e.args...), extra...)
}

func (e *upgradeEnv) calls(t *testing.T) [][]string {
	t.Helper()
	return testutil.ReadRecordedArgs(t, e.record)
}

func (e *upgradeEnv) composeFile(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.workDir, "docker-compose.yml"))
	require.NoError(t, err)
	return string(data)
}
