package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/rancher-client/internal/rancher"
)

type zipEntry struct {
	name string
	body string
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = f.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func serveBundle(t *testing.T, status int, payload []byte) (*Fetcher, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, _, ok := r.BasicAuth(); !ok || user != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)
	client, err := rancher.NewClient(server.URL, "key", "secret", server.Client())
	require.NoError(t, err)
	return &Fetcher{API: client}, server.URL + "/v1/environments/1e1/composeconfig"
}

func TestFetchExtractsFiles(t *testing.T) {
	payload := buildZip(t,
		zipEntry{name: "docker-compose.yml", body: "api:\n  image: repo/api:v1\n"},
		zipEntry{name: "rancher-compose.yml", body: "api:\n  scale: 2\n"},
		zipEntry{name: "conf/"},
		zipEntry{name: "conf/app.env", body: "A=1\n"},
	)
	fetcher, url := serveBundle(t, http.StatusOK, payload)
	dir := t.TempDir()

	written, err := fetcher.Fetch(context.Background(), url, dir)
	require.NoError(t, err)
	assert.Len(t, written, 3)

	data, err := os.ReadFile(filepath.Join(dir, "docker-compose.yml"))
	require.NoError(t, err)
	assert.Equal(t, "api:\n  image: repo/api:v1\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "conf", "app.env"))
	require.NoError(t, err)
	assert.Equal(t, "A=1\n", string(data))
}

func TestFetchRejectsEscapingEntries(t *testing.T) {
	cases := []string{"../evil.yml", "conf/../../evil.yml", "/etc/evil.yml"}
	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			payload := buildZip(t,
				zipEntry{name: "docker-compose.yml", body: "ok"},
				zipEntry{name: name, body: "evil"},
			)
			fetcher, url := serveBundle(t, http.StatusOK, payload)
			parent := t.TempDir()
			dir := filepath.Join(parent, "work")
			require.NoError(t, os.Mkdir(dir, 0o755))

			_, err := fetcher.Fetch(context.Background(), url, dir)
			var archiveErr *ArchiveError
			require.ErrorAs(t, err, &archiveErr)
			assert.Equal(t, name, archiveErr.Entry)
			assert.Contains(t, err.Error(), "escapes")

			_, statErr := os.Stat(filepath.Join(dir, "docker-compose.yml"))
			assert.True(t, os.IsNotExist(statErr), "nothing is written when any entry is rejected")
			_, statErr = os.Stat(filepath.Join(parent, "evil.yml"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestFetchStatusErrorIsArchiveError(t *testing.T) {
	fetcher, url := serveBundle(t, http.StatusNotFound, nil)

	_, err := fetcher.Fetch(context.Background(), url, t.TempDir())
	var archiveErr *ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	var statusErr *rancher.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestFetchRejectsNonZip(t *testing.T) {
	fetcher, url := serveBundle(t, http.StatusOK, []byte("definitely not a zip"))

	_, err := fetcher.Fetch(context.Background(), url, t.TempDir())
	var archiveErr *ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	assert.Contains(t, err.Error(), "open archive")
}

func TestFetchRejectsOversizedBundle(t *testing.T) {
	payload := buildZip(t, zipEntry{name: "docker-compose.yml", body: "api:\n  image: repo/api:v1\n"})
	fetcher, url := serveBundle(t, http.StatusOK, payload)
	fetcher.MaxBytes = 10

	_, err := fetcher.Fetch(context.Background(), url, t.TempDir())
	var archiveErr *ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	assert.Contains(t, err.Error(), "larger than 10 bytes")
}

func TestFetchRequiresDir(t *testing.T) {
	fetcher := &Fetcher{}
	_, err := fetcher.Fetch(context.Background(), "http://unused", " ")
	var archiveErr *ArchiveError
	require.ErrorAs(t, err, &archiveErr)
}
