package compose

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const v1Compose = `web:
  image: repo/svc:old
  environment:
    MODE: prod
  labels:
    io.rancher.scheduler.affinity: host
worker:
  image: repo/worker
sidecar:
  build: ./sidecar
`

const v2Compose = `version: "2"
services:
  web:
    image: repo/svc:old
    ports:
      - "80:80"
  db:
    image: postgres:15
volumes:
  data: {}
`

func writeCompose(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadV1Layout(t *testing.T) {
	def, err := Load(writeCompose(t, v1Compose))
	require.NoError(t, err)

	assert.Equal(t, []string{"web", "worker", "sidecar"}, def.ServiceNames())
	image, ok := def.Image("web")
	require.True(t, ok)
	assert.Equal(t, "repo/svc:old", image)
	_, ok = def.Image("sidecar")
	assert.False(t, ok)
	_, ok = def.Image("missing")
	assert.False(t, ok)
}

func TestLoadV2Layout(t *testing.T) {
	def, err := Load(writeCompose(t, v2Compose))
	require.NoError(t, err)

	assert.Equal(t, []string{"web", "db"}, def.ServiceNames())
	image, ok := def.Image("db")
	require.True(t, ok)
	assert.Equal(t, "postgres:15", image)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(writeCompose(t, "web: [unterminated"))
	require.Error(t, err)

	_, err = Load(writeCompose(t, "- just\n- a list\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping")

	_, err = Load(writeCompose(t, ""))
	require.Error(t, err)
}

func TestRewriteTagsV1(t *testing.T) {
	path := writeCompose(t, v1Compose)
	def, err := Load(path)
	require.NoError(t, err)

	rewrite, err := def.RewriteTags(nil, []string{"web", "worker", "sidecar", "ghost"}, "v2")
	require.NoError(t, err)

	require.Len(t, rewrite.Changes, 1)
	assert.Equal(t, "web", rewrite.Changes[0].Service)
	assert.Equal(t, "repo/svc:old", rewrite.Changes[0].From)
	assert.Equal(t, []Image{{Repository: "repo/svc", Tag: "v2"}}, rewrite.Images())

	require.Len(t, rewrite.Skipped, 3)
	assert.Equal(t, Skip{Service: "worker", Reason: "image has no tag to replace"}, rewrite.Skipped[0])
	assert.Equal(t, "sidecar", rewrite.Skipped[1].Service)
	assert.Equal(t, "ghost", rewrite.Skipped[2].Service)

	image, _ := def.Image("web")
	assert.Equal(t, "repo/svc:v2", image)
	worker, _ := def.Image("worker")
	assert.Equal(t, "repo/worker", worker)

	disk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, v1Compose, string(disk), "rewrite must not touch the file before Save")
}

func TestRewriteTagsKeepsOtherFields(t *testing.T) {
	path := writeCompose(t, v2Compose)
	def, err := Load(path)
	require.NoError(t, err)

	_, err = def.RewriteTags(nil, []string{"web"}, "v2")
	require.NoError(t, err)
	require.NoError(t, def.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	web, _ := reloaded.Image("web")
	assert.Equal(t, "repo/svc:v2", web)
	db, _ := reloaded.Image("db")
	assert.Equal(t, "postgres:15", db)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `version: "2"`)
	assert.Contains(t, string(data), `- "80:80"`)
	assert.Contains(t, string(data), "volumes:")
}

func TestRewriteTagsIsIdempotent(t *testing.T) {
	path := writeCompose(t, v1Compose)

	def, err := Load(path)
	require.NoError(t, err)
	_, err = def.RewriteTags(nil, []string{"web"}, "v2")
	require.NoError(t, err)
	require.NoError(t, def.Save())
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	def, err = Load(path)
	require.NoError(t, err)
	rewrite, err := def.RewriteTags(nil, []string{"web"}, "v2")
	require.NoError(t, err)
	assert.Equal(t, "repo/svc:v2", rewrite.Changes[0].From)
	require.NoError(t, def.Save())
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestRewriteTagsSwapsInterpolatedImagesLiterally(t *testing.T) {
	content := "api:\n  image: ${REGISTRY}/app:old\n" +
		"worker:\n  image: repo/svc:${TAG}\n" +
		"cron:\n  image: repo/cron:${TAG:-old}\n" +
		"sidecar:\n  image: ${SIDECAR_IMAGE}\n"
	def, err := Parse("inline.yml", []byte(content))
	require.NoError(t, err)

	rewrite, err := def.RewriteTags(nil, []string{"api", "worker", "cron", "sidecar"}, "v2")
	require.NoError(t, err)

	require.Len(t, rewrite.Changes, 3)
	api, _ := def.Image("api")
	assert.Equal(t, "${REGISTRY}/app:v2", api)
	worker, _ := def.Image("worker")
	assert.Equal(t, "repo/svc:v2", worker)
	cron, _ := def.Image("cron")
	assert.Equal(t, "repo/cron:v2", cron)

	require.Len(t, rewrite.Skipped, 1)
	assert.Equal(t, Skip{Service: "sidecar", Reason: "image has no tag to replace"}, rewrite.Skipped[0])
	sidecar, _ := def.Image("sidecar")
	assert.Equal(t, "${SIDECAR_IMAGE}", sidecar)
}

func TestRewriteTagsRejectsMalformedTag(t *testing.T) {
	def, err := Parse("inline.yml", []byte(v1Compose))
	require.NoError(t, err)

	_, err = def.RewriteTags(nil, []string{"web"}, "not a tag")
	require.ErrorContains(t, err, `invalid image tag "not a tag"`)
	image, _ := def.Image("web")
	assert.Equal(t, "repo/svc:old", image)
}

func TestRewriteTagsRejectsEmptyTag(t *testing.T) {
	def, err := Parse("inline.yml", []byte(v1Compose))
	require.NoError(t, err)

	_, err = def.RewriteTags(nil, []string{"web"}, "  ")
	require.Error(t, err)
	image, _ := def.Image("web")
	assert.Equal(t, "repo/svc:old", image)
}

func TestDiff(t *testing.T) {
	def, err := Parse("docker-compose.yml", []byte(v1Compose))
	require.NoError(t, err)

	_, err = def.RewriteTags(nil, []string{"web"}, "v2")
	require.NoError(t, err)

	diff, err := def.Diff()
	require.NoError(t, err)
	assert.Contains(t, diff, "-  image: repo/svc:old")
	assert.Contains(t, diff, "+  image: repo/svc:v2")
}

func TestSaveKeepsPermissions(t *testing.T) {
	path := writeCompose(t, v1Compose)
	require.NoError(t, os.Chmod(path, 0o600))

	def, err := Load(path)
	require.NoError(t, err)
	_, err = def.RewriteTags(nil, []string{"web"}, "v2")
	require.NoError(t, err)
	require.NoError(t, def.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
