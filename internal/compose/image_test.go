package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImage(t *testing.T) {
	tests := []struct {
		in   string
		repo string
		tag  string
		path string
	}{
		{in: "repo/svc:old", repo: "repo/svc", tag: "old", path: "repo/svc"},
		{in: "repo/svc", repo: "repo/svc", tag: "", path: "repo/svc"},
		{in: "nginx:1.25", repo: "nginx", tag: "1.25", path: "library/nginx"},
		{in: "registry.local:5000/team/app:v1", repo: "registry.local:5000/team/app", tag: "v1", path: "team/app"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			img, err := ParseImage(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.repo, img.Repository)
			assert.Equal(t, tt.tag, img.Tag)
			assert.Equal(t, tt.path, img.Path())
			assert.Equal(t, tt.in, img.String())
		})
	}
}

func TestParseImageRejectsInvalidReference(t *testing.T) {
	_, err := ParseImage("Repo/SVC:old")
	require.Error(t, err)

	_, err = ParseImage("")
	require.Error(t, err)
}

func TestImageTagOrDefault(t *testing.T) {
	assert.Equal(t, DefaultTag, Image{Repository: "repo/svc"}.TagOrDefault())
	assert.Equal(t, "v2", Image{Repository: "repo/svc", Tag: "v2"}.TagOrDefault())
}

func TestImageWithTagDropsDigest(t *testing.T) {
	img, err := ParseImage("repo/svc:old@sha256:" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	require.NotEmpty(t, img.Digest)

	next, err := img.WithTag("v2")
	require.NoError(t, err)
	assert.Equal(t, "repo/svc:v2", next.String())
}

func TestImageWithTagRejectsInvalidTag(t *testing.T) {
	img := Image{Repository: "repo/svc", Tag: "old"}
	_, err := img.WithTag("not a tag")
	require.Error(t, err)
}

func TestSplitImage(t *testing.T) {
	tests := []struct {
		in   string
		want Image
	}{
		{in: "${REGISTRY}/app:old", want: Image{Repository: "${REGISTRY}/app", Tag: "old"}},
		{in: "${REGISTRY:-registry.local:5000}/app:old", want: Image{Repository: "${REGISTRY:-registry.local:5000}/app", Tag: "old"}},
		{in: "repo/svc:${TAG:-old}", want: Image{Repository: "repo/svc", Tag: "${TAG:-old}"}},
		{in: "registry.local:5000/${APP}", want: Image{Repository: "registry.local:5000/${APP}"}},
		{in: "${APP}:old@sha256:abc", want: Image{Repository: "${APP}", Tag: "old", Digest: "sha256:abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitImage(tt.in))
		})
	}
}

func TestValidTag(t *testing.T) {
	assert.True(t, ValidTag("v2"))
	assert.True(t, ValidTag("1.0.3-rc_1"))
	assert.False(t, ValidTag(""))
	assert.False(t, ValidTag("not a tag"))
	assert.False(t, ValidTag(".hidden"))
}
