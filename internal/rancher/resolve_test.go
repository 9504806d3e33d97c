package rancher

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequiresDataArray(t *testing.T) {
	cases := map[string]string{
		"missing data": `{"type":"collection"}`,
		"data object":  `{"data":{"name":"prod"}}`,
		"data null":    `{"data":null}`,
		"not json":     `<html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode[Environment](KindEnvironment, []byte(body))
			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, KindEnvironment, malformed.Kind)
		})
	}
}

func TestResolveOneExactMatch(t *testing.T) {
	body := []byte(`{"data":[
		{"id":"1a1","name":"production","links":{"environments":"http://x/1a1/environments"}},
		{"id":"1a2","name":"prod","links":{"environments":"http://x/1a2/environments"}}
	]}`)

	env, err := ResolveOne[Environment](nil, KindEnvironment, body, "prod")
	require.NoError(t, err)
	assert.Equal(t, "1a2", env.ID)

	link, err := env.Link(KindEnvironment, LinkStacks)
	require.NoError(t, err)
	assert.Equal(t, "http://x/1a2/environments", link)
}

func TestResolveOneNotFound(t *testing.T) {
	body := []byte(`{"data":[{"id":"1","name":"staging"}]}`)

	_, err := ResolveOne[Stack](nil, KindStack, body, "web")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "web", notFound.Name)
	assert.Equal(t, `couldn't find matching stack "web"`, err.Error())
}

func TestResolveOneDuplicateNamesReturnsFirst(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	body := []byte(`{"data":[{"id":"s1","name":"web"},{"id":"s2","name":"web"}]}`)

	stack, err := ResolveOne[Stack](logger, KindStack, body, "web")
	require.NoError(t, err)
	assert.Equal(t, "s1", stack.ID)
	assert.Contains(t, buf.String(), "2 stack entries")
}

func TestResolveAll(t *testing.T) {
	body := []byte(`{"data":[{"id":"1s1","name":"api"},{"id":"1s2","name":"worker"}]}`)

	services, err := ResolveAll[Service](KindService, body)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "worker"}, ServiceNames(services))
}

func TestResolveAllEmpty(t *testing.T) {
	_, err := ResolveAll[Service](KindService, []byte(`{"data":[]}`))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "couldn't find any services", err.Error())
}

func TestLinkMissing(t *testing.T) {
	stack := Stack{Resource: Resource{Name: "web"}}
	_, err := stack.Link(KindStack, LinkComposeConfig)
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "composeConfig")
}
