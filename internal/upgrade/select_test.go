package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/rancher-client/internal/rancher"
)

func services(names ...string) []rancher.Service {
	out := make([]rancher.Service, 0, len(names))
	for i, name := range names {
		out = append(out, rancher.Service{Resource: rancher.Resource{ID: string(rune('a' + i)), Name: name}})
	}
	return out
}

func TestSelectServicesEmptyRequestSelectsAll(t *testing.T) {
	available := services("api", "worker", "web")

	selected, err := SelectServices(nil, available)
	require.NoError(t, err)
	assert.Equal(t, available, selected)

	selected[0].Name = "changed"
	assert.Equal(t, "api", available[0].Name)
}

func TestSelectServicesKeepsAvailableOrder(t *testing.T) {
	selected, err := SelectServices([]string{"web", "api"}, services("api", "worker", "web"))
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "web"}, rancher.ServiceNames(selected))
}

func TestSelectServicesReportsEveryMissingName(t *testing.T) {
	_, err := SelectServices([]string{"db", "api", "cache", "db"}, services("api", "worker"))
	require.Error(t, err)
	var notFound *ServiceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"db", "cache"}, notFound.Missing)
	assert.Equal(t, "services not found: db, cache", err.Error())
}

func TestSelectServicesSubsetProperty(t *testing.T) {
	available := services("a", "b", "c", "d")
	requests := [][]string{
		{"a"},
		{"d", "b"},
		{"a", "a", "c"},
		{"a", "b", "c", "d"},
	}
	for _, req := range requests {
		selected, err := SelectServices(req, available)
		require.NoError(t, err)

		names := rancher.ServiceNames(selected)
		assert.NotEmpty(t, names)
		for _, name := range names {
			assert.Contains(t, req, name)
		}
		for _, name := range req {
			assert.Contains(t, names, name)
		}
		assert.LessOrEqual(t, len(names), len(available))
	}
}

func TestSelectServicesEmptyAvailable(t *testing.T) {
	selected, err := SelectServices(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, selected)

	_, err = SelectServices([]string{"api"}, nil)
	var notFound *ServiceNotFoundError
	require.ErrorAs(t, err, &notFound)
}
