package rancher

import (
	"fmt"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// Link names used to walk from one resource to the next.
const (
	// LinkStacks points from an environment (a Rancher v1 "project") to its
	// stacks, which the v1 API still calls "environments".
	LinkStacks = "environments"
	// LinkComposeConfig points from a stack to its zipped compose files.
	LinkComposeConfig = "composeConfig"
	// LinkServices points from a stack to its services.
	LinkServices = "services"
)

// Kinds used in error messages.
const (
	KindEnvironment = "environment"
	KindStack       = "stack"
	KindService     = "services"
)

// Entity is anything resolvable by name from a collection.
type Entity interface {
	GetName() string
	GetID() string
}

// Resource holds the fields shared by every Rancher v1 resource.
type Resource struct {
	ID    string            `json:"id"`
	Type  string            `json:"type"`
	Name  string            `json:"name"`
	State string            `json:"state"`
	Links map[string]string `json:"links"`
}

// GetName returns the resource name.
func (r Resource) GetName() string {
	return r.Name
}

// GetID returns the resource id.
func (r Resource) GetID() string {
	return r.ID
}

// Link returns the URL stored under name, or a MalformedResponseError
// naming kind when the link is absent.
func (r Resource) Link(kind string, name string) (string, error) {
	url := r.Links[name]
	if url == "" {
		return "", &MalformedResponseError{
			Kind:   kind,
			Reason: fmt.Sprintf(messages.RancherMissingLinkFmt, kind, r.Name, name),
		}
	}
	return url, nil
}

// Environment is a top level grouping of stacks (a v1 "project").
type Environment struct {
	Resource
}

// Stack is a deployable unit inside an environment.
type Stack struct {
	Resource
	Description string `json:"description"`
}

// Service is a single workload inside a stack.
type Service struct {
	Resource
	Scale        int            `json:"scale"`
	LaunchConfig map[string]any `json:"launchConfig"`
}

// ServiceNames returns the names of services in order.
func ServiceNames(services []Service) []string {
	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, svc.Name)
	}
	return names
}
