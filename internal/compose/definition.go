// Package compose reads and rewrites the docker-compose.yml service definitions.
package compose

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"gopkg.in/yaml.v3"

	"github.com/conn-castle/rancher-client/internal/fsutil"
	"github.com/conn-castle/rancher-client/internal/messages"
)

// DefaultFile is the compose file name inside a stack bundle.
const DefaultFile = "docker-compose.yml"

// Definition is a compose file held as a YAML node tree so that everything
// other than the rewritten image values survives a round trip.
type Definition struct {
	path     string
	perm     os.FileMode
	original []byte
	doc      *yaml.Node
	services *yaml.Node
}

// Load reads and parses the compose file at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ComposeReadFmt, path, err)
	}
	def, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil {
		def.perm = info.Mode().Perm()
	}
	return def, nil
}

// Parse parses compose content. Both the v1 layout (services at the top
// level) and the versioned layout (services under "services") are accepted.
func Parse(path string, data []byte) (*Definition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf(messages.ComposeParseFmt, path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf(messages.ComposeNotMappingFmt, path)
	}
	root := doc.Content[0]
	services := root
	if lookup(root, "version") != nil {
		if nested := lookup(root, "services"); nested != nil && nested.Kind == yaml.MappingNode {
			services = nested
		}
	}
	return &Definition{
		path:     path,
		perm:     0o644,
		original: append([]byte(nil), data...),
		doc:      &doc,
		services: services,
	}, nil
}

// Path returns the file the definition was loaded from.
func (d *Definition) Path() string {
	return d.path
}

// ServiceNames returns the declared services in file order.
func (d *Definition) ServiceNames() []string {
	names := make([]string, 0, len(d.services.Content)/2)
	for i := 0; i+1 < len(d.services.Content); i += 2 {
		names = append(names, d.services.Content[i].Value)
	}
	return names
}

// Image returns the image value of service and whether one is declared.
func (d *Definition) Image(service string) (string, bool) {
	node := d.imageNode(service)
	if node == nil || node.Value == "" {
		return "", false
	}
	return node.Value, true
}

func (d *Definition) imageNode(service string) *yaml.Node {
	svc := lookup(d.services, service)
	if svc == nil || svc.Kind != yaml.MappingNode {
		return nil
	}
	node := lookup(svc, "image")
	if node == nil || node.Kind != yaml.ScalarNode {
		return nil
	}
	return node
}

// Bytes encodes the current tree.
func (d *Definition) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.doc); err != nil {
		return nil, fmt.Errorf(messages.ComposeEncodeFmt, d.path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf(messages.ComposeEncodeFmt, d.path, err)
	}
	return buf.Bytes(), nil
}

// Save writes the current tree back to Path atomically.
func (d *Definition) Save() error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(d.path, data, d.perm); err != nil {
		return fmt.Errorf(messages.ComposeWriteFmt, d.path, err)
	}
	return nil
}

// Diff renders a unified diff between the loaded content and the current tree.
// It is empty when nothing changed.
func (d *Definition) Diff() (string, error) {
	data, err := d.Bytes()
	if err != nil {
		return "", err
	}
	if bytes.Equal(data, d.original) {
		return "", nil
	}
	return udiff.Unified(d.path, d.path, string(d.original), string(data)), nil
}

// lookup returns the value node for key in a mapping node.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
