// Package inventory loads the YAML resource inventory that drives a run.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/awsres/pkg/resource"
)

// ErrEmpty is returned when the file holds no resources.
var ErrEmpty = errors.New("no resources found")

// ConfigError reports an inventory file that cannot drive a run.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("inventory %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Inventory is the ordered set of resources named in the file.
type Inventory struct {
	Path    string
	Entries []resource.Spec
}

// entry is the on-disk shape of one resource.
type entry struct {
	Type      string `yaml:"type"`
	Locations string `yaml:"locations"`
}

// Load reads path and returns its entries in file order.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return &Inventory{Path: path, Entries: entries}, nil
}

// Parse decodes an inventory document.
func Parse(data []byte) ([]resource.Spec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	// An empty file decodes to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmpty
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, ErrEmpty
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping of resource name to definition", root.Line)
	}
	if len(root.Content) == 0 {
		return nil, ErrEmpty
	}

	pairs, err := resourcePairs(root, false)
	if err != nil {
		return nil, err
	}

	explicit := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if !p.merged {
			explicit[p.key.Value] = true
		}
	}

	seen := make(map[string]bool, len(pairs))
	specs := make([]resource.Spec, 0, len(pairs))

	for _, p := range pairs {
		key, val := p.key, p.val
		name := key.Value

		// Keys written out in the file win over merged ones, and the
		// first merged source wins over later ones.
		if p.merged && (explicit[name] || seen[name]) {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("line %d: duplicate resource %q", key.Line, name)
		}
		seen[name] = true

		if val.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: resource %q must be a mapping", val.Line, name)
		}

		var e entry
		if err := val.Decode(&e); err != nil {
			return nil, fmt.Errorf("resource %q: %w", name, err)
		}

		specs = append(specs, resource.Spec{
			Name:      name,
			Type:      resource.Type(e.Type),
			Locations: e.Locations,
		})
	}

	if len(specs) == 0 {
		return nil, ErrEmpty
	}
	return specs, nil
}

type pair struct {
	key, val *yaml.Node
	merged   bool
}

// resourcePairs flattens a top level mapping into name/definition
// pairs, resolving aliases and expanding "<<" merge keys in place.
func resourcePairs(m *yaml.Node, merged bool) ([]pair, error) {
	var out []pair
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], resolve(m.Content[i+1])

		if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge" {
			sources := []*yaml.Node{val}
			if val.Kind == yaml.SequenceNode {
				sources = val.Content
			}
			for _, src := range sources {
				src = resolve(src)
				if src.Kind != yaml.MappingNode {
					return nil, fmt.Errorf("line %d: merge key must reference a mapping", src.Line)
				}
				nested, err := resourcePairs(src, true)
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
			}
			continue
		}

		out = append(out, pair{key: key, val: val, merged: merged})
	}
	return out, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// Len returns the number of entries.
func (inv *Inventory) Len() int {
	return len(inv.Entries)
}

// Render dumps the inventory back to YAML in file order.
func (inv *Inventory) Render() (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range inv.Entries {
		body := &yaml.Node{Kind: yaml.MappingNode}
		body.Content = append(body.Content, scalar("type"), scalar(string(s.Type)))
		if s.Locations != "" {
			body.Content = append(body.Content, scalar("locations"), scalar(s.Locations))
		}
		root.Content = append(root.Content, scalar(s.Name), body)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("render inventory: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("render inventory: %w", err)
	}
	return buf.String(), nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
