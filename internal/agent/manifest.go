package agent

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/intentlang/internal/schema"
)

// Manifest is the decoded form of an agent.yml file:
//
//	name: example_agent
//	intents:
//	  - name: smalltalk.user_name_give
//	    parameters:
//	      user_name: sys.person
//	      friend_names: { entity: sys.person, list: true, default: [Al, John] }
type Manifest struct {
	Name    string         `yaml:"name"`
	Intents []IntentSchema `yaml:"intents"`
}

// IntentSchema declares one intent of the manifest.
type IntentSchema struct {
	Name       string                 `yaml:"name"`
	Parameters map[string]ParamSchema `yaml:"parameters"`
}

// ParamSchema declares one parameter. A parameter with a default key,
// even a null one, is optional.
type ParamSchema struct {
	Entity     string
	List       bool
	Default    any
	HasDefault bool
}

// UnmarshalYAML accepts either an entity type as a scalar or a mapping with
// entity, list and default keys.
func (p *ParamSchema) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		p.Entity = node.Value
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: parameter must be an entity type or a mapping", node.Line)
	}

	var raw struct {
		Entity  string `yaml:"entity"`
		List    bool   `yaml:"list"`
		Default any    `yaml:"default"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	p.Entity, p.List, p.Default = raw.Entity, raw.List, raw.Default
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch key := node.Content[i].Value; key {
		case "entity", "list":
		case "default":
			p.HasDefault = true
		default:
			return fmt.Errorf("line %d: unknown parameter field %q", node.Content[i].Line, key)
		}
	}
	return nil
}

// ParseManifest decodes a manifest and builds the agent it declares.
func ParseManifest(data []byte) (*Agent, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return m.Build()
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	a, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Build validates every intent of the manifest and registers it in a new
// agent. All intent errors are reported together.
func (m *Manifest) Build() (*Agent, error) {
	if m.Name == "" {
		return nil, errors.New("manifest: agent name is required")
	}
	a := New(m.Name)
	var errs []error
	for _, is := range m.Intents {
		b := schema.NewBuilder(is.Name)
		names := make([]string, 0, len(is.Parameters))
		for name := range is.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ps := is.Parameters[name]
			b.Add(schema.Parameter{
				Name:       name,
				EntityType: schema.EntityType(ps.Entity),
				IsList:     ps.List,
				Required:   !ps.HasDefault,
				Default:    ps.Default,
			})
		}
		intent, err := b.Build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := a.Register(intent); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return a, nil
}
