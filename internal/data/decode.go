package data

import (
	"errors"
	"fmt"

	"github.com/l1jgo/entityforge/internal/template"
	"github.com/l1jgo/entityforge/internal/types"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownType = errors.New("unknown component type")
	ErrUnknownRef  = errors.New("unknown component reference")
)

// ComponentEntry is the YAML form of a component template. Inside an entity
// a component is either inline (type + defaults) or a reference (ref) to a
// named component template.
type ComponentEntry struct {
	Name     string    `yaml:"name,omitempty"`
	Type     string    `yaml:"type,omitempty"`
	Ref      string    `yaml:"ref,omitempty"`
	Shared   bool      `yaml:"shared,omitempty"`
	Defaults yaml.Node `yaml:"defaults,omitempty"`
}

// EntityEntry is the YAML form of an entity template.
type EntityEntry struct {
	Name       string           `yaml:"name"`
	Parent     string           `yaml:"parent,omitempty"`
	Children   []string         `yaml:"children,omitempty"`
	Inherits   []string         `yaml:"inherits,omitempty"`
	Components []ComponentEntry `yaml:"components,omitempty"`
}

type templateFile struct {
	Components []ComponentEntry `yaml:"components"`
	Entities   []EntityEntry    `yaml:"entities"`
}

// RefFunc resolves a component reference inside an entity template.
type RefFunc func(name string) (*template.Component, bool)

// DecodeComponent parses a single component template document.
func DecodeComponent(raw []byte, reg *types.Registry) (*template.Component, error) {
	var e ComponentEntry
	if err := yaml.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("parse component template: %w", err)
	}
	return e.toTemplate(reg)
}

// DecodeEntity parses a single entity template document. refs may be nil
// when the document uses no references.
func DecodeEntity(raw []byte, reg *types.Registry, refs RefFunc) (*template.Entity, error) {
	var e EntityEntry
	if err := yaml.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("parse entity template: %w", err)
	}
	return e.toTemplate(reg, refs)
}

func (e *ComponentEntry) toTemplate(reg *types.Registry) (*template.Component, error) {
	typ := reg.Lookup(e.Type)
	if typ == nil {
		return nil, fmt.Errorf("component %q: %w %q", e.Name, ErrUnknownType, e.Type)
	}
	defaults, err := DecodeDefaults(&e.Defaults)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", e.Name, err)
	}
	return &template.Component{
		Name:     e.Name,
		Type:     typ,
		Defaults: defaults,
		Shared:   e.Shared,
	}, nil
}

func (e *EntityEntry) toTemplate(reg *types.Registry, refs RefFunc) (*template.Entity, error) {
	t := &template.Entity{
		Name:         e.Name,
		Parent:       e.Parent,
		Children:     e.Children,
		InheritsFrom: e.Inherits,
		Components:   make([]*template.Component, 0, len(e.Components)),
	}
	for i := range e.Components {
		ce := &e.Components[i]
		if ce.Ref != "" {
			var c *template.Component
			ok := false
			if refs != nil {
				c, ok = refs(ce.Ref)
			}
			if !ok {
				return nil, fmt.Errorf("entity %q: %w %q", e.Name, ErrUnknownRef, ce.Ref)
			}
			t.Components = append(t.Components, c)
			continue
		}
		c, err := ce.toTemplate(reg)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", e.Name, err)
		}
		t.Components = append(t.Components, c)
	}
	return t, nil
}

// DecodeDefaults turns a YAML mapping into ordered defaults. Scalars keep
// their YAML type (int and float become numbers); a scalar tagged !enum is an
// enum ordinal; mappings and sequences become opaque values; nulls are
// dropped.
func DecodeDefaults(node *yaml.Node) (template.Defaults, error) {
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("defaults must be a mapping (line %d)", node.Line)
	}
	out := make(template.Defaults, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		v, ok, err := decodeValue(val)
		if err != nil {
			return nil, fmt.Errorf("default %q: %w", key.Value, err)
		}
		if ok {
			out = append(out, template.Default{Name: key.Value, Value: v})
		}
	}
	return out, nil
}

func decodeValue(n *yaml.Node) (types.Value, bool, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return decodeValue(n.Alias)
	}
	if n.Kind != yaml.ScalarNode {
		var x any
		if err := n.Decode(&x); err != nil {
			return types.Value{}, false, err
		}
		return types.Opaque(x), true, nil
	}
	switch n.Tag {
	case "!!null":
		return types.Value{}, false, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return types.Value{}, false, err
		}
		return types.Number(f), true, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return types.Value{}, false, err
		}
		return types.Bool(b), true, nil
	case "!enum":
		var ord int
		if err := yaml.Unmarshal([]byte(n.Value), &ord); err != nil {
			return types.Value{}, false, fmt.Errorf("enum ordinal %q: %w", n.Value, err)
		}
		return types.Enum(ord), true, nil
	default:
		return types.String(n.Value), true, nil
	}
}
