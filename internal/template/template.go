package template

import (
	"errors"
	"strings"

	"github.com/l1jgo/entityforge/internal/types"
)

// ErrInvalidArgument is returned for blank lookup names and for templates
// whose name is blank. Not-found is never an error.
var ErrInvalidArgument = errors.New("invalid argument")

// Default is one named default value of a component template.
type Default struct {
	Name  string
	Value types.Value
}

// Defaults is an ordered name→value mapping.
type Defaults []Default

// Get returns the first value stored under name.
func (d Defaults) Get(name string) (types.Value, bool) {
	for _, e := range d {
		if e.Name == name {
			return e.Value, true
		}
	}
	return types.Value{}, false
}

// D builds Defaults from alternating name/value pairs; values go through
// types.Of. Meant for tests and code-declared templates.
func D(pairs ...any) Defaults {
	out := make(Defaults, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Default{Name: pairs[i].(string), Value: types.Of(pairs[i+1])})
	}
	return out
}

// Component describes how to build one component instance.
type Component struct {
	Name     string
	Type     *types.Type
	Defaults Defaults
	// Shared templates produce one instance per name, reused for every request.
	Shared bool
}

// Key is the template's name, falling back to the type's name. It is empty
// only when neither is set.
func (c *Component) Key() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Type != nil {
		return c.Type.Name()
	}
	return ""
}

// SameType reports whether a and b describe the same concrete component type.
// It is the equality used when merging inherited component lists.
func SameType(a, b *Component) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Type == nil || b.Type == nil {
		return false
	}
	return a.Type.Key() == b.Type.Key()
}

// Entity describes one node of entity composition. Parent and Children name
// the live hierarchy to build; InheritsFrom names templates whose components
// are merged in without creating extra entities.
type Entity struct {
	Name         string
	Parent       string
	Children     []string
	InheritsFrom []string
	Components   []*Component
}

// IsLeaf reports whether the template stands alone in the hierarchy.
func (e *Entity) IsLeaf() bool {
	return e.Parent == "" && len(e.Children) == 0
}

// Blank reports whether a lookup name is empty or whitespace only.
func Blank(name string) bool {
	return strings.TrimSpace(name) == ""
}
