package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/l1jgo/entityforge/internal/template"
	"github.com/l1jgo/entityforge/internal/types"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrUnknownRef = errors.New("unknown component reference")

// Engine runs template scripts in a gopher-lua VM. Scripts declare templates
// through the component and entity globals:
//
//	component { name = "OrcSkin", type = "Appearance", shared = true,
//	            defaults = { gfxID = 1203, Palette = "green" } }
//	entity { name = "Orc", inherits = { "Monster" }, children = { "OrcBow" },
//	         components = { { type = "Health", defaults = { max = 40 } }, "OrcSkin" } }
//
// A string in an entity's component list references a named component
// template. enum(n) produces an enum ordinal default. Lua tables are
// unordered, so defaults are applied in key order.
//
// Single-goroutine access only.
type Engine struct {
	vm  *lua.LState
	reg *types.Registry
	log *zap.Logger

	store   *template.MapStore
	pending []*pendingEntity
	errs    error
}

type pendingEntity struct {
	tmpl *template.Entity
	refs map[int]string // component index → referenced template name
}

const enumTypeName = "enum"

// NewEngine creates a VM with the template API installed.
func NewEngine(reg *types.Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, reg: reg, log: log, store: template.NewMapStore()}
	vm.SetGlobal("component", vm.NewFunction(e.luaComponent))
	vm.SetGlobal("entity", vm.NewFunction(e.luaEntity))
	vm.SetGlobal("enum", vm.NewFunction(luaEnum))
	vm.NewTypeMetatable(enumTypeName)
	return e
}

func (e *Engine) Close() {
	e.vm.Close()
}

// LoadTemplates runs every .lua file under dir (sorted, recursive) and
// returns the declared templates.
func LoadTemplates(dir string, reg *types.Registry, log *zap.Logger) (*template.MapStore, error) {
	e := NewEngine(reg, log)
	defer e.Close()
	if err := e.LoadDir(dir); err != nil {
		return nil, err
	}
	return e.Templates()
}

// LoadDir runs all .lua files in a directory tree.
func (e *Engine) LoadDir(dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".lua" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return fmt.Errorf("scan script dir %s: %w", dir, err)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded template script", zap.String("file", path))
	}
	return nil
}

// DoString runs one inline script chunk.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Templates resolves component references and returns everything declared
// so far. Declaration errors from all scripts are reported together.
func (e *Engine) Templates() (*template.MapStore, error) {
	errs := e.errs
	for _, p := range e.pending {
		for idx, ref := range p.refs {
			c, ok := e.store.ResolveComponent(ref)
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("entity %q: %w %q", p.tmpl.Name, ErrUnknownRef, ref))
				continue
			}
			p.tmpl.Components[idx] = c
		}
		e.store.AddEntity(p.tmpl)
	}
	e.pending = nil
	if errs != nil {
		return nil, errs
	}
	return e.store, nil
}

func (e *Engine) luaComponent(L *lua.LState) int {
	tbl := L.CheckTable(1)
	c, err := e.componentFrom(tbl)
	if err != nil {
		e.errs = multierr.Append(e.errs, err)
		return 0
	}
	e.store.AddComponent(c)
	return 0
}

func (e *Engine) luaEntity(L *lua.LState) int {
	tbl := L.CheckTable(1)
	t := &template.Entity{
		Name:         lua.LVAsString(tbl.RawGetString("name")),
		Parent:       lua.LVAsString(tbl.RawGetString("parent")),
		Children:     stringList(tbl.RawGetString("children")),
		InheritsFrom: stringList(tbl.RawGetString("inherits")),
	}
	p := &pendingEntity{tmpl: t, refs: map[int]string{}}
	if comps, ok := tbl.RawGetString("components").(*lua.LTable); ok {
		for i := 1; i <= comps.Len(); i++ {
			switch v := comps.RawGetInt(i).(type) {
			case lua.LString:
				p.refs[len(t.Components)] = string(v)
				t.Components = append(t.Components, nil)
			case *lua.LTable:
				c, err := e.componentFrom(v)
				if err != nil {
					e.errs = multierr.Append(e.errs, fmt.Errorf("entity %q: %w", t.Name, err))
					continue
				}
				t.Components = append(t.Components, c)
			}
		}
	}
	e.pending = append(e.pending, p)
	return 0
}

func (e *Engine) componentFrom(tbl *lua.LTable) (*template.Component, error) {
	name := lua.LVAsString(tbl.RawGetString("name"))
	typeName := lua.LVAsString(tbl.RawGetString("type"))
	typ := e.reg.Lookup(typeName)
	if typ == nil {
		return nil, fmt.Errorf("component %q: unknown component type %q", name, typeName)
	}
	c := &template.Component{
		Name:   name,
		Type:   typ,
		Shared: lua.LVAsBool(tbl.RawGetString("shared")),
	}
	if defs, ok := tbl.RawGetString("defaults").(*lua.LTable); ok {
		c.Defaults = defaultsFrom(defs)
	}
	return c, nil
}

func defaultsFrom(tbl *lua.LTable) template.Defaults {
	var out template.Defaults
	tbl.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		if val, ok := toValue(v); ok {
			out = append(out, template.Default{Name: string(key), Value: val})
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toValue(v lua.LValue) (types.Value, bool) {
	switch x := v.(type) {
	case lua.LNumber:
		return types.Number(float64(x)), true
	case lua.LBool:
		return types.Bool(bool(x)), true
	case lua.LString:
		return types.String(string(x)), true
	case *lua.LUserData:
		if val, ok := x.Value.(types.Value); ok {
			return val, true
		}
		return types.Opaque(x.Value), true
	case *lua.LTable:
		return types.Opaque(toGo(x)), true
	}
	return types.Value{}, false
}

// toGo converts a Lua table to []any when it is a pure array, otherwise to
// map[string]any.
func toGo(v lua.LValue) any {
	switch x := v.(type) {
	case lua.LNumber:
		return float64(x)
	case lua.LBool:
		return bool(x)
	case lua.LString:
		return string(x)
	case *lua.LTable:
		n := x.Len()
		size := 0
		x.ForEach(func(lua.LValue, lua.LValue) { size++ })
		if n > 0 && n == size {
			arr := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				arr = append(arr, toGo(x.RawGetInt(i)))
			}
			return arr
		}
		m := make(map[string]any, size)
		x.ForEach(func(k, val lua.LValue) {
			m[k.String()] = toGo(val)
		})
		return m
	case *lua.LUserData:
		return x.Value
	}
	return nil
}

func stringList(v lua.LValue) []string {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	out := make([]string, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

func luaEnum(L *lua.LState) int {
	ud := L.NewUserData()
	ud.Value = types.Enum(L.CheckInt(1))
	L.SetMetatable(ud, L.GetTypeMetatable(enumTypeName))
	L.Push(ud)
	return 1
}
