package component_test

import (
	"testing"

	"github.com/l1jgo/entityforge/internal/builder"
	"github.com/l1jgo/entityforge/internal/component"
	"github.com/l1jgo/entityforge/internal/core/ecs"
	"github.com/l1jgo/entityforge/internal/data"
	"github.com/l1jgo/entityforge/internal/factory"
	"github.com/l1jgo/entityforge/internal/template"
	"github.com/l1jgo/entityforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := types.NewRegistry()
	require.NoError(t, component.Register(reg))
	assert.Equal(t, []string{"Allegiance", "Appearance", "Health", "Loot", "Nameplate", "Position"}, reg.Names())
	assert.ErrorIs(t, component.Register(reg), types.ErrDuplicateType)
}

func TestHealthConstructor(t *testing.T) {
	m := factory.New(template.NewMapStore(), nil)

	v, ok, err := m.TryCreate(&template.Component{Type: component.HealthType, Defaults: template.D("max", 30, "Regen", 1.5)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, &component.Health{Current: 30, Max: 30, Regen: 1.5}, v)

	v, _, _ = m.TryCreate(&template.Component{Type: component.HealthType, Defaults: template.D("Current", 3)})
	assert.Equal(t, &component.Health{Current: 3}, v, "without max the parameterless constructor runs")

	v, _, _ = m.TryCreate(&template.Component{Type: component.HealthType, Defaults: template.D("max", 30.5)})
	assert.Equal(t, &component.Health{}, v, "a fractional max is rejected, not truncated")
}

func TestAppearanceWithoutConstructorArgument(t *testing.T) {
	m := factory.New(template.NewMapStore(), nil)
	v, _, _ := m.TryCreate(&template.Component{Type: component.AppearanceType, Defaults: template.D("Palette", "blue")})
	assert.Equal(t, &component.Appearance{Palette: "blue"}, v)
}

type sampleWorld struct {
	world *ecs.World
	b     *builder.Builder
}

func loadSamples(t *testing.T) sampleWorld {
	t.Helper()
	reg := types.NewRegistry()
	require.NoError(t, component.Register(reg))
	store, err := data.LoadTemplateDir("../../data/templates", reg, data.LoadOptions{})
	require.NoError(t, err)

	w := ecs.NewWorld()
	return sampleWorld{world: w, b: builder.New(store, w, factory.New(store, nil), nil)}
}

func (s sampleWorld) build(t *testing.T, name string) ecs.EntityID {
	t.Helper()
	id, ok, err := s.b.TryCreateByName(name)
	require.NoError(t, err)
	require.True(t, ok)
	return id
}

func TestSampleOrc(t *testing.T) {
	s := loadSamples(t)
	id := s.build(t, "Orc")

	hp, ok := ecs.Get[*component.Health](s.world, id)
	require.True(t, ok)
	assert.Equal(t, &component.Health{Current: 40, Max: 40, Regen: 0.5}, hp)

	plate, ok := ecs.Get[*component.Nameplate](s.world, id)
	require.True(t, ok)
	assert.Equal(t, "Orc", plate.Name())
	assert.Equal(t, "Grunt", plate.Title)
	assert.True(t, plate.Visible)

	al, ok := ecs.Get[component.Allegiance](s.world, id)
	require.True(t, ok)
	assert.Equal(t, component.Allegiance{Faction: component.FactionMonster, Lawful: -500}, al)

	look, ok := ecs.Get[*component.Appearance](s.world, id)
	require.True(t, ok)
	assert.Equal(t, &component.Appearance{GfxID: 1203, Palette: "green", Scale: 1}, look)

	loot, ok := ecs.Get[*component.Loot](s.world, id)
	require.True(t, ok)
	assert.Equal(t, int64(25), loot.Gold)
	assert.Equal(t, map[string]any{"orcish_axe": 0.05, "meat": 0.4}, loot.Table)

	assert.True(t, ecs.Has[component.Position](s.world, id))
	assert.Len(t, s.world.Registry().TypesOf(id), 6)
}

func TestSampleSkeleton(t *testing.T) {
	s := loadSamples(t)
	id := s.build(t, "Skeleton")

	al, _ := ecs.Get[component.Allegiance](s.world, id)
	assert.Equal(t, component.Allegiance{Faction: component.FactionChaotic}, al)

	look, _ := ecs.Get[*component.Appearance](s.world, id)
	assert.Equal(t, &component.Appearance{GfxID: 1104, Palette: "bone", Scale: 1.2}, look)

	hp, _ := ecs.Get[*component.Health](s.world, id)
	assert.Equal(t, int32(10), hp.Max)
}

func TestSampleWarband(t *testing.T) {
	s := loadSamples(t)
	root := s.build(t, "OrcShaman")

	pos, ok := ecs.Get[component.Position](s.world, root)
	require.True(t, ok)
	assert.Equal(t, component.Position{X: 32800, Y: 32750, MapID: 4}, pos)
	assert.Equal(t, 5, s.world.Len())

	members := s.world.Children(root)
	require.Len(t, members, 3)

	chief := members[0]
	hp, _ := ecs.Get[*component.Health](s.world, chief)
	assert.Equal(t, &component.Health{Current: 120, Max: 120}, hp)
	plate, _ := ecs.Get[*component.Nameplate](s.world, chief)
	assert.Equal(t, "Orc Chief", plate.Name())

	shamans := s.world.Children(chief)
	require.Len(t, shamans, 1)
	plate, _ = ecs.Get[*component.Nameplate](s.world, shamans[0])
	assert.Equal(t, "Orc Shaman", plate.Name())
	assert.False(t, plate.Visible)

	chiefSkin, _ := ecs.Get[*component.Appearance](s.world, chief)
	gruntSkin, _ := ecs.Get[*component.Appearance](s.world, members[1])
	assert.Same(t, chiefSkin, gruntSkin, "OrcSkin is shared")
}
